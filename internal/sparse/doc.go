// Package sparse provides the two-phase sparse matrix used by the Poisson solver.
//
// Matrices are assembled in an editable [Builder] backed by a
// dictionary-of-keys matrix, frozen into a compressed-row [CSR] from
// github.com/james-bowman/sparse, and factorized by [Factorize]:
//
//	b := sparse.NewBuilder(n)
//	b.Add(0, 0, -4)
//	b.ClearRow(7)
//	b.Set(7, 7, 1)
//	lu, err := sparse.Factorize(b.Freeze())
//	x, err := lu.Solve(rhs)
//
// A frozen CSR is never modified and can be shared for reading.
package sparse
