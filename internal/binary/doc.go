// Package binary provides the core primitives shared by the potential solvers.
//
// The package defines the inputs of every solve and the error kinds a solve
// can fail with:
//
//   - [Grid]: square N×N node lattice of half-width L centred on the origin
//   - [System]: two bodies on the x-axis, placed about their centre of mass
//   - [Body]: a single mass with radius and signed x position
//   - [ErrDomain], [ErrSingularSystem]: fatal error kinds
//   - [Diagnostic]: non-fatal findings returned alongside a result
//
// # Layout
//
// Grid nodes are addressed as (i, j) where i is the row (y) and j the column
// (x). Flattened vectors use k = i*N + j, so each grid row is a contiguous
// run of N entries:
//
//	g := binary.Grid{HalfWidth: 10, Size: 101}
//	xs := g.Axis()
//	x, y := g.Position(g.Index(50, 55))
//
// Grid and System are plain values and are never mutated by a solve.
package binary
