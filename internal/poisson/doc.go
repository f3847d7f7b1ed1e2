// Package poisson solves ∇²φ = 4πGρ for a binary on a square grid.
//
// The bodies are rasterized as uniform disks, the Laplacian is discretized
// with the 5-point stencil, and every node at or beyond the switching radius
// a + max(R1, R2) is pinned to the multipole far-field value. The remaining
// disk of nodes is solved exactly:
//
//	sol, err := poisson.PoissonPotential(sys, binary.Grid{HalfWidth: 10, Size: 101})
//	g, err := poisson.FieldFromGrid(sol.Potential, sol.Grid)
//
// The disk rasterization and the point-mass far field describe the bodies
// differently. The resulting mismatch near the switching radius is an
// accepted approximation.
package poisson
