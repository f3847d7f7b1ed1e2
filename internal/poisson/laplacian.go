package poisson

import "github.com/san-kum/gravfield/internal/sparse"

// AssembleLaplacian returns the 5-point Laplacian for an n×n grid, scaled by
// h²: −4 on the diagonal and +1 for each neighbour that exists. Flattened
// indices k±1 at the ends of a row belong to a different grid row, so those
// couplings are suppressed rather than wrapped; k±n past the first or last
// row is clipped.
func AssembleLaplacian(n int) *sparse.Builder {
	op := sparse.NewBuilder(n * n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i*n + j
			op.Add(k, k, -4)
			if j > 0 {
				op.Add(k, k-1, 1)
			}
			if j < n-1 {
				op.Add(k, k+1, 1)
			}
			if i > 0 {
				op.Add(k, k-n, 1)
			}
			if i < n-1 {
				op.Add(k, k+n, 1)
			}
		}
	}
	return op
}
