package analysis

import (
	"math"

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/poisson"
	"gonum.org/v1/gonum/mat"
)

// RowMinima returns the columns of row i that are strictly below both neighbours.
func RowMinima(phi *mat.Dense, i int) []int {
	row := mat.Row(nil, i, phi)
	var idx []int
	for j := 1; j < len(row)-1; j++ {
		if row[j] < row[j-1] && row[j] < row[j+1] {
			idx = append(idx, j)
		}
	}
	return idx
}

// MirrorAsymmetry returns max |φ(x, y) − φ(−x, y)| over the grid.
func MirrorAsymmetry(phi *mat.Dense) float64 {
	rows, cols := phi.Dims()
	worst := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols/2; j++ {
			worst = math.Max(worst, math.Abs(phi.At(i, j)-phi.At(i, cols-1-j)))
		}
	}
	return worst
}

// SeriesConvergence returns |φₙ − φₙ₋₁| for n = 1..maxTerms at (r, θ).
func SeriesConvergence(sys binary.System, r, theta float64, maxTerms int) ([]float64, error) {
	diffs := make([]float64, 0, maxTerms)
	prev, err := multipole.Potential(sys, 0, r, theta)
	if err != nil {
		return nil, err
	}
	for n := 1; n <= maxTerms; n++ {
		phi, err := multipole.Potential(sys, n, r, theta)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, math.Abs(phi-prev))
		prev = phi
	}
	return diffs, nil
}

// BodyMasses integrates the rasterized density over each body's disk.
func BodyMasses(rho poisson.Density, sys binary.System) [2]float64 {
	b := sys.Bodies()
	return [2]float64{rho.Mass(b[0]), rho.Mass(b[1])}
}
