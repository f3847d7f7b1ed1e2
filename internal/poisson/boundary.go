package poisson

import (
	"math"

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/sparse"
)

// SourceTerm returns b = 4πG·ρ·h², the right-hand side matching the
// h²-scaled operator.
func SourceTerm(rho Density, g float64) []float64 {
	h := rho.Grid.Spacing()
	scale := 4 * math.Pi * g * h * h
	b := make([]float64, len(rho.Values))
	for k, v := range rho.Values {
		b[k] = scale * v
	}
	return b
}

// InjectBoundary pins every node at distance ≥ rSwitch from the origin to the
// far-field value: its row becomes an identity row and its rhs entry the
// multipole potential there. It returns the number of pinned rows.
func InjectBoundary(op *sparse.Builder, rhs []float64, grid binary.Grid, far *multipole.Model, rSwitch float64) (int, error) {
	pinned := 0
	for k := range rhs {
		x, y := grid.Position(k)
		if math.Hypot(x, y) < rSwitch {
			continue
		}

		phi, err := far.At(x, y)
		if err != nil {
			return 0, err
		}
		op.ClearRow(k)
		op.Set(k, k, 1)
		rhs[k] = phi
		pinned++
	}

	if pinned == 0 {
		return 0, binary.Errorf("boundary", binary.ErrSingularSystem,
			"switching radius %g pins no node of a grid with half width %g", rSwitch, grid.HalfWidth)
	}
	return pinned, nil
}
