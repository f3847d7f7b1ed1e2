// Package field extracts the gravitational field g = -∇φ from a sampled potential.
package field

import (
	"math"

	"github.com/san-kum/gravfield/internal/binary"
	"gonum.org/v1/gonum/mat"
)

// Vector holds the field components on the same lattice as the potential it
// was derived from. Rows follow y, columns follow x.
type Vector struct {
	Gx, Gy *mat.Dense
}

// Gradient computes gx = -∂φ/∂x and gy = -∂φ/∂y. Interior nodes use central
// differences, edge nodes one-sided differences. The axes need not be uniform.
func Gradient(phi *mat.Dense, xs, ys []float64) (Vector, error) {
	rows, cols := phi.Dims()
	if cols != len(xs) || rows != len(ys) {
		return Vector{}, binary.Errorf("gradient", binary.ErrDomain,
			"potential is %dx%d but axes are %d (x) and %d (y)", rows, cols, len(xs), len(ys))
	}
	if cols < 2 || rows < 2 {
		return Vector{}, binary.Errorf("gradient", binary.ErrDomain, "need at least 2 nodes per axis")
	}

	gx := mat.NewDense(rows, cols, nil)
	gy := mat.NewDense(rows, cols, nil)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			lo, hi := neighbours(j, cols)
			gx.Set(i, j, -(phi.At(i, hi)-phi.At(i, lo))/(xs[hi]-xs[lo]))
		}
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			lo, hi := neighbours(i, rows)
			gy.Set(i, j, -(phi.At(hi, j)-phi.At(lo, j))/(ys[hi]-ys[lo]))
		}
	}

	return Vector{Gx: gx, Gy: gy}, nil
}

func neighbours(k, n int) (lo, hi int) {
	switch k {
	case 0:
		return 0, 1
	case n - 1:
		return n - 2, n - 1
	default:
		return k - 1, k + 1
	}
}

// Magnitude returns |g| per node.
func (v Vector) Magnitude() *mat.Dense {
	rows, cols := v.Gx.Dims()
	m := mat.NewDense(rows, cols, nil)
	m.Apply(func(i, j int, gx float64) float64 {
		return math.Hypot(gx, v.Gy.At(i, j))
	}, v.Gx)
	return m
}

// LogMagnitude returns log10(|g| + floor), keeping zero-field nodes finite.
func (v Vector) LogMagnitude(floor float64) *mat.Dense {
	m := v.Magnitude()
	m.Apply(func(_, _ int, g float64) float64 {
		return math.Log10(g + floor)
	}, m)
	return m
}
