// Package multipole evaluates the far-field potential of a binary as a
// truncated Legendre series about the centre of mass.
//
// Body 1 lies on the +x axis at a1 and body 2 on the −x axis at a2, so the
// degree-n coefficient is −G(M1·a1ⁿ + M2·(−a2)ⁿ). The dipole term vanishes
// identically about the centre of mass.
package multipole

import (
	"math"

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/field"
	"gonum.org/v1/gonum/mat"
)

// DefaultBoundaryTerms is the truncation order used when the series supplies
// boundary values to the finite-difference solver.
const DefaultBoundaryTerms = 3

// Model is the series truncated after Terms multipole orders beyond the monopole.
type Model struct {
	System binary.System
	Terms  int

	coeffs []float64
}

// New returns a model with its series coefficients precomputed.
func New(sys binary.System, terms int) (*Model, error) {
	if terms < 0 {
		return nil, binary.Errorf("multipole", binary.ErrDomain, "terms %d < 0", terms)
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}

	a1, a2 := sys.Offsets()
	coeffs := make([]float64, terms+1)
	coeffs[0] = -sys.G * sys.TotalMass()
	for n := 1; n <= terms; n++ {
		fn := float64(n)
		coeffs[n] = -sys.G * (sys.M1*math.Pow(a1, fn) + sys.M2*math.Pow(-a2, fn))
	}
	return &Model{System: sys, Terms: terms, coeffs: coeffs}, nil
}

// Potential returns φ(r, θ). θ is measured from the +x axis, towards body 1.
func (m *Model) Potential(r, theta float64) (float64, error) {
	if r == 0 {
		return 0, binary.Errorf("multipole", binary.ErrDomain, "potential undefined at r = 0")
	}
	if r < 0 || math.IsNaN(r) {
		return 0, binary.Errorf("multipole", binary.ErrDomain, "radius %g is not a distance", r)
	}

	p := make([]float64, len(m.coeffs))
	legendreSeries(p, math.Cos(theta))

	phi, rn := 0.0, r
	for n, c := range m.coeffs {
		phi += c / rn * p[n]
		rn *= r
	}
	return phi, nil
}

// Potential evaluates a series of the given order once, without keeping the model.
func Potential(sys binary.System, terms int, r, theta float64) (float64, error) {
	m, err := New(sys, terms)
	if err != nil {
		return 0, err
	}
	return m.Potential(r, theta)
}

// Field returns the analytic field −∇φ of the truncated series at (x, y).
func (m *Model) Field(x, y float64) (gx, gy float64, err error) {
	r := math.Hypot(x, y)
	if r == 0 {
		return 0, 0, binary.Errorf("multipole", binary.ErrDomain, "field undefined at r = 0")
	}
	cos, sin := x/r, y/r

	p := make([]float64, len(m.coeffs))
	dp := make([]float64, len(m.coeffs))
	legendreSeries(p, cos)
	legendreDerivatives(dp, p)

	dr, dtheta, rn := 0.0, 0.0, r
	for n, c := range m.coeffs {
		dr -= float64(n+1) * c / (rn * r) * p[n]
		dtheta -= c / rn * dp[n] * sin
		rn *= r
	}

	gx = -(dr*cos - dtheta*sin/r)
	gy = -(dr*sin + dtheta*cos/r)
	return gx, gy, nil
}

// At evaluates the series at Cartesian (x, y).
func (m *Model) At(x, y float64) (float64, error) {
	return m.Potential(math.Hypot(x, y), math.Atan2(y, x))
}

// PointMassPotential is the exact potential of the two bodies treated as
// point masses, the limit of the series as Terms grows.
func PointMassPotential(sys binary.System, x, y float64) float64 {
	b := sys.Bodies()
	return -sys.G*b[0].Mass/math.Hypot(x-b[0].X, y) - sys.G*b[1].Mass/math.Hypot(x-b[1].X, y)
}

// SampleGrid evaluates the series on the meshgrid spanned by xs (columns) and
// ys (rows). A node at the origin fails the whole sample.
func (m *Model) SampleGrid(xs, ys []float64) (*mat.Dense, error) {
	phi := mat.NewDense(len(ys), len(xs), nil)
	for i, y := range ys {
		for j, x := range xs {
			v, err := m.At(x, y)
			if err != nil {
				return nil, err
			}
			phi.Set(i, j, v)
		}
	}
	return phi, nil
}

// FieldGrid samples the series and differentiates it numerically.
func (m *Model) FieldGrid(xs, ys []float64) (*mat.Dense, field.Vector, error) {
	phi, err := m.SampleGrid(xs, ys)
	if err != nil {
		return nil, field.Vector{}, err
	}
	g, err := field.Gradient(phi, xs, ys)
	if err != nil {
		return nil, field.Vector{}, err
	}
	return phi, g, nil
}
