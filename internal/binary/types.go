package binary

import (
	"math"
)

// Grid is a square lattice of Size×Size nodes spanning [-HalfWidth, HalfWidth] on both axes.
type Grid struct {
	HalfWidth float64 `json:"half_width" yaml:"half_width"`
	Size      int     `json:"size" yaml:"size"`
}

func (g Grid) Validate() error {
	if g.Size < 3 {
		return Errorf("grid", ErrDomain, "size %d < 3", g.Size)
	}
	if !(g.HalfWidth > 0) || math.IsInf(g.HalfWidth, 0) {
		return Errorf("grid", ErrDomain, "half width %g must be positive", g.HalfWidth)
	}
	return nil
}

// Spacing returns h = 2L/(N-1).
func (g Grid) Spacing() float64 {
	return 2 * g.HalfWidth / float64(g.Size-1)
}

// Nodes returns N², the length of a flattened grid vector.
func (g Grid) Nodes() int { return g.Size * g.Size }

// Axis returns the node coordinates along either axis. The vector is exactly
// antisymmetric: Axis()[j] == -Axis()[N-1-j], with the ends at ±L.
func (g Grid) Axis() []float64 {
	n := g.Size
	xs := make([]float64, n)
	for j := range xs {
		xs[j] = float64(2*j-(n-1)) * g.HalfWidth / float64(n-1)
	}
	return xs
}

func (g Grid) Index(i, j int) int { return i*g.Size + j }

// Position returns (x, y) of flattened node k.
func (g Grid) Position(k int) (x, y float64) {
	n := g.Size
	i, j := k/n, k%n
	x = float64(2*j-(n-1)) * g.HalfWidth / float64(n-1)
	y = float64(2*i-(n-1)) * g.HalfWidth / float64(n-1)
	return x, y
}

// Body is a uniform disk of Mass and Radius centred at (X, 0).
type Body struct {
	Mass   float64
	Radius float64
	X      float64
}

// IsPoint reports whether the body has no extent.
func (b Body) IsPoint() bool { return b.Radius == 0 }

// Density returns the uniform surface density M/(πR²), or 0 for a point mass.
func (b Body) Density() float64 {
	if b.IsPoint() {
		return 0
	}
	return b.Mass / (math.Pi * b.Radius * b.Radius)
}

// System is a binary placed about its centre of mass at the origin: body 1
// sits at +a1, body 2 at -a2.
type System struct {
	M1         float64 `json:"m1" yaml:"m1"`
	M2         float64 `json:"m2" yaml:"m2"`
	R1         float64 `json:"r1" yaml:"r1"`
	R2         float64 `json:"r2" yaml:"r2"`
	Separation float64 `json:"separation" yaml:"separation"`
	G          float64 `json:"g" yaml:"g"`
}

func (s System) Validate() error {
	for _, v := range []float64{s.M1, s.M2, s.R1, s.R2, s.Separation, s.G} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Errorf("system", ErrDomain, "parameters must be finite (%+v)", s)
		}
	}
	switch {
	case !(s.M1 > 0) || !(s.M2 >= 0):
		return Errorf("system", ErrDomain, "masses must be positive (m1=%g, m2=%g)", s.M1, s.M2)
	case s.R1 < 0 || s.R2 < 0:
		return Errorf("system", ErrDomain, "radii must be non-negative (r1=%g, r2=%g)", s.R1, s.R2)
	case s.Separation < 0:
		return Errorf("system", ErrDomain, "separation %g < 0", s.Separation)
	case !(s.G > 0):
		return Errorf("system", ErrDomain, "gravitational constant %g must be positive", s.G)
	}
	return nil
}

func (s System) TotalMass() float64 { return s.M1 + s.M2 }

// Offsets returns the distances of body 1 and body 2 from the centre of mass.
func (s System) Offsets() (a1, a2 float64) {
	m := s.TotalMass()
	return s.M2 * s.Separation / m, s.M1 * s.Separation / m
}

// Bodies returns both bodies with signed positions.
func (s System) Bodies() [2]Body {
	a1, a2 := s.Offsets()
	return [2]Body{
		{Mass: s.M1, Radius: s.R1, X: a1},
		{Mass: s.M2, Radius: s.R2, X: -a2},
	}
}

// SwitchingRadius returns a + max(R1, R2). Nodes at or beyond it take the
// far-field value.
func (s System) SwitchingRadius() float64 {
	return s.Separation + math.Max(s.R1, s.R2)
}
