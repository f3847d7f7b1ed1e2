package analysis

import (
	"math"

	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/poisson"
)

// Agreement summarizes how far the solved potential departs from the series.
type Agreement struct {
	Nodes       int
	MaxAbsolute float64
	MaxRelative float64
}

// PinnedAgreement compares sol against far on every node at or beyond the
// switching radius.
func PinnedAgreement(sol *poisson.Solution, far *multipole.Model) (Agreement, error) {
	return compare(sol, far, func(r float64) bool { return r >= sol.SwitchingRadius })
}

// InteriorAgreement compares sol against far on solved nodes outside the
// origin, showing how the extended-body interior differs from point masses.
func InteriorAgreement(sol *poisson.Solution, far *multipole.Model) (Agreement, error) {
	return compare(sol, far, func(r float64) bool { return r > 0 && r < sol.SwitchingRadius })
}

func compare(sol *poisson.Solution, far *multipole.Model, keep func(r float64) bool) (Agreement, error) {
	var a Agreement
	axis := sol.Grid.Axis()
	for i, y := range axis {
		for j, x := range axis {
			if !keep(math.Hypot(x, y)) {
				continue
			}
			want, err := far.At(x, y)
			if err != nil {
				return Agreement{}, err
			}
			d := math.Abs(sol.Potential.At(i, j) - want)
			a.Nodes++
			a.MaxAbsolute = math.Max(a.MaxAbsolute, d)
			if want != 0 {
				a.MaxRelative = math.Max(a.MaxRelative, d/math.Abs(want))
			}
		}
	}
	return a, nil
}
