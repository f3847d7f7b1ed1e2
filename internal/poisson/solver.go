package poisson

import (
	"time"

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/sparse"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Solver configures a finite-difference solve.
type Solver struct {
	// BoundaryTerms is the multipole order used for pinned nodes. Zero pins
	// them to the monopole alone.
	BoundaryTerms int
}

// Solution is the potential on the grid together with what produced it.
type Solution struct {
	Grid            binary.Grid
	System          binary.System
	Potential       *mat.Dense
	Density         Density
	SwitchingRadius float64
	Pinned          int
	Residual        float64
	Diagnostics     []binary.Diagnostic
}

// PoissonPotential solves with the default boundary order.
func PoissonPotential(sys binary.System, grid binary.Grid) (*Solution, error) {
	return Solver{BoundaryTerms: multipole.DefaultBoundaryTerms}.Solve(sys, grid)
}

// Solve assembles and solves the system for one binary. Every call builds its
// own density, operator and factorization; nothing is shared between calls.
func (s Solver) Solve(sys binary.System, grid binary.Grid) (*Solution, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	rSwitch := sys.SwitchingRadius()
	if grid.HalfWidth <= rSwitch {
		return nil, binary.Errorf("poisson", binary.ErrDomain,
			"half width %g must exceed switching radius %g", grid.HalfWidth, rSwitch)
	}

	far, err := multipole.New(sys, s.BoundaryTerms)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"size": grid.Size, "half_width": grid.HalfWidth, "r_switch": rSwitch})
	start := time.Now()

	bodies := sys.Bodies()
	rho, diags := Rasterize(grid, bodies[:])
	for _, d := range diags {
		logger.WithField("body", d.Body).Warn(d.Message)
	}

	op := AssembleLaplacian(grid.Size)
	rhs := SourceTerm(rho, sys.G)
	pinned, err := InjectBoundary(op, rhs, grid, far, rSwitch)
	if err != nil {
		return nil, err
	}

	csr := op.Freeze()
	logger.WithFields(log.Fields{"pinned": pinned, "nnz": csr.NNZ()}).Debug("operator assembled")

	lu, err := sparse.Factorize(csr)
	if err != nil {
		return nil, err
	}
	b := mat.NewVecDense(len(rhs), rhs)
	x, err := lu.Solve(b)
	if err != nil {
		return nil, err
	}
	residual := sparse.Residual(csr, x, b)
	logger.WithFields(log.Fields{"residual": residual, "elapsed": time.Since(start)}).Debug("potential solved")

	return &Solution{
		Grid:            grid,
		System:          sys,
		Potential:       mat.NewDense(grid.Size, grid.Size, x.RawVector().Data),
		Density:         rho,
		SwitchingRadius: rSwitch,
		Pinned:          pinned,
		Residual:        residual,
		Diagnostics:     diags,
	}, nil
}

// FieldFromGrid regenerates the axes of grid and differentiates phi on them.
func FieldFromGrid(phi *mat.Dense, grid binary.Grid) (field.Vector, error) {
	if err := grid.Validate(); err != nil {
		return field.Vector{}, err
	}
	xs := grid.Axis()
	return field.Gradient(phi, xs, xs)
}

// Field differentiates the solved potential.
func (s *Solution) Field() (field.Vector, error) {
	return FieldFromGrid(s.Potential, s.Grid)
}
