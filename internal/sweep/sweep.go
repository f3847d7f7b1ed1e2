// Package sweep runs independent Poisson solves over a family of grids, the
// way a convergence study refines the spacing while the binary stays fixed.
package sweep

import (
	"context"
	"sync"

	"github.com/san-kum/gravfield/internal/analysis"
	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/poisson"
	log "github.com/sirupsen/logrus"
)

// Result is one grid of a refinement.
type Result struct {
	Grid      binary.Grid
	Spacing   float64
	Residual  float64
	Pinned    analysis.Agreement
	Asymmetry float64
	Err       error
}

// Refinement solves the same system on grids of every size in Sizes.
type Refinement struct {
	System        binary.System
	HalfWidth     float64
	Sizes         []int
	BoundaryTerms int
	// Terms is the series order the pinned nodes are compared against.
	Terms int
	// Workers caps concurrent solves. Zero runs one goroutine per size.
	Workers int
}

// Run returns results in the order of Sizes. A failed size records its error
// in the result and does not stop the others; only cancellation of ctx
// aborts the sweep.
func (r Refinement) Run(ctx context.Context) ([]Result, error) {
	far, err := multipole.New(r.System, r.Terms)
	if err != nil {
		return nil, err
	}

	workers := r.Workers
	if workers <= 0 || workers > len(r.Sizes) {
		workers = len(r.Sizes)
	}
	sem := make(chan struct{}, max(workers, 1))

	results := make([]Result, len(r.Sizes))
	var wg sync.WaitGroup
	for i, n := range r.Sizes {
		wg.Add(1)
		go func(idx, size int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = Result{Grid: binary.Grid{HalfWidth: r.HalfWidth, Size: size}, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			results[idx] = r.solveOne(far, size)
		}(i, n)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r Refinement) solveOne(far *multipole.Model, size int) Result {
	grid := binary.Grid{HalfWidth: r.HalfWidth, Size: size}
	res := Result{Grid: grid}

	sol, err := poisson.Solver{BoundaryTerms: r.BoundaryTerms}.Solve(r.System, grid)
	if err != nil {
		log.WithField("size", size).WithError(err).Warn("refinement solve failed")
		res.Err = err
		return res
	}
	res.Spacing = grid.Spacing()
	res.Residual = sol.Residual
	res.Asymmetry = analysis.MirrorAsymmetry(sol.Potential)
	res.Pinned, res.Err = analysis.PinnedAgreement(sol, far)
	return res
}
