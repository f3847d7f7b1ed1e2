package poisson

import (
	"fmt"

	"github.com/san-kum/gravfield/internal/binary"
	"gonum.org/v1/gonum/floats"
)

// Density is the surface mass density on a grid, flattened row-major.
type Density struct {
	Grid   binary.Grid
	Values []float64
}

// Rasterize paints each body as a disk of density M/(πR²) over every node
// within R of its centre. Overlapping disks add. A body narrower than the
// grid spacing may cover no node at all; that is reported, not rejected.
func Rasterize(grid binary.Grid, bodies []binary.Body) (Density, []binary.Diagnostic) {
	rho := Density{Grid: grid, Values: make([]float64, grid.Nodes())}
	h := grid.Spacing()
	xs := grid.Axis()

	var diags []binary.Diagnostic
	for idx, b := range bodies {
		if b.Radius < h {
			diags = append(diags, binary.Diagnostic{
				Kind: binary.PhysicalInconsistency,
				Body: idx + 1,
				Message: fmt.Sprintf("radius %g below grid spacing %g, rasterized mass %g of %g",
					b.Radius, h, rasterizedMass(grid, b), b.Mass),
			})
		}
		if b.IsPoint() {
			continue
		}

		d := b.Density()
		for i, y := range xs {
			for j, x := range xs {
				if inside(x, y, b) {
					rho.Values[grid.Index(i, j)] += d
				}
			}
		}
	}
	return rho, diags
}

func inside(x, y float64, b binary.Body) bool {
	dx := x - b.X
	return dx*dx+y*y <= b.Radius*b.Radius
}

func rasterizedMass(grid binary.Grid, b binary.Body) float64 {
	if b.IsPoint() {
		return 0
	}
	xs := grid.Axis()
	count := 0
	for _, y := range xs {
		for _, x := range xs {
			if inside(x, y, b) {
				count++
			}
		}
	}
	h := grid.Spacing()
	return float64(count) * b.Density() * h * h
}

// Mass integrates ρ·h² over the nodes inside body b's disk.
func (d Density) Mass(b binary.Body) float64 {
	h := d.Grid.Spacing()
	xs := d.Grid.Axis()
	inDisk := make([]float64, 0, 64)
	for i, y := range xs {
		for j, x := range xs {
			if inside(x, y, b) {
				inDisk = append(inDisk, d.Values[d.Grid.Index(i, j)])
			}
		}
	}
	return floats.Sum(inDisk) * h * h
}

// Total returns Σρ·h² over the whole grid.
func (d Density) Total() float64 {
	h := d.Grid.Spacing()
	return floats.Sum(d.Values) * h * h
}
