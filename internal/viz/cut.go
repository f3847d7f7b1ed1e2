package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravfield/internal/binary"
	"gonum.org/v1/gonum/mat"
)

// NearestRow returns the grid row whose y coordinate is closest to y0.
func NearestRow(grid binary.Grid, y0 float64) int {
	best, dist := 0, math.Inf(1)
	for i, y := range grid.Axis() {
		if d := math.Abs(y - y0); d < dist {
			best, dist = i, d
		}
	}
	return best
}

// TransverseCut plots one row of values against x.
func TransverseCut(values *mat.Dense, grid binary.Grid, row, width, height int, label string) string {
	data := mat.Row(nil, row, values)
	y := grid.Axis()[row]
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s along y = %.3g (x from %.3g to %.3g)", label, y, -grid.HalfWidth, grid.HalfWidth)),
	)
}
