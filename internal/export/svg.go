package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/poisson"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// HeatmapSVG renders a grid as one rect per node, coloured from low (light)
// to high (dark), with the bodies drawn as outlined circles. Row 0 is the
// bottom of the image.
func HeatmapSVG(values *mat.Dense, grid binary.Grid, sys binary.System, pixel int) string {
	if values == nil {
		return ""
	}
	rows, cols := values.Dims()
	if pixel < 1 {
		pixel = 1
	}
	width, height := cols*pixel, rows*pixel

	data := mat.DenseCopyOf(values).RawMatrix().Data
	lo, hi := floats.Min(data), floats.Max(data)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g shape-rendering="crispEdges">
`, width, height, width, height))

	for i := 0; i < rows; i++ {
		y := (rows - 1 - i) * pixel
		for j := 0; j < cols; j++ {
			t := (values.At(i, j) - lo) / span
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, j*pixel, y, pixel, pixel, inferno(t)))
		}
	}
	sb.WriteString("</g>\n")

	// node j is centred at (j+0.5)·pixel and sits at x = −L + j·h
	scale := float64(pixel) / grid.Spacing()
	colors := [2]string{"#ff4444", "#4488ff"}
	for k, b := range sys.Bodies() {
		cx := (b.X+grid.HalfWidth)*scale + float64(pixel)/2
		cy := float64(height) / 2
		r := math.Max(b.Radius*scale, 3)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="1.5"/>
`, cx, cy, r, colors[k]))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FieldSVG differentiates phi on grid and renders log10(|g| + floor) as a
// heatmap. It works for potentials from either solve path.
func FieldSVG(phi *mat.Dense, grid binary.Grid, sys binary.System, pixel int, floor float64) (string, error) {
	g, err := poisson.FieldFromGrid(phi, grid)
	if err != nil {
		return "", err
	}
	return HeatmapSVG(g.LogMagnitude(floor), grid, sys, pixel), nil
}

// inferno approximates the reversed inferno colormap: t = 0 is near white,
// t = 1 near black, so deep potential wells read bright.
func inferno(t float64) string {
	t = math.Max(0, math.Min(1, t))
	stops := [][3]float64{
		{252, 255, 164},
		{249, 142, 9},
		{188, 55, 84},
		{87, 16, 110},
		{0, 0, 4},
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		i = len(stops) - 2
	}
	f := pos - float64(i)
	var c [3]int
	for k := range c {
		c[k] = int(math.Round(stops[i][k]*(1-f) + stops[i+1][k]*f))
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
