// Package viz provides terminal rendering of potential grids.
//
// Rendering only reads the grids it is handed:
//
//   - [TransverseCut]: asciigraph plot of φ(x, y0) along one grid row
//   - [Viewer]: Bubble Tea program stepping the cut through the grid
//   - [Summary]: lipgloss-styled table of solve metrics
//
// # Key Bindings
//
//	Up/K    - Move the cut towards +y
//	Down/J  - Move the cut towards -y
//	F       - Toggle potential / field magnitude
//	Q       - Quit
package viz
