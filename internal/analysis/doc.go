// Package analysis provides checks that characterize a computed potential.
//
// The package compares the two solve paths and inspects the shape of a
// potential grid:
//
//   - [PinnedAgreement]: deviation from the far-field series on pinned nodes
//   - [RowMinima]: local minima along a grid row (the body wells)
//   - [MirrorAsymmetry]: deviation from reflection symmetry about x = 0
//   - [SeriesConvergence]: successive differences as the series order grows
//   - [BodyMasses]: rasterized mass of each body
//
// # Agreement
//
// Pinned nodes take the series value exactly, so any deviation there points
// at a broken boundary injection:
//
//	rep, _ := analysis.PinnedAgreement(sol, far)
//	if rep.MaxRelative > 1e-3 {
//	    // boundary not honoured
//	}
package analysis
