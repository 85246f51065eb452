// Package analysis inspects simulated serum curves.
//
//   - [PowerSpectrum]: magnitude spectrum of a zero-padded series
//   - [DominantPeriod]: the strongest oscillation period in a steady window
//   - [DoseSweep]: steady-state peak and trough across a dose range
//
// # Dosing rhythm
//
// A regimen pinned twice a week shows a spectral peak near 84 hours:
//
//	p := analysis.DominantPeriod(res.Total, res.Hours, analysis.SteadyStart(res))
package analysis
