// Package analysis inspects recorded runs.
//
//   - [EnergySpectrum] and [DominantPeriod]: frequency content of the
//     per-frame kinetic energy series
//   - [RadialPortrait]: distance to the attractor against radial velocity
//     for every particle of one frame
//   - [PhasePortraitToASCII]: terminal rendering of a portrait
package analysis
