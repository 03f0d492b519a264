// Package analysis provides spectral tools for run time series.
//
//   - [FFT]: gonum transform after zero-padding to a power of two
//   - [PowerSpectrum]: magnitude of the positive-frequency bins
//   - [DominantPeriod]: strongest periodic component of a series, in frames
//
// # Collision Rhythm
//
// Tops spiralling at similar radii meet at roughly regular intervals. The
// collision column of a run's frame log exposes that rhythm:
//
//	p := analysis.DominantPeriod(result.Series("collisions"))
//	if p.Period > 0 {
//	    // collisions repeat about every p.Period frames
//	}
package analysis
