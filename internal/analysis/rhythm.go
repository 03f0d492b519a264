package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Peak describes the strongest non-DC bin of a power spectrum.
type Peak struct {
	Bin    int
	Period float64 // frames per cycle; 0 when the series has no variation
	Power  float64
	N      int // padded transform length
}

// PadPow2 subtracts the mean and zero-pads to the next power of two.
func PadPow2(data []float64) []float64 {
	out := make([]float64, pow2(len(data)))
	if len(data) == 0 {
		return out
	}
	mean := stat.Mean(data, nil)
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// DominantPeriod finds the strongest periodic component of a series.
func DominantPeriod(series []float64) Peak {
	if len(series) < 4 {
		return Peak{}
	}
	padded := PadPow2(series)
	ps := PowerSpectrum(padded)
	if len(ps) < 2 {
		return Peak{N: len(padded)}
	}
	bin := floats.MaxIdx(ps[1:]) + 1
	if ps[bin] <= 1e-12 {
		return Peak{N: len(padded)}
	}
	return Peak{
		Bin:    bin,
		Period: float64(len(padded)) / float64(bin),
		Power:  ps[bin],
		N:      len(padded),
	}
}
