package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

func pow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FFT transforms a frame series. Input whose length is not a power of two is
// zero-padded first, so the result may be longer than data.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	seq := make([]complex128, pow2(len(data)))
	for i, v := range data {
		seq[i] = complex(v, 0)
	}
	return fourier.NewCmplxFFT(len(seq)).Coefficients(nil, seq)
}

// PowerSpectrum returns the magnitudes of the positive-frequency bins.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	seq := make([]float64, pow2(len(data)))
	copy(seq, data)
	coeff := fourier.NewFFT(len(seq)).Coefficients(nil, seq)

	ps := make([]float64, len(seq)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeff[i])
	}
	return ps
}
