// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dft computes the one-sided power spectrum of a signal window.
package dft

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"
)

// Params holds the settings for a power spectrum
type Params struct {
	Window    bool    `def:"true" desc:"apply a Hann window before the transform -- reduces leakage between bins"`
	LogMin    float64 `def:"-100" desc:"minimum value a log can produce -- puts a lower limit on log output"`
	LogOffSet float64 `def:"0" desc:"add this amount when taking the log of the dft power -- e.g., 1.0 makes everything positive"`
}

// Defaults sets the standard spectrum settings
func (dft *Params) Defaults() {
	dft.Window = true
	dft.LogMin = -100
	dft.LogOffSet = 0
}

// Power returns the power of bins 0 .. len(signal)/2. signal is not modified.
func (dft *Params) Power(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return nil
	}
	in := append([]float64(nil), signal...)
	if dft.Window {
		window.Hann(in)
	}
	fft := fourier.NewFFT(n)
	coefs := fft.Coefficients(nil, in)
	power := make([]float64, len(coefs))
	for k, c := range coefs {
		rl := real(c)
		im := imag(c)
		power[k] = rl*rl + im*im
	}
	return power
}

// LogPower returns the log of each power value, floored at LogMin
func (dft *Params) LogPower(power []float64) []float64 {
	logp := make([]float64, len(power))
	for k, p := range power {
		p += dft.LogOffSet
		if p <= 0 {
			logp[k] = dft.LogMin
			continue
		}
		logp[k] = math.Max(math.Log(p), dft.LogMin)
	}
	return logp
}

// BinFreq returns the center frequency of bin k of an n point transform
func BinFreq(k, n, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(n)
}

// Centroid returns the power weighted mean frequency of a spectrum from an
// n point transform, NaN when there is no power
func Centroid(power []float64, n, sampleRate int) float64 {
	freqs := make([]float64, len(power))
	total := 0.0
	for k, p := range power {
		freqs[k] = BinFreq(k, n, sampleRate)
		total += p
	}
	if total == 0 {
		return math.NaN()
	}
	return stat.Mean(freqs, power)
}
