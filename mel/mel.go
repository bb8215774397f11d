// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mel groups a power spectrum into triangular mel-spaced bands.
package mel

import (
	"math"

	"github.com/emer/etable/etensor"
)

// FilterBank contains mel frequency feature bank sampling parameters
type FilterBank struct {
	NFilters int     `def:"32" desc:"number of Mel frequency filters to compute"`
	LoHz     float64 `def:"60" step:"10.0" desc:"low frequency end of mel frequency spectrum"`
	HiHz     float64 `def:"8000" step:"1000.0" desc:"high frequency end of mel frequency spectrum -- must be <= sample_rate / 2 (i.e., less than the Nyquist frequency)"`
	LogOff   float64 `def:"0" desc:"add this amount when taking the log of the Mel filter sums -- e.g., 1.0 makes everything positive"`
	LogMin   float64 `def:"-10" desc:"minimum value a log can produce -- puts a lower limit on log output"`
}

// Defaults initializes FBank values for the range of orchestral pitch
func (mfb *FilterBank) Defaults() {
	mfb.NFilters = 32
	mfb.LoHz = 60
	mfb.HiHz = 8000
	mfb.LogOff = 0
	mfb.LogMin = -10
}

// Params holds a filter bank and the filters computed for one transform size
type Params struct {
	FBank   FilterBank       `view:"inline"`
	BinPts  []int            `view:"-" desc:" mel scale points in fft bins"`
	HzPts   []float64        `view:"-" desc:" mel scale points in hz"`
	Filters *etensor.Float64 `view:"-" desc:" filter weights, NFilters x widest filter"`
}

// Defaults sets the standard filter bank
func (mel *Params) Defaults() {
	mel.FBank.Defaults()
}

// InitFilters computes the filter bin values for a dftSize point transform
func (mel *Params) InitFilters(dftSize int, sampleRate int) {
	nf := mel.FBank.NFilters
	mel.BinPts = make([]int, nf+2) // plus 2 because we need end points to create the right number of bins
	mel.HzPts = make([]float64, nf+2)

	hiMel := FreqToMel(mel.FBank.HiHz)
	loMel := FreqToMel(mel.FBank.LoHz)
	incr := (hiMel - loMel) / float64(nf+1)

	maxBin := dftSize / 2
	for i := range mel.BinPts {
		hz := MelToFreq(loMel + float64(i)*incr)
		mel.HzPts[i] = hz
		mel.BinPts[i] = min(FreqToBin(hz, float64(dftSize), float64(sampleRate)), maxBin)
	}

	width := 0
	for f := 0; f < nf; f++ {
		width = max(width, mel.BinPts[f+2]-mel.BinPts[f]+1)
	}
	mel.Filters = etensor.NewFloat64([]int{nf, width}, nil, nil)

	for f := 0; f < nf; f++ {
		binMin := mel.BinPts[f]
		binCtr := mel.BinPts[f+1]
		binMax := mel.BinPts[f+2]
		pkmin := float64(binCtr - binMin)
		pkmax := float64(binMax - binCtr)

		fi := 0
		bin := binMin
		for ; bin <= binCtr; bin, fi = bin+1, fi+1 {
			fval := 1.0
			if pkmin > 0 {
				fval = float64(bin-binMin) / pkmin
			}
			mel.Filters.SetFloat([]int{f, fi}, fval)
		}
		for ; bin <= binMax; bin, fi = bin+1, fi+1 {
			fval := 0.0
			if pkmax > 0 {
				fval = float64(binMax-bin) / pkmax
			}
			mel.Filters.SetFloat([]int{f, fi}, fval)
		}
	}
}

// Filter applies the mel filters to a power spectrum and returns the log
// energy of each band. InitFilters must have been called for its size.
func (mel *Params) Filter(power []float64) []float64 {
	out := make([]float64, mel.FBank.NFilters)
	for flt := range out {
		minBin := mel.BinPts[flt]
		maxBin := mel.BinPts[flt+2]

		sum := 0.0
		fi := 0
		for bin := minBin; bin <= maxBin && bin < len(power); bin, fi = bin+1, fi+1 {
			sum += mel.Filters.Value([]int{flt, fi}) * power[bin]
		}
		sum += mel.FBank.LogOff
		if sum <= 0 {
			out[flt] = mel.FBank.LogMin
		} else {
			out[flt] = math.Max(math.Log(sum), mel.FBank.LogMin)
		}
	}
	return out
}

// FreqToMel converts frequency to mel scale
func FreqToMel(freq float64) float64 {
	return 1127.0 * math.Log(1.0+freq/700.0) // 1127 because we are using natural log
}

// MelToFreq converts mel scale to frequency
func MelToFreq(mel float64) float64 {
	return 700.0 * (math.Exp(mel/1127.0) - 1.0)
}

// FreqToBin converts frequency into FFT bin number, using parameters of number of FFT bins and sample rate
func FreqToBin(freq, nFft, sampleRate float64) int {
	return int(math.Floor(((nFft + 1) * freq) / sampleRate))
}
