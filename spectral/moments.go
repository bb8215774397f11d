// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spectral treats densities placed at MIDI pitches as a mass
// distribution and describes it by its weighted centroid, spread and
// skewness, expressed in frequency where that makes sense.
package spectral

import (
	"errors"
	"fmt"
	"math"

	"github.com/emer/density/pitch"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result holds the moments of a density distribution.
// Undefined fields are NaN, and CentroidNote is pitch.InvalidName.
type Result struct {
	CentroidPitch float64 `desc:"weighted mean MIDI pitch"`
	SpreadPitch   float64 `desc:"weighted standard deviation in MIDI pitch units"`
	CentroidHz    float64 `desc:"frequency of the centroid pitch"`
	CentroidNote  string  `desc:"nearest chromatic note to the centroid"`
	SpreadHz      float64 `desc:"freq(centroid + spread) - freq(centroid) -- asymmetric, not a Hz standard deviation"`
	Skewness      float64 `desc:"third standardized moment -- undefined when spread is 0"`
}

// Undefined returns the result of a distribution with no mass
func Undefined() Result {
	nan := math.NaN()
	return Result{CentroidPitch: nan, SpreadPitch: nan, CentroidHz: nan, CentroidNote: pitch.InvalidName, SpreadHz: nan, Skewness: nan}
}

// Defined reports whether the distribution had any mass
func (r Result) Defined() bool {
	return !math.IsNaN(r.CentroidPitch)
}

// SpreadSemitones converts SpreadHz back to semitones above the centroid
func (r Result) SpreadSemitones() float64 {
	if !(r.CentroidHz > 0) || !(r.CentroidHz+r.SpreadHz > 0) {
		return math.NaN()
	}
	return 12 * math.Log2((r.CentroidHz+r.SpreadHz)/r.CentroidHz)
}

// weights copies densities, replacing non-finite values with 0
func weights(densities []float64) []float64 {
	w := make([]float64, len(densities))
	for i, d := range densities {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		w[i] = d
	}
	return w
}

// Moments computes the spectral moments of densities placed at MIDI pitches
func Moments(pitches, densities []float64) (Result, error) {
	if len(pitches) != len(densities) {
		return Undefined(), fmt.Errorf("spectral.Moments: %d pitches but %d densities", len(pitches), len(densities))
	}
	w := weights(densities)
	if len(w) == 0 || floats.Sum(w) == 0 {
		return Undefined(), nil
	}
	// moments are taken about the first weighted pitch so a unison has exactly zero spread
	ref := 0.0
	for i, wi := range w {
		if wi != 0 {
			ref = pitches[i]
			break
		}
	}
	dev := make([]float64, len(pitches))
	for i, p := range pitches {
		dev[i] = p - ref
	}
	var r Result
	r.CentroidPitch = ref + stat.Mean(dev, w)
	r.SpreadPitch = math.Sqrt(stat.Moment(2, dev, w))
	if r.SpreadPitch == 0 {
		r.Skewness = math.NaN()
	} else {
		r.Skewness = stat.Moment(3, dev, w) / math.Pow(r.SpreadPitch, 3)
	}
	r.CentroidHz = pitch.MIDIToFreq(r.CentroidPitch)
	r.SpreadHz = pitch.MIDIToFreq(r.CentroidPitch+r.SpreadPitch) - r.CentroidHz
	r.CentroidNote = pitch.FreqToNoteName(r.CentroidHz)
	return r, nil
}

// KDE evaluates a density-weighted gaussian kernel density estimate of the
// pitches at n evenly spaced points from the lowest to the highest pitch.
// The kernel variance is the weighted variance of the pitches, corrected
// for the effective sample size, times bandwidth squared.
func KDE(pitches, densities []float64, bandwidth float64, n int) (grid, values []float64, err error) {
	if len(pitches) != len(densities) {
		return nil, nil, fmt.Errorf("spectral.KDE: %d pitches but %d densities", len(pitches), len(densities))
	}
	if n < 2 || !(bandwidth > 0) {
		return nil, nil, fmt.Errorf("spectral.KDE: need n >= 2 and bandwidth > 0, got %d, %v", n, bandwidth)
	}
	w := weights(densities)
	total := floats.Sum(w)
	if len(w) == 0 || total == 0 {
		return nil, nil, errors.New("spectral.KDE: no mass")
	}
	floats.Scale(1/total, w)
	neff := 1 - floats.Dot(w, w)
	vr := stat.Moment(2, pitches, w)
	if neff <= 0 || vr == 0 {
		return nil, nil, errors.New("spectral.KDE: all mass at one pitch")
	}
	sigma := math.Sqrt(vr/neff) * bandwidth

	grid = floats.Span(make([]float64, n), floats.Min(pitches), floats.Max(pitches))
	values = make([]float64, n)
	for i, p := range pitches {
		if w[i] == 0 {
			continue
		}
		nd := distuv.Normal{Mu: p, Sigma: sigma}
		for k, x := range grid {
			values[k] += w[i] * nd.Prob(x)
		}
	}
	return grid, values, nil
}
