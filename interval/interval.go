// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interval scores how tightly a set of pitch positions is voiced,
// as a gaussian-decay weighted sum over all pairwise intervals.
package interval

import (
	"fmt"
	"math"

	"github.com/emer/density/pitch"
	"github.com/emer/etable/minmax"
)

// Sigma is the default decay width in microtonal steps
const Sigma = 50.0

// names indexed by steps mod 24
var names = [pitch.StepsPerOctave]string{
	"unison", "unison+", "m2", "m2+", "M2", "M2+",
	"m3", "m3+", "M3", "M3+", "P4", "P4+", "aug4",
	"aug4+", "P5", "P5+", "m6", "m6+", "M6",
	"M6+", "m7", "m7+", "M7", "M7+",
}

// Interval is an unordered pair of positions
type Interval struct {
	A, B  int
	Steps int `desc:"absolute distance in microtonal steps"`
}

// Name returns the traditional name of the interval
func (iv Interval) Name() string {
	return Name(iv.Steps)
}

// Decay returns the gaussian weight of an interval of the given size
func Decay(steps, sigma float64) float64 {
	return math.Exp(-(steps * steps) / (2 * sigma * sigma))
}

// Name maps a step count to a traditional name, e.g. "M3 + 1 octave(s)".
// It is descriptive only and never feeds back into a density.
func Name(steps int) string {
	if steps < 0 {
		steps = -steps
	}
	nm := names[steps%pitch.StepsPerOctave]
	if oct := steps / pitch.StepsPerOctave; oct > 0 {
		nm += fmt.Sprintf(" + %d octave(s)", oct)
	}
	return nm
}

// All returns every pairwise interval, i < j, in input order
func All(positions []int) []Interval {
	n := len(positions)
	if n < 2 {
		return nil
	}
	ivs := make([]Interval, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			st := positions[i] - positions[j]
			if st < 0 {
				st = -st
			}
			ivs = append(ivs, Interval{A: positions[i], B: positions[j], Steps: st})
		}
	}
	return ivs
}

// Density sums Decay over all N(N-1)/2 pairwise intervals -- 0 for fewer than 2 positions
func Density(positions []int, sigma float64) float64 {
	sum := 0.0
	for _, iv := range All(positions) {
		sum += Decay(float64(iv.Steps), sigma)
	}
	return sum
}

// MeanSpacing is the mean absolute pairwise interval in steps, 0 for fewer than 2 positions.
// It is an alternative, unweighted notion of interval density reported alongside Density.
func MeanSpacing(positions []int) float64 {
	ivs := All(positions)
	if len(ivs) == 0 {
		return 0
	}
	sum := 0
	for _, iv := range ivs {
		sum += iv.Steps
	}
	return float64(sum) / float64(len(ivs))
}

// Amplitude returns max - min of the positions, 0 when empty
func Amplitude(positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	var mm minmax.F64
	mm.SetInfinity()
	for _, p := range positions {
		mm.FitValInRange(float64(p))
	}
	return int(mm.Range())
}

// MassDensity is the number of notes per step of amplitude, 0 when the amplitude is 0
func MassDensity(positions []int) float64 {
	amp := Amplitude(positions)
	if amp == 0 {
		return 0
	}
	return float64(len(positions)) / float64(amp)
}
