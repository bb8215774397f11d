// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynamics expands three measured densities (pp, mf, ff) of a note
// into a density for each of the 9 loudness levels pppp .. ffff.
//
// Interior levels come from a gaussian process fit to the measurements.
// The two extreme levels come from a boosted tree ensemble, which can not
// extrapolate a trend, so they are passed through Repair, which forces
// pppp below ppp and ffff above fff.
package dynamics

import (
	"fmt"
	"math"

	"github.com/emer/density/boost"
	"github.com/emer/density/gp"
)

// Params are the predictor settings
type Params struct {
	GP            gp.Params    `view:"inline" desc:"gaussian process for the interior levels"`
	Boost         boost.Params `view:"inline" desc:"tree ensemble for the extreme levels"`
	Epsilon       float64      `def:"1e-6" desc:"minimum gap Repair keeps between an extreme level and its inner neighbour"`
	ClampInterior bool         `def:"true" desc:"also clamp interior predictions into the non-decreasing envelope of the measurements and keep densities non-negative -- false reproduces repair of the extremes only"`
}

// Defaults sets the standard predictor settings
func (pr *Params) Defaults() {
	pr.GP.Defaults()
	pr.Boost.Defaults()
	pr.Epsilon = 1e-6
	pr.ClampInterior = true
}

// Validate checks Epsilon and both model settings
func (pr *Params) Validate() error {
	if !(pr.Epsilon > 0) || math.IsInf(pr.Epsilon, 1) {
		return fmt.Errorf("dynamics.Params: epsilon %v must be positive and finite", pr.Epsilon)
	}
	if err := pr.GP.Validate(); err != nil {
		return err
	}
	return pr.Boost.Validate()
}

// Estimate holds the raw model outputs for one note, before Repair
type Estimate struct {
	Interior [4]float64 `desc:"gaussian process means at ppp, p, f, fff"`
	Low      float64    `desc:"tree ensemble prediction at pppp"`
	High     float64    `desc:"tree ensemble prediction at ffff"`
}

// Predictor turns Samples into Curves. It holds no state between calls.
type Predictor struct {
	Params Params
}

// NewPredictor returns a predictor with the given settings
func NewPredictor(pr Params) *Predictor {
	return &Predictor{Params: pr}
}

// Predict returns the full 9-level curve for s
func (pd *Predictor) Predict(s Sample) (Curve, error) {
	est, err := pd.Estimate(s)
	if err != nil {
		return Curve{}, err
	}
	return pd.Repair(s, est), nil
}

// Estimate fits both models on s and returns their raw predictions
func (pd *Predictor) Estimate(s Sample) (Estimate, error) {
	var est Estimate
	if err := pd.Params.Validate(); err != nil {
		return est, err
	}
	if err := s.Validate(); err != nil {
		return est, err
	}
	x := make([]float64, len(Measured))
	for i, l := range Measured {
		x[i] = float64(l)
	}
	y := s.Values()

	g := gp.New(pd.Params.GP)
	if err := g.Fit(x, y); err != nil {
		return est, err
	}
	for i, l := range Interior {
		est.Interior[i] = g.Predict(float64(l))
	}

	bt := boost.New(pd.Params.Boost)
	if err := bt.Fit(x, y); err != nil {
		return est, err
	}
	est.Low = bt.Predict(float64(PPPP))
	est.High = bt.Predict(float64(FFFF))
	return est, nil
}

// Repair assembles the curve from measurements and raw estimates, enforcing
//
//	pppp = min(low, ppp - Epsilon)
//	ffff = max(high, fff + Epsilon)
//
// so density strictly rises into both extremes. With ClampInterior the
// interior values are first clamped against the measured neighbours and
// negative values are pulled toward zero from above, keeping both inequalities.
func (pd *Predictor) Repair(s Sample, est Estimate) Curve {
	eps := pd.Params.Epsilon
	in := est.Interior
	if pd.Params.ClampInterior {
		in = clampInterior(s, in, eps)
	}
	low := math.Min(est.Low, below(in[0], eps))
	if pd.Params.ClampInterior && low < 0 {
		low = in[0] / 2
	}
	high := math.Max(est.High, above(in[3], eps))
	return Curve{low, in[0], s.PP, in[1], s.MF, in[2], s.FF, in[3], high}
}

// clampInterior keeps ppp < pp, p within [pp, mf] and f within [mf, ff] when
// those measurements are ordered, and fff > ff. Nothing is left negative.
func clampInterior(s Sample, in [4]float64, eps float64) [4]float64 {
	in[0] = math.Min(in[0], below(s.PP, eps))
	if in[0] < 0 {
		in[0] = math.Max(s.PP, 0) / 2
	}
	in[1] = math.Max(between(in[1], s.PP, s.MF), 0)
	in[2] = math.Max(between(in[2], s.MF, s.FF), 0)
	in[3] = math.Max(in[3], above(s.FF, eps))
	return in
}

// between clamps v into [lo, hi], leaving it alone when lo > hi
func between(v, lo, hi float64) float64 {
	if lo > hi {
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}

// below returns v - eps, or the next float down when eps is lost to rounding at v
func below(v, eps float64) float64 {
	if b := v - eps; b < v {
		return b
	}
	return math.Nextafter(v, math.Inf(-1))
}

// above returns v + eps, or the next float up when eps is lost to rounding at v
func above(v, eps float64) float64 {
	if a := v + eps; a > v {
		return a
	}
	return math.Nextafter(v, math.Inf(1))
}
