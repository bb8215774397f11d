// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"errors"
	"math"
	"testing"
)

func newPredictor(clamp bool) *Predictor {
	var pr Params
	pr.Defaults()
	pr.ClampInterior = clamp
	return NewPredictor(pr)
}

// a few rows of measured flute densities, including non-monotonic ones
var samples = []Sample{
	{4.723, 11.721, 18.528},
	{6.193, 9.398, 14.68},
	{2.691, 5.34, 5.047},
	{3.912, 2.957, 3.345},
	{1.079, 0.454, 0.185},
	{2, 4, 6},
	{0.0000004, 0.0000005, 0.0000006},
}

func TestPredictKeepsMeasurements(t *testing.T) {
	for _, clamp := range []bool{true, false} {
		pd := newPredictor(clamp)
		for _, s := range samples {
			c, err := pd.Predict(s)
			if err != nil {
				t.Fatalf("Predict(%+v): %v", s, err)
			}
			if c[2] != s.PP || c[4] != s.MF || c[6] != s.FF {
				t.Errorf("clamp=%v: curve %v does not reproduce %+v", clamp, c, s)
			}
			if c.At(MF) != s.MF {
				t.Errorf("At(MF) = %v, want %v", c.At(MF), s.MF)
			}
		}
	}
}

func TestPredictExtremesStrictlyMonotonic(t *testing.T) {
	for _, clamp := range []bool{true, false} {
		pd := newPredictor(clamp)
		for _, s := range samples {
			c, err := pd.Predict(s)
			if err != nil {
				t.Fatalf("Predict(%+v): %v", s, err)
			}
			if !(c[0] < c[1]) || !(c[7] < c[8]) {
				t.Errorf("clamp=%v: extremes not strictly monotonic in %v", clamp, c)
			}
		}
	}
}

func TestRepairLargeDensities(t *testing.T) {
	s := Sample{1e11, 2e11, 3e11}
	est := Estimate{Interior: [4]float64{1e11, 1.5e11, 2.5e11, 3e11}, Low: 2e11, High: 1e11}
	for _, clamp := range []bool{true, false} {
		pd := newPredictor(clamp)
		for _, c := range []Curve{pd.Repair(s, est), mustPredict(t, pd, s)} {
			if !(c[0] < c[1]) || !(c[7] < c[8]) {
				t.Errorf("clamp=%v: extremes not strictly monotonic in %v", clamp, c)
			}
			if clamp && (!(c[1] < c[2]) || !(c[6] < c[7])) {
				t.Errorf("clamp=%v: ppp or fff not strictly outside the measurements in %v", clamp, c)
			}
		}
	}
}

func mustPredict(t *testing.T, pd *Predictor, s Sample) Curve {
	t.Helper()
	c, err := pd.Predict(s)
	if err != nil {
		t.Fatalf("Predict(%+v): %v", s, err)
	}
	return c
}

func TestPredictClampedCurve(t *testing.T) {
	pd := newPredictor(true)
	for _, s := range samples {
		c, err := pd.Predict(s)
		if err != nil {
			t.Fatalf("Predict(%+v): %v", s, err)
		}
		if !(c[1] < c[2]) || !(c[6] < c[7]) {
			t.Errorf("interior neighbours of the measurements not strict in %v", c)
		}
		for i, v := range c {
			if v < 0 {
				t.Errorf("negative density %v at %v in %v", v, Level(i+1), c)
			}
		}
		if s.PP <= s.MF && s.MF <= s.FF && !c.NonDecreasing() {
			t.Errorf("monotonic sample %+v gave non-monotonic curve %v", s, c)
		}
	}
}

func TestRepair(t *testing.T) {
	pd := newPredictor(false)
	s := Sample{PP: 3, MF: 5, FF: 7}
	est := Estimate{Interior: [4]float64{2, 4, 6, 8}, Low: 3, High: 7}
	c := pd.Repair(s, est)
	want := Curve{2 - 1e-6, 2, 3, 4, 5, 6, 7, 8, 8 + 1e-6}
	if c != want {
		t.Errorf("Repair = %v, want %v", c, want)
	}

	est = Estimate{Interior: [4]float64{2, 4, 6, 8}, Low: 1, High: 9}
	c = pd.Repair(s, est)
	if c[0] != 1 || c[8] != 9 {
		t.Errorf("Repair should keep already ordered extremes, got %v", c)
	}

	clamped := newPredictor(true)
	est = Estimate{Interior: [4]float64{3.5, 5.5, 4, 6.5}, Low: -1, High: 2}
	c = clamped.Repair(s, est)
	want = Curve{(3 - 1e-6) / 2, 3 - 1e-6, 3, 5, 5, 5, 7, 7 + 1e-6, 7 + 2e-6}
	for i := range c {
		if math.Abs(c[i]-want[i]) > 1e-12 {
			t.Errorf("clamped Repair[%d] = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestPredictInvalidSample(t *testing.T) {
	pd := newPredictor(true)
	for _, s := range []Sample{{math.NaN(), 1, 2}, {1, math.Inf(1), 2}, {1, 2, math.Inf(-1)}} {
		_, err := pd.Predict(s)
		var ise *InvalidSampleError
		if !errors.As(err, &ise) {
			t.Errorf("Predict(%+v) err = %v, want InvalidSampleError", s, err)
		}
	}
}

func TestPredictInvalidParams(t *testing.T) {
	breaks := []func(pr *Params){
		func(pr *Params) { pr.Epsilon = 0 },
		func(pr *Params) { pr.Epsilon = math.NaN() },
		func(pr *Params) { pr.Boost.Rounds = 0 },
		func(pr *Params) { pr.Boost.MaxDepth = 0 },
		func(pr *Params) { pr.GP.ConstMin, pr.GP.ConstMax = 1, 0.5 },
		func(pr *Params) { pr.GP.Init.Length = 0 },
	}
	for i, brk := range breaks {
		var pr Params
		pr.Defaults()
		brk(&pr)
		if err := pr.Validate(); err == nil {
			t.Errorf("case %d: Validate accepted %+v", i, pr)
		}
		if _, err := NewPredictor(pr).Predict(samples[0]); err == nil {
			t.Errorf("case %d: Predict accepted %+v", i, pr)
		}
	}
}

func TestPredictDeterministic(t *testing.T) {
	pd := newPredictor(true)
	a, err := pd.Predict(samples[0])
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	b, _ := pd.Predict(samples[0])
	if a != b {
		t.Errorf("repeated Predict differs: %v vs %v", a, b)
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %v, %v", l.String(), got, err)
		}
	}
	if l, err := ParseLevel(" MF "); err != nil || l != MF {
		t.Errorf("ParseLevel(\" MF \") = %v, %v", l, err)
	}
	if _, err := ParseLevel("sfz"); err == nil {
		t.Errorf("expected error for sfz")
	}
	if !MF.IsMeasured() || P.IsMeasured() || Level(10).Valid() {
		t.Errorf("level predicates wrong")
	}
}
