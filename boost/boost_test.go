// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boost

import (
	"math"
	"testing"
)

func defaults() Params {
	var pr Params
	pr.Defaults()
	return pr
}

func TestFlatOutsideTrainingRange(t *testing.T) {
	bt := New(defaults())
	x := []float64{3, 5, 7}
	y := []float64{4.723, 11.721, 18.528}
	if err := bt.Fit(x, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if bt.NTrees() != 100 {
		t.Errorf("NTrees = %d, want 100", bt.NTrees())
	}
	if lo, at := bt.Predict(1), bt.Predict(3); lo != at {
		t.Errorf("Predict(1) = %v, Predict(3) = %v, want equal", lo, at)
	}
	if hi, at := bt.Predict(9), bt.Predict(7); hi != at {
		t.Errorf("Predict(9) = %v, Predict(7) = %v, want equal", hi, at)
	}
	if bt.Predict(1) >= bt.Predict(9) {
		t.Errorf("increasing targets should give Predict(1) < Predict(9)")
	}
}

func TestFitsSeparatedPoints(t *testing.T) {
	bt := New(defaults())
	x := []float64{3, 7}
	y := []float64{0, 10}
	if err := bt.Fit(x, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// each singleton leaf closes 1/20 of its residual per round
	resid := 5 * math.Pow(1-0.05, 100)
	if got := bt.Predict(3); math.Abs(got-resid) > 1e-9 {
		t.Errorf("Predict(3) = %v, want %v", got, resid)
	}
	if got := bt.Predict(7); math.Abs(got-(10-resid)) > 1e-9 {
		t.Errorf("Predict(7) = %v, want %v", got, 10-resid)
	}
}

func TestConstantTargets(t *testing.T) {
	bt := New(defaults())
	if err := bt.Fit([]float64{3, 5, 7}, []float64{2, 2, 2}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for _, x := range []float64{1, 5, 9} {
		if got := bt.Predict(x); got != 2 {
			t.Errorf("Predict(%v) = %v, want 2", x, got)
		}
	}
}

func TestFitErrors(t *testing.T) {
	bt := New(defaults())
	if !math.IsNaN(bt.Predict(1)) {
		t.Errorf("unfitted Predict should be NaN")
	}
	if err := bt.Fit([]float64{1}, nil); err == nil {
		t.Errorf("expected length mismatch error")
	}
	if err := bt.Fit(nil, nil); err == nil {
		t.Errorf("expected empty data error")
	}
}
