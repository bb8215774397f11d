// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"math"
	"testing"

	"github.com/emer/density/pitch"
)

func TestDecay(t *testing.T) {
	tests := []struct {
		steps, want, tol float64
	}{
		{0, 1, 0},
		{24, 0.8912, 1e-4},
		{50, 0.6065, 1e-4},
	}
	for _, tt := range tests {
		got := Decay(tt.steps, Sigma)
		if math.Abs(got-tt.want) > tt.tol {
			t.Errorf("Decay(%v) = %v, want %v", tt.steps, got, tt.want)
		}
	}
}

func TestDensityDegenerate(t *testing.T) {
	if d := Density(nil, Sigma); d != 0 {
		t.Errorf("Density(nil) = %v, want 0", d)
	}
	if d := Density([]int{97}, Sigma); d != 0 {
		t.Errorf("Density(single) = %v, want 0", d)
	}
}

func TestDensityUnison(t *testing.T) {
	if d := Density([]int{97, 97}, Sigma); d != 1 {
		t.Errorf("two unisons = %v, want 1", d)
	}
	if d := Density([]int{97, 97, 97}, Sigma); d != 3 {
		t.Errorf("three unisons = %v, want 3", d)
	}
}

func TestDensityTriad(t *testing.T) {
	pos, err := pitch.Positions([]string{"C4", "E4", "G4"})
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	want := Decay(8, Sigma) + Decay(14, Sigma) + Decay(6, Sigma)
	if got := Density(pos, Sigma); math.Abs(got-want) > 1e-12 {
		t.Errorf("C major triad density = %v, want %v", got, want)
	}
	ivs := All(pos)
	if len(ivs) != 3 {
		t.Fatalf("got %d intervals, want 3", len(ivs))
	}
	got := []string{ivs[0].Name(), ivs[1].Name(), ivs[2].Name()}
	want3 := []string{"M3", "P5", "m3"}
	for i := range got {
		if got[i] != want3[i] {
			t.Errorf("interval %d = %s, want %s", i, got[i], want3[i])
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		steps int
		name  string
	}{
		{0, "unison"},
		{1, "unison+"},
		{8, "M3"},
		{23, "M7+"},
		{24, "unison + 1 octave(s)"},
		{38, "P5 + 1 octave(s)"},
		{-8, "M3"},
	}
	for _, tt := range tests {
		if got := Name(tt.steps); got != tt.name {
			t.Errorf("Name(%d) = %q, want %q", tt.steps, got, tt.name)
		}
	}
}

func TestSpacing(t *testing.T) {
	pos := []int{97, 105, 111}
	if got := MeanSpacing(pos); math.Abs(got-28.0/3) > 1e-12 {
		t.Errorf("MeanSpacing = %v, want %v", got, 28.0/3)
	}
	if got := Amplitude(pos); got != 14 {
		t.Errorf("Amplitude = %d, want 14", got)
	}
	for _, tt := range []struct {
		pos []int
		amp int
	}{
		{nil, 0},
		{[]int{111}, 0},
		{[]int{120, 121}, 1},
		{[]int{200, 150, 175}, 50},
	} {
		if got := Amplitude(tt.pos); got != tt.amp {
			t.Errorf("Amplitude(%v) = %d, want %d", tt.pos, got, tt.amp)
		}
	}
	if got := MassDensity(pos); math.Abs(got-3.0/14) > 1e-12 {
		t.Errorf("MassDensity = %v, want %v", got, 3.0/14)
	}
	if got := MassDensity([]int{97, 97}); got != 0 {
		t.Errorf("MassDensity of unison = %v, want 0", got)
	}
}

func ExampleDensity() {
	pos, _ := pitch.Positions([]string{"C4", "C5"})
	fmt.Printf("%s %.4f\n", All(pos)[0].Name(), Density(pos, Sigma))
	// Output: unison + 1 octave(s) 0.8912
}
