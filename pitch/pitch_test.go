// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pitch

import (
	"errors"
	"math"
	"testing"
)

func TestParsePositions(t *testing.T) {
	tests := []struct {
		note string
		pos  int
	}{
		{"C0", 1},
		{"C4", 97},
		{"C#4", 99},
		{"C#+4", 100},
		{"E4", 105},
		{"G4", 111},
		{"B#-4", 120},
		{"C5", 121},
		{"c4", 97},
	}
	for _, tt := range tests {
		p, err := Parse(tt.note)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.note, err)
		}
		if got := p.Position(); got != tt.pos {
			t.Errorf("Parse(%q).Position() = %d, want %d", tt.note, got, tt.pos)
		}
	}
}

func TestParseEnharmonic(t *testing.T) {
	pairs := [][2]string{
		{"Db4", "C#4"}, {"Eb4", "D#4"}, {"Gb4", "F#4"}, {"Ab4", "G#4"}, {"Bb4", "A#4"},
		{"Db+4", "C#+4"}, {"Db-4", "C#-4"}, {"Eb+4", "D#+4"}, {"Eb-4", "D#-4"},
		{"Gb+4", "F#+4"}, {"Gb-4", "F#-4"}, {"Ab+4", "G#+4"}, {"Ab-4", "G#-4"},
		{"Bb+4", "A#+4"}, {"Bb-4", "A#-4"}, {"Fb+4", "E#-4"}, {"Fb4", "E4"},
		{"D-4", "C#+4"}, {"F-4", "E#-4"}, {"E#4", "F4"},
		{"Cb4", "B3"}, {"Cb+4", "B#-3"}, {"C-4", "B#-3"}, {"B#3", "C4"},
	}
	for _, pr := range pairs {
		a, err := Parse(pr[0])
		if err != nil {
			t.Fatalf("Parse(%q): %v", pr[0], err)
		}
		b, err := Parse(pr[1])
		if err != nil {
			t.Fatalf("Parse(%q): %v", pr[1], err)
		}
		if a.Position() != b.Position() {
			t.Errorf("%s = %d but %s = %d", pr[0], a.Position(), pr[1], b.Position())
		}
	}
}

// every letter with every accidental lands where counting quarter tones
// from the natural says: # and b move two steps, + and - one
func TestParseAllSpellings(t *testing.T) {
	naturals := map[byte]int{'C': 1, 'D': 5, 'E': 9, 'F': 11, 'G': 15, 'A': 19, 'B': 23}
	accs := map[string]int{"": 0, "#": 2, "b": -2}
	quarters := map[string]int{"": 0, "+": 1, "-": -1}
	n := 0
	for letter, base := range naturals {
		for acc, da := range accs {
			for q, dq := range quarters {
				note := string(letter) + acc + q + "4"
				p, err := Parse(note)
				if err != nil {
					t.Errorf("Parse(%q): %v", note, err)
					continue
				}
				if want := base + da + dq + 24*4; p.Position() != want {
					t.Errorf("Parse(%q).Position() = %d, want %d", note, p.Position(), want)
				}
				n++
			}
		}
	}
	if n != 63 {
		t.Errorf("checked %d spellings, want 63", n)
	}
	if got := len(equivalents); got != 39 {
		t.Errorf("%d equivalent spellings, want 39", got)
	}
}

func TestParseMonotonic(t *testing.T) {
	prev := 0
	for oct := 0; oct < 10; oct++ {
		for _, n := range Names()[:StepsPerOctave] {
			p, err := Parse(n + string(rune('0'+oct)))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if p.Position() <= prev {
				t.Fatalf("position of %v = %d not above %d", p, p.Position(), prev)
			}
			prev = p.Position()
		}
	}
}

func TestParseNoOctave(t *testing.T) {
	p, err := Parse("Ebx")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Fixed || p.Name != "D#" {
		t.Errorf("got %+v, want unfixed D#", p)
	}
	pos, err := Positions([]string{"C4", "Gx", "E4"})
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(pos) != 2 || pos[0] != 97 || pos[1] != 105 {
		t.Errorf("Positions = %v, want [97 105]", pos)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, n := range []string{"", "H4", "C", "C#", "Cbb4", "C4x", "C#?", "Xb4"} {
		_, err := Parse(n)
		var ine *InvalidNoteError
		if !errors.As(err, &ine) {
			t.Errorf("Parse(%q) err = %v, want InvalidNoteError", n, err)
		}
	}
}

func TestMIDI(t *testing.T) {
	tests := []struct {
		note string
		midi float64
	}{
		{"C4", 60},
		{"A4", 69},
		{"C#-4", 60.5},
		{"B#-4", 71.5},
		{"C-5", 71.5},
	}
	for _, tt := range tests {
		p, err := Parse(tt.note)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.note, err)
		}
		if got := p.MIDI(); got != tt.midi {
			t.Errorf("%s MIDI = %v, want %v", tt.note, got, tt.midi)
		}
	}
}

func TestFreqToNoteName(t *testing.T) {
	tests := []struct {
		freq float64
		name string
	}{
		{440, "A4"},
		{261.6256, "C4"},
		{MIDIToFreq(61), "C#4"},
		{MIDIToFreq(59.4), "B3"},
		{0, InvalidName},
		{-3, InvalidName},
		{math.NaN(), InvalidName},
		{math.Inf(1), InvalidName},
	}
	for _, tt := range tests {
		if got := FreqToNoteName(tt.freq); got != tt.name {
			t.Errorf("FreqToNoteName(%v) = %q, want %q", tt.freq, got, tt.name)
		}
	}
	if d := math.Abs(FreqToMIDI(MIDIToFreq(63.5)) - 63.5); d > 1e-9 {
		t.Errorf("FreqToMIDI round trip off by %v", d)
	}
}
