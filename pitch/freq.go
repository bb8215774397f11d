// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pitch

import (
	"fmt"
	"math"
)

// A4 is the tuning reference in Hz, MIDI 69
const A4 = 440.0

// C0 is the frequency of C0 used for note naming, A4 * 2^-4.75
var C0 = A4 * math.Pow(2, -4.75)

// Chromatic is the 12-name alphabet used for nearest-note names
var Chromatic = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// InvalidName is returned by FreqToNoteName for frequencies that have no note
const InvalidName = "Invalid"

// MIDIToFreq converts a (possibly fractional) MIDI pitch to frequency in Hz
func MIDIToFreq(midi float64) float64 {
	return A4 * math.Pow(2, (midi-69)/12)
}

// FreqToMIDI converts frequency in Hz to a fractional MIDI pitch
func FreqToMIDI(freq float64) float64 {
	return 69 + 12*math.Log2(freq/A4)
}

// FreqToNoteName returns the nearest chromatic note name, e.g. A4 for 440 Hz
func FreqToNoteName(freq float64) string {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return InvalidName
	}
	h := int(math.Round(12 * math.Log2(freq/C0)))
	oct := floorDiv(h, 12)
	n := h - 12*oct
	return fmt.Sprintf("%s%d", Chromatic[n], oct)
}

// floorDiv is integer division rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
