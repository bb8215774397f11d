// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pitch maps note names, including quarter-tone accidentals, onto
// a 24-step-per-octave ordinal scale and converts between that scale,
// MIDI pitch numbers and frequency.
package pitch

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// StepsPerOctave is the number of microtonal steps in one octave (2 per semitone)
const StepsPerOctave = 24

// NoOctave is the octave token for a pitch without a fixed register
const NoOctave = 'x'

// scale is the canonical sharp-based class table, C = 1 .. B#- = 24
var scale = map[string]int{
	"C": 1, "C#-": 2, "C#": 3, "C#+": 4,
	"D": 5, "D#-": 6, "D#": 7, "D#+": 8,
	"E": 9, "E#-": 10,
	"F": 11, "F#-": 12, "F#": 13, "F#+": 14,
	"G": 15, "G#-": 16, "G#": 17, "G#+": 18,
	"A": 19, "A#-": 20, "A#": 21, "A#+": 22,
	"B": 23, "B#-": 24,
}

// equiv rewrites a non-canonical spelling to its sharp-based equivalent.
// A trailing + always raises and - always lowers by a quarter tone, after a flat too.
// Shift moves the octave for spellings that cross the B/C boundary.
type equiv struct {
	Name  string
	Shift int
}

var equivalents = map[string]equiv{
	// flats
	"Cb": {"B", -1}, "Db": {"C#", 0}, "Eb": {"D#", 0}, "Fb": {"E", 0},
	"Gb": {"F#", 0}, "Ab": {"G#", 0}, "Bb": {"A#", 0},
	// flats raised a quarter tone
	"Cb+": {"B#-", -1}, "Db+": {"C#+", 0}, "Eb+": {"D#+", 0}, "Fb+": {"E#-", 0},
	"Gb+": {"F#+", 0}, "Ab+": {"G#+", 0}, "Bb+": {"A#+", 0},
	// flats lowered a quarter tone
	"Cb-": {"A#+", -1}, "Db-": {"C#-", 0}, "Eb-": {"D#-", 0}, "Fb-": {"D#+", 0},
	"Gb-": {"F#-", 0}, "Ab-": {"G#-", 0}, "Bb-": {"A#-", 0},
	// naturals with a quarter tone
	"C-": {"B#-", -1}, "C+": {"C#-", 0}, "D-": {"C#+", 0}, "D+": {"D#-", 0},
	"E-": {"D#+", 0}, "E+": {"E#-", 0}, "F-": {"E#-", 0}, "F+": {"F#-", 0},
	"G-": {"F#+", 0}, "G+": {"G#-", 0}, "A-": {"G#+", 0}, "A+": {"A#-", 0},
	"B-": {"A#+", 0}, "B+": {"B#-", 0},
	// sharps outside the table
	"E#": {"F", 0}, "E#+": {"F#-", 0}, "B#": {"C", 1}, "B#+": {"C#-", 1},
}

var noteRe = regexp.MustCompile(`^([A-Ga-g][#b]?[-+]?)(.)$`)

// Pitch is a parsed note
type Pitch struct {
	Name   string `desc:"canonical sharp-based class name, e.g. C#+"`
	Class  int    `desc:"class offset 1..24 within the octave"`
	Octave int    `desc:"octave index 0..9 -- meaningless when Fixed is false"`
	Fixed  bool   `desc:"false for pitches written with the no-octave sentinel"`
}

// Position returns the ordinal microtonal position, class + 24*octave
func (p Pitch) Position() int {
	return p.Class + StepsPerOctave*p.Octave
}

// MIDI returns the MIDI pitch number -- quarter tones fall on .5
func (p Pitch) MIDI() float64 {
	return float64(p.Position()-1)/2 + 12
}

// Freq returns the equal-tempered frequency of the pitch in Hz
func (p Pitch) Freq() float64 {
	return MIDIToFreq(p.MIDI())
}

// String returns the canonical spelling, e.g. C#4 or G+x
func (p Pitch) String() string {
	if !p.Fixed {
		return p.Name + string(NoOctave)
	}
	return fmt.Sprintf("%s%d", p.Name, p.Octave)
}

// InvalidNoteError reports a note string that can not be placed on the scale
type InvalidNoteError struct {
	Note   string
	Reason string
}

func (e *InvalidNoteError) Error() string {
	return fmt.Sprintf("invalid note %q: %s", e.Note, e.Reason)
}

// Canonical rewrites a class spelling (letter plus accidentals, no octave) to the
// sharp-based table, returning the octave shift the rewrite implies
func Canonical(class string) (name string, shift int, ok bool) {
	if len(class) > 0 {
		class = strings.ToUpper(class[:1]) + class[1:]
	}
	if _, has := scale[class]; has {
		return class, 0, true
	}
	if eq, has := equivalents[class]; has {
		return eq.Name, eq.Shift, true
	}
	return "", 0, false
}

// Parse places a note string such as "Db4", "G#+5" or "Ex" on the scale
func Parse(note string) (Pitch, error) {
	note = strings.TrimSpace(note)
	m := noteRe.FindStringSubmatch(note)
	if m == nil {
		return Pitch{}, &InvalidNoteError{Note: note, Reason: "does not match letter[#b][+-]octave"}
	}
	name, shift, ok := Canonical(m[1])
	if !ok {
		return Pitch{}, &InvalidNoteError{Note: note, Reason: fmt.Sprintf("class %s is not on the scale", m[1])}
	}
	p := Pitch{Name: name, Class: scale[name]}
	oct := m[2][0]
	switch {
	case oct == NoOctave:
		return p, nil
	case oct >= '0' && oct <= '9':
		p.Octave = int(oct-'0') + shift
		p.Fixed = true
		if p.Octave < 0 {
			return Pitch{}, &InvalidNoteError{Note: note, Reason: "below octave 0"}
		}
		return p, nil
	}
	return Pitch{}, &InvalidNoteError{Note: note, Reason: fmt.Sprintf("octave %q is neither a digit nor %q", oct, NoOctave)}
}

// Positions parses all notes and returns the positions of the fixed ones
func Positions(notes []string) ([]int, error) {
	pos := make([]int, 0, len(notes))
	for _, n := range notes {
		p, err := Parse(n)
		if err != nil {
			return nil, err
		}
		if p.Fixed {
			pos = append(pos, p.Position())
		}
	}
	return pos, nil
}

// Names returns all class spellings the parser accepts, canonical ones first
func Names() []string {
	names := make([]string, 0, len(scale)+len(equivalents))
	byClass := make([]string, StepsPerOctave+1)
	for n, c := range scale {
		byClass[c] = n
	}
	names = append(names, byClass[1:]...)
	extra := make([]string, 0, len(equivalents))
	for n := range equivalents {
		extra = append(extra, n)
	}
	sort.Strings(extra)
	return append(names, extra...)
}
