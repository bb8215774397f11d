// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package density composes the acoustic density of a set of notes.
//
// Interval density (how close the pitches are to each other) and
// instrument density (the spectral energy of each note at its dynamic)
// are blended by Params.Weight, divided by the pitch range in semitones,
// then scaled by the spectral spread in Hz and normalized by the loudest
// the same notes could be.
package density

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/emer/density/dynamics"
	"github.com/emer/density/instrument"
	"github.com/emer/density/interval"
	"github.com/emer/density/pitch"
	"github.com/emer/density/spectral"
)

// Selection is one note played at a dynamic by Count instruments of a kind
type Selection struct {
	Note       string         `desc:"note name, e.g. C#4 or Eb5"`
	Dynamic    dynamics.Level `desc:"dynamic level the note is played at"`
	Instrument string         `desc:"registry name of the instrument -- empty uses Params.Instrument"`
	Count      int            `desc:"number of instruments playing the note, at least 1"`
}

func (sl Selection) String() string {
	return fmt.Sprintf("%s:%v:%s:%d", sl.Note, sl.Dynamic, sl.Instrument, sl.Count)
}

// Note is the per-note part of a Report
type Note struct {
	Selection
	Pitch   pitch.Pitch `desc:"parsed note"`
	MIDI    float64     `desc:"MIDI pitch of the note"`
	Density float64     `desc:"instrument density at the dynamic, times sqrt(Count)"`
	Max     float64     `desc:"largest density over all dynamics, times sqrt(Count)"`
}

// Report holds the composite densities of a selection
type Report struct {
	Interval    float64             `desc:"gaussian-decay interval density over all note pairs"`
	Instrument  float64             `desc:"sum of per-note instrument densities"`
	Weighted    float64             `desc:"Instrument*Weight + Interval*(1-Weight)"`
	Amplitude   float64             `desc:"pitch range in semitones"`
	Refined     float64             `desc:"Weighted / Amplitude, Weighted when Amplitude is 0"`
	MaxDensity  float64             `desc:"sum of per-note maximum densities"`
	Total       float64             `desc:"Refined * Spectral.SpreadHz / MaxDensity, Refined when MaxDensity is 0"`
	Spectral    spectral.Result     `desc:"moments of the per-note densities over MIDI pitch"`
	Notes       []Note              `desc:"one row per note with a fixed octave"`
	Skipped     []Selection         `desc:"notes without an octave, which take no part in the densities"`
	Intervals   []interval.Interval `desc:"all note pairs"`
	MeanSpacing float64             `desc:"mean pairwise interval in microtonal steps -- descriptive only"`
	MassDensity float64             `desc:"notes per microtonal step of range -- descriptive only"`
}

// Analyzer composes Reports using instruments from its Registry.
// Analyze does not modify the Analyzer and may be called concurrently.
type Analyzer struct {
	Params   Params
	Registry *instrument.Registry
}

// NewAnalyzer returns an analyzer over the default instrument registry
func NewAnalyzer(pr Params) (*Analyzer, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	rg, err := instrument.Default(dynamics.NewPredictor(pr.Dynamics))
	if err != nil {
		return nil, err
	}
	return &Analyzer{Params: pr, Registry: rg}, nil
}

// Analyze computes the report for sel
func (an *Analyzer) Analyze(sel []Selection) (*Report, error) {
	if len(sel) == 0 {
		return nil, errors.New("density.Analyze: no notes selected")
	}
	if err := an.Params.Validate(); err != nil {
		return nil, err
	}
	rp := &Report{}
	var pos []int
	var midis, ds []float64
	for _, sl := range sel {
		if sl.Instrument == "" {
			sl.Instrument = an.Params.Instrument
		}
		if sl.Count < 1 {
			return nil, fmt.Errorf("density.Analyze: %s: count must be at least 1", sl)
		}
		if !sl.Dynamic.Valid() {
			return nil, fmt.Errorf("density.Analyze: %s: invalid dynamic", sl)
		}
		p, err := pitch.Parse(sl.Note)
		if err != nil {
			return nil, err
		}
		if !p.Fixed {
			log.Printf("density.Analyze: %s has no octave, skipped\n", sl.Note)
			rp.Skipped = append(rp.Skipped, sl)
			continue
		}
		inst, err := an.Registry.Lookup(sl.Instrument)
		if err != nil {
			return nil, err
		}
		d, err := inst.Density(p, sl.Dynamic)
		if err != nil {
			return nil, err
		}
		mx, err := inst.MaxDensity(p)
		if err != nil {
			return nil, err
		}
		sc := math.Sqrt(float64(sl.Count))
		nt := Note{Selection: sl, Pitch: p, MIDI: p.MIDI(), Density: d * sc, Max: mx * sc}
		rp.Notes = append(rp.Notes, nt)
		pos = append(pos, p.Position())
		midis = append(midis, nt.MIDI)
		ds = append(ds, nt.Density)
		rp.Instrument += nt.Density
		rp.MaxDensity += nt.Max
	}

	rp.Interval = interval.Density(pos, an.Params.Sigma)
	rp.Intervals = interval.All(pos)
	rp.MeanSpacing = interval.MeanSpacing(pos)
	rp.MassDensity = interval.MassDensity(pos)

	w := an.Params.Weight
	rp.Weighted = rp.Instrument*w + rp.Interval*(1-w)
	rp.Amplitude = float64(interval.Amplitude(pos)) / 2
	rp.Refined = rp.Weighted
	if rp.Amplitude != 0 {
		rp.Refined /= rp.Amplitude
	}

	var err error
	rp.Spectral, err = spectral.Moments(midis, ds)
	if err != nil {
		return nil, err
	}
	rp.Total = rp.Refined
	if rp.MaxDensity != 0 {
		rp.Total = rp.Refined * rp.Spectral.SpreadHz / rp.MaxDensity
	}
	return rp, nil
}
