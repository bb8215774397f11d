// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"errors"
	"io"
	"log"
	"math"
	"os"

	"github.com/emer/density/density"
	"github.com/emer/density/dynamics"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Velocities maps each dynamic level, index Level-1, to a MIDI velocity
var Velocities = [dynamics.NLevels]uint8{16, 32, 48, 64, 80, 96, 112, 120, 127}

// QuarterToneBend is the pitch bend of half a semitone at the default +/- 2 semitone range
const QuarterToneBend = 2048

// SMFParams are the settings of the exported chord
type SMFParams struct {
	Tempo float64 `def:"60" desc:"beats per minute"`
	Beats int     `def:"4" desc:"length of the chord in beats"`
}

// Defaults sets a 4 beat chord at 60 bpm
func (sp *SMFParams) Defaults() {
	sp.Tempo = 60
	sp.Beats = 4
}

// channels holds the usable melodic channels, skipping percussion
var channels = []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12, 13, 14, 15}

// WriteSMF writes the notes of rp as one chord in a single track SMF.
// Each note gets its own channel so quarter tones can be bent.
func (sp *SMFParams) WriteSMF(w io.Writer, rp *density.Report) error {
	if len(rp.Notes) == 0 {
		return errors.New("export.WriteSMF: report has no notes")
	}
	if len(rp.Notes) > len(channels) {
		log.Printf("export.WriteSMF: %d notes share %d channels, quarter tone bends may collide\n", len(rp.Notes), len(channels))
	}
	s := smf.New()
	tf := smf.MetricTicks(960)
	s.TimeFormat = tf

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("density"))
	tr.Add(0, smf.MetaTempo(sp.Tempo))
	keys := make([]uint8, len(rp.Notes))
	for i, nt := range rp.Notes {
		ch := channels[i%len(channels)]
		key := math.Floor(nt.MIDI)
		keys[i] = uint8(key)
		if nt.MIDI != key {
			tr.Add(0, midi.Pitchbend(ch, QuarterToneBend))
		}
		tr.Add(0, midi.NoteOn(ch, keys[i], Velocities[nt.Dynamic-1]))
	}
	dur := uint32(sp.Beats) * tf.Ticks4th()
	for i := range rp.Notes {
		ch := channels[i%len(channels)]
		tr.Add(dur, midi.NoteOff(ch, keys[i]))
		dur = 0
	}
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		return err
	}
	_, err := s.WriteTo(w)
	return err
}

// SaveSMF writes the chord of rp to file fn
func (sp *SMFParams) SaveSMF(fn string, rp *density.Report) error {
	fp, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := sp.WriteSMF(fp, rp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
