// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"errors"

	"github.com/emer/density/density"
	"github.com/emer/density/dft"
	"github.com/emer/density/mel"
	"github.com/emer/density/sound"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Partials returns one sine partial per analyzed note of rp, at the note's
// frequency with amplitude equal to its density
func Partials(rp *density.Report) []sound.Partial {
	parts := make([]sound.Partial, 0, len(rp.Notes))
	for _, nt := range rp.Notes {
		parts = append(parts, sound.Partial{Freq: nt.Pitch.Freq(), Amp: nt.Density})
	}
	return parts
}

// RenderChord synthesizes the notes of rp as a mono wave
func RenderChord(rp *density.Report, sp *sound.Params) (*sound.Wave, error) {
	if len(rp.Notes) == 0 {
		return nil, errors.New("export.RenderChord: report has no notes")
	}
	return sp.Synth(Partials(rp))
}

// Spectrum measures a rendered wave: it returns the power weighted centroid
// in Hz and a table of mel band log energies (Band, LoHz, CenterHz, HiHz, LogEnergy).
// The whole wave is one transform window.
func Spectrum(name string, wv *sound.Wave, dp *dft.Params, mp *mel.Params) (float64, *etable.Table) {
	sig := wv.Floats(0)
	rate := wv.SampleRate()
	power := dp.Power(sig)
	cent := dft.Centroid(power, len(sig), rate)

	mp.InitFilters(len(sig), rate)
	bands := mp.Filter(power)

	dt := etable.NewTable(name)
	sch := etable.Schema{
		{"Band", etensor.INT64, nil, nil},
		{"LoHz", etensor.FLOAT64, nil, nil},
		{"CenterHz", etensor.FLOAT64, nil, nil},
		{"HiHz", etensor.FLOAT64, nil, nil},
		{"LogEnergy", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, len(bands))
	for b, e := range bands {
		dt.SetCellFloat("Band", b, float64(b))
		dt.SetCellFloat("LoHz", b, mp.HzPts[b])
		dt.SetCellFloat("CenterHz", b, mp.HzPts[b+1])
		dt.SetCellFloat("HiHz", b, mp.HzPts[b+2])
		dt.SetCellFloat("LogEnergy", b, e)
	}
	return cent, dt
}
