// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export writes dynamic curves, reports and density estimates as
// etable tables and CSV, and a report's notes as a standard MIDI file chord.
package export

import (
	"io"
	"os"

	"github.com/emer/density/density"
	"github.com/emer/density/dynamics"
	"github.com/emer/density/instrument"
	"github.com/emer/density/pitch"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// CurveRow is the dynamic curve of one note
type CurveRow struct {
	Note  string
	Curve dynamics.Curve
}

// Curves computes the curve of each note on inst. Notes are parsed with
// pitch.Parse; an empty list means every note of the table.
func Curves(inst instrument.Instrument, notes []string) ([]CurveRow, error) {
	if len(notes) == 0 {
		if ms, ok := inst.(*instrument.Measured); ok {
			notes = ms.Table.Notes()
		}
	}
	rows := make([]CurveRow, 0, len(notes))
	for _, n := range notes {
		p, err := pitch.Parse(n)
		if err != nil {
			return nil, err
		}
		c, err := inst.Curve(p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CurveRow{Note: n, Curve: c})
	}
	return rows, nil
}

// CurveTable returns a table with a Note column and one column per level
func CurveTable(name string, rows []CurveRow) *etable.Table {
	dt := etable.NewTable(name)
	sch := etable.Schema{
		{"Note", etensor.STRING, nil, nil},
	}
	for _, l := range dynamics.Levels() {
		sch = append(sch, etable.Column{l.String(), etensor.FLOAT64, nil, nil})
	}
	dt.SetFromSchema(sch, len(rows))
	for r, cr := range rows {
		dt.SetCellString("Note", r, cr.Note)
		for _, l := range dynamics.Levels() {
			dt.SetCellFloat(l.String(), r, cr.Curve.At(l))
		}
	}
	return dt
}

// ReportTable returns one row per analyzed note of rp
func ReportTable(name string, rp *density.Report) *etable.Table {
	dt := etable.NewTable(name)
	sch := etable.Schema{
		{"Note", etensor.STRING, nil, nil},
		{"Dynamic", etensor.STRING, nil, nil},
		{"Instrument", etensor.STRING, nil, nil},
		{"Count", etensor.INT64, nil, nil},
		{"MIDI", etensor.FLOAT64, nil, nil},
		{"Hz", etensor.FLOAT64, nil, nil},
		{"Density", etensor.FLOAT64, nil, nil},
		{"Max", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, len(rp.Notes))
	for r, nt := range rp.Notes {
		dt.SetCellString("Note", r, nt.Note)
		dt.SetCellString("Dynamic", r, nt.Dynamic.String())
		dt.SetCellString("Instrument", r, nt.Instrument)
		dt.SetCellFloat("Count", r, float64(nt.Count))
		dt.SetCellFloat("MIDI", r, nt.MIDI)
		dt.SetCellFloat("Hz", r, nt.Pitch.Freq())
		dt.SetCellFloat("Density", r, nt.Density)
		dt.SetCellFloat("Max", r, nt.Max)
	}
	return dt
}

// KDETable returns a density estimate over MIDI pitch as Pitch, Hz and Density columns
func KDETable(name string, grid, values []float64) *etable.Table {
	dt := etable.NewTable(name)
	sch := etable.Schema{
		{"Pitch", etensor.FLOAT64, nil, nil},
		{"Hz", etensor.FLOAT64, nil, nil},
		{"Density", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, len(grid))
	for r, m := range grid {
		dt.SetCellFloat("Pitch", r, m)
		dt.SetCellFloat("Hz", r, pitch.MIDIToFreq(m))
		dt.SetCellFloat("Density", r, values[r])
	}
	return dt
}

// WriteCSV writes dt as comma separated values with a header row
func WriteCSV(w io.Writer, dt *etable.Table) error {
	return dt.WriteCSV(w, etable.Comma, etable.Headers)
}

// SaveCSV writes dt to file fn
func SaveCSV(fn string, dt *etable.Table) error {
	fp, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := WriteCSV(fp, dt); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
