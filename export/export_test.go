// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emer/density/density"
	"github.com/emer/density/dynamics"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func analyze(t *testing.T, sel []density.Selection) (*density.Analyzer, *density.Report) {
	t.Helper()
	var pr density.Params
	pr.Defaults()
	an, err := density.NewAnalyzer(pr)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	rp, err := an.Analyze(sel)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return an, rp
}

var chord = []density.Selection{
	{Note: "C4", Dynamic: dynamics.PP, Count: 1},
	{Note: "G#+4", Dynamic: dynamics.FFFF, Count: 2},
}

func TestCurveTable(t *testing.T) {
	an, _ := analyze(t, chord)
	fl, _ := an.Registry.Lookup("flute")
	rows, err := Curves(fl, nil)
	if err != nil {
		t.Fatalf("Curves: %v", err)
	}
	if len(rows) != 75 {
		t.Fatalf("got %d curves, want one per table note", len(rows))
	}
	dt := CurveTable("flute", rows)
	if dt.Rows != 75 || dt.CellString("Note", 0) != "C4" {
		t.Errorf("curve table has %d rows starting at %s", dt.Rows, dt.CellString("Note", 0))
	}
	if dt.CellFloat("mf", 0) != 11.721 || dt.CellFloat("ffff", 0) != rows[0].Curve.At(dynamics.FFFF) {
		t.Errorf("C4 row = mf %v ffff %v", dt.CellFloat("mf", 0), dt.CellFloat("ffff", 0))
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, dt); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 76 || !strings.Contains(lines[1], "C4") {
		t.Errorf("csv has %d lines, second %q", len(lines), lines[1])
	}
	if _, err := Curves(fl, []string{"C9"}); err == nil {
		t.Errorf("expected error for a note outside the table")
	}
}

func TestReportTable(t *testing.T) {
	_, rp := analyze(t, chord)
	dt := ReportTable("report", rp)
	if dt.Rows != 2 {
		t.Fatalf("report table has %d rows", dt.Rows)
	}
	if dt.CellString("Dynamic", 1) != "ffff" || dt.CellFloat("Count", 1) != 2 || dt.CellFloat("MIDI", 1) != 68.5 {
		t.Errorf("row 1 = %s %v %v", dt.CellString("Dynamic", 1), dt.CellFloat("Count", 1), dt.CellFloat("MIDI", 1))
	}
	if dt.CellFloat("Density", 0) != rp.Notes[0].Density || dt.CellFloat("Hz", 0) != rp.Notes[0].Pitch.Freq() {
		t.Errorf("row 0 densities do not match the report")
	}
}

func TestKDETable(t *testing.T) {
	dt := KDETable("kde", []float64{60, 69}, []float64{0.1, 0.2})
	if dt.Rows != 2 || dt.CellFloat("Hz", 1) != 440 || dt.CellFloat("Density", 0) != 0.1 {
		t.Errorf("kde table = %d rows, Hz %v", dt.Rows, dt.CellFloat("Hz", 1))
	}
}

func TestWriteSMF(t *testing.T) {
	_, rp := analyze(t, chord)
	var sp SMFParams
	sp.Defaults()
	var buf bytes.Buffer
	if err := sp.WriteSMF(&buf, rp); err != nil {
		t.Fatalf("WriteSMF: %v", err)
	}
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("got %d tracks", len(s.Tracks))
	}
	var ch, key, vel uint8
	var rel int16
	var abs uint16
	ons := map[uint8]uint8{}
	bends := 0
	var ticks uint32
	for _, ev := range s.Tracks[0] {
		ticks += ev.Delta
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			ons[key] = vel
		case msg.GetPitchBend(&ch, &rel, &abs):
			bends++
			if rel != QuarterToneBend {
				t.Errorf("bend = %d, want %d", rel, QuarterToneBend)
			}
		}
	}
	if len(ons) != 2 || ons[60] != Velocities[dynamics.PP-1] || ons[68] != Velocities[dynamics.FFFF-1] {
		t.Errorf("note ons = %v", ons)
	}
	if bends != 1 {
		t.Errorf("got %d pitch bends, want 1 for the quarter tone", bends)
	}
	if ticks != 4*960 {
		t.Errorf("chord lasts %d ticks, want %d", ticks, 4*960)
	}

	if err := sp.WriteSMF(&buf, &density.Report{}); err == nil {
		t.Errorf("expected error for an empty report")
	}
}
