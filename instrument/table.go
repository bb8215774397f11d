// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instrument

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/emer/density/dynamics"
	"github.com/emer/density/pitch"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Table holds the measured pp, mf and ff densities of one instrument,
// one row per note, looked up by pitch position. It is read-only once built.
type Table struct {
	Name string        `desc:"instrument name"`
	Data *etable.Table `view:"no-inline" desc:"Note, Pos, pp, mf, ff columns"`
	rows map[int]int   `view:"-" desc:"pitch position -> row"`
}

// NewTable returns an empty table with the standard columns
func NewTable(name string) *Table {
	tb := &Table{Name: name, rows: make(map[int]int)}
	tb.Data = etable.NewTable(name)
	sch := etable.Schema{
		{"Note", etensor.STRING, nil, nil},
		{"Pos", etensor.INT64, nil, nil},
		{"pp", etensor.FLOAT64, nil, nil},
		{"mf", etensor.FLOAT64, nil, nil},
		{"ff", etensor.FLOAT64, nil, nil},
	}
	tb.Data.SetFromSchema(sch, 0)
	return tb
}

// Add appends the measurements of note. A note whose position is already
// present (an enharmonic respelling) is ignored with a log message.
func (tb *Table) Add(note string, s dynamics.Sample) error {
	p, err := pitch.Parse(note)
	if err != nil {
		return err
	}
	if !p.Fixed {
		return fmt.Errorf("instrument.Table.Add: %s: note %q has no octave", tb.Name, note)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("instrument.Table.Add: %s %s: %w", tb.Name, note, err)
	}
	pos := p.Position()
	if r, has := tb.rows[pos]; has {
		log.Printf("instrument.Table.Add: %s: %s duplicates %s, keeping the first\n", tb.Name, note, tb.Data.CellString("Note", r))
		return nil
	}
	r := tb.Data.Rows
	tb.Data.AddRows(1)
	tb.Data.SetCellString("Note", r, note)
	tb.Data.SetCellFloat("Pos", r, float64(pos))
	tb.Data.SetCellFloat("pp", r, s.PP)
	tb.Data.SetCellFloat("mf", r, s.MF)
	tb.Data.SetCellFloat("ff", r, s.FF)
	tb.rows[pos] = r
	return nil
}

// Len is the number of notes in the table
func (tb *Table) Len() int {
	return tb.Data.Rows
}

// Notes returns the note names in table order
func (tb *Table) Notes() []string {
	nms := make([]string, tb.Data.Rows)
	for r := range nms {
		nms[r] = tb.Data.CellString("Note", r)
	}
	return nms
}

// Sample returns the measurements for p, false if the table lacks it
func (tb *Table) Sample(p pitch.Pitch) (dynamics.Sample, bool) {
	if !p.Fixed {
		return dynamics.Sample{}, false
	}
	r, has := tb.rows[p.Position()]
	if !has {
		return dynamics.Sample{}, false
	}
	return dynamics.Sample{
		PP: tb.Data.CellFloat("pp", r),
		MF: tb.Data.CellFloat("mf", r),
		FF: tb.Data.CellFloat("ff", r),
	}, true
}

// ReadTable reads a CSV table with a header naming the note column
// (Notes or Note) and the pp, mf and ff columns, in any order.
// Empty density cells read as 0.
func ReadTable(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	hdr, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("instrument.ReadTable: %s: empty table", name)
		}
		return nil, fmt.Errorf("instrument.ReadTable: %s: %w", name, err)
	}
	cols := map[string]int{}
	for i, h := range hdr {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "note" {
			h = "notes"
		}
		cols[h] = i
	}
	for _, c := range []string{"notes", "pp", "mf", "ff"} {
		if _, has := cols[c]; !has {
			return nil, fmt.Errorf("instrument.ReadTable: %s: missing column %q", name, c)
		}
	}

	tb := NewTable(name)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("instrument.ReadTable: %s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		field := func(c string) string {
			i := cols[c]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		note := field("notes")
		if note == "" {
			continue
		}
		var vals [3]float64
		for i, c := range []string{"pp", "mf", "ff"} {
			s := field(c)
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("instrument.ReadTable: %s line %d: %s %s: %w", name, line, note, c, err)
			}
			vals[i] = v
		}
		if err := tb.Add(note, dynamics.Sample{PP: vals[0], MF: vals[1], FF: vals[2]}); err != nil {
			return nil, fmt.Errorf("instrument.ReadTable: %s line %d: %w", name, line, err)
		}
	}
	return tb, nil
}

// OpenTable reads a CSV table from file fn
func OpenTable(name, fn string) (*Table, error) {
	fp, err := os.Open(fn)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	defer fp.Close()
	return ReadTable(name, fp)
}
