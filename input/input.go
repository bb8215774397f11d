// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input reads note selections written as NOTE[:DYN[:INSTR[:COUNT]]]
// tokens, e.g. "C4", "Eb5:pp" or "G#4:ff:flute:3".
package input

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/emer/density/density"
	"github.com/emer/density/dynamics"
	"github.com/emer/density/pitch"
)

// Params fill the fields a token leaves out
type Params struct {
	Dynamic    dynamics.Level `def:"mf" desc:"dynamic when the token has none"`
	Instrument string         `def:"flute" desc:"instrument when the token has none"`
	Count      int            `def:"1" desc:"instrument count when the token has none"`
}

// Defaults sets the standard token defaults
func (df *Params) Defaults() {
	df.Dynamic = dynamics.MF
	df.Instrument = "flute"
	df.Count = 1
}

// ParseSelection parses one token with the standard defaults
func ParseSelection(tok string) (density.Selection, error) {
	var df Params
	df.Defaults()
	return df.Parse(tok)
}

// Parse parses one token. The note is checked here so that bad input is
// reported with its token.
func (df *Params) Parse(tok string) (density.Selection, error) {
	sl := density.Selection{Dynamic: df.Dynamic, Instrument: df.Instrument, Count: df.Count}
	fs := strings.Split(strings.TrimSpace(tok), ":")
	if len(fs) > 4 {
		return sl, fmt.Errorf("input.Parse: %q has more than 4 fields", tok)
	}
	sl.Note = strings.TrimSpace(fs[0])
	if _, err := pitch.Parse(sl.Note); err != nil {
		return sl, err
	}
	if len(fs) > 1 && strings.TrimSpace(fs[1]) != "" {
		l, err := dynamics.ParseLevel(fs[1])
		if err != nil {
			return sl, fmt.Errorf("input.Parse: %q: %w", tok, err)
		}
		sl.Dynamic = l
	}
	if len(fs) > 2 && strings.TrimSpace(fs[2]) != "" {
		sl.Instrument = strings.ToLower(strings.TrimSpace(fs[2]))
	}
	if len(fs) > 3 && strings.TrimSpace(fs[3]) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(fs[3]))
		if err != nil || n < 1 {
			return sl, fmt.Errorf("input.Parse: %q: count %q must be a positive integer", tok, fs[3])
		}
		sl.Count = n
	}
	return sl, nil
}

// ParseAll parses each token in turn, stopping at the first bad one
func (df *Params) ParseAll(toks []string) ([]density.Selection, error) {
	sel := make([]density.Selection, 0, len(toks))
	for _, tok := range toks {
		sl, err := df.Parse(tok)
		if err != nil {
			return nil, err
		}
		sel = append(sel, sl)
	}
	return sel, nil
}

// LoadSelections reads tokens separated by white space from file fn.
// Anything after a # on a line is ignored.
func (df *Params) LoadSelections(fn string) ([]density.Selection, error) {
	fp, err := os.Open(fn)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	defer fp.Close()

	var toks []string
	scanner := bufio.NewScanner(fp)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		t := scanner.Text()
		if i := strings.IndexByte(t, '#'); i >= 0 {
			t = t[:i]
		}
		toks = append(toks, strings.Fields(t)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return df.ParseAll(toks)
}

// LoadSelections reads a selection file with the standard defaults
func LoadSelections(fn string) ([]density.Selection, error) {
	var df Params
	df.Defaults()
	return df.LoadSelections(fn)
}
