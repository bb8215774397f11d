// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instrument supplies per-note instrument densities at any of the
// 9 dynamic levels. A Measured instrument answers pp, mf and ff straight
// from its Table and predicts the other levels from those three.
package instrument

import (
	"fmt"
	"sync"

	"github.com/emer/density/dynamics"
	"github.com/emer/density/pitch"
)

// Instrument is anything that can report the density of a pitch at a dynamic
type Instrument interface {
	// Name is the registry name of the instrument
	Name() string

	// Density returns the density of p played at l
	Density(p pitch.Pitch, l dynamics.Level) (float64, error)

	// MaxDensity returns the largest density of p over all levels
	MaxDensity(p pitch.Pitch) (float64, error)

	// Curve returns the density of p at every level
	Curve(p pitch.Pitch) (dynamics.Curve, error)
}

// MissingDynamicDataError reports a note an instrument has no data for
type MissingDynamicDataError struct {
	Instrument string
	Note       string
	Level      dynamics.Level
}

func (e *MissingDynamicDataError) Error() string {
	if e.Level.Valid() {
		return fmt.Sprintf("%s has no %v data for note %s", e.Instrument, e.Level, e.Note)
	}
	return fmt.Sprintf("%s has no data for note %s", e.Instrument, e.Note)
}

// Measured is an instrument backed by a measurement Table.
// Curves are computed once per pitch position and shared; it is safe
// for concurrent use.
type Measured struct {
	Table     *Table
	Predictor *dynamics.Predictor
	curves    sync.Map
}

// NewMeasured returns a measured instrument using pd for unmeasured levels
func NewMeasured(tb *Table, pd *dynamics.Predictor) *Measured {
	return &Measured{Table: tb, Predictor: pd}
}

func (ms *Measured) Name() string {
	return ms.Table.Name
}

// Sample returns the measurements for p
func (ms *Measured) Sample(p pitch.Pitch, l dynamics.Level) (dynamics.Sample, error) {
	s, ok := ms.Table.Sample(p)
	if !ok {
		return s, &MissingDynamicDataError{Instrument: ms.Name(), Note: p.String(), Level: l}
	}
	return s, nil
}

func (ms *Measured) Density(p pitch.Pitch, l dynamics.Level) (float64, error) {
	if !l.Valid() {
		return 0, fmt.Errorf("instrument.Density: %s: invalid level %v", ms.Name(), l)
	}
	s, err := ms.Sample(p, l)
	if err != nil {
		return 0, err
	}
	if v, ok := s.At(l); ok {
		return v, nil
	}
	c, err := ms.Curve(p)
	if err != nil {
		return 0, err
	}
	return c.At(l), nil
}

func (ms *Measured) MaxDensity(p pitch.Pitch) (float64, error) {
	c, err := ms.Curve(p)
	if err != nil {
		return 0, err
	}
	return c.Max(), nil
}

func (ms *Measured) Curve(p pitch.Pitch) (dynamics.Curve, error) {
	s, err := ms.Sample(p, 0)
	if err != nil {
		return dynamics.Curve{}, err
	}
	pos := p.Position()
	if c, ok := ms.curves.Load(pos); ok {
		return c.(dynamics.Curve), nil
	}
	c, err := ms.Predictor.Predict(s)
	if err != nil {
		return c, fmt.Errorf("instrument.Curve: %s %s: %w", ms.Name(), p, err)
	}
	act, _ := ms.curves.LoadOrStore(pos, c)
	return act.(dynamics.Curve), nil
}
