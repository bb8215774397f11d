// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Level is an ordinal loudness level, 1 (pppp) .. 9 (ffff)
type Level int

const (
	PPPP Level = iota + 1
	PPP
	PP
	P
	MF
	F
	FF
	FFF
	FFFF
)

// NLevels is the number of loudness levels in a Curve
const NLevels = 9

var levelNames = [NLevels]string{"pppp", "ppp", "pp", "p", "mf", "f", "ff", "fff", "ffff"}

// Measured are the levels with direct measurements, in Sample order
var Measured = []Level{PP, MF, FF}

// Interior are the predicted levels between and just outside the measured ones
var Interior = []Level{PPP, P, F, FFF}

// Levels returns all levels in ascending order
func Levels() []Level {
	lv := make([]Level, NLevels)
	for i := range lv {
		lv[i] = Level(i + 1)
	}
	return lv
}

// Valid reports whether l is one of the 9 levels
func (l Level) Valid() bool {
	return l >= PPPP && l <= FFFF
}

// IsMeasured reports whether l is pp, mf or ff
func (l Level) IsMeasured() bool {
	return l == PP || l == MF || l == FF
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l-1]
}

// ParseLevel parses a dynamic marking such as "mf" or "ppp"
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, nm := range levelNames {
		if nm == s {
			return Level(i + 1), nil
		}
	}
	return 0, fmt.Errorf("dynamics.ParseLevel: unknown dynamic %q", s)
}

// Sample holds the three measured densities of one note
type Sample struct {
	PP float64 `desc:"density measured at pp (level 3)"`
	MF float64 `desc:"density measured at mf (level 5)"`
	FF float64 `desc:"density measured at ff (level 7)"`
}

// Values returns the samples in level order
func (s Sample) Values() []float64 {
	return []float64{s.PP, s.MF, s.FF}
}

// At returns the measured density at l, false if l is not measured
func (s Sample) At(l Level) (float64, bool) {
	switch l {
	case PP:
		return s.PP, true
	case MF:
		return s.MF, true
	case FF:
		return s.FF, true
	}
	return 0, false
}

// InvalidSampleError reports a non-finite measured density
type InvalidSampleError struct {
	Sample Sample
	Level  Level
}

func (e *InvalidSampleError) Error() string {
	v, _ := e.Sample.At(e.Level)
	return fmt.Sprintf("invalid %v sample %v in %+v", e.Level, v, e.Sample)
}

// Validate returns an *InvalidSampleError for the first non-finite value
func (s Sample) Validate() error {
	for _, l := range Measured {
		v, _ := s.At(l)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidSampleError{Sample: s, Level: l}
		}
	}
	return nil
}

// Curve is a density per loudness level, index Level-1
type Curve [NLevels]float64

// At returns the density at level l
func (c Curve) At(l Level) float64 {
	return c[l-1]
}

// Max returns the largest density over all levels
func (c Curve) Max() float64 {
	return floats.Max(c[:])
}

// NonDecreasing reports whether density never falls as loudness rises
func (c Curve) NonDecreasing() bool {
	for i := 1; i < NLevels; i++ {
		if c[i] < c[i-1] {
			return false
		}
	}
	return true
}
