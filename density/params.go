// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package density

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emer/density/dynamics"
	"github.com/emer/density/interval"
)

// Params are the composer settings
type Params struct {
	Weight     float64         `def:"0.5" min:"0" max:"1" desc:"share of instrument density in the weighted density -- interval density gets 1 - Weight"`
	Sigma      float64         `def:"50" desc:"interval decay width in microtonal steps"`
	Instrument string          `def:"flute" desc:"instrument used by selections that do not name one"`
	Dynamics   dynamics.Params `view:"inline" desc:"dynamic-level predictor for unmeasured levels"`
}

// Defaults sets the standard composer settings
func (pr *Params) Defaults() {
	pr.Weight = 0.5
	pr.Sigma = interval.Sigma
	pr.Instrument = "flute"
	pr.Dynamics.Defaults()
}

// Validate checks the ranges of the settings
func (pr *Params) Validate() error {
	if !(pr.Weight >= 0 && pr.Weight <= 1) {
		return fmt.Errorf("density.Params: weight %v outside [0, 1]", pr.Weight)
	}
	if !(pr.Sigma > 0) {
		return fmt.Errorf("density.Params: sigma %v must be positive", pr.Sigma)
	}
	if err := pr.Dynamics.Validate(); err != nil {
		return fmt.Errorf("density.Params: %w", err)
	}
	return nil
}

// OpenJSON opens params from a JSON-formatted file, overriding only the
// fields the file sets
func (pr *Params) OpenJSON(fn string) error {
	b, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, pr)
}

// SaveJSON saves params to a JSON-formatted file
func (pr *Params) SaveJSON(fn string) error {
	b, err := json.MarshalIndent(pr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fn, b, 0644)
}
