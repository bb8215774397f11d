// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instrument

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/emer/density/dynamics"
)

//go:embed tables/flute.csv
var fluteCSV []byte

// FluteTable returns the measured concert flute table, C4 .. C#7 in quarter tones
func FluteTable() (*Table, error) {
	return ReadTable("flute", bytes.NewReader(fluteCSV))
}

// Registry maps instrument names and aliases to instruments.
// Names are case-insensitive.
type Registry struct {
	mu    sync.RWMutex
	insts map[string]Instrument
	names []string
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{insts: make(map[string]Instrument)}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds inst under its name and any aliases, replacing
// whatever was registered there before.
func (rg *Registry) Register(inst Instrument, aliases ...string) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	nm := key(inst.Name())
	if _, has := rg.insts[nm]; !has {
		rg.names = append(rg.names, nm)
		sort.Strings(rg.names)
	}
	rg.insts[nm] = inst
	for _, a := range aliases {
		rg.insts[key(a)] = inst
	}
}

// Lookup returns the instrument registered under name
func (rg *Registry) Lookup(name string) (Instrument, error) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	inst, has := rg.insts[key(name)]
	if !has {
		return nil, fmt.Errorf("instrument.Lookup: unknown instrument %q, have %v", name, rg.names)
	}
	return inst, nil
}

// Names returns the primary instrument names, sorted
func (rg *Registry) Names() []string {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return append([]string(nil), rg.names...)
}

// Default returns a registry holding the measured flute, also known as flauta
func Default(pd *dynamics.Predictor) (*Registry, error) {
	tb, err := FluteTable()
	if err != nil {
		return nil, err
	}
	rg := NewRegistry()
	rg.Register(NewMeasured(tb, pd), "flauta")
	return rg, nil
}
