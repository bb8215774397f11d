// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// density computes the composite acoustic density of a chord.
//
//	density [flags] NOTE[:DYN[:INSTR[:COUNT]]]...
//
// e.g. density -w 0.7 C4 E4:p G4:ff:flute:2
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/emer/density/density"
	"github.com/emer/density/dft"
	"github.com/emer/density/dynamics"
	"github.com/emer/density/export"
	"github.com/emer/density/input"
	"github.com/emer/density/instrument"
	"github.com/emer/density/mel"
	"github.com/emer/density/sound"
	"github.com/emer/density/spectral"
	"github.com/spf13/pflag"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

	var pr density.Params
	pr.Defaults()
	var (
		weight    float64
		config    string
		tables    []string
		file      string
		curves    string
		kde       string
		bandwidth float64
		kdePoints int
		midiFn    string
		wavFn     string
		bandsFn   string
		dump      bool
		plain     bool
	)
	pflag.Float64VarP(&weight, "weight", "w", pr.Weight, "share of instrument density, 0..1 (interval density gets the rest)")
	pflag.StringVarP(&config, "config", "c", "", "JSON params file applied over the defaults")
	pflag.StringArrayVar(&tables, "table", nil, "register an instrument table as name=path.csv (repeatable)")
	pflag.StringVarP(&file, "file", "f", "", "read note tokens from a file")
	pflag.StringVar(&curves, "curves", "", "write the 9-level curve of each note to this CSV file")
	pflag.StringVar(&kde, "kde", "", "write a density estimate over pitch to this CSV file")
	pflag.Float64Var(&bandwidth, "kde-bw", 1, "bandwidth factor of the density estimate")
	pflag.IntVar(&kdePoints, "kde-n", 200, "number of points in the density estimate")
	pflag.StringVar(&midiFn, "midi", "", "write the chord to this standard MIDI file")
	pflag.StringVar(&wavFn, "wav", "", "render the chord as sines to this wav file")
	pflag.StringVar(&bandsFn, "bands", "", "write the mel band energies of the rendered chord to this CSV file")
	pflag.BoolVar(&dump, "dump", false, "dump the full report structure")
	pflag.BoolVar(&plain, "plain", false, "plain text output without styling")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: density [flags] NOTE[:DYN[:INSTR[:COUNT]]]...\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if config != "" {
		if err := pr.OpenJSON(config); err != nil {
			logger.Fatalf("failed to read config %s: %v", config, err)
		}
	}
	if pflag.CommandLine.Changed("weight") {
		pr.Weight = weight
	}

	an, err := density.NewAnalyzer(pr)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	for _, tf := range tables {
		if err := registerTable(an, tf); err != nil {
			logger.Fatalf("%v", err)
		}
	}

	var ip input.Params
	ip.Defaults()
	ip.Instrument = pr.Instrument
	var sel []density.Selection
	if file != "" {
		sel, err = ip.LoadSelections(file)
		if err != nil {
			logger.Fatalf("failed to read %s: %v", file, err)
		}
	}
	more, err := ip.ParseAll(pflag.Args())
	if err != nil {
		logger.Fatalf("%v", err)
	}
	sel = append(sel, more...)
	if len(sel) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	rp, err := an.Analyze(sel)
	if err != nil {
		logger.Fatalf("analysis failed: %v", err)
	}
	fmt.Println(render(rp, an.Params.Weight, plain))
	if dump {
		spew.Dump(rp)
	}

	if curves != "" {
		if err := saveCurves(an, rp, curves); err != nil {
			logger.Fatalf("failed to write curves: %v", err)
		}
	}
	if kde != "" {
		if err := saveKDE(rp, bandwidth, kdePoints, kde); err != nil {
			logger.Fatalf("failed to write density estimate: %v", err)
		}
	}
	if midiFn != "" {
		var sp export.SMFParams
		sp.Defaults()
		if err := sp.SaveSMF(midiFn, rp); err != nil {
			logger.Fatalf("failed to write %s: %v", midiFn, err)
		}
	}
	if wavFn != "" || bandsFn != "" {
		if err := saveRender(rp, wavFn, bandsFn); err != nil {
			logger.Fatalf("failed to render chord: %v", err)
		}
	}
}

// registerTable reads a name=path table flag into the analyzer's registry
func registerTable(an *density.Analyzer, flag string) error {
	name, path, ok := strings.Cut(flag, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("--table %q: want name=path", flag)
	}
	tb, err := instrument.OpenTable(name, path)
	if err != nil {
		return err
	}
	an.Registry.Register(instrument.NewMeasured(tb, dynamics.NewPredictor(an.Params.Dynamics)))
	logger.Printf("registered %s: %d notes from %s", name, tb.Len(), path)
	return nil
}

// curveRows returns the curve of each analyzed note on its own instrument
func curveRows(an *density.Analyzer, rp *density.Report) ([]export.CurveRow, error) {
	rows := make([]export.CurveRow, 0, len(rp.Notes))
	for _, nt := range rp.Notes {
		inst, err := an.Registry.Lookup(nt.Instrument)
		if err != nil {
			return nil, err
		}
		c, err := inst.Curve(nt.Pitch)
		if err != nil {
			return nil, err
		}
		rows = append(rows, export.CurveRow{Note: nt.Note, Curve: c})
	}
	return rows, nil
}

func saveCurves(an *density.Analyzer, rp *density.Report, fn string) error {
	rows, err := curveRows(an, rp)
	if err != nil {
		return err
	}
	return export.SaveCSV(fn, export.CurveTable("curves", rows))
}

func saveKDE(rp *density.Report, bw float64, n int, fn string) error {
	midis := make([]float64, len(rp.Notes))
	ds := make([]float64, len(rp.Notes))
	for i, nt := range rp.Notes {
		midis[i] = nt.MIDI
		ds[i] = nt.Density
	}
	grid, vals, err := spectral.KDE(midis, ds, bw, n)
	if err != nil {
		return err
	}
	return export.SaveCSV(fn, export.KDETable("kde", grid, vals))
}

// saveRender synthesizes the chord, writing the wave and its mel bands
// to whichever of wavFn and bandsFn is set
func saveRender(rp *density.Report, wavFn, bandsFn string) error {
	var sp sound.Params
	sp.Defaults()
	wv, err := export.RenderChord(rp, &sp)
	if err != nil {
		return err
	}
	if wavFn != "" {
		if err := wv.WriteWave(wavFn); err != nil {
			return err
		}
	}
	var dp dft.Params
	dp.Defaults()
	var mp mel.Params
	mp.Defaults()
	cent, bands := export.Spectrum("bands", wv, &dp, &mp)
	logger.Printf("rendered chord centroid %.2f Hz", cent)
	if bandsFn != "" {
		return export.SaveCSV(bandsFn, bands)
	}
	return nil
}
