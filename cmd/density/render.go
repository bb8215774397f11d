// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/emer/density/density"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5fd7"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#af87ff")).Width(22)
	valueStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5f00af")).Padding(0, 1)
)

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// reportLines returns label, value pairs in display order
func reportLines(rp *density.Report, weight float64) [][2]string {
	sp := rp.Spectral
	return [][2]string{
		{"Weight", num(weight, 2)},
		{"Interval density", num(rp.Interval, 4)},
		{"Instrument density", num(rp.Instrument, 4)},
		{"Weighted density", num(rp.Weighted, 4)},
		{"Refined density", num(rp.Refined, 4)},
		{"Total density", num(rp.Total, 4)},
		{"Spectral centroid", num(sp.CentroidHz, 2) + " Hz, " + sp.CentroidNote},
		{"Spectral spread", "+/-" + num(sp.SpreadHz, 2) + " Hz"},
		{"Spectral skewness", num(sp.Skewness, 4)},
		{"Mean spacing", num(rp.MeanSpacing, 2) + " steps"},
	}
}

func noteLines(rp *density.Report) []string {
	lines := make([]string, 0, len(rp.Notes)+len(rp.Skipped))
	for _, nt := range rp.Notes {
		lines = append(lines, fmt.Sprintf("%-5s %-4v %-8s x%d  %7.2f Hz  %8.4f", nt.Note, nt.Dynamic, nt.Instrument, nt.Count, nt.Pitch.Freq(), nt.Density))
	}
	for _, sl := range rp.Skipped {
		lines = append(lines, fmt.Sprintf("%-5s skipped, no octave", sl.Note))
	}
	return lines
}

// render formats rp for the terminal, or as plain text
func render(rp *density.Report, weight float64, plain bool) string {
	if plain {
		var b strings.Builder
		for _, l := range noteLines(rp) {
			b.WriteString(l + "\n")
		}
		for _, kv := range reportLines(rp, weight) {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
		return strings.TrimRight(b.String(), "\n")
	}
	rows := []string{titleStyle.Render("Acoustic density")}
	for _, l := range noteLines(rp) {
		rows = append(rows, mutedStyle.Render(l))
	}
	rows = append(rows, "")
	for _, kv := range reportLines(rp, weight) {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(kv[0]), valueStyle.Render(kv[1])))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
