// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sound renders sums of sine partials as PCM wave data and reads
// and writes them as wav files.
package sound

import (
	"errors"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Partial is one sine component of a sound
type Partial struct {
	Freq float64 `desc:"frequency in Hz"`
	Amp  float64 `desc:"relative amplitude -- only ratios between partials matter"`
}

// Params are the rendering settings
type Params struct {
	SampleRate int     `def:"44100" desc:"samples per second"`
	BitDepth   int     `def:"16" desc:"bits per sample"`
	Seconds    float64 `def:"2" desc:"length of the sound"`
	Gain       float64 `def:"0.8" min:"0" max:"1" desc:"peak level of the summed partials, 1 = full scale"`
	FadeMs     float64 `def:"20" desc:"linear fade in and out, avoids clicks at the ends"`
}

// Defaults sets CD-rate 16 bit settings
func (sp *Params) Defaults() {
	sp.SampleRate = 44100
	sp.BitDepth = 16
	sp.Seconds = 2
	sp.Gain = 0.8
	sp.FadeMs = 20
}

// Wave holds mono PCM data
type Wave struct {
	Buf *audio.IntBuffer `inactive:"+"`
}

// Synth renders the partials as a mono wave. Partials above the Nyquist
// frequency are dropped with a log message.
func (sp *Params) Synth(parts []Partial) (*Wave, error) {
	if sp.SampleRate <= 0 || sp.Seconds <= 0 {
		return nil, errors.New("sound.Synth: sample rate and length must be positive")
	}
	nyq := float64(sp.SampleRate) / 2
	var use []Partial
	for _, p := range parts {
		if p.Freq <= 0 || p.Freq >= nyq || !(p.Amp > 0) {
			log.Printf("sound.Synth: dropping partial %v Hz amp %v\n", p.Freq, p.Amp)
			continue
		}
		use = append(use, p)
	}
	if len(use) == 0 {
		return nil, errors.New("sound.Synth: no audible partials")
	}

	n := int(math.Round(sp.Seconds * float64(sp.SampleRate)))
	sig := make([]float64, n)
	peak := 0.0
	for i := range sig {
		t := float64(i) / float64(sp.SampleRate)
		v := 0.0
		for _, p := range use {
			v += p.Amp * math.Sin(2*math.Pi*p.Freq*t)
		}
		sig[i] = v
		peak = math.Max(peak, math.Abs(v))
	}
	fade := int(sp.FadeMs * 0.001 * float64(sp.SampleRate))
	fade = min(fade, n/2)
	for i := 0; i < fade; i++ {
		g := float64(i) / float64(fade)
		sig[i] *= g
		sig[n-1-i] *= g
	}

	full := float64(int(1)<<(sp.BitDepth-1) - 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sp.SampleRate},
		Data:           make([]int, n),
		SourceBitDepth: sp.BitDepth,
	}
	scale := sp.Gain * full / peak
	for i, v := range sig {
		buf.Data[i] = int(math.Round(v * scale))
	}
	return &Wave{Buf: buf}, nil
}

// Load loads the sound file and decodes it
func (snd *Wave) Load(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		log.Printf("sound.Load: couldn't open %s %v", fn, err)
		return err
	}
	defer f.Close()
	return snd.Read(f)
}

// Read decodes wav data from r
func (snd *Wave) Read(r io.ReadSeeker) error {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return errors.New("sound.Read: not a valid wav file")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	d = wav.NewDecoder(r)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return err
	}
	snd.Buf = buf
	return nil
}

// WriteWave encodes the signal data and writes it to file using the sample rate and
// other values of the buf object
func (snd *Wave) WriteWave(fn string) error {
	out, err := os.Create(fn)
	if err != nil {
		log.Printf("unable to create %s: %v", fn, err)
		return err
	}
	if err := snd.Write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Write encodes the wave as PCM wav data to w
func (snd *Wave) Write(w io.WriteSeeker) error {
	PCM := 1
	e := wav.NewEncoder(w, snd.SampleRate(), snd.Buf.SourceBitDepth, snd.Channels(), PCM)
	if err := e.Write(snd.Buf); err != nil {
		log.Printf("Encoding failed on write: %v", err)
		return err
	}
	if err := e.Close(); err != nil {
		log.Printf("could not close wav file encoder")
		return err
	}
	return nil
}

// SampleRate returns the sample rate of the sound or 0 is snd is nil
func (snd *Wave) SampleRate() int {
	if snd == nil || snd.Buf == nil {
		log.Printf("sound.SampleRate: Sound is nil")
		return 0
	}
	return snd.Buf.Format.SampleRate
}

// Channels returns the number of channels in the wav data or 0 is snd is nil
func (snd *Wave) Channels() int {
	if snd == nil || snd.Buf == nil {
		log.Printf("sound.Channels: Sound is nil")
		return 0
	}
	return snd.Buf.Format.NumChannels
}

// Floats returns one channel as values normalized to -1..1
func (snd *Wave) Floats(channel int) []float64 {
	nch := snd.Channels()
	if nch == 0 || channel < 0 || channel >= nch {
		return nil
	}
	n := snd.Buf.NumFrames()
	out := make([]float64, n)
	for i := range out {
		out[i] = snd.floatAt(i*nch + channel)
	}
	return out
}

// floatAt returns sample idx scaled by the full range of the bit depth
func (snd *Wave) floatAt(idx int) float64 {
	switch snd.Buf.SourceBitDepth {
	case 32:
		return float64(snd.Buf.Data[idx]) / float64(0x7FFFFFFF)
	case 24:
		return float64(snd.Buf.Data[idx]) / float64(0x7FFFFF)
	case 16:
		return float64(snd.Buf.Data[idx]) / float64(0x7FFF)
	case 8:
		return float64(snd.Buf.Data[idx]) / float64(0x7F)
	}
	return 0
}
