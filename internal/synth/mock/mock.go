// Package mock provides a deterministic in-process synthesizer.
//
// It renders each chunk as a pitched sine burst whose length tracks the
// token count, then applies the same delivery shaping as the real
// backends. Tests use it to observe modulation without a running piper
// instance, and `lalia speak` falls back to it when no backend is
// configured.
package mock

import (
	"context"
	"math"

	"github.com/nerasch/lalia/internal/modulate"
	"github.com/nerasch/lalia/internal/segment"
	"github.com/nerasch/lalia/internal/synth"
)

const (
	sampleRate = 22050
	channels   = 1
	bitDepth   = 16

	// baseFrequency is the unmodulated burst pitch.
	baseFrequency = 220.0

	// secondsPerToken sizes the burst from the chunk's token count.
	secondsPerToken = 0.06
	minDuration     = 0.2
)

// Synthesizer is a deterministic synth.Synthesizer for tests and offline use.
type Synthesizer struct {
	// Err, when non-nil, is returned by every Synthesize call. Lets tests
	// exercise backend-failure pass-through.
	Err error

	// Calls records the text of each synthesize call in order.
	Calls []string
}

var _ synth.Synthesizer = (*Synthesizer)(nil)

// New returns a mock synthesizer.
func New() *Synthesizer { return &Synthesizer{} }

// AudioParams returns the output format as (sampleRate, channels, bitDepth).
func (s *Synthesizer) AudioParams() (int, int, int) {
	return sampleRate, channels, bitDepth
}

// Synthesize renders text as a shaped sine burst.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, style segment.VoiceStyle, params modulate.Params) (*synth.Result, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Calls = append(s.Calls, text)

	duration := secondsPerToken * float64(segment.CountTokens(text))
	if duration < minDuration {
		duration = minDuration
	}

	freq := baseFrequency
	if params.PitchShift > 0 {
		freq *= params.PitchShift
	}

	n := int(duration * sampleRate)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / sampleRate
		// Fade the burst in and out so chunk joins stay click-free.
		fade := math.Min(1, math.Min(t*20, (duration-t)*20))
		samples[i] = int16(8000 * fade * math.Sin(2*math.Pi*freq*t))
	}

	samples = synth.ApplyParams(samples, params.Rate, params.EnergyGain, params.Clarity, params.PhaseJitter)
	return &synth.Result{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}, nil
}

// Close is a no-op.
func (s *Synthesizer) Close() error { return nil }
