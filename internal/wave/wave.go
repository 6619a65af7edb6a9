// Package wave implements the memory wave interference engine.
//
// A memory wave is an ephemeral decaying oscillation representing one
// competing internal signal (a thought, a feeling, a need). When several
// waves are active at once they interfere: their time-domain signals sum
// into a single envelope, and exactly one wave wins dominance and goes on
// to drive voice modulation. Interference is a pure computation — given
// the same waves and the same instant it always produces the same result.
package wave

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWave is returned when a wave carries a non-positive frequency
// or a negative amplitude. Validation runs before any computation, so a
// rejected call leaves nothing partially computed.
var ErrInvalidWave = errors.New("invalid memory wave")

// EmotionKind identifies the affect a wave carries.
type EmotionKind int

const (
	Neutral EmotionKind = iota
	Joy
	Love
	Curiosity
	Confusion
	Fear
	Sadness
)

// String returns the lowercase name of the emotion kind.
func (k EmotionKind) String() string {
	switch k {
	case Neutral:
		return "neutral"
	case Joy:
		return "joy"
	case Love:
		return "love"
	case Curiosity:
		return "curiosity"
	case Confusion:
		return "confusion"
	case Fear:
		return "fear"
	case Sadness:
		return "sadness"
	default:
		return "unknown"
	}
}

// ParseEmotionKind maps a lowercase name back to its EmotionKind.
// Unrecognized names map to Neutral.
func ParseEmotionKind(s string) EmotionKind {
	switch s {
	case "joy":
		return Joy
	case "love":
		return Love
	case "curiosity":
		return Curiosity
	case "confusion":
		return Confusion
	case "fear":
		return Fear
	case "sadness":
		return Sadness
	default:
		return Neutral
	}
}

// Emotion tags a wave with an affect and how strongly it is felt.
type Emotion struct {
	// Kind is the affect category.
	Kind EmotionKind

	// Intensity is how strongly the affect is felt, in [0, 1].
	Intensity float64
}

// MemoryWave is one competing internal signal. Waves are value objects:
// callers construct one per event and the engine never retains them past
// the call that consumes them.
type MemoryWave struct {
	// Amplitude is the peak signal strength. Must be >= 0.
	Amplitude float64

	// Frequency is the oscillation rate in Hz. It is purely a modulation
	// parameter, never directly audible. Must be > 0.
	Frequency float64

	// Phase is the oscillation phase offset in radians, conceptually
	// wrapped to [0, 2π).
	Phase float64

	// DecayRate is the per-unit-time exponential decay of the amplitude.
	// Must be >= 0.
	DecayRate float64

	// Emotion is the affect this wave carries.
	Emotion Emotion

	// Content is the text payload whose delivery this wave represents.
	Content string
}

// Validate reports whether the wave's numeric fields are well-formed.
func (w MemoryWave) Validate() error {
	if w.Frequency <= 0 {
		return fmt.Errorf("%w: frequency %v must be positive", ErrInvalidWave, w.Frequency)
	}
	if w.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %v must not be negative", ErrInvalidWave, w.Amplitude)
	}
	if w.DecayRate < 0 {
		return fmt.Errorf("%w: decay rate %v must not be negative", ErrInvalidWave, w.DecayRate)
	}
	return nil
}

// Envelope returns the instantaneous envelope value A·e^(−decay·t) at t.
func (w MemoryWave) Envelope(t float64) float64 {
	return w.Amplitude * math.Exp(-w.DecayRate*t)
}

// Sample returns the instantaneous signal value at t:
// A·e^(−decay·t)·sin(2π·f·t + φ).
func (w MemoryWave) Sample(t float64) float64 {
	return w.Envelope(t) * math.Sin(2*math.Pi*w.Frequency*t+w.Phase)
}
