// Package regulation implements the emotional regulation gate.
//
// The gate decides whether a candidate wave may drive speech right now. It
// keeps a rolling accumulator of admitted amplitude that decays with the
// same exponential law as individual waves; admitting a wave that would
// push the accumulator past the saturation threshold is refused. Refusal
// is an expected signal — the caller observes it and moves on — and a
// refused call leaves the accumulator untouched.
//
// While the speaker is asleep the gate inverts its posture: only waves
// whose emotional intensity stays below the babble threshold pass, so a
// sleeping speaker mumbles quiet ambient content instead of belting out
// high-intensity emotion.
package regulation

import (
	"math"

	"github.com/nerasch/lalia/internal/conscious"
	"github.com/nerasch/lalia/internal/wave"
)

const (
	// DefaultSaturationThreshold bounds the sum of admitted contributions.
	DefaultSaturationThreshold = 5.0

	// DefaultBabbleThreshold is the sleep-mode intensity ceiling.
	DefaultBabbleThreshold = 0.2

	// DefaultDecayRate is the per-second exponential decay of the
	// accumulator between admissions.
	DefaultDecayRate = 0.1
)

// Gate admits or suppresses candidate waves based on saturation state.
// Not safe for concurrent use; the owning engine serializes access.
type Gate struct {
	saturation float64
	babble     float64
	decayRate  float64

	accumulated float64
	lastAdmit   float64
}

// Option configures a Gate during construction.
type Option func(*Gate)

// WithSaturationThreshold overrides the saturation threshold.
func WithSaturationThreshold(v float64) Option {
	return func(g *Gate) {
		if v > 0 {
			g.saturation = v
		}
	}
}

// WithBabbleThreshold overrides the sleep-mode intensity ceiling.
func WithBabbleThreshold(v float64) Option {
	return func(g *Gate) {
		if v > 0 {
			g.babble = v
		}
	}
}

// WithDecayRate overrides the accumulator decay rate.
func WithDecayRate(v float64) Option {
	return func(g *Gate) {
		if v >= 0 {
			g.decayRate = v
		}
	}
}

// NewGate returns a gate with an empty accumulator.
func NewGate(opts ...Option) *Gate {
	g := &Gate{
		saturation: DefaultSaturationThreshold,
		babble:     DefaultBabbleThreshold,
		decayRate:  DefaultDecayRate,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Accumulated returns the current admitted-amplitude measure, decayed to
// now. Exposed for observability; the engine reports it as a gauge.
func (g *Gate) Accumulated(now float64) float64 {
	return g.decayedTo(now)
}

// Admit reports whether candidate may drive speech at time now (seconds,
// monotonic from an engine-chosen origin). A true return records the
// candidate's contribution in the accumulator; a false return mutates
// nothing. Deterministic given identical gate state and inputs.
func (g *Gate) Admit(candidate wave.MemoryWave, st *conscious.State, now float64) bool {
	if !st.Awake() {
		// Sleep: only low-intensity ambient waves pass, and they do not
		// count toward saturation — sleepy babble is quiet by contract.
		return candidate.Emotion.Intensity < g.babble
	}

	contribution := candidate.Amplitude * candidate.Emotion.Intensity
	decayed := g.decayedTo(now)
	if decayed+contribution > g.saturation {
		return false
	}

	g.accumulated = decayed + contribution
	g.lastAdmit = now
	return true
}

// decayedTo returns the accumulator value after exponential decay from the
// last admission to now. Time never runs backwards for the gate; a caller
// handing in an earlier now is treated as no elapsed time.
func (g *Gate) decayedTo(now float64) float64 {
	dt := now - g.lastAdmit
	if dt <= 0 {
		return g.accumulated
	}
	return g.accumulated * math.Exp(-g.decayRate*dt)
}
