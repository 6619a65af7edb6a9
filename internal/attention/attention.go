// Package attention implements salience-based attention arbitration.
//
// Given several simultaneous sensory events, the arbitrator autonomously
// promotes one to conscious processing. Most of the time it follows a
// composite salience score; some of the time it deliberately ignores the
// score and picks at random. That split — the autonomy ratio — is the
// designed "70% control, 30% free will" behavior, and the random draw is
// reproducible when the arbitrator is seeded.
package attention

import (
	"fmt"
	"math/rand/v2"
)

// SignalType classifies what kind of stimulus an event represents.
type SignalType int

const (
	Unknown SignalType = iota
	Voice
	Music
	Environmental
)

// String returns the lowercase name of the signal type.
func (s SignalType) String() string {
	switch s {
	case Voice:
		return "voice"
	case Music:
		return "music"
	case Environmental:
		return "environmental"
	default:
		return "unknown"
	}
}

// SalienceEvent is one sensory candidate for attention. Events are value
// objects: created per sensory sample, consumed by a single Decide call,
// and never retained.
type SalienceEvent struct {
	// Timestamp is a monotonic sample counter, used for tie-breaking.
	Timestamp uint64 `json:"timestamp"`

	// JitterScore in [0,1]; lower means more temporally stable/familiar.
	JitterScore float64 `json:"jitter_score"`

	// HarmonicScore in [0,1]; higher means more tonal/voice-like.
	HarmonicScore float64 `json:"harmonic_score"`

	// SalienceScore in [0,1] is an externally computed importance prior.
	SalienceScore float64 `json:"salience_score"`

	// SignalType classifies the stimulus.
	SignalType SignalType `json:"signal_type"`
}

// Weights are the composite score coefficients. They must sum to 1.
type Weights struct {
	Harmonic float64 // weight on HarmonicScore
	Jitter   float64 // weight on (1 − JitterScore)
	Salience float64 // weight on SalienceScore
}

// DefaultWeights favors intrinsic salience slightly over stability and
// tonality.
var DefaultWeights = Weights{Harmonic: 0.3, Jitter: 0.3, Salience: 0.4}

// weightsEpsilon is the tolerance for the sum-to-one check.
const weightsEpsilon = 1e-6

// Validate reports whether the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Harmonic < 0 || w.Jitter < 0 || w.Salience < 0 {
		return fmt.Errorf("attention weights must not be negative: %+v", w)
	}
	sum := w.Harmonic + w.Jitter + w.Salience
	if sum < 1-weightsEpsilon || sum > 1+weightsEpsilon {
		return fmt.Errorf("attention weights must sum to 1, got %v", sum)
	}
	return nil
}

// DefaultAutonomyRatio is the probability of following the top score.
const DefaultAutonomyRatio = 0.7

// Arbitrator selects one salience event among competitors. Not safe for
// concurrent use; the owning engine serializes access.
type Arbitrator struct {
	weights Weights
	ratio   float64
	rng     *rand.Rand
}

// Option configures an Arbitrator during construction.
type Option func(*Arbitrator)

// WithWeights overrides the composite score weights.
func WithWeights(w Weights) Option {
	return func(a *Arbitrator) { a.weights = w }
}

// WithAutonomyRatio overrides the probability of following the top score.
// The ratio must stay in [0,1]; out-of-range values are ignored.
func WithAutonomyRatio(p float64) Option {
	return func(a *Arbitrator) {
		if p >= 0 && p <= 1 {
			a.ratio = p
		}
	}
}

// WithSeed makes the random draw reproducible. Without a seed the
// arbitrator uses a process-wide entropy source.
func WithSeed(seed uint64) Option {
	return func(a *Arbitrator) {
		a.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// New returns an arbitrator with the default weights and autonomy ratio.
func New(opts ...Option) (*Arbitrator, error) {
	a := &Arbitrator{
		weights: DefaultWeights,
		ratio:   DefaultAutonomyRatio,
	}
	for _, o := range opts {
		o(a)
	}
	if err := a.weights.Validate(); err != nil {
		return nil, err
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a, nil
}

// Score returns the composite attention-worthiness of an event:
// w1·harmonic + w2·(1 − jitter) + w3·salience.
func (a *Arbitrator) Score(e SalienceEvent) float64 {
	return a.weights.Harmonic*e.HarmonicScore +
		a.weights.Jitter*(1-e.JitterScore) +
		a.weights.Salience*e.SalienceScore
}

// Policy names which arbitration branch produced a decision.
type Policy string

const (
	// PolicyTop means the arbitrator followed the highest score.
	PolicyTop Policy = "top"

	// PolicyRandom means the arbitrator exercised free will.
	PolicyRandom Policy = "random"
)

// Decide selects one event to promote to conscious processing, or nil for
// an empty input. With probability equal to the autonomy ratio it returns
// the highest-scoring event (ties break to the earliest timestamp, then
// input order); otherwise it returns a uniformly random event regardless
// of score.
//
// The returned event is a copy; callers read its SignalType and
// SalienceScore to drive downstream behavior.
func (a *Arbitrator) Decide(events []SalienceEvent) *SalienceEvent {
	e, _ := a.DecideExplained(events)
	return e
}

// DecideExplained is Decide plus the policy branch that fired, for
// observability.
func (a *Arbitrator) DecideExplained(events []SalienceEvent) (*SalienceEvent, Policy) {
	if len(events) == 0 {
		return nil, PolicyTop
	}

	if a.rng.Float64() >= a.ratio {
		chosen := events[a.rng.IntN(len(events))]
		return &chosen, PolicyRandom
	}

	chosen := events[a.top(events)]
	return &chosen, PolicyTop
}

// Top returns the highest-scoring event without applying the autonomy
// policy, or nil for an empty input. It never touches the random source,
// so it does not perturb a seeded sequence. Used by tests and diagnostics.
func (a *Arbitrator) Top(events []SalienceEvent) *SalienceEvent {
	if len(events) == 0 {
		return nil
	}
	chosen := events[a.top(events)]
	return &chosen
}

// top returns the index of the highest-scoring event. Ties break to the
// earliest timestamp, then input order.
func (a *Arbitrator) top(events []SalienceEvent) int {
	best := 0
	bestScore := a.Score(events[0])
	for i := 1; i < len(events); i++ {
		s := a.Score(events[i])
		switch {
		case s > bestScore:
			best, bestScore = i, s
		case s == bestScore && events[i].Timestamp < events[best].Timestamp:
			best = i
		}
	}
	return best
}
