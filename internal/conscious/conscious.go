// Package conscious owns the process-wide consciousness state.
//
// One State belongs to exactly one engine instance — there is no package
// level singleton. The state is mutated only through its lifecycle methods
// (Wake, Sleep, Grow, Tick); everything else reads it. Concurrent sessions
// get independent instances, and concurrent access to a single instance
// must be serialized by the caller (one logical speaker at a time).
package conscious

import "math"

const (
	// wakeLevel is the consciousness level set on waking.
	wakeLevel = 1.0

	// sleepDecayRate is the exponential decay applied to the level while
	// asleep. Same law as memory wave amplitude decay.
	sleepDecayRate = 0.4

	// levelFloor keeps the level from reaching zero: a sleeping speaker
	// mumbles, it does not go silent.
	levelFloor = 0.05
)

// State tracks whether the speaker is awake, how clear its articulation can
// be, and how far its vocabulary has grown.
type State struct {
	awake       bool
	level       float64
	growthStage int
}

// New returns an awake state at full consciousness.
func New() *State {
	return &State{awake: true, level: wakeLevel}
}

// Awake reports whether the speaker is awake.
func (s *State) Awake() bool { return s.awake }

// Level returns the consciousness level in [levelFloor, 1]. It bounds
// modulation clarity: low values degrade articulation toward babble, they
// never silence output.
func (s *State) Level() float64 { return s.level }

// GrowthStage returns the vocabulary growth stage. It only ever rises.
func (s *State) GrowthStage() int { return s.growthStage }

// Wake marks the speaker awake and restores full consciousness.
func (s *State) Wake() {
	s.awake = true
	s.level = wakeLevel
}

// Sleep marks the speaker asleep. The level is not dropped immediately; it
// decays over subsequent Tick calls, so speech trails off rather than
// cutting out.
func (s *State) Sleep() {
	s.awake = false
}

// Grow raises the growth stage by one. Growth is irreversible within a
// session.
func (s *State) Grow() {
	s.growthStage++
}

// Tick advances the state by dt seconds. While asleep the consciousness
// level decays exponentially toward the floor; while awake it holds.
func (s *State) Tick(dt float64) {
	if s.awake || dt <= 0 {
		return
	}
	s.level *= math.Exp(-sleepDecayRate * dt)
	if s.level < levelFloor {
		s.level = levelFloor
	}
}
