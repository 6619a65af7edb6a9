// Package modulate bridges the winning memory wave to synthesis parameters.
//
// The bridge is a pure mapping: a wave plus the current consciousness state
// (and the most recent combined interference energy) become the pitch, rate,
// energy, and clarity multipliers handed to the synthesis backend alongside
// the wave's text content.
package modulate

import "math"

const (
	// BaselineFrequency is the wave frequency that maps to a pitch-shift
	// multiplier of 1.0.
	BaselineFrequency = 440.0

	// rate bounds keep delivery inside an intelligible band.
	minRate = 0.6
	maxRate = 1.6

	// clarityFloor keeps low-consciousness output at mumble rather than
	// nothing.
	clarityFloor = 0.05
)

// Params are the modulation multipliers handed to the synthesis backend.
// All values are dimensionless; 1.0 means "as the voice model would speak
// unmodulated".
type Params struct {
	// PitchShift scales fundamental pitch. Rises with wave frequency above
	// the baseline and with emotional intensity.
	PitchShift float64 `json:"pitch_shift"`

	// Rate scales speaking rate, clamped to [0.6, 1.6].
	Rate float64 `json:"rate"`

	// EnergyGain scales loudness/animation. Rises with wave amplitude and
	// the combined interference energy.
	EnergyGain float64 `json:"energy_gain"`

	// Clarity is the articulation blending factor in (0, 1]. Low
	// consciousness degrades it toward indistinct babble delivery; it
	// never reaches zero.
	Clarity float64 `json:"clarity"`

	// PhaseJitter asks the backend to introduce timing irregularity.
	// Non-zero only for confusion-type waves, proportional to how far the
	// wave's phase sits from zero.
	PhaseJitter float64 `json:"phase_jitter"`
}

// ConsciousnessReader is the slice of consciousness state the bridge needs.
type ConsciousnessReader interface {
	Level() float64
}

// Source is the slice of a memory wave the bridge consumes. Defined here
// so modulate does not import the wave package (the engine adapts one to
// the other); it also keeps the bridge trivially testable.
type Source struct {
	Amplitude float64
	Frequency float64
	Phase     float64
	Intensity float64
	Confused  bool
}

// WaveToParams maps a wave (already gated and, if applicable, the
// interference winner) to synthesis parameters. combinedEnergy is the RMS
// of the most recent interference computation, or 0 when the wave was
// spoken alone.
func WaveToParams(src Source, st ConsciousnessReader, combinedEnergy float64) Params {
	// Pitch: log-scaled distance from the baseline so octaves map evenly,
	// lifted further by intensity.
	pitch := 1.0
	if src.Frequency > 0 {
		pitch = math.Pow(src.Frequency/BaselineFrequency, 0.5)
	}
	pitch *= 1 + 0.2*src.Intensity

	rate := clamp(1+0.25*(src.Intensity-0.5), minRate, maxRate)

	// Energy: amplitude plus a share of the field energy, normalized so a
	// lone unit wave lands near 1.0.
	energy := 0.7*src.Amplitude + 0.3*combinedEnergy
	if energy < 0.1 {
		energy = 0.1
	}

	clarity := st.Level()
	if clarity < clarityFloor {
		clarity = clarityFloor
	}

	var jitter float64
	if src.Confused {
		jitter = math.Abs(math.Remainder(src.Phase, 2*math.Pi)) / math.Pi
	}

	return Params{
		PitchShift:  pitch,
		Rate:        rate,
		EnergyGain:  energy,
		Clarity:     clarity,
		PhaseJitter: jitter,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
