package wave

import (
	"fmt"
	"math"
)

// dominanceEpsilon is the tolerance inside which two dominance metrics are
// considered tied; ties break to the earliest wave in the input order so
// the selection stays stable and deterministic.
const dominanceEpsilon = 1e-9

// InterferenceResult is the outcome of superposing a set of waves.
type InterferenceResult struct {
	// DominantIndex is the position in the input slice of the winning
	// wave, or -1 when the input was empty.
	DominantIndex int

	// Dominant is a copy of the winning wave. Zero-valued when the input
	// was empty.
	Dominant MemoryWave

	// Envelope is the pointwise sum of each wave's time-domain signal,
	// sampled over the requested duration. This is the physical
	// interference pattern, distinct from the dominance metric.
	Envelope []float64

	// CombinedEnergy is the root-mean-square of the summed samples. The
	// regulation layer reads it to detect overload, and the modulation
	// bridge scales delivery energy with it.
	CombinedEnergy float64
}

// Interfere superposes waves at atTime, returning the dominant wave and the
// combined interference envelope sampled over duration seconds at
// sampleRate samples per second.
//
// The dominant wave is the one maximizing envelope(atTime)·intensity — how
// loudly a wave is still ringing, weighted by how strongly it is felt.
// The envelope and energy describe all waves together.
//
// An empty input produces a neutral result (DominantIndex −1, nil envelope,
// zero energy) rather than an error. Any malformed wave rejects the whole
// call with ErrInvalidWave before computation starts.
func Interfere(waves []MemoryWave, atTime, duration float64, sampleRate int) (*InterferenceResult, error) {
	for i, w := range waves {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("wave %d: %w", i, err)
		}
	}
	if len(waves) == 0 {
		return &InterferenceResult{DominantIndex: -1}, nil
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %d must be positive", sampleRate)
	}
	if duration < 0 {
		return nil, fmt.Errorf("duration %v must not be negative", duration)
	}

	dominant := 0
	best := waves[0].Envelope(atTime) * waves[0].Emotion.Intensity
	for i := 1; i < len(waves); i++ {
		metric := waves[i].Envelope(atTime) * waves[i].Emotion.Intensity
		if metric > best+dominanceEpsilon {
			best = metric
			dominant = i
		}
	}

	n := int(duration * float64(sampleRate))
	envelope := make([]float64, n)
	var sumSquares float64
	for s := 0; s < n; s++ {
		t := float64(s) / float64(sampleRate)
		var v float64
		for _, w := range waves {
			v += w.Sample(t)
		}
		envelope[s] = v
		sumSquares += v * v
	}

	var energy float64
	if n > 0 {
		energy = math.Sqrt(sumSquares / float64(n))
	}

	return &InterferenceResult{
		DominantIndex:  dominant,
		Dominant:       waves[dominant],
		Envelope:       envelope,
		CombinedEnergy: energy,
	}, nil
}
