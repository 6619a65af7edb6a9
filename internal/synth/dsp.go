package synth

import "math"

// ApplyParams applies modulation parameters to raw PCM16 samples. The
// neural backend renders the words; pitch aside, delivery shaping happens
// here so every backend behaves the same:
//
//   - Rate resamples the signal (rate > 1 speaks faster).
//   - EnergyGain scales amplitude, clipped to the PCM16 range.
//   - Clarity below 1 blends in a one-pole low-pass of the signal, which
//     smears articulation toward mumble without ever silencing it.
//   - PhaseJitter periodically repeats a sample window, introducing the
//     timing irregularity confusion calls for. Deterministic: the jitter
//     pattern depends only on the parameters and the input.
func ApplyParams(samples []int16, rate, energyGain, clarity, phaseJitter float64) []int16 {
	if len(samples) == 0 {
		return samples
	}

	out := samples
	if rate > 0 && rate != 1 {
		out = resample(out, rate)
	}

	if clarity < 0 {
		clarity = 0
	}
	if clarity > 1 {
		clarity = 1
	}

	shaped := make([]int16, 0, len(out))
	var lowpass float64
	const smoothing = 0.15 // low-pass coefficient for the mumble blend
	for i, s := range out {
		v := float64(s)
		lowpass += smoothing * (v - lowpass)
		v = clarity*v + (1-clarity)*lowpass
		v *= energyGain
		shaped = append(shaped, clipPCM16(v))

		// Timing irregularity: stutter a short window at intervals that
		// shrink as jitter grows.
		if phaseJitter > 0.05 {
			interval := int(float64(len(out)) / (4 + 16*phaseJitter))
			if interval > 32 && i > 0 && i%interval == 0 {
				start := i - 32
				shaped = append(shaped, out[start:i]...)
			}
		}
	}
	return shaped
}

// resample stretches or compresses the signal by 1/rate using linear
// interpolation.
func resample(samples []int16, rate float64) []int16 {
	n := int(float64(len(samples)) / rate)
	if n < 1 {
		n = 1
	}
	out := make([]int16, n)
	for i := range out {
		pos := float64(i) * rate
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(float64(samples[j])*(1-frac) + float64(samples[j+1])*frac)
	}
	return out
}

func clipPCM16(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
