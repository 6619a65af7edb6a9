package modulate

import (
	"math"
	"testing"
)

type fixedLevel float64

func (f fixedLevel) Level() float64 { return float64(f) }

func TestWaveToParams_BaselineFrequencyIsUnityPitch(t *testing.T) {
	p := WaveToParams(Source{Amplitude: 1, Frequency: BaselineFrequency}, fixedLevel(1), 0)
	if math.Abs(p.PitchShift-1.0) > 1e-12 {
		t.Errorf("440 Hz at zero intensity should map to pitch 1.0, got %v", p.PitchShift)
	}
}

func TestWaveToParams_PitchRisesWithFrequencyAndIntensity(t *testing.T) {
	low := WaveToParams(Source{Amplitude: 1, Frequency: 350, Intensity: 0.2}, fixedLevel(1), 0)
	high := WaveToParams(Source{Amplitude: 1, Frequency: 528, Intensity: 0.2}, fixedLevel(1), 0)
	if high.PitchShift <= low.PitchShift {
		t.Errorf("pitch should rise with frequency: %v <= %v", high.PitchShift, low.PitchShift)
	}

	calm := WaveToParams(Source{Amplitude: 1, Frequency: 440, Intensity: 0.1}, fixedLevel(1), 0)
	excited := WaveToParams(Source{Amplitude: 1, Frequency: 440, Intensity: 0.9}, fixedLevel(1), 0)
	if excited.PitchShift <= calm.PitchShift {
		t.Errorf("pitch should rise with intensity: %v <= %v", excited.PitchShift, calm.PitchShift)
	}
}

func TestWaveToParams_EnergyScalesWithAmplitudeAndField(t *testing.T) {
	quiet := WaveToParams(Source{Amplitude: 0.5, Frequency: 440}, fixedLevel(1), 0)
	loud := WaveToParams(Source{Amplitude: 2.5, Frequency: 440}, fixedLevel(1), 0)
	if loud.EnergyGain <= quiet.EnergyGain {
		t.Errorf("energy should rise with amplitude: %v <= %v", loud.EnergyGain, quiet.EnergyGain)
	}

	alone := WaveToParams(Source{Amplitude: 1, Frequency: 440}, fixedLevel(1), 0)
	crowded := WaveToParams(Source{Amplitude: 1, Frequency: 440}, fixedLevel(1), 2.0)
	if crowded.EnergyGain <= alone.EnergyGain {
		t.Errorf("energy should rise with combined interference energy: %v <= %v", crowded.EnergyGain, alone.EnergyGain)
	}
}

func TestWaveToParams_ClarityTracksConsciousnessButNeverZero(t *testing.T) {
	awake := WaveToParams(Source{Amplitude: 1, Frequency: 440}, fixedLevel(1.0), 0)
	if awake.Clarity != 1.0 {
		t.Errorf("full consciousness should give clarity 1.0, got %v", awake.Clarity)
	}

	deep := WaveToParams(Source{Amplitude: 1, Frequency: 440}, fixedLevel(0), 0)
	if deep.Clarity <= 0 {
		t.Error("clarity must never reach zero")
	}
}

func TestWaveToParams_ConfusionAddsPhaseJitter(t *testing.T) {
	confused := WaveToParams(Source{Amplitude: 1, Frequency: 200, Phase: 3.14, Intensity: 0.8, Confused: true}, fixedLevel(1), 0)
	if confused.PhaseJitter <= 0.9 {
		t.Errorf("phase near π should yield jitter near 1, got %v", confused.PhaseJitter)
	}

	calm := WaveToParams(Source{Amplitude: 1, Frequency: 200, Phase: 3.14, Intensity: 0.8}, fixedLevel(1), 0)
	if calm.PhaseJitter != 0 {
		t.Errorf("non-confusion waves must not jitter, got %v", calm.PhaseJitter)
	}

	zeroPhase := WaveToParams(Source{Amplitude: 1, Frequency: 200, Confused: true}, fixedLevel(1), 0)
	if zeroPhase.PhaseJitter != 0 {
		t.Errorf("zero phase should yield zero jitter even when confused, got %v", zeroPhase.PhaseJitter)
	}
}

func TestWaveToParams_RateStaysClamped(t *testing.T) {
	for _, intensity := range []float64{0, 0.5, 1} {
		p := WaveToParams(Source{Amplitude: 1, Frequency: 440, Intensity: intensity}, fixedLevel(1), 0)
		if p.Rate < 0.6 || p.Rate > 1.6 {
			t.Errorf("rate %v outside [0.6, 1.6] at intensity %v", p.Rate, intensity)
		}
	}
}
