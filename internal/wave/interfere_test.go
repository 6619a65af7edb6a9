package wave

import (
	"errors"
	"math"
	"testing"
)

func TestInterfere_EmptyInput(t *testing.T) {
	res, err := Interfere(nil, 0, 0.1, 8000)
	if err != nil {
		t.Fatalf("Interfere: %v", err)
	}
	if res.DominantIndex != -1 {
		t.Errorf("expected DominantIndex -1, got %d", res.DominantIndex)
	}
	if res.CombinedEnergy != 0 {
		t.Errorf("expected zero energy, got %v", res.CombinedEnergy)
	}
}

func TestInterfere_RejectsInvalidWave(t *testing.T) {
	cases := []struct {
		name string
		w    MemoryWave
	}{
		{"zero frequency", MemoryWave{Amplitude: 1, Frequency: 0}},
		{"negative frequency", MemoryWave{Amplitude: 1, Frequency: -440}},
		{"negative amplitude", MemoryWave{Amplitude: -1, Frequency: 440}},
		{"negative decay", MemoryWave{Amplitude: 1, Frequency: 440, DecayRate: -0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Interfere([]MemoryWave{tc.w}, 0, 0.1, 8000)
			if !errors.Is(err, ErrInvalidWave) {
				t.Errorf("expected ErrInvalidWave, got %v", err)
			}
		})
	}
}

func TestInterfere_HigherAmplitudeDominatesAtZero(t *testing.T) {
	low := MemoryWave{Amplitude: 1.0, Frequency: 440, Emotion: Emotion{Kind: Joy, Intensity: 0.5}}
	high := MemoryWave{Amplitude: 2.0, Frequency: 440, Emotion: Emotion{Kind: Joy, Intensity: 0.5}}

	// Input order must not matter.
	for _, waves := range [][]MemoryWave{{low, high}, {high, low}} {
		res, err := Interfere(waves, 0, 0.01, 8000)
		if err != nil {
			t.Fatalf("Interfere: %v", err)
		}
		if res.Dominant.Amplitude != 2.0 {
			t.Errorf("expected amplitude 2.0 wave to dominate, got %v", res.Dominant.Amplitude)
		}
	}
}

func TestInterfere_LoveBeatsCuriosity(t *testing.T) {
	curiosity := MemoryWave{
		Amplitude: 1.5, Frequency: 440, DecayRate: 0.1,
		Emotion: Emotion{Kind: Curiosity, Intensity: 0.8},
		Content: "Where am I?",
	}
	love := MemoryWave{
		Amplitude: 2.5, Frequency: 528, DecayRate: 0.05,
		Emotion: Emotion{Kind: Love, Intensity: 0.9},
		Content: "Mama!",
	}

	res, err := Interfere([]MemoryWave{curiosity, love}, 0, 0.01, 8000)
	if err != nil {
		t.Fatalf("Interfere: %v", err)
	}
	// 1.5·0.8 = 1.2 vs 2.5·0.9 = 2.25
	if res.DominantIndex != 1 || res.Dominant.Emotion.Kind != Love {
		t.Errorf("expected love wave to dominate, got index %d kind %v",
			res.DominantIndex, res.Dominant.Emotion.Kind)
	}
}

func TestInterfere_TieBreaksToEarliest(t *testing.T) {
	a := MemoryWave{Amplitude: 1, Frequency: 440, Emotion: Emotion{Intensity: 0.5}, Content: "first"}
	b := MemoryWave{Amplitude: 1, Frequency: 300, Emotion: Emotion{Intensity: 0.5}, Content: "second"}

	res, err := Interfere([]MemoryWave{a, b}, 0, 0.01, 8000)
	if err != nil {
		t.Fatalf("Interfere: %v", err)
	}
	if res.DominantIndex != 0 {
		t.Errorf("tie should break to the earliest wave, got index %d", res.DominantIndex)
	}
}

func TestInterfere_Deterministic(t *testing.T) {
	waves := []MemoryWave{
		{Amplitude: 1.2, Frequency: 440.5, Phase: 0.1, DecayRate: 0.2, Emotion: Emotion{Kind: Joy, Intensity: 0.7}},
		{Amplitude: 1.8, Frequency: 350, DecayRate: 0.15, Emotion: Emotion{Kind: Neutral, Intensity: 0.3}},
	}

	first, err := Interfere(waves, 0.5, 0.05, 8000)
	if err != nil {
		t.Fatalf("Interfere: %v", err)
	}
	second, err := Interfere(waves, 0.5, 0.05, 8000)
	if err != nil {
		t.Fatalf("Interfere: %v", err)
	}
	if first.DominantIndex != second.DominantIndex || first.CombinedEnergy != second.CombinedEnergy {
		t.Error("repeated calls with identical inputs diverged")
	}
	for i := range first.Envelope {
		if first.Envelope[i] != second.Envelope[i] {
			t.Fatalf("envelope sample %d diverged", i)
		}
	}
}

func TestInterfere_EnergyIsRMS(t *testing.T) {
	// A single non-decaying wave's RMS converges on A/√2 over whole cycles.
	w := MemoryWave{Amplitude: 1, Frequency: 100, Emotion: Emotion{Intensity: 1}}
	res, err := Interfere([]MemoryWave{w}, 0, 1.0, 8000)
	if err != nil {
		t.Fatalf("Interfere: %v", err)
	}
	want := 1 / math.Sqrt2
	if math.Abs(res.CombinedEnergy-want) > 0.01 {
		t.Errorf("expected RMS ≈ %v, got %v", want, res.CombinedEnergy)
	}
}

func TestEnvelope_DecayMonotonic(t *testing.T) {
	w := MemoryWave{Amplitude: 2, Frequency: 440, DecayRate: 0.3}
	prev := w.Envelope(0)
	for _, tt := range []float64{0.1, 0.5, 1, 2, 5} {
		cur := w.Envelope(tt)
		if cur >= prev {
			t.Fatalf("envelope not strictly decreasing at t=%v: %v >= %v", tt, cur, prev)
		}
		prev = cur
	}
}

func TestEmotionKind_RoundTrip(t *testing.T) {
	for _, k := range []EmotionKind{Neutral, Joy, Love, Curiosity, Confusion, Fear, Sadness} {
		if got := ParseEmotionKind(k.String()); got != k {
			t.Errorf("ParseEmotionKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
}
