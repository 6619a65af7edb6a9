package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/nerasch/lalia/internal/config"
	"github.com/nerasch/lalia/internal/engine"
	"github.com/nerasch/lalia/internal/observe"
	"github.com/nerasch/lalia/internal/synth/mock"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	cfg := config.DefaultEngine()
	cfg.Seed = 1
	eng, err := engine.New(engine.Options{
		Config:  cfg,
		Backend: mock.New(),
		Metrics: metrics,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

func TestHandleSpeak(t *testing.T) {
	eng := newTestEngine(t)
	tr := New(0)

	body, _ := json.Marshal(SpeakRequest{Text: "Hello there!"})
	req := httptest.NewRequest("POST", "/speak", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	tr.handleSpeak(rec, req, eng)

	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp SpeakResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Chunks) != 1 {
		t.Errorf("expected one chunk, got %d", len(resp.Chunks))
	}
	wav, err := base64.StdEncoding.DecodeString(resp.AudioWAV)
	if err != nil {
		t.Fatalf("audio is not valid base64: %v", err)
	}
	if len(wav) < 44 || string(wav[:4]) != "RIFF" {
		t.Error("audio is not a WAV file")
	}
}

func TestHandleSpeak_BadJSON(t *testing.T) {
	eng := newTestEngine(t)
	tr := New(0)

	req := httptest.NewRequest("POST", "/speak", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	tr.handleSpeak(rec, req, eng)

	if rec.Code != 400 {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSpeakWave_InvalidWave(t *testing.T) {
	eng := newTestEngine(t)
	tr := New(0)

	body, _ := json.Marshal(WaveRequest{Amplitude: 1, Frequency: 0, Content: "hi"})
	req := httptest.NewRequest("POST", "/speak/wave", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	tr.handleSpeakWave(rec, req, eng)

	if rec.Code != 400 {
		t.Errorf("expected 400 for zero frequency, got %d", rec.Code)
	}
}

func TestHandleSpeakWave_Suppressed(t *testing.T) {
	eng := newTestEngine(t)
	eng.Sleep()
	tr := New(0)

	body, _ := json.Marshal(WaveRequest{
		Amplitude: 1, Frequency: 440,
		Emotion: "joy", Intensity: 0.9,
		Content: "play with me",
	})
	req := httptest.NewRequest("POST", "/speak/wave", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	tr.handleSpeakWave(rec, req, eng)

	if rec.Code != 409 {
		t.Errorf("expected 409 for a suppressed wave, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleInterfere(t *testing.T) {
	eng := newTestEngine(t)
	tr := New(0)

	body, _ := json.Marshal(InterfereRequest{Waves: []WaveRequest{
		{Amplitude: 1.5, Frequency: 440, DecayRate: 0.1, Emotion: "curiosity", Intensity: 0.8, Content: "Where am I?"},
		{Amplitude: 2.5, Frequency: 528, DecayRate: 0.05, Emotion: "love", Intensity: 0.9, Content: "Mama!"},
	}})
	req := httptest.NewRequest("POST", "/interfere", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	tr.handleInterfere(rec, req, eng)

	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp InterfereResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.DominantIndex != 1 {
		t.Errorf("expected the love wave (index 1) to dominate, got %d", resp.DominantIndex)
	}
	if resp.Utterance == nil || resp.Utterance.Text != "Mama!" {
		t.Errorf("expected the dominant content to be spoken, got %+v", resp.Utterance)
	}
}

func TestHandleAttention_Empty(t *testing.T) {
	eng := newTestEngine(t)
	tr := New(0)

	body, _ := json.Marshal(AttentionRequest{})
	req := httptest.NewRequest("POST", "/attention", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	tr.handleAttention(rec, req, eng)

	if rec.Code != 204 {
		t.Errorf("expected 204 for no events, got %d", rec.Code)
	}
}
