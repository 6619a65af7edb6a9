// Package http implements the HTTP transport for lalia.
//
// This transport exposes a REST API for speech synthesis and consciousness
// control. Audio comes back base64-encoded WAV inside the JSON response so
// web clients can hand it straight to an <audio> element.
package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nerasch/lalia/internal/attention"
	_ "github.com/nerasch/lalia/internal/docs" // registers the OpenAPI spec
	"github.com/nerasch/lalia/internal/engine"
	"github.com/nerasch/lalia/internal/modulate"
	"github.com/nerasch/lalia/internal/segment"
	"github.com/nerasch/lalia/internal/synth"
	"github.com/nerasch/lalia/internal/wave"
)

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// SpeakRequest is the body of POST /speak.
type SpeakRequest struct {
	Text string `json:"text"`
}

// WaveRequest is the body of POST /speak/wave and an element of the
// POST /interfere body.
type WaveRequest struct {
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Phase     float64 `json:"phase"`
	DecayRate float64 `json:"decay_rate"`
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
	Content   string  `json:"content"`
}

// InterfereRequest is the body of POST /interfere.
type InterfereRequest struct {
	Waves []WaveRequest `json:"waves"`
}

// SpeakResponse carries one synthesized utterance.
type SpeakResponse struct {
	Text       string          `json:"text"`
	Chunks     []segment.Chunk `json:"chunks"`
	Params     modulate.Params `json:"params"`
	Warnings   []string        `json:"warnings,omitempty"`
	SampleRate int             `json:"sample_rate"`

	// AudioWAV is the full WAV file, base64-encoded.
	AudioWAV string `json:"audio_wav"`
}

// InterfereResponse pairs the interference analysis with the spoken result.
type InterfereResponse struct {
	DominantIndex  int            `json:"dominant_index"`
	CombinedEnergy float64        `json:"combined_energy"`
	Utterance      *SpeakResponse `json:"utterance,omitempty"`
}

// AttentionRequest is the body of POST /attention.
type AttentionRequest struct {
	Events []attention.SalienceEvent `json:"events"`
}

// Listen starts the HTTP server and routes incoming requests to the engine.
func (t *Transport) Listen(ctx context.Context, eng *engine.Engine) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /speak", func(w http.ResponseWriter, r *http.Request) {
		t.handleSpeak(w, r, eng)
	})
	mux.HandleFunc("POST /speak/wave", func(w http.ResponseWriter, r *http.Request) {
		t.handleSpeakWave(w, r, eng)
	})
	mux.HandleFunc("POST /interfere", func(w http.ResponseWriter, r *http.Request) {
		t.handleInterfere(w, r, eng)
	})
	mux.HandleFunc("POST /attention", func(w http.ResponseWriter, r *http.Request) {
		t.handleAttention(w, r, eng)
	})
	mux.HandleFunc("POST /babble", func(w http.ResponseWriter, r *http.Request) {
		utt, err := eng.Babble(r.Context())
		if err != nil {
			http.Error(w, "babble error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, utteranceResponse(utt))
	})

	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, eng.State())
	})
	mux.HandleFunc("POST /wake", func(w http.ResponseWriter, r *http.Request) {
		eng.Wake()
		writeJSON(w, eng.State())
	})
	mux.HandleFunc("POST /sleep", func(w http.ResponseWriter, r *http.Request) {
		eng.Sleep()
		writeJSON(w, eng.State())
	})
	mux.HandleFunc("POST /grow", func(w http.ResponseWriter, r *http.Request) {
		eng.Grow()
		writeJSON(w, eng.State())
	})

	// Swagger UI — serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleSpeak processes a POST /speak request.
//
// @Summary     Speak plain text
// @Description Normalizes and segments the text, synthesizes each chunk with
// @Description neutral modulation, and returns the concatenated audio as
// @Description base64-encoded WAV.
// @Tags        speech
// @Accept      json
// @Produce     json
// @Param       request  body      SpeakRequest  true  "Text to speak"
// @Success     200  {object}  SpeakResponse  "Synthesized utterance"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     500  {string}  string  "Synthesis error"
// @Router      /speak [post]
func (t *Transport) handleSpeak(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	var req SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	utt, err := eng.Speak(r.Context(), req.Text)
	if err != nil {
		slog.Error("speak failed", "error", err)
		http.Error(w, "synthesis error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, utteranceResponse(utt))
}

// handleSpeakWave processes a POST /speak/wave request.
//
// @Summary     Speak a memory wave
// @Description Runs the wave through the regulation gate and, if admitted,
// @Description speaks its content with modulation derived from the wave.
// @Tags        speech
// @Accept      json
// @Produce     json
// @Param       request  body      WaveRequest  true  "Memory wave"
// @Success     200  {object}  SpeakResponse  "Synthesized utterance"
// @Failure     400  {string}  string  "Invalid request body or wave"
// @Failure     409  {string}  string  "Wave suppressed by the regulation gate"
// @Failure     500  {string}  string  "Synthesis error"
// @Router      /speak/wave [post]
func (t *Transport) handleSpeakWave(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	var req WaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	utt, err := eng.SpeakWave(r.Context(), req.toWave())
	switch {
	case errors.Is(err, engine.ErrSuppressed):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, wave.ErrInvalidWave):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("speak wave failed", "error", err)
		http.Error(w, "synthesis error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, utteranceResponse(utt))
}

// handleInterfere processes a POST /interfere request.
//
// @Summary     Superpose memory waves and speak the winner
// @Description Computes the interference of the supplied waves, selects the
// @Description dominant one, gates it, and speaks its content. The response
// @Description carries the analysis even when nothing was spoken.
// @Tags        speech
// @Accept      json
// @Produce     json
// @Param       request  body      InterfereRequest  true  "Competing memory waves"
// @Success     200  {object}  InterfereResponse  "Interference result"
// @Failure     400  {string}  string  "Invalid request body or wave"
// @Failure     409  {string}  string  "Dominant wave suppressed by the regulation gate"
// @Failure     500  {string}  string  "Synthesis error"
// @Router      /interfere [post]
func (t *Transport) handleInterfere(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	var req InterfereRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	waves := make([]wave.MemoryWave, len(req.Waves))
	for i, wr := range req.Waves {
		waves[i] = wr.toWave()
	}

	res, utt, err := eng.ProcessInterference(r.Context(), waves)
	switch {
	case errors.Is(err, engine.ErrSuppressed):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, wave.ErrInvalidWave):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("interfere failed", "error", err)
		http.Error(w, "synthesis error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := InterfereResponse{
		DominantIndex:  res.DominantIndex,
		CombinedEnergy: res.CombinedEnergy,
	}
	if utt != nil {
		resp.Utterance = utteranceResponse(utt)
	}
	writeJSON(w, resp)
}

// handleAttention processes a POST /attention request.
//
// @Summary     Arbitrate among salience events
// @Description Scores the supplied events and returns the one the speaker
// @Description attends to, or 204 when there is nothing to attend to.
// @Tags        attention
// @Accept      json
// @Produce     json
// @Param       request  body      AttentionRequest  true  "Candidate salience events"
// @Success     200  {object}  attention.SalienceEvent  "Chosen event"
// @Success     204  {string}  string  "No events supplied"
// @Failure     400  {string}  string  "Invalid request body"
// @Router      /attention [post]
func (t *Transport) handleAttention(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	var req AttentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	chosen, err := eng.ProcessSalience(r.Context(), req.Events)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if chosen == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, chosen)
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

func (r WaveRequest) toWave() wave.MemoryWave {
	return wave.MemoryWave{
		Amplitude: r.Amplitude,
		Frequency: r.Frequency,
		Phase:     r.Phase,
		DecayRate: r.DecayRate,
		Emotion: wave.Emotion{
			Kind:      wave.ParseEmotionKind(r.Emotion),
			Intensity: r.Intensity,
		},
		Content: r.Content,
	}
}

func utteranceResponse(utt *engine.Utterance) *SpeakResponse {
	var buf bytes.Buffer
	_ = synth.WriteWAV(&buf, utt.Samples, utt.SampleRate, utt.Channels)
	return &SpeakResponse{
		Text:       utt.Text,
		Chunks:     utt.Chunks,
		Params:     utt.Params,
		Warnings:   utt.Warnings,
		SampleRate: utt.SampleRate,
		AudioWAV:   base64.StdEncoding.EncodeToString(buf.Bytes()),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
