// Package engine wires the affect subsystems into one speaking pipeline.
//
// The engine owns the consciousness state and serializes all access to the
// stateful components (the regulation gate and the arbitrator) — one
// engine is one logical speaker, and concurrent sessions get independent
// engines. Everything below the engine boundary is a pure, synchronous
// computation; the only I/O on the synthesis path is the backend call
// itself, which the engine neither retries nor interprets.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nerasch/lalia/internal/attention"
	"github.com/nerasch/lalia/internal/config"
	"github.com/nerasch/lalia/internal/conscious"
	"github.com/nerasch/lalia/internal/modulate"
	"github.com/nerasch/lalia/internal/observe"
	"github.com/nerasch/lalia/internal/regulation"
	"github.com/nerasch/lalia/internal/segment"
	"github.com/nerasch/lalia/internal/store"
	"github.com/nerasch/lalia/internal/synth"
	"github.com/nerasch/lalia/internal/textnorm"
	"github.com/nerasch/lalia/internal/wave"
)

// ErrSuppressed signals that the regulation gate refused a wave. It is an
// expected outcome, not a failure: the caller observes it and moves on.
var ErrSuppressed = errors.New("wave suppressed by regulation gate")

// Utterance is the audio produced for one spoken input, with everything a
// caller needs about how it came to sound the way it does.
type Utterance struct {
	// Text is the normalized input that was synthesized.
	Text string `json:"text"`

	// Chunks are the ordered segments sent to the backend.
	Chunks []segment.Chunk `json:"chunks"`

	// Samples are the concatenated PCM16 samples, chunk order, no added
	// silence.
	Samples []int16 `json:"-"`

	// SampleRate, Channels, BitDepth describe the sample format.
	SampleRate int `json:"sample_rate"`
	Channels   int `json:"channels"`
	BitDepth   int `json:"bit_depth"`

	// Params are the modulation parameters used for every chunk.
	Params modulate.Params `json:"params"`

	// Warnings collects non-fatal issues (unsupported characters, forced
	// splits). Never empty silently: every fallback on the way here is
	// reported.
	Warnings []string `json:"warnings,omitempty"`
}

// Engine is one speaking session.
type Engine struct {
	mu sync.Mutex

	cfg     config.EngineConfig
	state   *conscious.State
	gate    *regulation.Gate
	arb     *attention.Arbitrator
	backend synth.Synthesizer
	metrics *observe.Metrics
	log     *store.SQLiteStore // nil when the utterance log is disabled
	segOpts segment.Options

	clock    func() time.Time
	started  time.Time
	lastTick time.Time
}

// Options configures an Engine.
type Options struct {
	Config  config.EngineConfig
	Backend synth.Synthesizer
	Metrics *observe.Metrics

	// Store, when non-nil, receives one log row per utterance.
	Store *store.SQLiteStore

	// Clock overrides time.Now for tests.
	Clock func() time.Time
}

// New creates an engine from options. Backend and Metrics are required.
func New(opts Options) (*Engine, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("engine requires a synthesis backend")
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("engine requires metrics")
	}

	cfg := opts.Config
	arbOpts := []attention.Option{
		attention.WithWeights(attention.Weights{
			Harmonic: cfg.HarmonicWeight,
			Jitter:   cfg.JitterWeight,
			Salience: cfg.SalienceWeight,
		}),
		attention.WithAutonomyRatio(cfg.AutonomyRatio),
	}
	if cfg.Seed != 0 {
		arbOpts = append(arbOpts, attention.WithSeed(cfg.Seed))
	}
	arb, err := attention.New(arbOpts...)
	if err != nil {
		return nil, fmt.Errorf("building arbitrator: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	return &Engine{
		cfg:   cfg,
		state: conscious.New(),
		gate: regulation.NewGate(
			regulation.WithSaturationThreshold(cfg.SaturationThreshold),
			regulation.WithBabbleThreshold(cfg.BabbleThreshold),
			regulation.WithDecayRate(cfg.RegulationDecayRate),
		),
		arb:     arb,
		backend: opts.Backend,
		metrics: opts.Metrics,
		log:     opts.Store,
		segOpts: segment.Options{
			MaxTokens:          cfg.MaxTokens,
			ShortTextThreshold: cfg.ShortTextThreshold,
			ShortMaxTokens:     cfg.ShortMaxTokens,
			MediumMaxTokens:    cfg.MediumMaxTokens,
		},
		clock:    clock,
		started:  now,
		lastTick: now,
	}, nil
}

// now returns seconds since engine construction and advances consciousness
// decay. Callers hold e.mu.
func (e *Engine) now() float64 {
	t := e.clock()
	e.state.Tick(t.Sub(e.lastTick).Seconds())
	e.lastTick = t
	return t.Sub(e.started).Seconds()
}

// Wake marks the speaker awake at full consciousness.
func (e *Engine) Wake() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now()
	e.state.Wake()
	slog.Info("engine awake")
}

// Sleep marks the speaker asleep; consciousness decays from here.
func (e *Engine) Sleep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now()
	e.state.Sleep()
	slog.Info("engine asleep")
}

// Grow raises the vocabulary growth stage. Irreversible within a session.
func (e *Engine) Grow() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Grow()
	slog.Info("engine grew", "stage", e.state.GrowthStage())
}

// Snapshot is a read-only view of the engine's consciousness state.
type Snapshot struct {
	Awake       bool    `json:"awake"`
	Level       float64 `json:"level"`
	GrowthStage int     `json:"growth_stage"`
}

// State returns the current consciousness snapshot.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now()
	return Snapshot{
		Awake:       e.state.Awake(),
		Level:       e.state.Level(),
		GrowthStage: e.state.GrowthStage(),
	}
}

// AudioParams returns the backend output format as
// (sampleRate, channels, bitDepth).
func (e *Engine) AudioParams() (int, int, int) {
	return e.backend.AudioParams()
}

// Speak synthesizes plain text with neutral modulation. Clarity still
// tracks the consciousness level, so a sleepy engine mumbles even neutral
// text.
func (e *Engine) Speak(ctx context.Context, text string) (*Utterance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now()

	params := modulate.WaveToParams(modulate.Source{
		Amplitude: 1,
		Frequency: modulate.BaselineFrequency,
	}, e.state, 0)
	return e.speak(ctx, text, params, "neutral", 0)
}

// SpeakWave gates a memory wave and, if admitted, speaks its content with
// modulation derived from the wave. A refused wave returns ErrSuppressed
// with no audio and no state change.
func (e *Engine) SpeakWave(ctx context.Context, w wave.MemoryWave) (*Utterance, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()

	if !e.gate.Admit(w, e.state, now) {
		reason := "saturation"
		if !e.state.Awake() {
			reason = "sleep"
		}
		e.metrics.RecordSuppressed(ctx, reason)
		slog.Debug("wave suppressed",
			"reason", reason, "emotion", w.Emotion.Kind.String(), "intensity", w.Emotion.Intensity)
		return nil, fmt.Errorf("%w: %s", ErrSuppressed, reason)
	}

	params := modulate.WaveToParams(waveSource(w), e.state, 0)
	return e.speak(ctx, w.Content, params, w.Emotion.Kind.String(), w.Emotion.Intensity)
}

// ProcessInterference superposes waves, selects the dominant one, and
// speaks its content with modulation scaled by the combined field energy.
// The interference result is returned alongside the utterance so callers
// can inspect the envelope. The dominant wave still has to pass the gate;
// when it is refused the interference result comes back with ErrSuppressed
// and no audio.
func (e *Engine) ProcessInterference(ctx context.Context, waves []wave.MemoryWave) (*wave.InterferenceResult, *Utterance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()

	res, err := wave.Interfere(waves, 0, e.cfg.EnvelopeDuration, e.cfg.EnvelopeSampleRate)
	if err != nil {
		return nil, nil, err
	}
	if res.DominantIndex < 0 {
		// Nothing competing, nothing to say.
		return res, nil, nil
	}

	dominant := res.Dominant
	if !e.gate.Admit(dominant, e.state, now) {
		reason := "saturation"
		if !e.state.Awake() {
			reason = "sleep"
		}
		e.metrics.RecordSuppressed(ctx, reason)
		return res, nil, fmt.Errorf("%w: %s", ErrSuppressed, reason)
	}

	params := modulate.WaveToParams(waveSource(dominant), e.state, res.CombinedEnergy)
	utt, err := e.speak(ctx, dominant.Content, params, dominant.Emotion.Kind.String(), dominant.Emotion.Intensity)
	return res, utt, err
}

// DecideAttention arbitrates among salience events. Nil for empty input.
func (e *Engine) DecideAttention(ctx context.Context, events []attention.SalienceEvent) *attention.SalienceEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	chosen, policy := e.arb.DecideExplained(events)
	if chosen != nil {
		e.metrics.RecordDecision(ctx, string(policy))
		slog.Debug("attention decided",
			"signal", chosen.SignalType.String(), "salience", chosen.SalienceScore, "policy", string(policy))
	}
	return chosen
}

// ProcessSalience is DecideAttention with input validation: every score
// must sit in [0,1]. Transports use it; internal callers that construct
// events themselves call DecideAttention directly.
func (e *Engine) ProcessSalience(ctx context.Context, events []attention.SalienceEvent) (*attention.SalienceEvent, error) {
	for i, ev := range events {
		if !inUnit(ev.JitterScore) || !inUnit(ev.HarmonicScore) || !inUnit(ev.SalienceScore) {
			return nil, fmt.Errorf("salience event %d: scores must be in [0,1]", i)
		}
	}
	return e.DecideAttention(ctx, events), nil
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

// Babble speaks developmental babble sized by the growth stage: a stage-0
// speaker manages a couple of syllables, later stages string more
// together. The syllable sequence is deterministic per stage.
func (e *Engine) Babble(ctx context.Context) (*Utterance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now()

	params := modulate.WaveToParams(modulate.Source{
		Amplitude: 0.5,
		Frequency: 180,
		Intensity: 0.1,
	}, e.state, 0)
	return e.speak(ctx, babbleText(e.state.GrowthStage()), params, "neutral", 0.1)
}

// speak runs normalize → segment → per-chunk synthesis → concatenate.
// Callers hold e.mu.
func (e *Engine) speak(ctx context.Context, text string, params modulate.Params, emotion string, intensity float64) (*Utterance, error) {
	start := e.clock()

	clean, warnings := textnorm.Normalize(text)
	chunks, splitWarnings := segment.Segment(clean, e.segOpts)
	warnings = append(warnings, splitWarnings...)

	utt := &Utterance{
		Text:     clean,
		Chunks:   chunks,
		Params:   params,
		Warnings: warnings,
	}
	utt.SampleRate, utt.Channels, utt.BitDepth = e.backend.AudioParams()
	for _, warning := range warnings {
		slog.Warn("synthesis warning", "warning", warning)
	}
	if len(chunks) == 0 {
		return utt, nil
	}

	for _, c := range chunks {
		res, err := e.backend.Synthesize(ctx, c.Text, c.Style, params)
		if err != nil {
			e.metrics.SynthesisErrors.Add(ctx, 1)
			return nil, fmt.Errorf("chunk %d: %w", c.Index, err)
		}
		utt.Samples = append(utt.Samples, res.Samples...)
		utt.SampleRate, utt.Channels, utt.BitDepth = res.SampleRate, res.Channels, res.BitDepth
		e.metrics.RecordChunk(ctx, string(c.Style))
	}

	e.metrics.SynthesisDuration.Record(ctx, e.clock().Sub(start).Seconds())
	e.metrics.ConsciousnessLevel.Record(ctx, e.state.Level())
	slog.Info("utterance synthesized",
		"chunks", len(chunks), "samples", len(utt.Samples), "warnings", len(warnings), "emotion", emotion)

	if e.log != nil {
		styles := make([]string, len(chunks))
		for i, c := range chunks {
			styles[i] = string(c.Style)
		}
		if _, err := e.log.Log(store.Utterance{
			Text:        clean,
			Emotion:     emotion,
			Intensity:   intensity,
			Styles:      styles,
			ChunkCount:  len(chunks),
			SampleCount: len(utt.Samples),
			Warnings:    warnings,
		}); err != nil {
			// The log is observability, not the product; a failed insert
			// must not fail the utterance.
			slog.Error("utterance log failed", "error", err)
		}
	}

	return utt, nil
}

// waveSource adapts a memory wave to the modulation bridge's input.
func waveSource(w wave.MemoryWave) modulate.Source {
	return modulate.Source{
		Amplitude: w.Amplitude,
		Frequency: w.Frequency,
		Phase:     w.Phase,
		Intensity: w.Emotion.Intensity,
		Confused:  w.Emotion.Kind == wave.Confusion,
	}
}

// babbleSyllables is the developmental babble inventory.
var babbleSyllables = []string{"ba", "da", "ga", "ma", "pa", "na", "wa", "ya"}

// babbleText builds a deterministic babble string for a growth stage.
func babbleText(stage int) string {
	count := 2 + stage*2
	if count > 12 {
		count = 12
	}
	parts := make([]string, count)
	for i := range parts {
		parts[i] = babbleSyllables[(i*(stage+3))%len(babbleSyllables)]
	}
	return strings.Join(parts, " ")
}
