// Package observe provides application-wide observability primitives for
// lalia: OpenTelemetry metrics with a Prometheus exporter bridge so the
// ops server can serve a standard /metrics endpoint.
//
// Tests should use [NewMetrics] with a custom [metric.MeterProvider]
// backed by a ManualReader to avoid cross-test pollution.
package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all lalia metrics.
const meterName = "github.com/nerasch/lalia"

// Metrics holds all OpenTelemetry metric instruments for the daemon. All
// fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// SynthesisDuration tracks per-utterance synthesis latency in seconds.
	SynthesisDuration metric.Float64Histogram

	// ChunksSynthesized counts chunks sent to the backend. Use with
	// attribute.String("style", ...).
	ChunksSynthesized metric.Int64Counter

	// WavesSuppressed counts waves the regulation gate refused. Use with
	// attribute.String("reason", "saturation"|"sleep").
	WavesSuppressed metric.Int64Counter

	// AttentionDecisions counts arbitration outcomes. Use with
	// attribute.String("policy", "top"|"random") — only the caller knows
	// which branch fired, so the engine records it.
	AttentionDecisions metric.Int64Counter

	// SynthesisErrors counts backend failures passed through to callers.
	SynthesisErrors metric.Int64Counter

	// ConsciousnessLevel mirrors the engine's current level.
	ConsciousnessLevel metric.Float64Gauge
}

// NewMetrics creates all instruments from the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.SynthesisDuration, err = meter.Float64Histogram(
		"lalia.synthesis.duration",
		metric.WithDescription("Per-utterance synthesis latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.ChunksSynthesized, err = meter.Int64Counter(
		"lalia.synthesis.chunks",
		metric.WithDescription("Chunks sent to the synthesis backend"),
	); err != nil {
		return nil, err
	}
	if m.WavesSuppressed, err = meter.Int64Counter(
		"lalia.regulation.suppressed",
		metric.WithDescription("Waves refused by the regulation gate"),
	); err != nil {
		return nil, err
	}
	if m.AttentionDecisions, err = meter.Int64Counter(
		"lalia.attention.decisions",
		metric.WithDescription("Attention arbitration outcomes"),
	); err != nil {
		return nil, err
	}
	if m.SynthesisErrors, err = meter.Int64Counter(
		"lalia.synthesis.errors",
		metric.WithDescription("Backend synthesis failures"),
	); err != nil {
		return nil, err
	}
	if m.ConsciousnessLevel, err = meter.Float64Gauge(
		"lalia.consciousness.level",
		metric.WithDescription("Current consciousness level"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Default returns a Metrics instance backed by the globally registered
// meter provider. Call after InitProvider.
func Default() (*Metrics, error) {
	return NewMetrics(otel.GetMeterProvider())
}

// RecordChunk is a convenience wrapper for the chunk counter.
func (m *Metrics) RecordChunk(ctx context.Context, style string) {
	m.ChunksSynthesized.Add(ctx, 1, metric.WithAttributes(attribute.String("style", style)))
}

// RecordSuppressed is a convenience wrapper for the suppression counter.
func (m *Metrics) RecordSuppressed(ctx context.Context, reason string) {
	m.WavesSuppressed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordDecision is a convenience wrapper for the arbitration counter.
func (m *Metrics) RecordDecision(ctx context.Context, policy string) {
	m.AttentionDecisions.Add(ctx, 1, metric.WithAttributes(attribute.String("policy", policy)))
}
