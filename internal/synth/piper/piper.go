// Package piper implements the synth.Synthesizer using a Piper Wyoming
// protocol server.
//
// Piper is a fast, local neural text-to-speech system. The linuxserver/piper
// container exposes the Wyoming protocol on TCP port 10200. This package
// implements a client for that protocol: one connection per chunk, a
// synthesize event out, audio events back. Delivery shaping (energy,
// clarity, jitter, rate) is applied to the returned PCM locally so piper
// behaves like every other backend.
//
// Wyoming protocol format (per event):
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
package piper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/nerasch/lalia/internal/config"
	"github.com/nerasch/lalia/internal/modulate"
	"github.com/nerasch/lalia/internal/segment"
	"github.com/nerasch/lalia/internal/synth"
)

// defaultVoices maps voice style buckets to Piper voice model names. The
// short bucket gets a crisper low-quality voice that does not linger;
// longer buckets get the medium-quality models that breathe better over
// full sentences.
var defaultVoices = map[segment.VoiceStyle]string{
	segment.StyleShort:  "en_US-lessac-low",
	segment.StyleMedium: "en_US-lessac-medium",
	segment.StyleLong:   "en_US-libritts-high",
}

// Synthesizer implements synth.Synthesizer using the Wyoming protocol.
type Synthesizer struct {
	endpoint string
	voices   map[segment.VoiceStyle]string

	// last observed output format; defaults until the first audio-start.
	sampleRate int
	channels   int
}

var _ synth.Synthesizer = (*Synthesizer)(nil)

// New creates a new Piper synthesizer from config.
func New(cfg config.PiperConfig) *Synthesizer {
	voices := make(map[segment.VoiceStyle]string, len(defaultVoices))
	for k, v := range defaultVoices {
		voices[k] = v
	}
	for style, v := range cfg.Voices {
		voices[segment.VoiceStyle(style)] = v
	}

	endpoint := strings.TrimPrefix(cfg.Endpoint, "tcp://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	return &Synthesizer{
		endpoint:   endpoint,
		voices:     voices,
		sampleRate: 22050,
		channels:   1,
	}
}

// AudioParams returns the output format as (sampleRate, channels, bitDepth).
func (s *Synthesizer) AudioParams() (int, int, int) {
	return s.sampleRate, s.channels, 16
}

// Synthesize sends one chunk to the Piper server and returns shaped PCM.
// Backend failures pass through unchanged; there are no retries here.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, style segment.VoiceStyle, params modulate.Params) (*synth.Result, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	if s.endpoint == "" {
		return nil, fmt.Errorf("no piper endpoint configured")
	}

	voice := s.voices[style]
	if voice == "" {
		voice = s.voices[segment.StyleMedium]
	}

	slog.Debug("piper synthesize",
		"text_length", len(text), "voice", voice, "style", style, "endpoint", s.endpoint)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	synthEvent := wyomingEvent{
		Type: "synthesize",
		Data: map[string]any{
			"text": text,
			"voice": map[string]any{
				"name": voice,
			},
		},
	}
	if err := writeEvent(conn, synthEvent, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	var pcmBuf bytes.Buffer
	sampleRate := s.sampleRate
	channels := s.channels

	for {
		evt, payload, err := readEvent(conn)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			if rate, ok := evt.Data["rate"].(float64); ok {
				sampleRate = int(rate)
			}
			if ch, ok := evt.Data["channels"].(float64); ok {
				channels = int(ch)
			}
			slog.Debug("piper audio-start", "rate", sampleRate, "channels", channels)

		case "audio-chunk":
			if len(payload) > 0 {
				pcmBuf.Write(payload)
			}

		case "audio-stop":
			slog.Debug("piper audio-stop", "pcm_bytes", pcmBuf.Len())
			s.sampleRate = sampleRate
			s.channels = channels
			samples := synth.BytesToSamples(pcmBuf.Bytes())
			samples = synth.ApplyParams(samples, params.Rate, params.EnergyGain, params.Clarity, params.PhaseJitter)
			return &synth.Result{
				Samples:    samples,
				SampleRate: sampleRate,
				Channels:   channels,
				BitDepth:   16,
			}, nil

		case "error":
			msg := "unknown error"
			if text, ok := evt.Data["text"].(string); ok {
				msg = text
			}
			return nil, fmt.Errorf("piper error: %s", msg)

		default:
			slog.Debug("piper unknown event", "type", evt.Type)
		}
	}
}

// Close is a no-op — connections are per-request.
func (s *Synthesizer) Close() error { return nil }

// --- Wyoming protocol helpers ---

type wyomingEvent struct {
	Type          string         `json:"type"`
	Data          map[string]any `json:"data,omitempty"`
	PayloadLength int            `json:"payload_length,omitempty"`
}

// writeEvent sends a Wyoming event over the connection.
func writeEvent(w io.Writer, evt wyomingEvent, payload []byte) error {
	evt.PayloadLength = 0 // omit from JSON; length goes in the header line
	jsonBytes, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	// Header: <json_length> <payload_length>\n
	header := fmt.Sprintf("%d %d\n", len(jsonBytes), len(payload))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	// JSON + newline
	if _, err := w.Write(jsonBytes); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	// Payload (if any)
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}

	return nil
}

// readEvent reads a Wyoming event from the connection.
func readEvent(r io.Reader) (*wyomingEvent, []byte, error) {
	// Read header line: "<json_length> <payload_length>\n"
	headerBuf := make([]byte, 0, 64)
	oneByte := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, oneByte); err != nil {
			return nil, nil, fmt.Errorf("reading header: %w", err)
		}
		if oneByte[0] == '\n' {
			break
		}
		headerBuf = append(headerBuf, oneByte[0])
	}

	parts := strings.SplitN(string(headerBuf), " ", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid wyoming header: %q", string(headerBuf))
	}

	jsonLen, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing json_length: %w", err)
	}
	payloadLen, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing payload_length: %w", err)
	}

	// Read JSON + trailing newline.
	jsonBuf := make([]byte, jsonLen+1) // +1 for the \n
	if _, err := io.ReadFull(r, jsonBuf); err != nil {
		return nil, nil, fmt.Errorf("reading json: %w", err)
	}
	jsonBuf = jsonBuf[:jsonLen] // strip trailing newline

	var evt wyomingEvent
	if err := json.Unmarshal(jsonBuf, &evt); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling event: %w", err)
	}

	// Read payload.
	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("reading payload: %w", err)
		}
	}

	return &evt, payload, nil
}
