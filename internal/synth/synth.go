// Package synth defines the interface to the acoustic synthesis backend.
//
// The core treats the backend as opaque: it hands over one chunk of text
// with a voice style and modulation parameters, and gets samples back. The
// backend's failures pass through unchanged — the core neither interprets
// nor retries them; retries and timeouts belong to the caller.
package synth

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"

	"github.com/nerasch/lalia/internal/modulate"
	"github.com/nerasch/lalia/internal/segment"
)

// Result holds the audio produced for one chunk.
type Result struct {
	// Samples are signed 16-bit PCM, mono unless Channels says otherwise.
	Samples []int16

	// SampleRate in Hz.
	SampleRate int

	// Channels is the channel count (typically 1).
	Channels int

	// BitDepth is bits per sample (16 for PCM16).
	BitDepth int
}

// Synthesizer converts one text chunk to audio.
type Synthesizer interface {
	// Synthesize renders text with the given style and modulation
	// parameters. The call is synchronous; cancellation comes from ctx.
	Synthesize(ctx context.Context, text string, style segment.VoiceStyle, params modulate.Params) (*Result, error)

	// AudioParams returns the backend's output format as
	// (sampleRate, channels, bitDepth).
	AudioParams() (int, int, int)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// WriteWAV wraps samples in a RIFF/WAV container and writes it to w.
func WriteWAV(w io.Writer, samples []int16, sampleRate, channels int) error {
	pcm := &bytes.Buffer{}
	pcm.Grow(len(samples) * 2)
	for _, s := range samples {
		_ = binary.Write(pcm, binary.LittleEndian, s)
	}

	const bytesPerSample = 2
	dataLen := pcm.Len()

	var header bytes.Buffer
	header.WriteString("RIFF")
	_ = binary.Write(&header, binary.LittleEndian, uint32(36+dataLen))
	header.WriteString("WAVE")

	header.WriteString("fmt ")
	_ = binary.Write(&header, binary.LittleEndian, uint32(16)) // subchunk1 size
	_ = binary.Write(&header, binary.LittleEndian, uint16(1))  // PCM
	_ = binary.Write(&header, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&header, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&header, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	_ = binary.Write(&header, binary.LittleEndian, uint16(channels*bytesPerSample))
	_ = binary.Write(&header, binary.LittleEndian, uint16(bytesPerSample*8))

	header.WriteString("data")
	_ = binary.Write(&header, binary.LittleEndian, uint32(dataLen))

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(pcm.Bytes())
	return err
}

// BytesToSamples converts little-endian PCM16 bytes to samples. A trailing
// odd byte is ignored.
func BytesToSamples(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return samples
}
