package synth

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriteWAV_Header(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	var buf bytes.Buffer
	if err := WriteWAV(&buf, samples, 22050, 1); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	b := buf.Bytes()
	if len(b) != 44+len(samples)*2 {
		t.Fatalf("expected %d bytes, got %d", 44+len(samples)*2, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if rate := binary.LittleEndian.Uint32(b[24:28]); rate != 22050 {
		t.Errorf("expected sample rate 22050, got %d", rate)
	}
	if bits := binary.LittleEndian.Uint16(b[34:36]); bits != 16 {
		t.Errorf("expected 16 bits per sample, got %d", bits)
	}
	if dataLen := binary.LittleEndian.Uint32(b[40:44]); dataLen != uint32(len(samples)*2) {
		t.Errorf("expected data length %d, got %d", len(samples)*2, dataLen)
	}
}

func TestBytesToSamples_RoundTrip(t *testing.T) {
	want := []int16{0, 42, -42, 32767, -32768}
	pcm := make([]byte, len(want)*2)
	for i, s := range want {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	got := BytesToSamples(pcm)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestApplyParams_EnergyScales(t *testing.T) {
	in := []int16{1000, -1000, 1000, -1000}
	loud := ApplyParams(in, 1, 2.0, 1, 0)
	for i := range loud {
		if abs16(loud[i]) <= abs16(in[i]) {
			t.Errorf("sample %d not amplified: %d vs %d", i, loud[i], in[i])
		}
	}
}

func TestApplyParams_EnergyClipsToPCM16(t *testing.T) {
	in := []int16{30000, -30000}
	out := ApplyParams(in, 1, 10, 1, 0)
	if out[0] != 32767 || out[1] != -32768 {
		t.Errorf("expected hard clip, got %v", out)
	}
}

func TestApplyParams_RateChangesLength(t *testing.T) {
	in := make([]int16, 1000)
	fast := ApplyParams(in, 2.0, 1, 1, 0)
	slow := ApplyParams(in, 0.5, 1, 1, 0)
	if len(fast) >= len(in) {
		t.Errorf("rate 2.0 should shorten the signal: %d >= %d", len(fast), len(in))
	}
	if len(slow) <= len(in) {
		t.Errorf("rate 0.5 should lengthen the signal: %d <= %d", len(slow), len(in))
	}
}

func TestApplyParams_LowClarityStillAudible(t *testing.T) {
	in := make([]int16, 2000)
	for i := range in {
		if i%2 == 0 {
			in[i] = 8000
		} else {
			in[i] = -8000
		}
	}
	out := ApplyParams(in, 1, 1, 0.05, 0)
	var energy int64
	for _, s := range out {
		energy += int64(abs16(s))
	}
	if energy == 0 {
		t.Error("low clarity must degrade, never silence")
	}
}

func TestApplyParams_JitterLengthens(t *testing.T) {
	in := make([]int16, 4000)
	out := ApplyParams(in, 1, 1, 1, 0.8)
	if len(out) <= len(in) {
		t.Errorf("phase jitter should insert stutter windows: %d <= %d", len(out), len(in))
	}
}

func TestApplyParams_Deterministic(t *testing.T) {
	in := make([]int16, 3000)
	for i := range in {
		in[i] = int16(i % 251 * 13)
	}
	a := ApplyParams(in, 1.1, 1.3, 0.7, 0.5)
	b := ApplyParams(in, 1.1, 1.3, 0.7, 0.5)
	if len(a) != len(b) {
		t.Fatal("lengths diverged")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d diverged", i)
		}
	}
}

func abs16(v int16) int32 {
	if v < 0 {
		return -int32(v)
	}
	return int32(v)
}
