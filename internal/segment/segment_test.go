package segment

import (
	"strings"
	"testing"
)

func TestSegment_EmptyInput(t *testing.T) {
	chunks, warnings := Segment("", DefaultOptions())
	if chunks != nil || warnings != nil {
		t.Errorf("expected nil results for empty input, got %v / %v", chunks, warnings)
	}
}

func TestSegment_ShortTextSingleChunk(t *testing.T) {
	chunks, warnings := Segment("short", DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Style != StyleShort {
		t.Errorf("expected style %q, got %q", StyleShort, chunks[0].Style)
	}
	if chunks[0].Index != 0 || chunks[0].TokenCount != 1 {
		t.Errorf("unexpected chunk %+v", chunks[0])
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestSegment_ShortAlertBypassesSentenceSplitting(t *testing.T) {
	// Under the character threshold the whole alert is one chunk even
	// though it contains several sentences.
	chunks, _ := Segment("Error! Check logs. Now.", DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("expected single-pass synthesis for a short alert, got %d chunks", len(chunks))
	}
}

func TestSegment_FitsWithinBudget(t *testing.T) {
	text := strings.Repeat("word ", 60) + "done."
	chunks, warnings := Segment(text, DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("61 tokens against budget 100 should be one chunk, got %d", len(chunks))
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestSegment_SplitsAtSentenceBoundaries(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTokens = 10

	sentence := "The quick brown fox jumps over the lazy dog."
	text := sentence + " " + sentence + " " + sentence
	chunks, warnings := Segment(text, opts)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 sentence chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.TokenCount > opts.MaxTokens {
			t.Errorf("chunk %d has %d tokens over budget %d", i, c.TokenCount, opts.MaxTokens)
		}
		if !strings.HasSuffix(c.Text, "dog.") {
			t.Errorf("chunk %d lost its sentence boundary: %q", i, c.Text)
		}
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestSegment_PacksShortSentences(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTokens = 12

	text := strings.TrimSpace(strings.Repeat("Two words. ", 20)) // 40 tokens
	chunks, _ := Segment(text, opts)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// Consecutive short sentences should be packed together, not one
	// chunk per sentence.
	if len(chunks) >= 20 {
		t.Errorf("short sentences were not packed: %d chunks", len(chunks))
	}
}

func TestSegment_HardSplitWarnsOnOversizedSentence(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTokens = 10

	// One unbroken 35-token "sentence".
	text := strings.TrimSpace(strings.Repeat("word ", 35))
	chunks, warnings := Segment(text, opts)
	if len(warnings) != 1 {
		t.Fatalf("expected one forced-split warning, got %v", warnings)
	}
	for i, c := range chunks {
		if c.TokenCount > opts.MaxTokens {
			t.Errorf("chunk %d has %d tokens over budget", i, c.TokenCount)
		}
	}
}

func TestSegment_RoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTokens = 15

	texts := []string{
		"This is the first sentence. Here comes a second one! And a third? " +
			strings.TrimSpace(strings.Repeat("filler ", 30)) + ". The end.",
		strings.TrimSpace(strings.Repeat("unbroken ", 40)),
	}
	for _, text := range texts {
		chunks, _ := Segment(text, opts)
		var parts []string
		for _, c := range chunks {
			parts = append(parts, c.Text)
		}
		if got := strings.Join(parts, " "); got != text {
			t.Errorf("round trip failed:\n got %q\nwant %q", got, text)
		}
	}
}

func TestStyleFor_Buckets(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		tokens int
		want   VoiceStyle
	}{
		{1, StyleShort},
		{10, StyleShort},
		{11, StyleMedium},
		{40, StyleMedium},
		{41, StyleLong},
		{500, StyleLong},
	}
	for _, tc := range cases {
		if got := opts.StyleFor(tc.tokens); got != tc.want {
			t.Errorf("StyleFor(%d) = %q, want %q", tc.tokens, got, tc.want)
		}
	}
}
