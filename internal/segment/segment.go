// Package segment splits normalized text into token-bounded chunks for the
// synthesis backend and tags each chunk with a voice style.
//
// The backend has a fixed token capacity per request; arbitrarily long
// input has to be cut to fit while keeping natural cadence. Sentence
// boundaries are preferred cut points; a single sentence that exceeds the
// budget is hard-split at the token boundary nearest the limit, which is
// reported as a warning, never as a failure. Very short alerts skip
// segmentation entirely — splitting them at sentence level produced
// inconsistent cadence.
package segment

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxTokens is the backend token capacity per chunk.
	DefaultMaxTokens = 100

	// DefaultShortTextThreshold is the character count under which text is
	// synthesized in one pass without segmentation.
	DefaultShortTextThreshold = 50

	// Default style bucket boundaries, in tokens.
	DefaultShortMaxTokens  = 10
	DefaultMediumMaxTokens = 40
)

// VoiceStyle is the discrete prosody profile chosen per chunk. A single
// fixed style clips words on long chunks and drags on very short ones, so
// each chunk picks its own bucket from its token count.
type VoiceStyle string

const (
	StyleShort  VoiceStyle = "short"
	StyleMedium VoiceStyle = "medium"
	StyleLong   VoiceStyle = "long"
)

// Chunk is one ordered text fragment. Index defines the concatenation
// order of backend-returned audio; the caller invokes the backend per
// chunk and joins samples in index order with no added silence.
type Chunk struct {
	Text       string     `json:"text"`
	TokenCount int        `json:"token_count"`
	Style      VoiceStyle `json:"style"`
	Index      int        `json:"index"`
}

// Options configures segmentation behavior.
type Options struct {
	MaxTokens          int
	ShortTextThreshold int
	ShortMaxTokens     int
	MediumMaxTokens    int
}

// DefaultOptions returns the default segmentation options.
func DefaultOptions() Options {
	return Options{
		MaxTokens:          DefaultMaxTokens,
		ShortTextThreshold: DefaultShortTextThreshold,
		ShortMaxTokens:     DefaultShortMaxTokens,
		MediumMaxTokens:    DefaultMediumMaxTokens,
	}
}

// StyleFor returns the voice style bucket for a chunk of n tokens.
func (o Options) StyleFor(n int) VoiceStyle {
	switch {
	case n <= o.ShortMaxTokens:
		return StyleShort
	case n <= o.MediumMaxTokens:
		return StyleMedium
	default:
		return StyleLong
	}
}

// CountTokens returns the token count of text. Tokens are whitespace
// delimited words — a documented approximation of the backend's phoneme
// tokenizer that errs on the conservative side.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// Segment splits text into ordered chunks, each within the token budget,
// and returns any forced-split warnings. Joining the chunk texts in index
// order with single spaces reconstructs the input exactly (the input is
// expected to be normalized, with single-space separators).
func Segment(text string, opts Options) ([]Chunk, []string) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	// Short alerts synthesize in a single pass regardless of budget.
	if len(text) < opts.ShortTextThreshold {
		n := CountTokens(text)
		return []Chunk{{Text: text, TokenCount: n, Style: opts.StyleFor(n), Index: 0}}, nil
	}

	if n := CountTokens(text); n <= opts.MaxTokens {
		return []Chunk{{Text: text, TokenCount: n, Style: opts.StyleFor(n), Index: 0}}, nil
	}

	var (
		pieces   []string
		warnings []string
	)
	for _, sentence := range splitSentences(text) {
		n := CountTokens(sentence)
		if n <= opts.MaxTokens {
			pieces = append(pieces, sentence)
			continue
		}
		// Oversized sentence: hard-split at the token boundary nearest
		// the limit. Best effort, reported, never fatal.
		words := strings.Fields(sentence)
		for len(words) > 0 {
			cut := min(opts.MaxTokens, len(words))
			pieces = append(pieces, strings.Join(words[:cut], " "))
			words = words[cut:]
		}
		warnings = append(warnings,
			fmt.Sprintf("sentence of %d tokens exceeds budget %d, hard-split at token boundary", n, opts.MaxTokens))
	}

	// Greedily pack consecutive pieces into budget-sized chunks so short
	// sentences do not each become a stilted little utterance.
	var chunks []Chunk
	var cur []string
	curTokens := 0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		joined := strings.Join(cur, " ")
		chunks = append(chunks, Chunk{
			Text:       joined,
			TokenCount: curTokens,
			Style:      opts.StyleFor(curTokens),
			Index:      len(chunks),
		})
		cur, curTokens = nil, 0
	}
	for _, p := range pieces {
		n := CountTokens(p)
		if curTokens+n > opts.MaxTokens {
			flush()
		}
		cur = append(cur, p)
		curTokens += n
	}
	flush()

	return chunks, warnings
}

// sentenceEnders are the runes that close a sentence.
const sentenceEnders = ".!?"

// splitSentences cuts text on sentence-ending punctuation followed by a
// space, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if strings.ContainsRune(sentenceEnders, runes[i]) && runes[i+1] == ' ' {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
