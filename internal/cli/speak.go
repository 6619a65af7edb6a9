package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerasch/lalia/internal/config"
	"github.com/nerasch/lalia/internal/engine"
	"github.com/nerasch/lalia/internal/observe"
	"github.com/nerasch/lalia/internal/store"
	"github.com/nerasch/lalia/internal/synth"
	"github.com/nerasch/lalia/internal/wave"
)

var errNoTransports = errors.New("no transports enabled — enable at least one in config")

func init() {
	cmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "Synthesize text to a WAV file",
		Long: "One-shot synthesis. Text can be a positional arg or piped via stdin.\n" +
			"With --emotion the text is spoken as a memory wave and may be\n" +
			"suppressed by the regulation gate.",
		Run: runSpeak,
	}

	cmd.Flags().StringP("out", "o", "out.wav", "Output WAV path")
	cmd.Flags().StringP("emotion", "e", "", "Emotion kind: joy, love, curiosity, confusion, fear, sadness")
	cmd.Flags().Float64P("intensity", "i", 0.5, "Emotional intensity in [0,1]")
	cmd.Flags().Float64("amplitude", 1.0, "Wave amplitude")
	cmd.Flags().Float64("frequency", 440, "Wave frequency in Hz")
	cmd.Flags().Bool("log", false, "Record the utterance in the configured store")

	RootCmd.AddCommand(cmd)
}

func runSpeak(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")
	emotion, _ := cmd.Flags().GetString("emotion")
	intensity, _ := cmd.Flags().GetFloat64("intensity")
	amplitude, _ := cmd.Flags().GetFloat64("amplitude")
	frequency, _ := cmd.Flags().GetFloat64("frequency")
	logUtterance, _ := cmd.Flags().GetBool("log")

	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}
	if strings.TrimSpace(text) == "" {
		exitErr("speak", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("speak", err)
	}
	config.SetupLogging(cfg.Logging)

	metrics, err := observe.Default()
	if err != nil {
		exitErr("metrics", err)
	}

	backend, err := newBackend(cfg.TTS)
	if err != nil {
		exitErr("tts backend", err)
	}
	defer backend.Close()

	var utteranceLog *store.SQLiteStore
	if logUtterance && cfg.Store.Enabled {
		utteranceLog, err = store.Open(cfg.Store.Path)
		if err != nil {
			exitErr("utterance log", err)
		}
		defer utteranceLog.Close()
	}

	eng, err := engine.New(engine.Options{
		Config:  cfg.Engine,
		Backend: backend,
		Metrics: metrics,
		Store:   utteranceLog,
	})
	if err != nil {
		exitErr("engine", err)
	}

	ctx := context.Background()
	var utt *engine.Utterance
	if emotion == "" {
		utt, err = eng.Speak(ctx, text)
	} else {
		utt, err = eng.SpeakWave(ctx, wave.MemoryWave{
			Amplitude: amplitude,
			Frequency: frequency,
			Emotion: wave.Emotion{
				Kind:      wave.ParseEmotionKind(emotion),
				Intensity: intensity,
			},
			Content: text,
		})
	}
	if err != nil {
		exitErr("synthesis", err)
	}

	f, err := os.Create(out)
	if err != nil {
		exitErr("create output", err)
	}
	defer f.Close()
	if err := synth.WriteWAV(f, utt.Samples, utt.SampleRate, utt.Channels); err != nil {
		exitErr("write wav", err)
	}

	summary := map[string]any{
		"out":      out,
		"chunks":   len(utt.Chunks),
		"samples":  len(utt.Samples),
		"params":   utt.Params,
		"warnings": utt.Warnings,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)
}
