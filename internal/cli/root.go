// Package cli implements the lalia CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerasch/lalia/internal/config"
	"github.com/nerasch/lalia/internal/synth"
	"github.com/nerasch/lalia/internal/synth/mock"
	"github.com/nerasch/lalia/internal/synth/piper"
)

var configFile string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "lalia",
	Short: "Affect-driven speech synthesis daemon",
	Long: "lalia turns competing emotional memory waves into modulated speech.\n" +
		"Run `lalia serve` for the daemon or `lalia speak` for one-shot synthesis.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: lalia.yaml in ., ./configs, /etc/lalia)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newBackend builds the configured synthesis backend.
func newBackend(cfg config.TTSConfig) (synth.Synthesizer, error) {
	switch cfg.Backend {
	case "piper":
		return piper.New(cfg.Piper), nil
	case "mock", "":
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.Backend)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
