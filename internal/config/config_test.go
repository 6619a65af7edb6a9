package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.AutonomyRatio != 0.7 {
		t.Errorf("expected default autonomy ratio 0.7, got %v", cfg.Engine.AutonomyRatio)
	}
	if cfg.Engine.MaxTokens != 100 {
		t.Errorf("expected default max tokens 100, got %d", cfg.Engine.MaxTokens)
	}
	if cfg.TTS.Backend != "mock" {
		t.Errorf("expected default backend mock, got %q", cfg.TTS.Backend)
	}
	if !cfg.Transports.HTTP.Enabled {
		t.Error("http transport should be enabled by default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lalia.yaml")
	body := `
engine:
  autonomy_ratio: 0.9
  saturation_threshold: 2.5
tts:
  backend: piper
  piper:
    endpoint: "tcp://piper.local:10200"
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.AutonomyRatio != 0.9 {
		t.Errorf("expected autonomy ratio 0.9, got %v", cfg.Engine.AutonomyRatio)
	}
	if cfg.Engine.SaturationThreshold != 2.5 {
		t.Errorf("expected saturation threshold 2.5, got %v", cfg.Engine.SaturationThreshold)
	}
	if cfg.TTS.Backend != "piper" {
		t.Errorf("expected backend piper, got %q", cfg.TTS.Backend)
	}
	// File values merge over defaults.
	if cfg.Engine.MaxTokens != 100 {
		t.Errorf("unset values should keep defaults, got max_tokens %d", cfg.Engine.MaxTokens)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		body string
	}{
		{"autonomy ratio out of range", "engine:\n  autonomy_ratio: 1.5\n"},
		{"weights do not sum to 1", "engine:\n  harmonic_weight: 0.9\n"},
		{"unknown backend", "tts:\n  backend: festival\n"},
		{"non-positive max tokens", "engine:\n  max_tokens: 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("LALIA_TEST_PATH", "/tmp/lalia-test.db")
	if got := resolveEnvRef("${LALIA_TEST_PATH}"); got != "/tmp/lalia-test.db" {
		t.Errorf("expected env expansion, got %q", got)
	}
	if got := resolveEnvRef("plain.db"); got != "plain.db" {
		t.Errorf("plain values must pass through, got %q", got)
	}
	if got := resolveEnvRef("${LALIA_UNSET_VAR}"); got != "${LALIA_UNSET_VAR}" {
		t.Errorf("unset vars keep the literal, got %q", got)
	}
}
