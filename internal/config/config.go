// Package config handles loading and validating the lalia configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the lalia daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Engine     EngineConfig     `mapstructure:"engine"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the ops server settings (health checks and metrics).
type ServerConfig struct {
	OpsPort int `mapstructure:"ops_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// EngineConfig holds the tunable constants of the affect engine. Every one
// of them is a knob with a product-default value, not a hard-coded magic
// number.
type EngineConfig struct {
	// AutonomyRatio is the probability that attention follows the top
	// salience score rather than a random event. In [0,1].
	AutonomyRatio float64 `mapstructure:"autonomy_ratio"`

	// Attention weights. Must sum to 1.
	HarmonicWeight float64 `mapstructure:"harmonic_weight"`
	JitterWeight   float64 `mapstructure:"jitter_weight"`
	SalienceWeight float64 `mapstructure:"salience_weight"`

	// SaturationThreshold bounds cumulative admitted wave contribution.
	SaturationThreshold float64 `mapstructure:"saturation_threshold"`

	// BabbleThreshold is the sleep-mode emotional intensity ceiling.
	BabbleThreshold float64 `mapstructure:"babble_threshold"`

	// RegulationDecayRate is the per-second decay of the admitted
	// amplitude accumulator.
	RegulationDecayRate float64 `mapstructure:"regulation_decay_rate"`

	// ShortTextThreshold is the character count under which text skips
	// segmentation.
	ShortTextThreshold int `mapstructure:"short_text_threshold"`

	// MaxTokens is the synthesis backend token capacity per chunk.
	MaxTokens int `mapstructure:"max_tokens"`

	// Style bucket boundaries, in tokens.
	ShortMaxTokens  int `mapstructure:"short_max_tokens"`
	MediumMaxTokens int `mapstructure:"medium_max_tokens"`

	// Interference envelope sampling.
	EnvelopeDuration   float64 `mapstructure:"envelope_duration"`
	EnvelopeSampleRate int     `mapstructure:"envelope_sample_rate"`

	// Seed makes the attention arbitrator reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultEngine returns the engine knobs at their product defaults. Used
// where no config file is in play (tests, one-shot CLI synthesis).
func DefaultEngine() EngineConfig {
	return EngineConfig{
		AutonomyRatio:       0.7,
		HarmonicWeight:      0.3,
		JitterWeight:        0.3,
		SalienceWeight:      0.4,
		SaturationThreshold: 5.0,
		BabbleThreshold:     0.2,
		RegulationDecayRate: 0.1,
		ShortTextThreshold:  50,
		MaxTokens:           100,
		ShortMaxTokens:      10,
		MediumMaxTokens:     40,
		EnvelopeDuration:    0.5,
		EnvelopeSampleRate:  8000,
	}
}

// TTSConfig selects and configures the synthesis backend.
type TTSConfig struct {
	Backend string      `mapstructure:"backend"` // "piper" or "mock"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
//
// Voices maps a voice style bucket ("short", "medium", "long") to a Piper
// voice model name, so short alerts and long passages get prosody profiles
// that fit them.
type PiperConfig struct {
	Endpoint string            `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voices   map[string]string `mapstructure:"voices"`   // style bucket -> Piper voice model name
}

// StoreConfig configures the optional utterance log.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./lalia.yaml, ./configs/lalia.yaml, /etc/lalia/lalia.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.ops_port", 8081)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("engine.autonomy_ratio", 0.7)
	v.SetDefault("engine.harmonic_weight", 0.3)
	v.SetDefault("engine.jitter_weight", 0.3)
	v.SetDefault("engine.salience_weight", 0.4)
	v.SetDefault("engine.saturation_threshold", 5.0)
	v.SetDefault("engine.babble_threshold", 0.2)
	v.SetDefault("engine.regulation_decay_rate", 0.1)
	v.SetDefault("engine.short_text_threshold", 50)
	v.SetDefault("engine.max_tokens", 100)
	v.SetDefault("engine.short_max_tokens", 10)
	v.SetDefault("engine.medium_max_tokens", 40)
	v.SetDefault("engine.envelope_duration", 0.5)
	v.SetDefault("engine.envelope_sample_rate", 8000)
	v.SetDefault("engine.seed", 0)
	v.SetDefault("tts.backend", "mock")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "lalia.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lalia")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/lalia")
	}

	// Environment variables: LALIA_SERVER_OPS_PORT, LALIA_TTS_BACKEND, etc.
	v.SetEnvPrefix("LALIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references (e.g., "${LALIA_DB}") in path fields.
	cfg.Store.Path = resolveEnvRef(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the numeric engine constants for consistency.
func (c *Config) Validate() error {
	e := c.Engine
	if e.AutonomyRatio < 0 || e.AutonomyRatio > 1 {
		return fmt.Errorf("engine.autonomy_ratio %v must be in [0,1]", e.AutonomyRatio)
	}
	sum := e.HarmonicWeight + e.JitterWeight + e.SalienceWeight
	if sum < 1-1e-6 || sum > 1+1e-6 {
		return fmt.Errorf("engine attention weights must sum to 1, got %v", sum)
	}
	if e.SaturationThreshold <= 0 {
		return fmt.Errorf("engine.saturation_threshold %v must be positive", e.SaturationThreshold)
	}
	if e.MaxTokens <= 0 {
		return fmt.Errorf("engine.max_tokens %d must be positive", e.MaxTokens)
	}
	if e.EnvelopeSampleRate <= 0 {
		return fmt.Errorf("engine.envelope_sample_rate %d must be positive", e.EnvelopeSampleRate)
	}
	switch c.TTS.Backend {
	case "piper", "mock":
	default:
		return fmt.Errorf("unknown tts backend %q", c.TTS.Backend)
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
