package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nerasch/lalia/internal/config"
	"github.com/nerasch/lalia/internal/engine"
	"github.com/nerasch/lalia/internal/health"
	"github.com/nerasch/lalia/internal/observe"
	"github.com/nerasch/lalia/internal/store"
	"github.com/nerasch/lalia/internal/transport"
	grpctransport "github.com/nerasch/lalia/internal/transport/grpc"
	httptransport "github.com/nerasch/lalia/internal/transport/http"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the speech synthesis daemon",
		Long: "Start the daemon with the configured transports, the ops server\n" +
			"(health checks and metrics), and the optional utterance log.",
		Run: runServe,
	})
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("serve", err)
	}
	config.SetupLogging(cfg.Logging)
	slog.Info("lalia starting", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "lalia",
		ServiceVersion: version,
	})
	if err != nil {
		exitErr("metrics provider", err)
	}
	defer func() { _ = shutdownMetrics(context.Background()) }()

	metrics, err := observe.Default()
	if err != nil {
		exitErr("metrics", err)
	}

	backend, err := newBackend(cfg.TTS)
	if err != nil {
		exitErr("tts backend", err)
	}
	defer backend.Close()
	slog.Info("tts backend ready", "backend", cfg.TTS.Backend)

	var utteranceLog *store.SQLiteStore
	if cfg.Store.Enabled {
		utteranceLog, err = store.Open(cfg.Store.Path)
		if err != nil {
			exitErr("utterance log", err)
		}
		defer utteranceLog.Close()
		slog.Info("utterance log open", "path", cfg.Store.Path)
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

	var transports []transport.Transport
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port))
	}
	if len(transports) == 0 {
		exitErr("serve", errNoTransports)
	}

	healthServer := health.New(cfg.Server.OpsPort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthServer.ListenAndServe(gctx)
	})
	for _, t := range transports {
		g.Go(func() error {
			slog.Info("starting transport", "name", t.Name())
			return t.Listen(gctx, eng)
		})
	}

	healthServer.SetReady(true)
	slog.Info("lalia ready",
		"transports", len(transports),
		"ops_port", cfg.Server.OpsPort)

	<-gctx.Done()
	slog.Info("shutdown signal received, draining...")

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	if err := g.Wait(); err != nil {
		slog.Error("serve finished with error", "error", err)
	}
	slog.Info("lalia stopped")
}
