// Package grpc implements the gRPC transport for lalia.
//
// The server carries the standard gRPC health service so orchestrators can
// probe it with grpc_health_v1. Readiness tracks the engine's consciousness
// state: an asleep speaker reports NOT_SERVING for the speech service while
// the process itself stays SERVING.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nerasch/lalia/internal/engine"
)

// speechService is the health-service name clients probe for speech
// readiness.
const speechService = "lalia.speech"

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server with the health service registered.
func (t *Transport) Listen(ctx context.Context, eng *engine.Engine) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	t.server = grpc.NewServer()

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(t.server, healthSrv)

	// TODO: Register the generated SpeechService server here once proto is compiled.
	// pb.RegisterSpeechServiceServer(t.server, &speechServer{engine: eng})

	slog.Info("grpc transport listening", "port", t.port)

	go t.trackReadiness(ctx, eng, healthSrv)

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		healthSrv.Shutdown()
		t.server.GracefulStop()
	}()

	return t.server.Serve(lis)
}

// trackReadiness mirrors the engine's wake state into the speech service's
// health status.
func (t *Transport) trackReadiness(ctx context.Context, eng *engine.Engine, hs *health.Server) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := healthpb.HealthCheckResponse_SERVING
			if !eng.State().Awake {
				status = healthpb.HealthCheckResponse_NOT_SERVING
			}
			hs.SetServingStatus(speechService, status)
		}
	}
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	if t.server != nil {
		t.server.GracefulStop()
	}
	return nil
}
