// Package transport defines the interface for pluggable API transports.
//
// Each transport (gRPC, HTTP) exposes the speaking engine over its own
// protocol. Transports are thin: they translate requests into engine calls
// and engine results into responses, and never hold engine state of their
// own.
package transport

import (
	"context"

	"github.com/nerasch/lalia/internal/engine"
)

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http").
	Name() string

	// Listen starts serving requests against the engine. It blocks until
	// the context is cancelled.
	Listen(ctx context.Context, eng *engine.Engine) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
