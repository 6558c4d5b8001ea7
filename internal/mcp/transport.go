// Package mcp exposes the venues engine over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Togather-Foundation/venues/internal/api/middleware"
	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// TransportType represents the available MCP transport protocols.
type TransportType string

const (
	// TransportStdio uses standard input/output. Suited to desktop agents.
	TransportStdio TransportType = "stdio"

	// TransportSSE uses Server-Sent Events.
	TransportSSE TransportType = "sse"

	// TransportHTTP uses Streamable HTTP.
	TransportHTTP TransportType = "http"
)

const (
	DefaultTransport = TransportStdio
	DefaultPort      = 8081

	// GracefulShutdownTimeout bounds how long in-flight MCP requests may run
	// after shutdown starts.
	GracefulShutdownTimeout = 10 * time.Second
)

// TransportConfig holds configuration for MCP transport selection.
type TransportConfig struct {
	Type TransportType
	// Host and Port are ignored for stdio.
	Host string
	Port int
}

// ParseTransport validates a transport name.
func ParseTransport(value string) (TransportType, error) {
	switch transport := TransportType(value); transport {
	case TransportStdio, TransportSSE, TransportHTTP:
		return transport, nil
	default:
		return "", fmt.Errorf("invalid MCP transport %q (must be stdio, sse, or http)", value)
	}
}

// LoadTransportConfig reads transport configuration from environment variables.
// Environment variables:
//   - MCP_TRANSPORT: "stdio", "sse", or "http" (default: "stdio")
//   - MCP_PORT: listen port for SSE/HTTP transports (default: 8081)
//   - MCP_HOST: bind address for SSE/HTTP transports (default: "0.0.0.0")
func LoadTransportConfig() (*TransportConfig, error) {
	cfg := &TransportConfig{
		Type: DefaultTransport,
		Port: DefaultPort,
		Host: "0.0.0.0",
	}

	if transportEnv := os.Getenv("MCP_TRANSPORT"); transportEnv != "" {
		transport, err := ParseTransport(transportEnv)
		if err != nil {
			return nil, err
		}
		cfg.Type = transport
	}

	if portEnv := os.Getenv("MCP_PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			return nil, fmt.Errorf("invalid MCP_PORT value: %s (must be a number)", portEnv)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid MCP_PORT value: %d (must be between 1 and 65535)", port)
		}
		cfg.Port = port
	}

	if hostEnv := os.Getenv("MCP_HOST"); hostEnv != "" {
		cfg.Host = hostEnv
	}

	return cfg, nil
}

// Serve starts the MCP server with the configured transport and blocks until
// ctx is cancelled or the transport fails.
func Serve(ctx context.Context, mcpServer *server.MCPServer, cfg *TransportConfig, rateLimit config.RateLimitConfig, env string) error {
	switch cfg.Type {
	case TransportStdio:
		return ServeStdio(ctx, mcpServer)
	case TransportSSE:
		return serveHTTP(ctx, "sse", server.NewSSEServer(mcpServer), cfg, rateLimit, env)
	case TransportHTTP:
		return serveHTTP(ctx, "http", server.NewStreamableHTTPServer(mcpServer), cfg, rateLimit, env)
	default:
		return fmt.Errorf("unsupported transport type: %s", cfg.Type)
	}
}

// ServeStdio serves MCP over stdin/stdout. Logs must not go to stdout while
// this runs.
func ServeStdio(ctx context.Context, mcpServer *server.MCPServer) error {
	log.Info().Msg("starting MCP server with stdio transport")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ServeStdio(mcpServer); err != nil {
			errCh <- fmt.Errorf("stdio server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("context cancelled, stdio server stopping")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func serveHTTP(ctx context.Context, name string, handler http.Handler, cfg *TransportConfig, rateLimit config.RateLimitConfig, env string) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Info().Str("transport", name).Str("addr", addr).Msg("starting MCP server")

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           WrapHandler(handler, rateLimit, env),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server error: %w", name, err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s server shutdown error: %w", name, err)
		}
		log.Info().Str("transport", name).Msg("MCP server shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

// WrapHandler applies the API's rate limiting and body size limit to an MCP
// HTTP handler.
func WrapHandler(handler http.Handler, rateLimit config.RateLimitConfig, env string) http.Handler {
	wrapped := middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	return middleware.RateLimit(rateLimit, env)(wrapped)
}
