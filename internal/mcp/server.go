// Package mcp exposes the job-matching core as Model Context Protocol tools over stdio or
// streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

// ServerName identifies this implementation to MCP clients.
const ServerName = "job-matcher"

// StreamPath is where the streamable HTTP transport is mounted.
const StreamPath = "/mcp"

// Server wraps an MCP SDK server with the job-matching tools registered.
type Server struct {
	mcp    *sdkmcp.Server
	logger *zap.Logger
}

// Option configures a Server.
type Option func(*toolset)

// WithTopSkills sets the default number of skills returned by trending_skills.
func WithTopSkills(n int) Option {
	return func(t *toolset) {
		if n > 0 {
			t.topSkills = n
		}
	}
}

// NewServer registers every tool against analyzer. A nil analyzer uses the defaults.
func NewServer(analyzer *pipeline.Analyzer, version string, logger *zap.Logger, opts ...Option) *Server {
	if analyzer == nil {
		analyzer = pipeline.NewAnalyzer()
	}
	logger = logging.Component(logger, "mcp")

	tools := &toolset{analyzer: analyzer, topSkills: matching.DefaultTopSkills, logger: logger}
	for _, opt := range opts {
		opt(tools)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: ServerName, Version: version}, nil)
	registerTools(server, tools)
	return &Server{mcp: server, logger: logger}
}

// SDK returns the underlying SDK server.
func (s *Server) SDK() *sdkmcp.Server {
	return s.mcp
}

// RunStdio serves a single client over stdin and stdout until ctx is canceled or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("MCP stdio server starting")
	if err := s.mcp.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

// Handler returns an HTTP handler serving the streamable transport at StreamPath and a
// liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	stream := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.mcp
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(StreamPath, stream)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// RunHTTP serves the streamable transport on addr until ctx is canceled.
func (s *Server) RunHTTP(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("MCP HTTP server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", zap.Error(err))
		return err
	}
	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}
