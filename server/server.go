// Package server wires the JSON-RPC endpoint into an HTTP server.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/mnehpets/jsonrpcd/config"
	"github.com/mnehpets/jsonrpcd/endpoint"
	"github.com/mnehpets/jsonrpcd/jsonrpc"
	"github.com/mnehpets/jsonrpcd/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves the JSON-RPC endpoint at "POST /".
type Server struct {
	cfg     config.Config
	rpc     *jsonrpc.JSONRPCEndpoint
	handler http.Handler
	logger  zerolog.Logger
}

// New builds the server for reg. The worker count, body limit and
// compression come from cfg.
func New(cfg config.Config, reg *jsonrpc.Registry, logger zerolog.Logger) (*Server, error) {
	rpc, err := jsonrpc.NewEndpoint(reg, cfg.Workers)
	if err != nil {
		return nil, err
	}

	accessLog := middleware.NewAccessLogProcessor(logger)
	security := middleware.NewAPISecurityHeadersProcessor()
	bodyLimit := middleware.NewBodyLimitProcessor(cfg.MaxBodyBytes)

	mux := http.NewServeMux()
	mux.Handle("POST /{$}", rpc.Handler(accessLog, security, bodyLimit))
	mux.Handle("/", endpoint.Handler(notFound, accessLog, security))

	var handler http.Handler = mux
	if cfg.Gzip {
		handler = gzhttp.GzipHandler(mux)
	}

	return &Server{
		cfg:     cfg,
		rpc:     rpc,
		handler: handler,
		logger:  logger,
	}, nil
}

// notFound answers everything but POST to the root: 405 for verbs other than
// POST on any path, 404 otherwise. Nothing is read from the request.
func notFound(w http.ResponseWriter, r *http.Request, _ struct{}) (endpoint.Renderer, error) {
	if r.Method != http.MethodPost {
		return jsonrpc.MethodNotAllowed(w), nil
	}
	return nil, endpoint.Error(http.StatusNotFound, "", nil)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// In-flight batches are allowed to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("workers", s.cfg.Workers).
		Strs("methods", s.rpc.Registry().Methods()).
		Msg("json-rpc server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("json-rpc server stopped")
	return nil
}
