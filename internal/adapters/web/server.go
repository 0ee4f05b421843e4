package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server serves the dashboard over HTTP
type Server struct {
	handler    http.Handler
	listenAddr string
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a dashboard HTTP server
func NewServer(handler http.Handler, listenAddr string, logger *zap.Logger) *Server {
	return &Server{
		handler:    handler,
		listenAddr: listenAddr,
		logger:     logger,
	}
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	s.logger.Info("Dashboard starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop drains in-flight requests and stops the server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
