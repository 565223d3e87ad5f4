package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// HttpServer is the demo's own admin server: it hosts the HTTP API that
// drives the simulated component graphs but, unlike those graphs, is
// not itself a managed component, so it runs for the whole process
// lifetime rather than through a loading/stopping/clearing cycle.
type HttpServer struct {
	*http.Server
}

func NewServer(addr string, handler http.Handler) *HttpServer {
	return &HttpServer{Server: &http.Server{
		Addr:    addr,
		Handler: handler,
	}}
}

// Start blocks until the server stops, returning nil on a graceful
// Shutdown and wrapping any other listen error.
func (s *HttpServer) Start() error {
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *HttpServer) Stop(ctx context.Context) error {
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
