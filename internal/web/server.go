// Package web provides the HTTP status surface for the panel daemon:
// an operator-readable HTML page, the JSON snapshot, and the metrics
// endpoint.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/prakoso/reactor-panel/internal/status"
	"github.com/prakoso/reactor-panel/internal/telemetry"
)

// StateSource yields a point-in-time snapshot of the plant. The
// supervisor implements it.
type StateSource interface {
	Snapshot() status.Snapshot
}

// Server serves the status pages over HTTP.
type Server struct {
	httpServer *http.Server
	source     StateSource
}

// New creates a Server that reads state from the given source.
func New(addr string, source StateSource) *Server {
	s := &Server{source: source}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.Handle("/metrics", telemetry.MetricsHandler())

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.source.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
