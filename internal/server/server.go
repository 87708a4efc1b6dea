// Package server exposes the latest stored posture over a local HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/quietlane/hostguard/internal/history"
	"github.com/quietlane/hostguard/internal/regress"
	"github.com/quietlane/hostguard/internal/risk"
)

// Server is a local HTTP server over the snapshot history.
// It binds to loopback only; this is an operator viewer, not a service.
type Server struct {
	store      *history.Store
	httpServer *http.Server
}

// New creates a Server over the given history store.
func New(store *history.Store) *Server {
	return &Server{store: store}
}

// Start begins listening on the given port (0 = OS-assigned). Returns "host:port".
func (s *Server) Start(ctx context.Context, port int) (string, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/score", s.handleScore)
	mux.HandleFunc("/regressions", s.handleRegressions)

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}

	s.httpServer = &http.Server{Handler: mux}
	go s.httpServer.Serve(ln) //nolint:errcheck

	return ln.Addr().String(), nil
}

// Stop shuts down the server.
func (s *Server) Stop() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"id":       entry.ID,
		"snapshot": entry.Snapshot,
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, risk.Score(entry.Snapshot))
}

func (s *Server) handleRegressions(w http.ResponseWriter, r *http.Request) {
	prev, latest, err := s.store.LastTwo(r.Context())
	if err != nil {
		if errors.Is(err, history.ErrEmpty) {
			http.Error(w, "no snapshots recorded", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if prev == nil {
		writeJSON(w, []regress.Regression{})
		return
	}
	regs := regress.Detect(prev.Snapshot, latest.Snapshot)
	if regs == nil {
		regs = []regress.Regression{}
	}
	writeJSON(w, regs)
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) (*history.Entry, bool) {
	entry, err := s.store.Latest(r.Context())
	if err != nil {
		if errors.Is(err, history.ErrEmpty) {
			http.Error(w, "no snapshots recorded", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return entry, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
