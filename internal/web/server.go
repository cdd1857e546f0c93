// Package web provides the HTTP dashboard and control endpoints for the
// monitor daemon.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/config"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/metrics"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
)

// Refresher republishes the current aggregate view without waiting for
// the next poll.
type Refresher interface {
	Refresh()
}

// Server serves the dashboard, the status JSON, and the runtime settings.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	store      *logic.Store
	settings   *config.Runtime
	refresher  Refresher
}

// New creates a Server that reads state from the given tracker and store.
func New(addr string, tracker *status.Tracker, store *logic.Store, settings *config.Runtime, refresher Refresher) *Server {
	s := &Server{
		tracker:   tracker,
		store:     store,
		settings:  settings,
		refresher: refresher,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/settings", s.handleSettings)
	mux.Handle("/metrics", metrics.Handler())

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

// liveView assembles the aggregate view from the store at request time,
// so the page and the JSON always show current sensor state even between
// published cycles.
func (s *Server) liveView(snap status.Snapshot) status.AggregateView {
	return status.BuildView(s.store.States(), status.StatusOrWaiting(snap.StatusMessage), snap.Now)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.liveView(snap), s.settings.Get())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatStatus(snap, s.liveView(snap)))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	s.refresher.Refresh()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		w.Write(formatSettings(s.settings.Get()))
	case http.MethodPost:
		var p config.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		applied, err := s.settings.Apply(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(formatSettings(applied))
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "GET or POST required", http.StatusMethodNotAllowed)
	}
}
