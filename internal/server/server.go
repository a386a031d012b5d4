// Package server exposes one CD player over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/librescoot/simplefsm"
	"github.com/librescoot/simplefsm/internal/player"
)

// Server serializes HTTP requests onto a single player, which is not safe for
// concurrent use on its own.
type Server struct {
	mu     sync.Mutex
	player *player.Player
	out    *Output
	logger *slog.Logger
}

// EventRequest is the optional body of POST /events/{name}
type EventRequest struct {
	Title string `json:"title,omitempty"`
}

// EventResponse reports a dispatch
type EventResponse struct {
	Event  string   `json:"event"`
	Result string   `json:"result"`
	State  string   `json:"state"`
	Output []string `json:"output,omitempty"`
}

// StateResponse is the body of GET /state
type StateResponse struct {
	State string `json:"state"`
	Title string `json:"title,omitempty"`
}

// New creates a server around a started player. The player must write its output
// to out so each response can carry the lines its event produced.
func New(p *player.Player, out *Output, logger *slog.Logger) *Server {
	return &Server{player: p, out: out, logger: logger}
}

// NewPlayer creates and starts a player wired for serving.
func NewPlayer(opts ...simplefsm.MachineOption) (*player.Player, *Output, error) {
	out := &Output{}
	p := player.New(out, opts...)
	if err := p.Start(); err != nil {
		return nil, nil, err
	}
	out.Lines()
	return p, out, nil
}

// Handler builds the router. gatherer serves /metrics; nil disables it.
func (s *Server) Handler(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/state", s.getState)
	r.Get("/table", s.getTable)
	r.Post("/events/{name}", s.postEvent)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StateResponse{State: s.player.State().Label(), Title: s.player.Title()}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	data, err := yaml.Marshal(player.Table().Describe())
	if err != nil {
		http.Error(w, "Failed to describe table", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(data)
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	var body EventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := chi.URLParam(r, "name")
	ev, err := player.Parse(name, body.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.mu.Lock()
	res := s.player.HandleMessage(ev)
	resp := EventResponse{
		Event:  name,
		Result: res.String(),
		State:  s.player.State().Label(),
		Output: s.out.Lines(),
	}
	s.mu.Unlock()

	s.logger.Debug("event served", "event", name, "result", resp.Result, "state", resp.State)

	status := http.StatusOK
	if res == simplefsm.Unhandled {
		status = http.StatusConflict
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
