// Package inspect serves a live view of a reactive.Runtime over HTTP.
//
// The Server wraps one Runtime behind a mutex. Code that drives the graph
// goes through Do, so HTTP handlers can take consistent snapshots while
// the graph is in use:
//
//	srv := inspect.New(inspect.WithLogger(logger))
//	rt := reactive.NewRuntime(reactive.WithProbe(srv))
//	srv.Attach(rt)
//	go srv.ListenAndServe(ctx, ":7070")
//
//	srv.Do(func(rt *reactive.Runtime) { count.Set(count.Peek() + 1) })
//
// Routes:
//
//	GET /healthz   liveness
//	GET /graph     JSON snapshot of the graph, with an ETag
//	GET /events    websocket stream of engine events
//	GET /metrics   Prometheus metrics, when a gatherer is configured
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// ErrNotAttached is returned by Do before a runtime is attached.
var ErrNotAttached = errors.New("inspect: no runtime attached")

const (
	defaultShutdownTimeout = 5 * time.Second
	writeTimeout           = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for connection and server records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithEventBuffer sets the per-client event buffer. Events for a client
// whose buffer is full are dropped.
func WithEventBuffer(n int) Option {
	return func(s *Server) {
		s.buffer = n
	}
}

// WithCheckOrigin sets the websocket origin check. By default every
// origin is accepted.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// Server is an HTTP inspector for one Runtime. It implements
// reactive.Probe; register it with the runtime it inspects.
type Server struct {
	mu sync.Mutex
	rt *reactive.Runtime

	hub      *Hub
	buffer   int
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

var _ reactive.Probe = (*Server)(nil)

// New creates a Server with no runtime attached.
func New(opts ...Option) *Server {
	s := &Server{
		hub:    NewHub(),
		buffer: defaultSubscriberBuffer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach sets the runtime served by the inspector.
func (s *Server) Attach(rt *reactive.Runtime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rt = rt
}

// Do runs fn with exclusive access to the attached runtime.
func (s *Server) Do(fn func(rt *reactive.Runtime)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rt == nil {
		return ErrNotAttached
	}
	fn(s.rt)
	return nil
}

// Observe implements reactive.Probe. It runs on the runtime's thread,
// inside Do, and never blocks.
func (s *Server) Observe(ev reactive.Event) {
	s.hub.Broadcast(newMessage(ev))
}

// Close disconnects every event stream.
func (s *Server) Close() {
	s.hub.Close()
}

// Handler returns the inspector's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/events", s.handleEvents)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves Handler on addr until ctx is done, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspect: shutdown: %w", err)
	}
	s.logger.Info("inspector stopped", "addr", addr)
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var snap reactive.Snapshot
	if err := s.Do(func(rt *reactive.Runtime) { snap = rt.Snapshot() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	body, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("encode snapshot", "error", err)
		http.Error(w, "encode snapshot", http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	output, cancel := s.hub.Subscribe(s.buffer)
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.logger.Debug("event stream connected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case msg, ok := <-output:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
						time.Now().Add(time.Second))
					_ = conn.Close()
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Debug("event stream disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}
