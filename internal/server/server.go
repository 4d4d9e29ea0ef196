// Package server exposes editing sessions over HTTP.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/gogpu/swatch"
	"github.com/gogpu/swatch/catalog"
	"github.com/gogpu/swatch/config"
	"github.com/gogpu/swatch/export"
	"github.com/gogpu/swatch/store"
)

// Option configures a Server.
type Option func(*Server)

// WithStore persists session preferences. Without a store preferences
// live only as long as the session.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithSessionOptions appends options to every new session.
func WithSessionOptions(opts ...swatch.Option) Option {
	return func(s *Server) { s.extra = append(s.extra, opts...) }
}

// WithClock replaces time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

type entry struct {
	session *swatch.Session
	seen    time.Time
}

// Server holds live sessions and the shared loader and watermarker.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	loader *catalog.Loader
	marker *export.Watermarker
	extra  []swatch.Option
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// New builds a server from cfg. A nil cfg uses config.Default.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	marker, err := export.NewWatermarker(cfg.Export.Watermark, cfg.Export.FontSize)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		loader:   catalog.NewLoader(cfg.Server.FetchTimeout),
		marker:   marker,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/sessions", s.handleCreate)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleStatus)
		r.Delete("/", s.handleDelete)
		r.Post("/load", s.handleLoad)
		r.Put("/photo", s.handleUpload)
		r.Put("/pattern", s.handlePattern)
		r.Put("/view", s.handleView)
		r.Put("/selection", s.handleSelection)
		r.Post("/click", s.handleClick)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Post("/reset", s.handleReset)
		r.Get("/frame", s.handleFrame)
		r.Get("/export", s.handleExport)
	})
	return r
}

func (s *Server) create() (string, *swatch.Session) {
	opts := append(s.cfg.SessionOptions(), s.extra...)
	sess := swatch.NewSession(opts...)
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &entry{session: sess, seen: s.now()}
	s.mu.Unlock()
	return id, sess
}

func (s *Server) lookup(id string) *swatch.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	e.seen = s.now()
	return e.session
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		e.session.Close()
	}
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the configured TTL and
// returns how many were closed.
func (s *Server) Sweep() int {
	cutoff := s.now().Add(-s.cfg.Server.SessionTTL)
	var stale []*swatch.Session

	s.mu.Lock()
	for id, e := range s.sessions {
		if e.seen.Before(cutoff) {
			stale = append(stale, e.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	if len(stale) > 0 {
		swatch.Logger().Info("server: expired sessions", "count", len(stale))
	}
	return len(stale)
}

// Janitor sweeps idle sessions every interval until ctx is done.
func (s *Server) Janitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// Close closes every live session.
func (s *Server) Close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()
	for _, e := range all {
		e.session.Close()
	}
}

// savePreferences persists the session's choices. Failures are logged.
func (s *Server) savePreferences(ctx context.Context, id string, sess *swatch.Session) {
	if s.store == nil {
		return
	}
	if err := s.store.SavePreferences(ctx, id, sess.Preferences()); err != nil {
		swatch.Logger().Warn("server: save preferences", "session", id, "err", err)
	}
}
