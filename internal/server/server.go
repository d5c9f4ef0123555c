// Package server exposes exercise sessions over HTTP. Each session is driven
// by one request at a time; the registry serializes events per session.
package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/katrinawoods/rsc2/internal/loader"
	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/store"
)

// ExerciseSource supplies seed data for new and reset sessions.
type ExerciseSource interface {
	Get(ctx context.Context, p store.GetParams) (*model.Exercise, error)
	List(ctx context.Context, p store.ListParams) ([]model.Exercise, error)
}

// Server routes HTTP requests to exercise sessions.
type Server struct {
	exercises ExerciseSource
	sessions  *registry
	present   func(model.Seed) model.Seed
	idle      time.Duration
	log       *zap.Logger
}

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithShuffleSeed fixes the seed of the presentation shuffle.
func WithShuffleSeed(seed uint64) Option {
	return func(s *Server) { s.present = shuffler(loader.NewRand(seed)) }
}

// WithIdleTimeout sets how long a session may go without requests before
// Serve drops it. Zero keeps sessions until they are deleted.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idle = d }
}

// WithPresentation replaces how a stored seed is arranged for a new session.
func WithPresentation(fn func(model.Seed) model.Seed) Option {
	return func(s *Server) { s.present = fn }
}

// New creates a Server reading exercises from src.
func New(src ExerciseSource, opts ...Option) *Server {
	s := &Server{
		exercises: src,
		sessions:  newRegistry(),
		present:   shuffler(loader.NewRand(0)),
		idle:      DefaultIdleTimeout,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func shuffler(r *rand.Rand) func(model.Seed) model.Seed {
	var mu sync.Mutex
	return func(seed model.Seed) model.Seed {
		mu.Lock()
		defer mu.Unlock()
		return loader.Presentation(seed, r)
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/exercises", s.listExercises)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/activate", s.activate)
			r.Post("/check", s.check)
			r.Post("/reset", s.reset)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.log.Error("write health response", zap.Error(err))
		}
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	swept := make(chan struct{})
	go func() {
		defer close(swept)
		s.sweep(sweepCtx)
	}()
	defer func() {
		stopSweep()
		<-swept
	}()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep drops idle sessions until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	if s.idle <= 0 {
		return
	}
	interval := s.idle / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.sessions.expire(now.Add(-s.idle)); n > 0 {
				s.log.Info("expired idle sessions", zap.Int("count", n), zap.Int("live", s.sessions.len()))
			}
		}
	}
}
