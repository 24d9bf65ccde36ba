// Package api serves the quiz over HTTP as JSON.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/tutor"
)

// ErrUnknownSession is returned for a session ID the server does not hold.
var ErrUnknownSession = errors.New("unknown session")

const (
	defaultIdleTimeout = 30 * time.Minute
	sweepInterval      = time.Minute
	shutdownTimeout    = 5 * time.Second
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Selector *quiz.Selector
	Results  store.ResultRepo
	Answers  store.AnswerRepo
	Daily    store.DailyRepo
	Tutor    *tutor.Explainer // nil disables /explain
	Rules    session.Rules
	Logger   *zap.Logger

	AllowedOrigins []string // empty or "*" allows any origin
	Now            func() time.Time
	TickInterval   time.Duration // time-attack clock, default one second
	IdleTimeout    time.Duration // sessions untouched this long are evicted
}

// Server holds live sessions and the HTTP routes that drive them.
type Server struct {
	deps    Deps
	logger  *zap.Logger
	engine  *gin.Engine
	metrics *metrics

	mu       sync.Mutex
	sessions map[string]*entry
}

// entry is one live session.
type entry struct {
	ctrl *session.Controller

	mu         sync.Mutex
	lastAnswer *store.AnswerEvent
	lastSeen   time.Time
}

func (e *entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen
}

// New creates a Server and registers its routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rules == (session.Rules{}) {
		deps.Rules = session.DefaultRules()
	}
	if deps.IdleTimeout <= 0 {
		deps.IdleTimeout = defaultIdleTimeout
	}

	s := &Server{
		deps:     deps,
		logger:   deps.Logger.Named("api"),
		metrics:  newMetrics(),
		sessions: make(map[string]*entry),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.observe())
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/topics", s.listTopics)
		api.GET("/scores", s.listScores)
		api.GET("/daily", s.getDaily)
		api.POST("/daily", s.submitDaily)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.createSession)
		sessions.GET("/:id", s.getSession)
		sessions.DELETE("/:id", s.deleteSession)
		sessions.POST("/:id/mode", s.selectMode)
		sessions.POST("/:id/topic", s.selectTopic)
		sessions.POST("/:id/answer", s.submitAnswer)
		sessions.POST("/:id/advance", s.advance)
		sessions.POST("/:id/retry", s.retry)
		sessions.POST("/:id/exit", s.exit)
		sessions.POST("/:id/explain", s.explain)
		sessions.GET("/:id/result", s.result)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and closes every live session.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweep(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.CloseAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.CloseAll()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// CloseAll stops every live session.
func (s *Server) CloseAll() {
	s.mu.Lock()
	live := s.sessions
	s.sessions = make(map[string]*entry)
	s.metrics.liveSessions.Set(0)
	s.mu.Unlock()

	for _, e := range live {
		e.ctrl.Close()
	}
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.evictIdle(s.deps.Now()); n > 0 {
				s.logger.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// evictIdle closes sessions last used before now minus the idle timeout.
func (s *Server) evictIdle(now time.Time) int {
	cutoff := now.Add(-s.deps.IdleTimeout)

	s.mu.Lock()
	var stale []*entry
	for id, e := range s.sessions {
		if e.idleSince().Before(cutoff) {
			stale = append(stale, e)
			delete(s.sessions, id)
		}
	}
	s.metrics.liveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	for _, e := range stale {
		e.ctrl.Close()
	}
	return len(stale)
}

// open registers a new controller over sess and returns its ID.
func (s *Server) open(sess *session.Session) (string, *entry) {
	id := uuid.New().String()
	e := &entry{lastSeen: s.deps.Now()}
	e.ctrl = session.NewController(sess, session.ControllerConfig{
		TickInterval: s.deps.TickInterval,
		Logger:       s.logger.With(zap.String("session", id)),
		Now:          s.deps.Now,
		Hooks: session.Hooks{
			OnAnswer:   func(ev store.AnswerEvent) { s.recordAnswer(e, ev) },
			OnComplete: s.recordResult,
		},
	})

	s.mu.Lock()
	s.sessions[id] = e
	s.metrics.liveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	return id, e
}

func (s *Server) lookup(id string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	e.touch(s.deps.Now())
	return e, nil
}

func (s *Server) remove(id string) bool {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.metrics.liveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	if ok {
		e.ctrl.Close()
	}
	return ok
}

func (s *Server) recordAnswer(e *entry, ev store.AnswerEvent) {
	e.mu.Lock()
	e.lastAnswer = &ev
	e.mu.Unlock()

	s.metrics.answers.WithLabelValues(resultLabel(ev.Correct)).Inc()
	if s.deps.Answers == nil {
		return
	}
	if err := s.deps.Answers.AppendAnswer(context.Background(), ev); err != nil {
		s.logger.Warn("failed to store answer", zap.String("session", ev.SessionID), zap.Error(err))
	}
}

func (s *Server) recordResult(res session.Result) {
	s.metrics.sessionsCompleted.WithLabelValues(res.Mode.String()).Inc()
	if s.deps.Results == nil {
		return
	}
	if err := s.deps.Results.SaveResult(context.Background(), res.Record()); err != nil {
		s.logger.Error("failed to store result", zap.String("session", res.SessionID), zap.Error(err))
		return
	}
	s.logger.Info("session completed",
		zap.String("session", res.SessionID),
		zap.String("mode", res.Mode.String()),
		zap.String("topic", res.Topic.Key()),
		zap.Int("score", res.Score),
		zap.Int("total", res.Total),
	)
}

func (s *Server) highScore(m quiz.Mode, t dataset.Topic) int {
	if s.deps.Results == nil {
		return 0
	}
	hs, err := s.deps.Results.HighScore(context.Background(), m.String(), t.Key())
	if err != nil {
		s.logger.Warn("high score lookup failed", zap.Error(err))
		return 0
	}
	return hs
}

// observe logs each request and records its latency.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		s.metrics.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
	}
}

// corsConfig allows the listed origins, or every origin when the list is
// empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
