package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/rhyme"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/wordgen"
)

const (
	sessionCookieName = "freestyle_session"
	eventsPath        = "/api/session/events"
)

var errServerClosed = errors.New("server is closed")

// Config holds server settings
type Config struct {
	Addr           string
	Production     bool
	RateLimitRPS   int
	RateLimitBurst int
	SessionTimeout time.Duration
	SweepInterval  time.Duration
	CookieMaxAge   time.Duration
	DefaultBeat    string
	Scheduler      scheduler.Config
}

// DefaultConfig returns default server settings
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		SessionTimeout: 30 * time.Minute,
		SweepInterval:  time.Minute,
		CookieMaxAge:   24 * time.Hour,
		DefaultBeat:    beats.DefaultBeat,
		Scheduler:      scheduler.DefaultConfig(),
	}
}

// Deps are the components the server exposes
type Deps struct {
	Generator wordgen.Generator // nil disables /api/generate-words
	Rhymer    rhyme.Rhymer      // nil disables /api/rhymes
	Supplier  scheduler.Supplier
	Clock     scheduler.Clock // nil uses the real clock
	Logger    *zap.Logger
	Now       func() time.Time
}

// Server is the freestyle HTTP application
type Server struct {
	cfg      Config
	deps     Deps
	logger   *zap.Logger
	engine   *gin.Engine
	sessions *sessionStore
	limiters *limiters
	started  time.Time

	stopSweep chan struct{}
	sweepDone chan struct{}
	closeOnce sync.Once
}

// New creates the server and starts the idle session sweeper
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Supplier == nil {
		return nil, errors.New("server requires a word supplier")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Clock == nil {
		deps.Clock = scheduler.RealClock()
	}
	if _, err := beats.Lookup(cfg.DefaultBeat); err != nil {
		return nil, fmt.Errorf("invalid default beat: %w", err)
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = DefaultConfig().SessionTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultConfig().SweepInterval
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = DefaultConfig().CookieMaxAge
	}

	s := &Server{
		cfg:       cfg,
		deps:      deps,
		logger:    deps.Logger,
		limiters:  newLimiters(cfg.RateLimitRPS, cfg.RateLimitBurst),
		started:   deps.Now(),
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	s.sessions = newSessionStore(s.newSession, deps.Now, deps.Logger)
	s.engine = s.routes()

	go s.sweepLoop()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	if s.cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), requestIDMiddleware(), requestLogger(s.logger))
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression, ginGzip.WithExcludedPaths([]string{eventsPath})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		s.logger.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	limit := s.rateLimitMiddleware()

	api := router.Group("/api", cacheHeaders(s.cfg.Production))
	api.POST("/generate-words", limit, s.handleGenerateWords)
	api.POST("/rhymes", limit, s.handleRhymes)
	api.POST("/analyze-speech", limit, s.handleAnalyzeSpeech)
	api.GET("/catalog", s.handleCatalog)

	sess := api.Group("/session")
	sess.GET("", s.handleSession)
	sess.POST("/start", limit, s.handleStart)
	sess.POST("/stop", s.handleStop)
	sess.PUT("/settings", s.handleSettings)
	sess.PUT("/beat", s.handleBeat)
	sess.GET("/events", s.handleEvents)

	router.GET("/healthz", s.handleHealth)
	return router
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: event streams stay open for the whole session
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received, shutting down server gracefully")
	// Closing sessions ends the event streams so Shutdown can finish
	s.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("Server shutdown complete")
	return nil
}

// Close stops the sweeper and closes every session
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.stopSweep)
		<-s.sweepDone
		s.sessions.closeAll()
	})
}

func (s *Server) sweepLoop() {
	defer close(s.sweepDone)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopSweep:
			return
		case <-ticker.C:
			if n := s.sessions.sweep(s.cfg.SessionTimeout); n > 0 {
				s.logger.Debug("Swept idle sessions", zap.Int("count", n))
			}
		}
	}
}

// newSession builds the scheduler and deck for a new browser session
func (s *Server) newSession(id string) (*session, error) {
	deck, err := beats.NewDeck(s.cfg.DefaultBeat)
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(s.deps.Supplier, s.cfg.Scheduler,
		scheduler.WithClock(s.deps.Clock),
		scheduler.WithLogger(s.logger.With(zap.String("session", id))))

	sess := &session{id: id, sched: sched, deck: deck}
	sess.followScheduler()
	return sess, nil
}
