package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/credlens/credlens/internal/factcheck"
	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/worker"
)

// Server exposes the announcement index, the analysis pipeline and the
// fact-checker over HTTP
type Server struct {
	index       *index.Index
	checker     *factcheck.Checker
	pool        *worker.Pool
	analyzeWait time.Duration
	engine      *gin.Engine
}

// New assembles the HTTP server. The pool must already be started.
func New(ix *index.Index, checker *factcheck.Checker, pool *worker.Pool, cfg model.ServerConfig) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		index:       ix,
		checker:     checker,
		pool:        pool,
		analyzeWait: cfg.AnalyzeWait,
		engine:      gin.Default(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api")
	{
		api.GET("/announcements", s.listAnnouncements)
		api.GET("/announcements/:id", s.getAnnouncement)
		api.POST("/announcements/:id/analyze", s.analyzeAnnouncement)
		api.POST("/fact-check", s.factCheck)
		api.GET("/stats", s.stats)
	}
}

// Engine exposes the router, used directly by tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
