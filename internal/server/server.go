// Package server hosts the public blog grid and a read-only posts API.
// The grid is filled from the remote feed; the API serves the local store in the
// same shape so one folio instance can feed another.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"github.com/kamal-hamza/folio/internal/core/services"
)

const (
	defaultAddr     = ":8080"
	defaultTitle    = "Latest posts"
	defaultSchedule = "@every 5m"
	defaultPageSize = 10

	refreshTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Config holds the HTTP host settings
type Config struct {
	Addr            string
	SiteTitle       string
	Author          string
	RefreshSchedule string // cron spec, e.g. "@every 5m" or "*/10 * * * *"
	PageSize        int
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.SiteTitle == "" {
		c.SiteTitle = defaultTitle
	}
	if c.RefreshSchedule == "" {
		c.RefreshSchedule = defaultSchedule
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
}

// Server wires the echo router to the post store and the feed grid
type Server struct {
	Config Config
	Echo   *echo.Echo

	store *services.PostStore
	list  *services.ListService
	feed  *services.FeedService
	cron  *cron.Cron
}

// New creates a server with middleware and routes installed
func New(cfg Config, store *services.PostStore, feed *services.FeedService) *Server {
	cfg.setDefaults()

	s := &Server{
		Config: cfg,
		Echo:   echo.New(),
		store:  store,
		list:   services.NewListService(store),
		feed:   feed,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.Echo

	e.GET("/", s.handleHome)
	e.GET("/posts/:id", s.handlePost)
	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api")
	api.GET("/posts", s.handleAPIList)
	api.GET("/posts/", s.handleAPIList)
	api.GET("/posts/:id", s.handleAPIGet)
	api.GET("/posts/:id/", s.handleAPIGet)
}

// Start refreshes the grid, schedules further refreshes and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	if err := s.startScheduler(ctx); err != nil {
		return err
	}
	defer s.cron.Stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving", "addr", s.Config.Addr)
		if err := s.Echo.Start(s.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// startScheduler runs one refresh immediately and then on the configured schedule
func (s *Server) startScheduler(ctx context.Context) error {
	s.refreshFeed(ctx)

	c := cron.New()
	if _, err := c.AddFunc(s.Config.RefreshSchedule, func() { s.refreshFeed(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.Config.RefreshSchedule, err)
	}
	c.Start()
	s.cron = c
	return nil
}

func (s *Server) refreshFeed(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	// Failures are logged by the feed service and the grid is kept
	_ = s.feed.Refresh(ctx)
}
