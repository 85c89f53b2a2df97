// Package server exposes the resolver over HTTP so a client can have every
// drop settled by an authoritative copy of the engine.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/KickaEttan/internal/engine"
	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	DefaultAddr      = ":4000"
	MetricsNamespace = "kicka"

	shutdownTimeout = 5 * time.Second
)

// Config contains everything the server needs.
type Config struct {
	Addr             string           // listen address
	Resolver         *engine.Resolver // defaults to the standard sheet
	DefaultBanRadius float64          // radius given to ban zones sent without one
	Logger           zerolog.Logger

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Server is the REST front of the resolver.
type Server struct {
	router           *gin.Engine
	resolver         *engine.Resolver
	defaultBanRadius float64
	addr             string
	metrics          *Metrics
	logger           zerolog.Logger
}

// New builds the router and registers the metrics.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Resolver == nil {
		cfg.Resolver = engine.New(model.DefaultSheet())
	}
	if cfg.DefaultBanRadius <= 0 {
		cfg.DefaultBanRadius = model.DefaultAppConfig().DefaultBanRadius
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))

	metrics := NewMetrics(MetricsNamespace, cfg.Registerer)
	router.Use(metrics.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	s := &Server{
		router:           router,
		resolver:         cfg.Resolver,
		defaultBanRadius: cfg.DefaultBanRadius,
		addr:             cfg.Addr,
		metrics:          metrics,
		logger:           cfg.Logger,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := s.router.Group("/api")
	{
		api.POST("/placements/resolve", s.handleResolvePlacement)
		api.POST("/placements/validate", s.handleValidatePlacement)
		api.POST("/collisions/resolve", s.handleResolveCollisions)
		api.POST("/bans/clamp", s.handleClampBan)
		api.POST("/bans/adjust", s.handleAdjustBan)
		api.POST("/measure", s.handleMeasure)
		api.GET("/sheet", s.handleSheet)
	}

	s.router.GET("/health", s.handleHealth)
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("resolve service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("shutting down resolve service")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
