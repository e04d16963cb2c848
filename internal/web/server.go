// Package web serves the show search page and the HTML fragments the page's
// script swaps into the shows and episodes containers.
package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/flow"
	"github.com/Belphemur/ShowFinder/internal/reporting"
)

// Dependencies are the collaborators shared by the handlers
type Dependencies struct {
	Catalog  client.Client
	Tracker  *flow.Tracker
	Reporter *reporting.Reporter
	Logger   zerolog.Logger
}

// Server is the HTTP server of the widget
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	deps       Dependencies
	logger     zerolog.Logger

	catalogServing atomic.Bool
}

// GinMode picks gin's mode from the configured log level: debug output from
// gin only when the service itself logs at debug or trace.
func GinMode(logLevel string) string {
	switch strings.ToLower(logLevel) {
	case "debug", "trace":
		return gin.DebugMode
	default:
		return gin.ReleaseMode
	}
}

// NewServer builds the engine, the middleware chain and the routes.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if deps.Tracker == nil {
		deps.Tracker = flow.NewTracker(nil, false, deps.Logger)
	}

	engine := gin.New()
	s := &Server{
		engine: engine,
		deps:   deps,
		logger: deps.Logger.With().Str("component", "web").Logger(),
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}
	s.catalogServing.Store(true)

	engine.Use(gin.CustomRecovery(s.recover))
	engine.Use(RequestLogger(s.logger))
	engine.Use(Metrics())
	engine.Use(RequestSizeLimit(64 << 10))
	engine.Use(Session())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.page)
	s.engine.GET("/static/app.js", s.script)
	s.engine.POST("/search", s.search)
	s.engine.GET("/shows/:id/episodes", s.episodes)
	s.engine.GET("/healthz", s.healthz)
}

func (s *Server) recover(c *gin.Context, err any) {
	s.logger.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
	c.AbortWithStatus(http.StatusInternalServerError)
}

// Engine exposes the gin engine, mostly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// SetCatalogServing records whether the catalog is reachable, as reported by /healthz.
func (s *Server) SetCatalogServing(serving bool) {
	s.catalogServing.Store(serving)
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("Starting web server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
