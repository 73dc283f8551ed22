package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/api/middleware"
	"github.com/waycover/waycover/internal/api/rest"
	"github.com/waycover/waycover/internal/engine"
	"github.com/waycover/waycover/internal/logger"
)

// Config holds the HTTP server settings
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server serves the coverage REST API over a gin router
type Server struct {
	config     Config
	engine     engine.Engine
	authCfg    middleware.AuthConfig
	httpServer *http.Server
}

// New creates an API server on top of the coverage engine
func New(cfg Config, eng engine.Engine, authCfg middleware.AuthConfig) *Server {
	return &Server{
		config:  cfg,
		engine:  eng,
		authCfg: authCfg,
	}
}

// buildRouter assembles the gin router with middleware and REST routes
func (s *Server) buildRouter() *gin.Engine {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	rest.SetupRoutes(router, rest.NewHandler(s.engine), s.authCfg)
	return router
}

// Start blocks serving HTTP until the listener fails or Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
		zap.Bool("debug", s.config.Debug),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
