package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/api"
	"github.com/cookeasy/backend/internal/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *logrus.Logger
}

// New builds the engine with the global middleware chain and every API route
func New(deps api.Dependencies, logger *logrus.Logger) *Server {
	if deps.Config.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CORS(deps.Config.CORSOrigins),
	)
	router.NoRoute(middleware.NotFound())

	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:              deps.Config.Addr(),
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	s.logger.WithField("addr", s.http.Addr).Info("HTTP server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
