// Package api exposes the HTTP surface of the HealthShield backend. It is
// a thin marshaling layer; all decision logic lives in the service
// package.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthshield-server/internal/domain"
	"github.com/healthshield-server/internal/middleware"
	"github.com/healthshield-server/internal/service"
	"github.com/healthshield-server/internal/store"
)

// Server represents the HTTP server
type Server struct {
	cfg     *domain.Config
	logger  *logrus.Logger
	reports *service.ReportService
	health  store.Store
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, reports *service.ReportService, reportStore store.Store, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())

	server := &Server{
		cfg:     cfg,
		logger:  logger,
		reports: reports,
		health:  reportStore,
		router:  router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Router exposes the underlying router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome)
	s.router.GET("/health", s.handleHealth)

	limiter := middleware.NewRateLimiter(s.cfg.Server.RateLimit, s.cfg.Server.RateLimitBurst)

	api := s.router.Group("/api")
	{
		api.POST("/analyze", limiter.Handler(), s.handleAnalyze)
		api.GET("/reports", s.handleReports)
	}
}

// corsMiddleware adds CORS headers to responses; the submission form is
// served from a separate origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
