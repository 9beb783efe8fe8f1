// Package api implements the HTTP API for the trend radar service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and its routes.
type Server struct {
	cfg    *config.ServerConfig
	engine *gin.Engine
	srv    *http.Server
	logger logger.Interface
}

// NewServer creates the API server and registers all routes.
func NewServer(
	cfg *config.ServerConfig,
	products *ProductsHandler,
	runs *RunsHandler,
	reports *ReportsHandler,
	log logger.Interface,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: log.WithComponent("api"),
	}
	s.setupRoutes(products, runs, reports)
	return s
}

func (s *Server) setupRoutes(products *ProductsHandler, runs *RunsHandler, reports *ReportsHandler) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")

	v1.GET("/products", products.List)
	v1.GET("/products/:id", products.Get)
	v1.GET("/products/:id/history", products.History)
	v1.PATCH("/products/:id/status", products.UpdateStatus)

	v1.GET("/runs", runs.List)
	v1.GET("/runs/:id", runs.Get)
	v1.POST("/runs", runs.Trigger)

	v1.GET("/reports/latest", reports.Latest)
}

// Start serves HTTP until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "address", s.cfg.Address)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger logs each request with its status and latency.
func requestLogger(log logger.Interface) gin.HandlerFunc {
	reqLog := log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			reqLog.Error("Request failed", fields...)
			return
		}
		reqLog.Debug("Request handled", fields...)
	}
}
