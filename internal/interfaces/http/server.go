package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with configured timeouts and graceful shutdown.
type Server struct {
	srv    *http.Server
	logger logging.Logger
	cfg    config.ServerConfig
}

// NewServer builds the server around a constructed router.
func NewServer(cfg config.ServerConfig, router *gin.Engine, log logging.Logger) *Server {
	gin.SetMode(ginMode(cfg.Mode))
	return &Server{
		cfg:    cfg,
		logger: log,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logging.Int("port", s.cfg.Port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	return s.srv.Shutdown(shutdownCtx)
}

// Handler exposes the underlying handler, for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }
