// Package app wires the task API and runs its HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/handler"
	"github.com/ncobase/remind/logging/logger"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 30 * time.Second

// App represents the main application.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	handler *handler.Handler
	server  *http.Server
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *logger.Logger, h *handler.Handler) *App {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		handler: h,
	}
}

// Router builds the gin engine with middleware and all routes.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(traceMiddleware())
	router.Use(corsMiddleware())
	router.Use(a.loggerMiddleware())

	a.handler.RegisterRoutes(router)
	return router
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.Watch(a.config, a.reload)

	a.server = a.newServer()
	addr := a.server.Addr

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error(context.Background(), "Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "Shutting down server...")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(sctx); err != nil {
		a.logger.Error(sctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

// newServer builds the HTTP server with the configured timeouts.
func (a *App) newServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.config.Host, a.config.Port),
		Handler:      a.Router(),
		ReadTimeout:  a.config.ReadTimeout,
		WriteTimeout: a.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

// reload applies settings that can change without a restart.
func (a *App) reload(next *config.Config) {
	if next.Logger == nil {
		return
	}
	a.logger.SetLevel(logrus.Level(next.Logger.Level))
	a.logger.Info(context.Background(), "configuration reloaded", "level", next.Logger.Level)
}
