// Package app wires the outing planner together and manages the HTTP
// server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/outing/internal/config"
	"github.com/edgard/outing/internal/llm"
	"github.com/edgard/outing/internal/planner"
	"github.com/edgard/outing/internal/tools"
	"github.com/edgard/outing/internal/web"
)

// App owns the HTTP server.
type App struct {
	logger *slog.Logger
	cfg    *config.Config
	server *http.Server
}

// New builds the planner, its tools and the web handlers from cfg.
func New(logger *slog.Logger, cfg *config.Config, opts ...llm.Option) *App {
	factory := llm.NewFactory(cfg.LLM, logger, opts...)
	svc := planner.NewService(factory, tools.Default(), logger)
	handler := web.NewServer(svc, cfg.Form, logger).Handler()

	return &App{
		logger: logger.With("component", "app"),
		cfg:    cfg,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
	}
}

// Handler exposes the routed HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln and shuts down gracefully when ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting HTTP server...", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server stopped due to error", "error", err)
			return fmt.Errorf("http server failed: %w", err)
		}
		a.logger.Info("HTTP server stopped.")
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("Shutdown signal received, stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Error during HTTP server shutdown", "error", err)
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("App stopped gracefully.")
	return nil
}
