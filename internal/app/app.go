// Package app wires the content-graph runtime into a runnable inspector: it
// builds the logger, registers the tag modules, opens the configured state
// backend, and parses a document into a session.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *blueprint.Registry
	config   *Config
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func New(outW io.Writer, logW io.Writer, cfg *Config, modules ...blueprint.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := blueprint.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All tag modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's blueprint registry. Primarily for
// testing.
func (a *App) Registry() *blueprint.Registry {
	return a.registry
}

// Context returns a context carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
