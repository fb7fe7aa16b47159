package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/modelspec"
)

// Loader is the interface a model-format frontend implements.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*modelspec.Spec, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	spec   *modelspec.Spec
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with the model already loaded, including its own
// isolated logger.
func NewApp(outW io.Writer, cfg *Config, loader Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	spec, err := loader.Load(ctx, cfg.ModelPath)
	if err != nil {
		// A failure to load the model is a fatal startup error.
		panic(fmt.Errorf("failed to load model: %w", err))
	}
	logger.Debug("Model loaded and translated into the agnostic spec.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		spec:   spec,
	}
}

// Spec returns the loaded model spec. This is primarily for testing.
func (a *App) Spec() *modelspec.Spec {
	return a.spec
}
