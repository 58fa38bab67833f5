package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/validata-io/validata/internal/baseline"
	"github.com/validata-io/validata/internal/catalog"
	"github.com/validata-io/validata/internal/cli/config"
	"github.com/validata-io/validata/internal/cli/output"
	"github.com/validata-io/validata/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration not loaded")
	}
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	r, err := output.NewRenderer(cfg.Output, cmd.OutOrStdout())
	if err != nil {
		_ = eng.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}
	return &CommandContext{Cfg: cfg, Logger: logger, Engine: eng, Renderer: r}, cleanup, nil
}

// configFromCommand returns the loaded config, or bare defaults when the
// command runs outside the usual PersistentPreRunE path (tests, mostly).
func configFromCommand(cmd *cobra.Command) *config.Config {
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		return cfg
	}
	return &config.Config{Output: "auto", Level: "info"}
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	cat, err := catalog.Open(catalog.Config{
		Driver: cfg.Catalog.Driver,
		DSN:    cfg.Catalog.DSN,
	})
	if err != nil {
		return nil, err
	}

	var store baseline.Store
	if cfg.Baseline.Path != "" {
		s, err := baseline.Open(cfg.Baseline.Path)
		if err != nil {
			_ = cat.Close()
			return nil, err
		}
		store = s
	}

	return engine.New(engine.Config{
		Catalog:        cat,
		Baseline:       store,
		Logger:         logger,
		SampleSize:     cfg.Validation.Sample,
		MatchThreshold: cfg.Validation.Threshold,
		Aliases:        cfg.Validation.Aliases,
		KeepSnapshots:  cfg.Baseline.Keep,
	})
}
