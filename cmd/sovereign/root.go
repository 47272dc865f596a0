package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/viant/sovereign/engine"
	"github.com/viant/sovereign/logger"
	"github.com/viant/sovereign/metrics"
)

type app struct {
	configPath string
	logLevel   string
	logJSON    bool
	envFiles   []string
	noSeed     bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "sovereign",
		Short:         "Private document question answering",
		Long:          "Ingest private documents into a local vector index and answer questions grounded in them with a local inference engine.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config yaml (optional, defaults to ~/.sovereign/config.yaml if present)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log as JSON")
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	cmd.PersistentFlags().BoolVar(&a.noSeed, "no-seed", false, "do not ingest the data folder when the index is empty")

	cmd.AddCommand(
		a.ingestCmd(),
		a.askCmd(),
		a.searchCmd(),
		a.seedCmd(),
		a.countCmd(),
		a.serveCmd(),
	)
	return cmd
}

// load reads the configuration and builds the matching logger.
func (a *app) load(ctx context.Context) (*engine.Config, logger.Logger, error) {
	if err := engine.LoadDotEnv(a.envFiles...); err != nil {
		return nil, nil, fmt.Errorf("load env: %w", err)
	}
	cfg, err := engine.LoadConfig(ctx, resolveConfigPath(a.configPath))
	if err != nil {
		return nil, nil, err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logJSON {
		cfg.Log.JSON = true
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LogLevel(cfg.Log.Level)
	logCfg.JSON = cfg.Log.JSON
	return cfg, logger.NewLogger(logCfg), nil
}

// open builds the engine described by the configuration. With seed set it
// ingests the data folder when the index is empty, unless --no-seed is given.
func (a *app) open(ctx context.Context, m *metrics.Metrics, seed bool) (*engine.Engine, *engine.Config, logger.Logger, error) {
	cfg, log, err := a.load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	eng, err := engine.NewFromConfig(ctx, cfg, engine.WithLogger(log), engine.WithMetrics(m))
	if err != nil {
		return nil, nil, nil, err
	}
	if seed && !a.noSeed {
		if _, err := eng.Initialize(ctx); err != nil {
			_ = eng.Close()
			return nil, nil, nil, fmt.Errorf("seed: %w", err)
		}
	}
	return eng, cfg, log, nil
}

func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if v := os.Getenv("SOVEREIGN_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".sovereign", "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
