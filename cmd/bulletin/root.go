package main

import (
	"context"
	"fmt"
	"os"

	"MarketBulletin/internal/config"
	"MarketBulletin/internal/logger"
	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "bulletin",
	Short:         "bulletin builds the daily Indian market report.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $CONFIG_PATH or configs/config.yaml)")
}

func execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg    *config.Config
	env    *report.Env
	rec    recorder.Recorder
	runner *report.Runner
	flush  func()
}

func setup() (*app, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	path := configPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	flush, err := logger.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			zap.L().Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	env := report.NewEnv(cfg)
	return &app{
		cfg:    cfg,
		env:    env,
		rec:    rec,
		runner: report.NewRunner(env, rec, report.DefaultSections()),
		flush:  flush,
	}, nil
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		zap.L().Warn("close recorder", zap.Error(err))
	}
	a.flush()
}
