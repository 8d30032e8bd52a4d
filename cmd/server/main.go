// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

// Command server runs the MyArk recommendation service: a DuckDB-backed
// HTTP API serving personalized, trending, and similarity-based
// opportunity recommendations, with view tracking feeding per-user
// interest profiles.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/msbhamoo/myark-final-sub005/internal/api"
	"github.com/msbhamoo/myark-final-sub005/internal/config"
	"github.com/msbhamoo/myark-final-sub005/internal/database"
	"github.com/msbhamoo/myark-final-sub005/internal/interests"
	"github.com/msbhamoo/myark-final-sub005/internal/logging"
	"github.com/msbhamoo/myark-final-sub005/internal/recommend"
	"github.com/msbhamoo/myark-final-sub005/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("database", cfg.Database.Path).
		Msg("starting myark recommendation service")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("database close failed")
		}
	}()

	clock := recommend.SystemClock()
	engine, err := recommend.NewEngine(&cfg.Recommend, logging.Logger(), db, db, clock)
	if err != nil {
		return fmt.Errorf("build recommendation engine: %w", err)
	}
	tracker := interests.NewTracker(db, clock, logging.Logger())

	handlers := api.NewHandlers(engine, tracker, db)
	httpServer := api.NewServer(cfg, handlers)

	tree := supervisor.NewTree(logging.Slogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPServerService(httpServer, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Root().Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logging.Info().Msg("shutdown complete")
	return nil
}
