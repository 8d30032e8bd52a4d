// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

// Command import loads an opportunity export file into the DuckDB
// store. Imports are resumable: progress is checkpointed to a local
// BadgerDB after every batch, so a rerun continues where the previous
// run stopped. Use -reset to discard the checkpoint and -dry-run to
// validate a file without writing anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/msbhamoo/myark-final-sub005/internal/config"
	"github.com/msbhamoo/myark-final-sub005/internal/database"
	"github.com/msbhamoo/myark-final-sub005/internal/importer"
	"github.com/msbhamoo/myark-final-sub005/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("import failed")
		os.Exit(1)
	}
}

func run() error {
	var (
		file          = flag.String("file", "", "path to the JSON export file (required)")
		batchSize     = flag.Int("batch", 200, "records per upsert batch")
		dryRun        = flag.Bool("dry-run", false, "validate and map records without writing")
		resumeFrom    = flag.Int64("resume-from", 0, "skip records up to and including this index")
		progressPath  = flag.String("progress", "./data/import-progress", "BadgerDB directory for resumable progress")
		reset         = flag.Bool("reset", false, "discard saved progress and start fresh")
		defaultStatus = flag.String("status", "pending", "moderation status for records that arrive without one")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("database close failed")
		}
	}()

	progress, err := importer.OpenBadgerProgress(*progressPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := progress.Close(); err != nil {
			logging.Warn().Err(err).Msg("progress store close failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *reset {
		if err := progress.Clear(ctx); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
	}

	imp := importer.New(importer.Config{
		Path:          *file,
		BatchSize:     *batchSize,
		DryRun:        *dryRun,
		ResumeFrom:    *resumeFrom,
		DefaultStatus: *defaultStatus,
	}, db, progress)

	stats, err := imp.Import(ctx)
	if stats != nil {
		if out, jsonErr := json.MarshalIndent(stats.ToSummary(false), "", "  "); jsonErr == nil {
			fmt.Println(string(out))
		}
	}
	return err
}
