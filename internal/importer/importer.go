// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

// Package importer loads opportunity export files into the store.
//
// Export files are JSON arrays of listings as the content team dumps
// them from the platform. Records are validated, normalized, and
// upserted in batches; progress is checkpointed after every batch so an
// interrupted import resumes instead of starting over.
package importer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/msbhamoo/myark-final-sub005/internal/logging"
	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// Config controls a single import run.
type Config struct {
	// Path is the JSON export file to import.
	Path string

	// BatchSize is the number of records per upsert-and-checkpoint
	// cycle. Defaults to 200.
	BatchSize int

	// DryRun validates and maps records without writing anything.
	DryRun bool

	// ResumeFrom skips records up to and including this zero-based
	// index. Zero means use saved progress, if any.
	ResumeFrom int64

	// DefaultStatus is assigned to records without a moderation status.
	// Defaults to "pending".
	DefaultStatus string
}

// Store is the write surface the importer needs. Satisfied by
// *database.DB.
type Store interface {
	UpsertOpportunity(ctx context.Context, o *models.Opportunity) error
}

// Importer handles importing opportunity export files.
type Importer struct {
	cfg      Config
	store    Store
	progress ProgressTracker
	mapper   *Mapper

	// progressLog throttles per-batch progress lines on fast imports.
	progressLog rate.Sometimes

	mu       sync.RWMutex
	running  bool
	stats    *ImportStats
	stopChan chan struct{}
}

// New creates an importer. The progress tracker may be nil, in which
// case imports always start from the beginning.
func New(cfg Config, store Store, progress ProgressTracker) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &Importer{
		cfg:         cfg,
		store:       store,
		progress:    progress,
		mapper:      NewMapper(cfg.DefaultStatus),
		progressLog: rate.Sometimes{First: 3, Interval: 2 * time.Second},
		stopChan:    make(chan struct{}),
	}
}

// Import runs the import. It returns the final statistics; on error the
// statistics cover the work done up to the failure.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, fmt.Errorf("import already in progress")
	}
	i.running = true
	i.stats = &ImportStats{
		StartTime: time.Now(),
		DryRun:    i.cfg.DryRun,
	}
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.mu.Unlock()
	}()

	records, err := readExportFile(i.cfg.Path)
	if err != nil {
		return i.Stats(), err
	}

	i.mu.Lock()
	i.stats.TotalRecords = int64(len(records))
	i.mu.Unlock()

	start := i.startIndex(ctx)
	logging.Info().
		Str("file", i.cfg.Path).
		Int("total_records", len(records)).
		Int64("start_index", start).
		Bool("dry_run", i.cfg.DryRun).
		Msg("starting opportunity import")

	if err := i.processAllBatches(ctx, records, start); err != nil {
		return i.Stats(), err
	}

	stats := i.Stats()
	logging.Info().
		Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Dur("duration", stats.Duration()).
		Msg("import completed")
	return stats, nil
}

// startIndex resolves where to begin: an explicit resume point wins,
// then saved progress, then the start of the file.
func (i *Importer) startIndex(ctx context.Context) int64 {
	if i.cfg.ResumeFrom > 0 {
		return i.cfg.ResumeFrom + 1
	}
	if i.progress == nil {
		return 0
	}
	prev, err := i.progress.Load(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to load saved progress")
		return 0
	}
	if prev == nil || prev.Processed == 0 {
		return 0
	}
	logging.Info().Int64("last_index", prev.LastProcessedIndex).Msg("resuming import from checkpoint")
	return prev.LastProcessedIndex + 1
}

func (i *Importer) processAllBatches(ctx context.Context, records []RawOpportunity, start int64) error {
	for offset := start; offset < int64(len(records)); offset += int64(i.cfg.BatchSize) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-i.stopChan:
			return fmt.Errorf("import canceled")
		default:
		}

		end := offset + int64(i.cfg.BatchSize)
		if end > int64(len(records)) {
			end = int64(len(records))
		}
		i.processBatch(ctx, records[offset:end], end-1)
	}
	return nil
}

// processBatch imports one batch, updates statistics, and checkpoints.
func (i *Importer) processBatch(ctx context.Context, batch []RawOpportunity, lastIndex int64) {
	var imported, skipped, errored int64
	for idx := range batch {
		rec := &batch[idx]
		if err := i.mapper.ValidateRecord(rec); err != nil {
			logging.Debug().Err(err).Str("title", rec.Title).Msg("skipping invalid record")
			skipped++
			continue
		}

		o := i.mapper.ToOpportunity(rec)
		if i.cfg.DryRun {
			imported++
			continue
		}
		if err := i.store.UpsertOpportunity(ctx, o); err != nil {
			logging.Error().Err(err).Str("opportunity_id", o.ID).Msg("failed to import record")
			errored++
			continue
		}
		imported++
	}

	i.mu.Lock()
	i.stats.Processed += int64(len(batch))
	i.stats.Imported += imported
	i.stats.Skipped += skipped
	i.stats.Errors += errored
	i.stats.LastProcessedIndex = lastIndex
	stats := *i.stats
	i.mu.Unlock()

	if i.progress != nil && !i.cfg.DryRun {
		if err := i.progress.Save(ctx, &stats); err != nil {
			logging.Warn().Err(err).Msg("failed to save progress")
		}
	}

	i.progressLog.Do(func() {
		logging.Info().
			Float64("progress_percent", stats.Progress()).
			Int64("processed", stats.Processed).
			Int64("total_records", stats.TotalRecords).
			Int64("imported", stats.Imported).
			Int64("skipped", stats.Skipped).
			Int64("errors", stats.Errors).
			Float64("records_per_second", stats.RecordsPerSecond()).
			Msg("import progress")
	})
}

// Stop cancels a running import.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return fmt.Errorf("no import in progress")
	}
	close(i.stopChan)
	i.stopChan = make(chan struct{})
	return nil
}

// Stats returns a copy of the current import statistics.
func (i *Importer) Stats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{}
	}
	stats := *i.stats
	return &stats
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}

// readExportFile reads and decodes a JSON export file.
func readExportFile(path string) ([]RawOpportunity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}
	var records []RawOpportunity
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode export file: %w", err)
	}
	return records, nil
}
