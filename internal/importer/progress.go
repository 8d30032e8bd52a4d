// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// progressKey is the BadgerDB key for storing import progress.
const progressKey = "import:opportunities:progress"

// ProgressTracker persists import progress so interrupted imports can
// resume where they left off.
type ProgressTracker interface {
	// Save persists the current import progress.
	Save(ctx context.Context, stats *ImportStats) error

	// Load retrieves the last saved import progress.
	Load(ctx context.Context) (*ImportStats, error)

	// Clear removes saved progress (for fresh imports).
	Clear(ctx context.Context) error
}

// BadgerProgress implements ProgressTracker using BadgerDB.
// This enables resumable imports across process restarts.
type BadgerProgress struct {
	db *badger.DB
}

// OpenBadgerProgress opens a BadgerDB-backed progress tracker at the
// given path. An empty path opens an in-memory instance, which does not
// survive restarts.
func OpenBadgerProgress(path string) (*BadgerProgress, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open progress store: %w", err)
	}
	return &BadgerProgress{db: db}, nil
}

// NewBadgerProgress wraps an existing BadgerDB instance.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// Save persists the current import progress.
func (p *BadgerProgress) Save(_ context.Context, stats *ImportStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(progressKey), data)
	})
}

// Load retrieves the last saved import progress.
// Returns nil, nil if no progress has been saved.
func (p *BadgerProgress) Load(_ context.Context) (*ImportStats, error) {
	var stats ImportStats

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	if stats.StartTime.IsZero() {
		return nil, nil
	}
	return &stats, nil
}

// Clear removes saved progress.
func (p *BadgerProgress) Clear(_ context.Context) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close releases the underlying BadgerDB instance.
func (p *BadgerProgress) Close() error {
	return p.db.Close()
}

// InMemoryProgress implements ProgressTracker in memory, for tests and
// one-shot imports where persistence is not required.
type InMemoryProgress struct {
	stats *ImportStats
}

// NewInMemoryProgress creates a new in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

// Save stores a copy of the progress in memory.
func (p *InMemoryProgress) Save(_ context.Context, stats *ImportStats) error {
	statsCopy := *stats
	p.stats = &statsCopy
	return nil
}

// Load retrieves the progress from memory.
func (p *InMemoryProgress) Load(_ context.Context) (*ImportStats, error) {
	if p.stats == nil {
		return nil, nil
	}
	statsCopy := *p.stats
	return &statsCopy, nil
}

// Clear removes the stored progress.
func (p *InMemoryProgress) Clear(_ context.Context) error {
	p.stats = nil
	return nil
}
