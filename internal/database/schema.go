// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext bounds schema DDL execution.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables. All columns are defined in the
// initial CREATE TABLE statements; there is no migration chain yet.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		// Opportunity listings. Date columns are ISO strings to match
		// the lenient parsing at the model boundary: a record with a
		// malformed date must load, not fail.
		`CREATE TABLE IF NOT EXISTS opportunities (
			id TEXT PRIMARY KEY,
			slug TEXT,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT,
			category_id TEXT,
			category_name TEXT,
			organizer TEXT,
			organizer_name TEXT,
			organizer_logo TEXT,
			grade_eligibility TEXT,
			segments TEXT,
			search_keywords TEXT,
			start_date TEXT,
			end_date TEXT,
			registration_deadline TEXT,
			registration_deadline_tbd BOOLEAN NOT NULL DEFAULT FALSE,
			fee TEXT,
			mode TEXT NOT NULL DEFAULT 'online',
			image TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			views BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		// One row per (user, opportunity): re-views refresh viewed_at
		// instead of growing the table.
		`CREATE TABLE IF NOT EXISTS view_history (
			user_id TEXT NOT NULL,
			opportunity_id TEXT NOT NULL,
			category TEXT,
			category_id TEXT,
			keywords TEXT,
			viewed_at TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, opportunity_id)
		)`,

		// Interest weights, one row per (user, kind, key) where kind is
		// 'category' or 'keyword'.
		`CREATE TABLE IF NOT EXISTS user_interests (
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			weight DOUBLE NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			PRIMARY KEY (user_id, kind, key)
		)`,

		// Preference sets, kind is 'mode' or 'grade'.
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (user_id, kind, value)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	return nil
}

// createIndexes creates indexes for the recommendation query patterns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_opportunities_status ON opportunities(status)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_category ON opportunities(category_id, category)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_views ON opportunities(views)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_deadline ON opportunities(registration_deadline)`,
		`CREATE INDEX IF NOT EXISTS idx_view_history_user ON view_history(user_id, viewed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_interests_user ON user_interests(user_id, kind)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
