// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msbhamoo/myark-final-sub005/internal/interests"
	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// Interest row kinds.
const (
	kindCategory = "category"
	kindKeyword  = "keyword"
)

// Preference row kinds.
const (
	kindMode  = "mode"
	kindGrade = "grade"
)

// UserInterests loads a user's interest profile. Unknown users get an
// empty profile, not an error.
func (db *DB) UserInterests(ctx context.Context, userID string) (models.UserInterests, error) {
	profile := models.EmptyInterests()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT kind, key, weight FROM user_interests WHERE user_id = ?`, userID)
	if err != nil {
		return profile, fmt.Errorf("query interests for %s: %w", userID, err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var kind, key string
		var weight float64
		if err := rows.Scan(&kind, &key, &weight); err != nil {
			return profile, fmt.Errorf("scan interest row: %w", err)
		}
		switch kind {
		case kindCategory:
			profile.Categories[key] = weight
		case kindKeyword:
			profile.Keywords[key] = weight
		}
	}
	if err := rows.Err(); err != nil {
		return profile, fmt.Errorf("iterate interest rows: %w", err)
	}

	prefRows, err := db.conn.QueryContext(ctx,
		`SELECT kind, value FROM user_preferences WHERE user_id = ? ORDER BY value`, userID)
	if err != nil {
		return profile, fmt.Errorf("query preferences for %s: %w", userID, err)
	}
	defer closeQuietly(prefRows)

	for prefRows.Next() {
		var kind, value string
		if err := prefRows.Scan(&kind, &value); err != nil {
			return profile, fmt.Errorf("scan preference row: %w", err)
		}
		switch kind {
		case kindMode:
			profile.PreferredModes = append(profile.PreferredModes, value)
		case kindGrade:
			profile.PreferredGrades = append(profile.PreferredGrades, value)
		}
	}
	if err := prefRows.Err(); err != nil {
		return profile, fmt.Errorf("iterate preference rows: %w", err)
	}

	return profile, nil
}

// RecentlyViewedIDs returns up to n most recently viewed opportunity
// ids, newest first.
func (db *DB) RecentlyViewedIDs(ctx context.Context, userID string, n int) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT opportunity_id FROM view_history
		 WHERE user_id = ? ORDER BY viewed_at DESC, opportunity_id LIMIT ?`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("query view history for %s: %w", userID, err)
	}
	defer closeQuietly(rows)

	ids := make([]string, 0, n)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan view history row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view history: %w", err)
	}
	return ids, nil
}

// HasEnoughHistory reports whether the user's category interactions
// clear the personalization threshold.
func (db *DB) HasEnoughHistory(ctx context.Context, userID string) (bool, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT count(*), coalesce(sum(weight), 0) FROM user_interests
		 WHERE user_id = ? AND kind = ?`, userID, kindCategory)

	var categories int
	var total float64
	if err := row.Scan(&categories, &total); err != nil {
		return false, fmt.Errorf("query history gate for %s: %w", userID, err)
	}
	return interests.MeetsHistoryCounts(categories, total), nil
}

// UpsertViewEvent records a view, replacing any prior event for the
// same (user, opportunity) pair.
func (db *DB) UpsertViewEvent(ctx context.Context, userID string, event models.ViewEvent) error {
	query := `INSERT INTO view_history
		(user_id, opportunity_id, category, category_id, keywords, viewed_at, duration_seconds)
	 VALUES (?, ?, ?, ?, ?, ?, ?)
	 ON CONFLICT (user_id, opportunity_id) DO UPDATE SET
		category = excluded.category,
		category_id = excluded.category_id,
		keywords = excluded.keywords,
		viewed_at = excluded.viewed_at,
		duration_seconds = excluded.duration_seconds`

	_, err := db.conn.ExecContext(ctx, query,
		userID, event.OpportunityID, event.Category, event.CategoryID,
		joinList(event.Keywords), event.ViewedAt, event.DurationSeconds)
	if err != nil {
		return fmt.Errorf("upsert view event for %s: %w", userID, err)
	}
	return nil
}

// ApplyProfileUpdate increments interest weights and extends preference
// sets in a single transaction.
func (db *DB) ApplyProfileUpdate(ctx context.Context, userID string, update interests.ProfileUpdate) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profile update for %s: %w", userID, err)
	}
	defer rollbackQuietly(tx)

	if update.CategoryKey != "" {
		if err := incrementWeight(ctx, tx, userID, kindCategory, update.CategoryKey, 1); err != nil {
			return err
		}
	}
	for keyword, delta := range update.KeywordDeltas {
		if err := incrementWeight(ctx, tx, userID, kindKeyword, keyword, delta); err != nil {
			return err
		}
	}
	if update.Mode != "" {
		if err := addPreference(ctx, tx, userID, kindMode, update.Mode); err != nil {
			return err
		}
	}
	if update.Grade != "" {
		if err := addPreference(ctx, tx, userID, kindGrade, update.Grade); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit profile update for %s: %w", userID, err)
	}
	return nil
}

// TrimViewHistory drops all but the newest keep events for a user.
func (db *DB) TrimViewHistory(ctx context.Context, userID string, keep int) error {
	query := `DELETE FROM view_history
		WHERE user_id = ? AND opportunity_id NOT IN (
			SELECT opportunity_id FROM view_history
			WHERE user_id = ? ORDER BY viewed_at DESC, opportunity_id LIMIT ?
		)`
	if _, err := db.conn.ExecContext(ctx, query, userID, userID, keep); err != nil {
		return fmt.Errorf("trim view history for %s: %w", userID, err)
	}
	return nil
}

func incrementWeight(ctx context.Context, tx *sql.Tx, userID, kind, key string, delta float64) error {
	query := `INSERT INTO user_interests (user_id, kind, key, weight, updated_at)
		VALUES (?, ?, ?, ?, now())
		ON CONFLICT (user_id, kind, key) DO UPDATE SET
			weight = user_interests.weight + excluded.weight,
			updated_at = now()`
	if _, err := tx.ExecContext(ctx, query, userID, kind, key, delta); err != nil {
		return fmt.Errorf("increment %s weight %q: %w", kind, key, err)
	}
	return nil
}

func addPreference(ctx context.Context, tx *sql.Tx, userID, kind, value string) error {
	query := `INSERT INTO user_preferences (user_id, kind, value)
		VALUES (?, ?, ?) ON CONFLICT (user_id, kind, value) DO NOTHING`
	if _, err := tx.ExecContext(ctx, query, userID, kind, value); err != nil {
		return fmt.Errorf("add %s preference %q: %w", kind, value, err)
	}
	return nil
}

// rollbackQuietly rolls back a transaction, ignoring the error returned
// after a successful commit.
func rollbackQuietly(tx *sql.Tx) {
	_ = tx.Rollback()
}
