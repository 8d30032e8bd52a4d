// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
	"github.com/msbhamoo/myark-final-sub005/internal/recommend"
)

// opportunityColumns is the scan column list shared by all opportunity
// queries; keep in sync with scanOpportunity.
const opportunityColumns = `id, slug, title, description,
	category, category_id, category_name,
	organizer, organizer_name, organizer_logo,
	grade_eligibility, segments, search_keywords,
	start_date, end_date, registration_deadline, registration_deadline_tbd,
	fee, mode, image, status, views`

// deadlineAscClause orders by registration deadline with absent
// deadlines last. String comparison is correct here because the dates
// are ISO strings.
const deadlineAscClause = `ORDER BY
	CASE WHEN registration_deadline IS NULL OR registration_deadline = '' THEN 1 ELSE 0 END,
	registration_deadline ASC, id ASC`

// UpsertOpportunity inserts or replaces a listing. The stored view
// counter is preserved on update; IncrementOpportunityViews is the only
// writer of views.
func (db *DB) UpsertOpportunity(ctx context.Context, o *models.Opportunity) error {
	if o.ID == "" {
		return fmt.Errorf("opportunity id is required")
	}
	query := `INSERT INTO opportunities (
		id, slug, title, description,
		category, category_id, category_name,
		organizer, organizer_name, organizer_logo,
		grade_eligibility, segments, search_keywords,
		start_date, end_date, registration_deadline, registration_deadline_tbd,
		fee, mode, image, status, views
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		slug = excluded.slug,
		title = excluded.title,
		description = excluded.description,
		category = excluded.category,
		category_id = excluded.category_id,
		category_name = excluded.category_name,
		organizer = excluded.organizer,
		organizer_name = excluded.organizer_name,
		organizer_logo = excluded.organizer_logo,
		grade_eligibility = excluded.grade_eligibility,
		segments = excluded.segments,
		search_keywords = excluded.search_keywords,
		start_date = excluded.start_date,
		end_date = excluded.end_date,
		registration_deadline = excluded.registration_deadline,
		registration_deadline_tbd = excluded.registration_deadline_tbd,
		fee = excluded.fee,
		mode = excluded.mode,
		image = excluded.image,
		status = excluded.status,
		updated_at = now()`

	_, err := db.conn.ExecContext(ctx, query,
		o.ID, o.Slug, o.Title, o.Description,
		o.Category, o.CategoryID, o.CategoryName,
		o.Organizer, o.OrganizerName, o.OrganizerLogo,
		o.GradeEligibility, joinList(o.Segments), joinList(o.SearchKeywords),
		o.StartDate, o.EndDate, o.RegistrationDeadline, o.RegistrationDeadlineTBD,
		o.Fee, string(models.NormalizeMode(string(o.Mode))), o.Image, o.Status, o.Views,
	)
	if err != nil {
		return fmt.Errorf("upsert opportunity %s: %w", o.ID, err)
	}
	return nil
}

// OpportunityByID returns a single listing by id, or nil when absent.
func (db *DB) OpportunityByID(ctx context.Context, id string) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = ?`
	row := db.conn.QueryRowContext(ctx, query, id)
	o, err := scanOpportunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query opportunity %s: %w", id, err)
	}
	return o, nil
}

// ApprovedOpportunities returns approved listings in the requested
// order. OrderNone still orders by id so results are reproducible.
func (db *DB) ApprovedOpportunities(ctx context.Context, order recommend.OrderBy, limit int) ([]models.Opportunity, error) {
	var orderClause string
	switch order {
	case recommend.OrderDeadlineAsc:
		orderClause = deadlineAscClause
	case recommend.OrderViewsDesc:
		orderClause = `ORDER BY views DESC, id ASC`
	default:
		orderClause = `ORDER BY id ASC`
	}

	query := `SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE lower(status) = 'approved' ` + orderClause + ` LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query approved opportunities (%s): %w", order, err)
	}
	defer closeQuietly(rows)
	return collectOpportunities(rows)
}

// OpportunitiesByCategory returns approved listings whose effective
// category key (category_id, falling back to category) matches,
// soonest deadline first.
func (db *DB) OpportunitiesByCategory(ctx context.Context, categoryKey string, limit int) ([]models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE lower(status) = 'approved'
		AND (CASE WHEN category_id IS NOT NULL AND category_id <> '' THEN category_id ELSE category END) = ?
		` + deadlineAscClause + ` LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, categoryKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query category %q: %w", categoryKey, err)
	}
	defer closeQuietly(rows)
	return collectOpportunities(rows)
}

// IncrementOpportunityViews bumps the view counter by one.
func (db *DB) IncrementOpportunityViews(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE opportunities SET views = views + 1, updated_at = now() WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views for %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("opportunity %s: %w", id, ErrNotFound)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	var (
		o    models.Opportunity
		mode string

		slug, description, category, categoryID, categoryName   sql.NullString
		organizer, organizerName, organizerLogo, gradeRange     sql.NullString
		segments, keywords, startDate, endDate, deadline, fee   sql.NullString
		image                                                   sql.NullString
	)

	err := row.Scan(
		&o.ID, &slug, &o.Title, &description,
		&category, &categoryID, &categoryName,
		&organizer, &organizerName, &organizerLogo,
		&gradeRange, &segments, &keywords,
		&startDate, &endDate, &deadline, &o.RegistrationDeadlineTBD,
		&fee, &mode, &image, &o.Status, &o.Views,
	)
	if err != nil {
		return nil, err
	}

	o.Slug = slug.String
	o.Description = description.String
	o.Category = category.String
	o.CategoryID = categoryID.String
	o.CategoryName = categoryName.String
	o.Organizer = organizer.String
	o.OrganizerName = organizerName.String
	o.OrganizerLogo = organizerLogo.String
	o.GradeEligibility = gradeRange.String
	o.Segments = splitList(segments.String)
	o.SearchKeywords = splitList(keywords.String)
	o.StartDate = startDate.String
	o.EndDate = endDate.String
	o.RegistrationDeadline = deadline.String
	o.Fee = fee.String
	o.Mode = models.NormalizeMode(mode)
	o.Image = image.String
	return &o, nil
}

func collectOpportunities(rows *sql.Rows) ([]models.Opportunity, error) {
	opportunities := make([]models.Opportunity, 0, 32)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opportunities = append(opportunities, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunities: %w", err)
	}
	return opportunities, nil
}

// joinList flattens a string list for storage. Values are trimmed;
// empties dropped.
func joinList(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ",")
}

// splitList reverses joinList.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
