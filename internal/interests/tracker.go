// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package interests

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
	"github.com/msbhamoo/myark-final-sub005/internal/recommend"
)

const (
	// interactionWeight is added to a category per view.
	interactionWeight = 1.0
	// keywordWeight is added per extracted keyword per view.
	keywordWeight = 0.5
	// maxViewHistory bounds the retained view events per user.
	maxViewHistory = 100
)

// unknownCategory buckets views of listings with no category data.
const unknownCategory = "unknown"

// ProfileUpdate is the atomic change a single view applies to a user's
// interest profile.
type ProfileUpdate struct {
	// CategoryKey receives interactionWeight.
	CategoryKey string
	// KeywordDeltas maps sanitized keywords to their weight increment.
	KeywordDeltas map[string]float64
	// Mode, when non-empty, joins the preferred-modes set.
	Mode string
	// Grade, when non-empty, joins the preferred-grades set.
	Grade string
	// UpdatedAt stamps the profile.
	UpdatedAt time.Time
}

// Store persists interest profiles and view history. Implemented by the
// database layer.
type Store interface {
	// UpsertViewEvent records a view, replacing any prior event for the
	// same opportunity so history stays deduplicated.
	UpsertViewEvent(ctx context.Context, userID string, event models.ViewEvent) error

	// ApplyProfileUpdate increments the weights in one write.
	ApplyProfileUpdate(ctx context.Context, userID string, update ProfileUpdate) error

	// TrimViewHistory drops all but the newest keep events.
	TrimViewHistory(ctx context.Context, userID string, keep int) error
}

// Tracker turns opportunity views into interest-profile updates.
type Tracker struct {
	store  Store
	clock  recommend.Clock
	logger zerolog.Logger
}

// NewTracker creates a view tracker over the given store.
func NewTracker(store Store, clock recommend.Clock, logger zerolog.Logger) *Tracker {
	if clock == nil {
		clock = recommend.SystemClock()
	}
	return &Tracker{
		store:  store,
		clock:  clock,
		logger: logger.With().Str("component", "interests").Logger(),
	}
}

// TrackView records that a user viewed an opportunity: the view event
// joins the history, the category gains a full interaction weight, each
// extracted keyword gains half, and the mode and grade labels join the
// user's preference sets. History trimming is best-effort; a failed trim
// is logged but does not fail the view.
func (t *Tracker) TrackView(ctx context.Context, userID string, o *models.Opportunity, durationSeconds int) error {
	now := t.clock.Now()
	keywords := ExtractKeywords(o)

	category := o.Category
	if category == "" {
		category = unknownCategory
	}
	event := models.ViewEvent{
		OpportunityID:   o.ID,
		Category:        category,
		CategoryID:      o.CategoryID,
		Keywords:        keywords,
		ViewedAt:        now.Format(time.RFC3339),
		DurationSeconds: durationSeconds,
	}
	if err := t.store.UpsertViewEvent(ctx, userID, event); err != nil {
		return fmt.Errorf("record view: %w", err)
	}

	categoryKey := o.CategoryKey()
	if categoryKey == "" {
		categoryKey = unknownCategory
	}
	update := ProfileUpdate{
		CategoryKey:   categoryKey,
		KeywordDeltas: make(map[string]float64, len(keywords)),
		Grade:         o.GradeEligibility,
		UpdatedAt:     now,
	}
	// Preference sets only grow from explicit fields, not defaults.
	if o.Mode != "" {
		update.Mode = string(models.NormalizeMode(string(o.Mode)))
	}
	for _, keyword := range keywords {
		update.KeywordDeltas[recommend.NormalizeKeyword(keyword)] += keywordWeight
	}
	if err := t.store.ApplyProfileUpdate(ctx, userID, update); err != nil {
		return fmt.Errorf("update interests: %w", err)
	}

	if err := t.store.TrimViewHistory(ctx, userID, maxViewHistory); err != nil {
		t.logger.Warn().Err(err).Str("user_id", userID).Msg("view history trim failed")
	}

	t.logger.Debug().
		Str("user_id", userID).
		Str("opportunity_id", o.ID).
		Str("category", categoryKey).
		Int("keywords", len(keywords)).
		Msg("view tracked")
	return nil
}
