// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// OrderBy selects the store-side ordering of a candidate query.
type OrderBy int

const (
	// OrderNone requests no secondary ordering (degraded-path reads).
	OrderNone OrderBy = iota
	// OrderDeadlineAsc orders by registration deadline, soonest first.
	OrderDeadlineAsc
	// OrderViewsDesc orders by view count, most viewed first.
	OrderViewsDesc
)

// String returns the ordering name for logs.
func (o OrderBy) String() string {
	switch o {
	case OrderDeadlineAsc:
		return "deadline_asc"
	case OrderViewsDesc:
		return "views_desc"
	default:
		return "none"
	}
}

// OpportunityReader is the read-only query surface over the opportunity
// store. Implemented by the database layer.
type OpportunityReader interface {
	// ApprovedOpportunities returns up to limit approved listings in the
	// requested order.
	ApprovedOpportunities(ctx context.Context, order OrderBy, limit int) ([]models.Opportunity, error)

	// OpportunityByID returns a single listing, or nil when absent.
	OpportunityByID(ctx context.Context, id string) (*models.Opportunity, error)

	// OpportunitiesByCategory returns up to limit approved listings
	// sharing the given category key.
	OpportunitiesByCategory(ctx context.Context, categoryKey string, limit int) ([]models.Opportunity, error)
}

// InterestReader is the read-only query surface over per-user interest
// snapshots and view history. Implemented by the database layer.
type InterestReader interface {
	// UserInterests returns the user's interest snapshot; an empty
	// snapshot (not an error) for unknown users.
	UserInterests(ctx context.Context, userID string) (models.UserInterests, error)

	// RecentlyViewedIDs returns up to n most-recently viewed listing
	// ids, newest first.
	RecentlyViewedIDs(ctx context.Context, userID string, n int) ([]string, error)

	// HasEnoughHistory reports whether the user cleared the
	// personalization gate.
	HasEnoughHistory(ctx context.Context, userID string) (bool, error)
}

// Engine produces personalized, trending, and similarity-based
// opportunity rankings. It is stateless per request and safe for
// concurrent use: each invocation reads immutable snapshots and returns
// a freshly computed result. Any caching is the caller's concern.
type Engine struct {
	config    *Config
	logger    zerolog.Logger
	opps      OpportunityReader
	interests InterestReader
	clock     Clock

	trendingBreaker *trendingBreaker
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, opps OpportunityReader, interests InterestReader, clock Clock) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opps == nil {
		return nil, fmt.Errorf("opportunity reader is required")
	}
	if interests == nil {
		return nil, fmt.Errorf("interest reader is required")
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &Engine{
		config:          cfg,
		logger:          logger.With().Str("component", "recommend").Logger(),
		opps:            opps,
		interests:       interests,
		clock:           clock,
		trendingBreaker: newTrendingBreaker(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ScoreOpportunity scores a single opportunity against an interest
// snapshot at the current instant. Exposed for callers that rank their
// own candidate pools.
func (e *Engine) ScoreOpportunity(o *models.Opportunity, interests *models.UserInterests) models.ScoredOpportunity {
	return scoreOpportunity(e.config.Weights, o, interests, e.clock.Now())
}

// scoreOpportunity runs the feature scorers, the aggregator, and the
// reason generator for one opportunity.
func scoreOpportunity(weights FeatureWeights, o *models.Opportunity, interests *models.UserInterests, now time.Time) models.ScoredOpportunity {
	features := scoreFeatures(o, interests, now)
	return models.ScoredOpportunity{
		Opportunity:  *o,
		Score:        weights.aggregate(features),
		MatchReasons: matchReasons(o, features, now),
	}
}

// PersonalizedRecommendations returns interest-ranked recommendations
// for a user, or trending recommendations when the user has not cleared
// the history gate. Store failures on the personalized path propagate to
// the caller; only the trending path degrades locally.
func (e *Engine) PersonalizedRecommendations(ctx context.Context, userID string, limit int) (*models.RecommendationsResponse, error) {
	limit = e.clampLimit(limit)

	hasHistory, err := e.interests.HasEnoughHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check history: %w", err)
	}
	if !hasHistory {
		e.logger.Debug().Str("user_id", userID).Msg("insufficient history, serving trending")
		return e.TrendingRecommendations(ctx, limit)
	}

	interests, viewed, err := e.fetchUserSignal(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := e.opps.ApprovedOpportunities(ctx, OrderDeadlineAsc, e.config.CandidatePoolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	now := e.clock.Now()
	viewedSet := normalizedSet(viewed)

	scored := make([]models.ScoredOpportunity, 0, len(candidates))
	for i := range candidates {
		o := &candidates[i]
		if e.excluded(o, viewedSet, now) {
			continue
		}
		scored = append(scored, scoreOpportunity(e.config.Weights, o, &interests, now))
	}

	// Stable sort keeps the store's deadline-ascending order within
	// equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Msg("personalized recommendations complete")

	return &models.RecommendationsResponse{
		Items:          scored,
		UserHasHistory: true,
		Type:           models.RecommendationPersonalized,
	}, nil
}

// fetchUserSignal loads the interest snapshot and the recently-viewed
// ids concurrently; the two reads are independent.
func (e *Engine) fetchUserSignal(ctx context.Context, userID string) (models.UserInterests, []string, error) {
	var (
		wg          sync.WaitGroup
		interests   models.UserInterests
		viewed      []string
		interestErr error
		viewedErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		interests, interestErr = e.interests.UserInterests(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		viewed, viewedErr = e.interests.RecentlyViewedIDs(ctx, userID, e.config.RecentlyViewedCount)
	}()
	wg.Wait()

	if interestErr != nil {
		return models.UserInterests{}, nil, fmt.Errorf("fetch interests: %w", interestErr)
	}
	if viewedErr != nil {
		return models.UserInterests{}, nil, fmt.Errorf("fetch view history: %w", viewedErr)
	}
	return interests, viewed, nil
}

// excluded reports whether a candidate is dropped before scoring:
// recently viewed, or registration deadline strictly in the past.
// Expiry compares full timestamps; same-day deadlines survive until the
// recorded instant passes.
func (e *Engine) excluded(o *models.Opportunity, viewed map[string]struct{}, now time.Time) bool {
	if _, ok := viewed[o.Identity()]; ok {
		return true
	}
	if id := models.NormalizeText(o.ID); id != "" {
		if _, ok := viewed[id]; ok {
			return true
		}
	}
	if deadline, ok := models.ParseDate(o.RegistrationDeadline); ok && deadline.Before(now) {
		return true
	}
	return false
}

// clampLimit applies the default and maximum result counts.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.DefaultLimit
	}
	if limit > e.config.MaxLimit {
		return e.config.MaxLimit
	}
	return limit
}

// normalizedSet builds a lookup set of normalized identity strings.
func normalizedSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if n := models.NormalizeText(id); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
