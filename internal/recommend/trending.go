// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/msbhamoo/myark-final-sub005/internal/logging"
	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// trendingViewsDivisor and trendingViewsCap shape the popularity bonus:
// score = 50 + min(views/10, 50), so 500+ views saturates at 100.
const (
	trendingBaseScore    = 50.0
	trendingViewsDivisor = 10.0
	trendingViewsCap     = 50.0
)

// trendingBreaker guards the ordered trending query. When the store
// cannot serve the views-ordered read (missing view counts, timeouts),
// the breaker opens and requests flow straight to the degraded path
// instead of hammering a failing query.
type trendingBreaker struct {
	cb *gobreaker.CircuitBreaker[[]models.Opportunity]
}

func newTrendingBreaker() *trendingBreaker {
	return &trendingBreaker{
		cb: gobreaker.NewCircuitBreaker[[]models.Opportunity](gobreaker.Settings{
			Name:        "trending-primary",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Info().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state transition")
			},
		}),
	}
}

func (b *trendingBreaker) execute(fn func() ([]models.Opportunity, error)) ([]models.Opportunity, error) {
	return b.cb.Execute(fn)
}

// TrendingRecommendations returns the most-viewed approved listings,
// scored purely by popularity. When the primary views-ordered query
// fails (or its breaker is open) the engine degrades to an unordered
// pool that it filters and sorts itself, so the endpoint stays up as
// long as any approved listings are readable.
func (e *Engine) TrendingRecommendations(ctx context.Context, limit int) (*models.RecommendationsResponse, error) {
	limit = e.clampLimit(limit)

	items, err := e.trendingBreaker.execute(func() ([]models.Opportunity, error) {
		return e.opps.ApprovedOpportunities(ctx, OrderViewsDesc, limit)
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("trending primary query failed, using degraded path")
		items, err = e.degradedTrendingPool(ctx, limit)
		if err != nil {
			return nil, err
		}
	}

	scored := make([]models.ScoredOpportunity, 0, len(items))
	for i := range items {
		scored = append(scored, trendingScore(&items[i]))
	}

	return &models.RecommendationsResponse{
		Items:          scored,
		UserHasHistory: false,
		Type:           models.RecommendationTrending,
	}, nil
}

// degradedTrendingPool fetches a fixed unordered pool of approved
// listings, drops expired ones, and sorts by views locally.
func (e *Engine) degradedTrendingPool(ctx context.Context, limit int) ([]models.Opportunity, error) {
	pool, err := e.opps.ApprovedOpportunities(ctx, OrderNone, e.config.TrendingPoolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch trending fallback pool: %w", err)
	}

	now := e.clock.Now()
	kept := pool[:0]
	for i := range pool {
		o := pool[i]
		if deadline, ok := models.ParseDate(o.RegistrationDeadline); ok && deadline.Before(now) {
			continue
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Views > kept[j].Views
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

// trendingScore maps raw view counts onto the 50..100 band.
func trendingScore(o *models.Opportunity) models.ScoredOpportunity {
	bonus := math.Min(float64(o.Views)/trendingViewsDivisor, trendingViewsCap)
	return models.ScoredOpportunity{
		Opportunity:  *o,
		Score:        int(math.Round(trendingBaseScore + bonus)),
		MatchReasons: []string{ReasonTrending},
	}
}
