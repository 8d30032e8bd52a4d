// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
	"github.com/msbhamoo/myark-final-sub005/internal/recommend/similar"
)

// ErrNotFound is returned when the source opportunity of a similarity
// query does not exist.
var ErrNotFound = errors.New("opportunity not found")

// SimilarOpportunities returns approved listings in the same category as
// the given one, soonest deadline first. A source with no category
// information yields an empty list, not an error.
func (e *Engine) SimilarOpportunities(ctx context.Context, id string, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = e.config.SimilarLimit
	}

	source, err := e.opps.OpportunityByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load opportunity %q: %w", id, err)
	}
	if source == nil {
		return nil, fmt.Errorf("opportunity %q: %w", id, ErrNotFound)
	}

	categoryKey := source.CategoryKey()
	if categoryKey == "" {
		return []models.Opportunity{}, nil
	}

	// Fetch one extra row since the source itself may come back.
	candidates, err := e.opps.OpportunitiesByCategory(ctx, categoryKey, limit+1)
	if err != nil {
		return nil, fmt.Errorf("fetch category %q: %w", categoryKey, err)
	}

	now := e.clock.Now()
	identity := source.Identity()
	results := make([]models.Opportunity, 0, limit)
	for i := range candidates {
		c := candidates[i]
		if c.Identity() == identity {
			continue
		}
		if deadline, ok := c.Deadline(); ok && deadline.Before(now) {
			continue
		}
		results = append(results, c)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// RelatedOpportunities shortlists the listings most related to the given
// one using pairwise similarity scoring. The candidate pool mixes the
// source's own category with a broad approved sample so cross-category
// matches (shared segments, organizers, keywords) still surface.
func (e *Engine) RelatedOpportunities(ctx context.Context, id string, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = e.config.ShortlistLimit
	}

	source, err := e.opps.OpportunityByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load opportunity %q: %w", id, err)
	}
	if source == nil {
		return nil, fmt.Errorf("opportunity %q: %w", id, ErrNotFound)
	}

	pool := make([]models.Opportunity, 0, e.config.CandidatePoolSize)
	seen := make(map[string]struct{})
	add := func(items []models.Opportunity) {
		for i := range items {
			identity := items[i].Identity()
			if identity == "" {
				continue
			}
			if _, ok := seen[identity]; ok {
				continue
			}
			seen[identity] = struct{}{}
			pool = append(pool, items[i])
		}
	}

	if categoryKey := source.CategoryKey(); categoryKey != "" {
		sameCategory, err := e.opps.OpportunitiesByCategory(ctx, categoryKey, e.config.CandidatePoolSize)
		if err != nil {
			e.logger.Warn().Err(err).Str("category", categoryKey).Msg("category candidates unavailable")
		} else {
			add(sameCategory)
		}
	}

	broad, err := e.opps.ApprovedOpportunities(ctx, OrderNone, e.config.CandidatePoolSize)
	if err != nil {
		// The category pool alone can still produce a shortlist.
		if len(pool) == 0 {
			return nil, fmt.Errorf("fetch candidate pool: %w", err)
		}
		e.logger.Warn().Err(err).Msg("broad candidate pool unavailable")
	} else {
		add(broad)
	}

	return similar.Rank(source, pool, e.clock.Now(), limit), nil
}
