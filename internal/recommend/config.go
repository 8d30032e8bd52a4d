// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"fmt"
	"math"
)

// weightTolerance is the acceptable deviation of the feature weight sum
// from 1.0, absorbing float literal rounding.
const weightTolerance = 1e-9

// FeatureWeights defines the contribution of each feature score to the
// aggregate relevance score. Unlike typical ensemble weights these are
// NOT renormalized at runtime: the published scoring contract fixes
// them, so Validate rejects any set that does not sum to 1.0.
type FeatureWeights struct {
	// Category weights the category-affinity score.
	Category float64 `json:"category" koanf:"category"`

	// Grade weights the grade-eligibility match score.
	Grade float64 `json:"grade" koanf:"grade"`

	// Keyword weights the keyword-affinity score.
	Keyword float64 `json:"keyword" koanf:"keyword"`

	// Recency weights the time-to-start score.
	Recency float64 `json:"recency" koanf:"recency"`

	// Deadline weights the registration-deadline urgency score.
	Deadline float64 `json:"deadline" koanf:"deadline"`

	// Popularity weights the view-count score.
	Popularity float64 `json:"popularity" koanf:"popularity"`
}

// DefaultFeatureWeights returns the production weight set. The values
// are empirically chosen; treat them as tunable constants rather than
// load-bearing design decisions.
func DefaultFeatureWeights() FeatureWeights {
	return FeatureWeights{
		Category:   0.35,
		Grade:      0.25,
		Keyword:    0.20,
		Recency:    0.10,
		Deadline:   0.05,
		Popularity: 0.05,
	}
}

// Validate checks that all weights are non-negative and sum to 1.0.
func (w FeatureWeights) Validate() error {
	for name, v := range w.toMap() {
		if v < 0 {
			return fmt.Errorf("feature weight %s is negative: %v", name, v)
		}
	}
	sum := w.Category + w.Grade + w.Keyword + w.Recency + w.Deadline + w.Popularity
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("feature weights must sum to 1.0, got %v", sum)
	}
	return nil
}

func (w FeatureWeights) toMap() map[string]float64 {
	return map[string]float64{
		"category":   w.Category,
		"grade":      w.Grade,
		"keyword":    w.Keyword,
		"recency":    w.Recency,
		"deadline":   w.Deadline,
		"popularity": w.Popularity,
	}
}

// Config contains all tunables for the recommendation engine.
type Config struct {
	// Weights is the fixed feature weight set.
	Weights FeatureWeights `json:"weights" koanf:"weights"`

	// CandidatePoolSize is the over-fetch size for the personalized
	// path. Candidates are filtered (viewed/expired) before truncation
	// to the request limit.
	CandidatePoolSize int `json:"candidate_pool_size" koanf:"candidate_pool_size"`

	// RecentlyViewedCount is how many most-recent view ids are excluded
	// from personalized results.
	RecentlyViewedCount int `json:"recently_viewed_count" koanf:"recently_viewed_count"`

	// TrendingPoolSize is the unordered over-fetch size for the degraded
	// trending path.
	TrendingPoolSize int `json:"trending_pool_size" koanf:"trending_pool_size"`

	// DefaultLimit is the result count when the caller passes zero.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the caller-requested result count.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// SimilarLimit is the default size of category-based similar lists.
	SimilarLimit int `json:"similar_limit" koanf:"similar_limit"`

	// ShortlistLimit is the default size of the related-opportunity
	// shortlist produced by the similarity ranker.
	ShortlistLimit int `json:"shortlist_limit" koanf:"shortlist_limit"`
}

// DefaultConfig returns the production engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:             DefaultFeatureWeights(),
		CandidatePoolSize:   100,
		RecentlyViewedCount: 20,
		TrendingPoolSize:    50,
		DefaultLimit:        10,
		MaxLimit:            50,
		SimilarLimit:        6,
		ShortlistLimit:      3,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.CandidatePoolSize <= 0 {
		return fmt.Errorf("candidate_pool_size must be positive, got %d", c.CandidatePoolSize)
	}
	if c.RecentlyViewedCount < 0 {
		return fmt.Errorf("recently_viewed_count must be non-negative, got %d", c.RecentlyViewedCount)
	}
	if c.TrendingPoolSize <= 0 {
		return fmt.Errorf("trending_pool_size must be positive, got %d", c.TrendingPoolSize)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.SimilarLimit <= 0 {
		return fmt.Errorf("similar_limit must be positive, got %d", c.SimilarLimit)
	}
	if c.ShortlistLimit <= 0 {
		return fmt.Errorf("shortlist_limit must be positive, got %d", c.ShortlistLimit)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
