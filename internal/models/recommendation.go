// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package models

// UserInterests is a point-in-time snapshot of a user's accumulated
// interest signal. It is built and maintained by the interest tracker and
// consumed read-only by the recommendation engine; the engine never
// mutates or persists it.
type UserInterests struct {
	// Categories maps a category key to a non-negative interaction
	// weight (count of past interactions with that category).
	Categories map[string]float64 `json:"categories"`

	// Keywords maps a normalized keyword token to a non-negative
	// interaction weight.
	Keywords map[string]float64 `json:"keywords"`

	// PreferredGrades is the list of grade-level strings inferred from
	// the user's profile and behavior.
	PreferredGrades []string `json:"preferredGrades"`

	// PreferredModes is the list of delivery modes the user has engaged
	// with.
	PreferredModes []string `json:"preferredModes"`
}

// EmptyInterests returns a zero-signal snapshot for users with no
// recorded history.
func EmptyInterests() UserInterests {
	return UserInterests{
		Categories:      map[string]float64{},
		Keywords:        map[string]float64{},
		PreferredGrades: []string{},
		PreferredModes:  []string{},
	}
}

// ScoredOpportunity pairs an opportunity with its aggregate relevance
// score and up to two human-readable match reasons. It is transient and
// derived; nothing about it is persisted.
type ScoredOpportunity struct {
	// Opportunity is the underlying listing.
	Opportunity Opportunity `json:"opportunity"`

	// Score is the rounded aggregate relevance score in [0, 100].
	Score int `json:"score"`

	// MatchReasons holds at most 2 short justification strings, in rule
	// evaluation order.
	MatchReasons []string `json:"matchReasons"`
}

// RecommendationType distinguishes the personalized and trending paths.
type RecommendationType string

const (
	// RecommendationPersonalized marks output of the interest-weighted path.
	RecommendationPersonalized RecommendationType = "personalized"
	// RecommendationTrending marks output of the popularity fallback path.
	RecommendationTrending RecommendationType = "trending"
)

// RecommendationsResponse is the engine's API-level output.
type RecommendationsResponse struct {
	// Items is the ranked recommendation list.
	Items []ScoredOpportunity `json:"items"`

	// UserHasHistory reports whether the user cleared the history gate.
	UserHasHistory bool `json:"userHasHistory"`

	// Type is the path that produced the items.
	Type RecommendationType `json:"type"`
}

// ViewEvent records a single opportunity view for interest tracking and
// recently-viewed exclusion.
type ViewEvent struct {
	// OpportunityID is the viewed listing's store id.
	OpportunityID string `json:"opportunityId"`

	// Category is the listing's free-text category at view time.
	Category string `json:"category"`

	// CategoryID is the listing's stable category id, if any.
	CategoryID string `json:"categoryId,omitempty"`

	// Keywords are the interest keywords extracted from the listing.
	Keywords []string `json:"keywords"`

	// ViewedAt is the ISO timestamp of the view.
	ViewedAt string `json:"viewedAt"`

	// DurationSeconds is how long the listing was open, when known.
	DurationSeconds int `json:"durationSeconds,omitempty"`
}
