// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// fakeOpportunityReader serves canned listings keyed by query shape.
type fakeOpportunityReader struct {
	byOrder     map[OrderBy][]models.Opportunity
	orderErr    map[OrderBy]error
	byID        map[string]models.Opportunity
	byIDErr     error
	byCategory  map[string][]models.Opportunity
	categoryErr error

	lastOrder OrderBy
	lastLimit int
}

func (f *fakeOpportunityReader) ApprovedOpportunities(_ context.Context, order OrderBy, limit int) ([]models.Opportunity, error) {
	f.lastOrder = order
	f.lastLimit = limit
	if err := f.orderErr[order]; err != nil {
		return nil, err
	}
	items := f.byOrder[order]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeOpportunityReader) OpportunityByID(_ context.Context, id string) (*models.Opportunity, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOpportunityReader) OpportunitiesByCategory(_ context.Context, categoryKey string, limit int) ([]models.Opportunity, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	items := f.byCategory[categoryKey]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// fakeInterestReader serves a canned interest snapshot for every user.
type fakeInterestReader struct {
	interests    models.UserInterests
	interestsErr error
	viewed       []string
	viewedErr    error
	hasHistory   bool
	historyErr   error
}

func (f *fakeInterestReader) UserInterests(context.Context, string) (models.UserInterests, error) {
	return f.interests, f.interestsErr
}

func (f *fakeInterestReader) RecentlyViewedIDs(context.Context, string, int) ([]string, error) {
	return f.viewed, f.viewedErr
}

func (f *fakeInterestReader) HasEnoughHistory(context.Context, string) (bool, error) {
	return f.hasHistory, f.historyErr
}

func newTestEngine(t *testing.T, opps *fakeOpportunityReader, interests *fakeInterestReader) *Engine {
	t.Helper()
	if opps.byOrder == nil {
		opps.byOrder = map[OrderBy][]models.Opportunity{}
	}
	if opps.orderErr == nil {
		opps.orderErr = map[OrderBy]error{}
	}
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop(), opps, interests, FixedClock(testNow))
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return engine
}

func TestNewEngine(t *testing.T) {
	opps := &fakeOpportunityReader{}
	interests := &fakeInterestReader{}

	t.Run("nil opportunity reader rejected", func(t *testing.T) {
		if _, err := NewEngine(nil, zerolog.Nop(), nil, interests, nil); err == nil {
			t.Error("NewEngine() = nil error, want error")
		}
	})

	t.Run("nil interest reader rejected", func(t *testing.T) {
		if _, err := NewEngine(nil, zerolog.Nop(), opps, nil, nil); err == nil {
			t.Error("NewEngine() = nil error, want error")
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultLimit = 0
		if _, err := NewEngine(cfg, zerolog.Nop(), opps, interests, nil); err == nil {
			t.Error("NewEngine() = nil error, want error")
		}
	})

	t.Run("nil config and clock use defaults", func(t *testing.T) {
		engine, err := NewEngine(nil, zerolog.Nop(), opps, interests, nil)
		if err != nil {
			t.Fatalf("NewEngine() error: %v", err)
		}
		if got := engine.Config().DefaultLimit; got != DefaultConfig().DefaultLimit {
			t.Errorf("DefaultLimit = %d, want %d", got, DefaultConfig().DefaultLimit)
		}
	})
}

func TestClampLimit(t *testing.T) {
	engine := newTestEngine(t, &fakeOpportunityReader{}, &fakeInterestReader{})

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 10},
		{limit: -5, want: 10},
		{limit: 3, want: 3},
		{limit: 50, want: 50},
		{limit: 51, want: 50},
	}
	for _, tt := range tests {
		if got := engine.clampLimit(tt.limit); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestPersonalizedRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient history serves trending", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			byOrder: map[OrderBy][]models.Opportunity{
				OrderViewsDesc: {
					{ID: "hot", Status: "approved", Views: 900},
				},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{hasHistory: false})

		resp, err := engine.PersonalizedRecommendations(ctx, "u1", 0)
		if err != nil {
			t.Fatalf("PersonalizedRecommendations() error: %v", err)
		}
		if resp.Type != models.RecommendationTrending {
			t.Errorf("Type = %q, want %q", resp.Type, models.RecommendationTrending)
		}
		if resp.UserHasHistory {
			t.Error("UserHasHistory = true, want false")
		}
	})

	t.Run("history check failure propagates", func(t *testing.T) {
		engine := newTestEngine(t, &fakeOpportunityReader{}, &fakeInterestReader{
			historyErr: errors.New("store down"),
		})
		if _, err := engine.PersonalizedRecommendations(ctx, "u1", 0); err == nil {
			t.Error("PersonalizedRecommendations() = nil error, want error")
		}
	})

	t.Run("interest fetch failure propagates", func(t *testing.T) {
		engine := newTestEngine(t, &fakeOpportunityReader{}, &fakeInterestReader{
			hasHistory:   true,
			interestsErr: errors.New("store down"),
		})
		if _, err := engine.PersonalizedRecommendations(ctx, "u1", 0); err == nil {
			t.Error("PersonalizedRecommendations() = nil error, want error")
		}
	})

	t.Run("candidate fetch failure propagates", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			orderErr: map[OrderBy]error{OrderDeadlineAsc: errors.New("store down")},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{
			hasHistory: true,
			interests:  models.EmptyInterests(),
		})
		if _, err := engine.PersonalizedRecommendations(ctx, "u1", 0); err == nil {
			t.Error("PersonalizedRecommendations() = nil error, want error")
		}
	})

	t.Run("scores rank and filter the candidate pool", func(t *testing.T) {
		interests := models.EmptyInterests()
		interests.Categories = map[string]float64{"science": 8}

		opps := &fakeOpportunityReader{
			byOrder: map[OrderBy][]models.Opportunity{
				OrderDeadlineAsc: {
					{ID: "viewed", Category: "science", Status: "approved"},
					{ID: "expired", Category: "science", Status: "approved",
						RegistrationDeadline: isoDaysFromNow(-1)},
					{ID: "plain", Category: "arts", Status: "approved"},
					{ID: "match", Category: "science", Status: "approved"},
					{ID: "tbd-ok", Category: "science", Status: "approved",
						RegistrationDeadline:    isoDaysFromNow(10),
						RegistrationDeadlineTBD: true},
					{ID: "tbd-expired", Category: "science", Status: "approved",
						RegistrationDeadline:    isoDaysFromNow(-30),
						RegistrationDeadlineTBD: true},
				},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{
			hasHistory: true,
			interests:  interests,
			viewed:     []string{"Viewed"},
		})

		resp, err := engine.PersonalizedRecommendations(ctx, "u1", 0)
		if err != nil {
			t.Fatalf("PersonalizedRecommendations() error: %v", err)
		}
		if resp.Type != models.RecommendationPersonalized {
			t.Errorf("Type = %q, want %q", resp.Type, models.RecommendationPersonalized)
		}
		if !resp.UserHasHistory {
			t.Error("UserHasHistory = false, want true")
		}

		gotIDs := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			gotIDs = append(gotIDs, item.Opportunity.ID)
		}
		wantIDs := []string{"match", "tbd-ok", "plain"}
		if len(gotIDs) != len(wantIDs) {
			t.Fatalf("got ids %v, want %v", gotIDs, wantIDs)
		}
		for i := range wantIDs {
			if gotIDs[i] != wantIDs[i] {
				t.Fatalf("got ids %v, want %v", gotIDs, wantIDs)
			}
		}
		if resp.Items[0].Score <= resp.Items[2].Score {
			t.Errorf("expected category match to outrank unrelated: %d vs %d",
				resp.Items[0].Score, resp.Items[2].Score)
		}
	})

	t.Run("slug based exclusion", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			byOrder: map[OrderBy][]models.Opportunity{
				OrderDeadlineAsc: {
					{ID: "abc-1", Slug: "science-fair", Status: "approved"},
					{ID: "abc-2", Status: "approved"},
				},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{
			hasHistory: true,
			interests:  models.EmptyInterests(),
			viewed:     []string{"science-fair"},
		})

		resp, err := engine.PersonalizedRecommendations(ctx, "u1", 0)
		if err != nil {
			t.Fatalf("PersonalizedRecommendations() error: %v", err)
		}
		if len(resp.Items) != 1 || resp.Items[0].Opportunity.ID != "abc-2" {
			t.Errorf("got %d items, want only abc-2", len(resp.Items))
		}
	})

	t.Run("results truncate to limit", func(t *testing.T) {
		pool := make([]models.Opportunity, 8)
		for i := range pool {
			pool[i] = models.Opportunity{ID: string(rune('a' + i)), Status: "approved"}
		}
		opps := &fakeOpportunityReader{
			byOrder: map[OrderBy][]models.Opportunity{OrderDeadlineAsc: pool},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{
			hasHistory: true,
			interests:  models.EmptyInterests(),
		})

		resp, err := engine.PersonalizedRecommendations(ctx, "u1", 3)
		if err != nil {
			t.Fatalf("PersonalizedRecommendations() error: %v", err)
		}
		if len(resp.Items) != 3 {
			t.Errorf("len(Items) = %d, want 3", len(resp.Items))
		}
	})
}

func TestTrendingRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("primary path scores by views", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			byOrder: map[OrderBy][]models.Opportunity{
				OrderViewsDesc: {
					{ID: "a", Status: "approved", Views: 1200},
					{ID: "b", Status: "approved", Views: 250},
					{ID: "c", Status: "approved", Views: 0},
				},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})

		resp, err := engine.TrendingRecommendations(ctx, 0)
		if err != nil {
			t.Fatalf("TrendingRecommendations() error: %v", err)
		}
		if resp.Type != models.RecommendationTrending {
			t.Errorf("Type = %q, want %q", resp.Type, models.RecommendationTrending)
		}
		if resp.UserHasHistory {
			t.Error("UserHasHistory = true, want false")
		}

		wantScores := []int{100, 75, 50}
		for i, want := range wantScores {
			if got := resp.Items[i].Score; got != want {
				t.Errorf("Items[%d].Score = %d, want %d", i, got, want)
			}
			if len(resp.Items[i].MatchReasons) != 1 || resp.Items[i].MatchReasons[0] != ReasonTrending {
				t.Errorf("Items[%d].MatchReasons = %v, want [%q]", i, resp.Items[i].MatchReasons, ReasonTrending)
			}
		}
	})

	t.Run("degrades to unordered pool on primary failure", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			orderErr: map[OrderBy]error{OrderViewsDesc: errors.New("no views index")},
			byOrder: map[OrderBy][]models.Opportunity{
				OrderNone: {
					{ID: "cold", Status: "approved", Views: 5},
					{ID: "expired", Status: "approved", Views: 9000,
						RegistrationDeadline: isoDaysFromNow(-1)},
					{ID: "hot", Status: "approved", Views: 700},
					{ID: "tbd", Status: "approved", Views: 60,
						RegistrationDeadline:    isoDaysFromNow(10),
						RegistrationDeadlineTBD: true},
					{ID: "tbd-expired", Status: "approved", Views: 800,
						RegistrationDeadline:    isoDaysFromNow(-30),
						RegistrationDeadlineTBD: true},
				},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})

		resp, err := engine.TrendingRecommendations(ctx, 0)
		if err != nil {
			t.Fatalf("TrendingRecommendations() error: %v", err)
		}

		gotIDs := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			gotIDs = append(gotIDs, item.Opportunity.ID)
		}
		wantIDs := []string{"hot", "tbd", "cold"}
		if len(gotIDs) != len(wantIDs) {
			t.Fatalf("got ids %v, want %v", gotIDs, wantIDs)
		}
		for i := range wantIDs {
			if gotIDs[i] != wantIDs[i] {
				t.Fatalf("got ids %v, want %v", gotIDs, wantIDs)
			}
		}
	})

	t.Run("fails only when both paths fail", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			orderErr: map[OrderBy]error{
				OrderViewsDesc: errors.New("no views index"),
				OrderNone:      errors.New("store down"),
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})
		if _, err := engine.TrendingRecommendations(ctx, 0); err == nil {
			t.Error("TrendingRecommendations() = nil error, want error")
		}
	})
}

func TestTrendingScore(t *testing.T) {
	tests := []struct {
		views int
		want  int
	}{
		{views: 0, want: 50},
		{views: 10, want: 51},
		{views: 255, want: 76},
		{views: 500, want: 100},
		{views: 100000, want: 100},
	}
	for _, tt := range tests {
		o := models.Opportunity{Views: tt.views}
		if got := trendingScore(&o).Score; got != tt.want {
			t.Errorf("trendingScore(%d views) = %d, want %d", tt.views, got, tt.want)
		}
	}
}

func TestSimilarOpportunities(t *testing.T) {
	ctx := context.Background()

	source := models.Opportunity{ID: "src", Category: "science", Status: "approved"}

	t.Run("unknown source returns not found", func(t *testing.T) {
		engine := newTestEngine(t, &fakeOpportunityReader{}, &fakeInterestReader{})
		_, err := engine.SimilarOpportunities(ctx, "missing", 0)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("source without category yields empty list", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			byID: map[string]models.Opportunity{"src": {ID: "src", Status: "approved"}},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})
		got, err := engine.SimilarOpportunities(ctx, "src", 0)
		if err != nil {
			t.Fatalf("SimilarOpportunities() error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("filters the source and expired listings", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			byID: map[string]models.Opportunity{"src": source},
			byCategory: map[string][]models.Opportunity{
				"science": {
					source,
					{ID: "past", Category: "science", Status: "approved",
						RegistrationDeadline: isoDaysFromNow(-1)},
					{ID: "past-tbd", Category: "science", Status: "approved",
						RegistrationDeadline:    isoDaysFromNow(-30),
						RegistrationDeadlineTBD: true},
					{ID: "open", Category: "science", Status: "approved",
						RegistrationDeadline: isoDaysFromNow(5)},
					{ID: "dateless", Category: "science", Status: "approved"},
				},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})

		got, err := engine.SimilarOpportunities(ctx, "src", 0)
		if err != nil {
			t.Fatalf("SimilarOpportunities() error: %v", err)
		}
		gotIDs := make([]string, 0, len(got))
		for _, o := range got {
			gotIDs = append(gotIDs, o.ID)
		}
		wantIDs := []string{"open", "dateless"}
		if len(gotIDs) != len(wantIDs) || gotIDs[0] != wantIDs[0] || gotIDs[1] != wantIDs[1] {
			t.Errorf("got ids %v, want %v", gotIDs, wantIDs)
		}
	})

	t.Run("respects the requested limit", func(t *testing.T) {
		pool := []models.Opportunity{source}
		for _, id := range []string{"a", "b", "c", "d"} {
			pool = append(pool, models.Opportunity{ID: id, Category: "science", Status: "approved"})
		}
		opps := &fakeOpportunityReader{
			byID:       map[string]models.Opportunity{"src": source},
			byCategory: map[string][]models.Opportunity{"science": pool},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})

		got, err := engine.SimilarOpportunities(ctx, "src", 2)
		if err != nil {
			t.Fatalf("SimilarOpportunities() error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
}

func TestRelatedOpportunities(t *testing.T) {
	ctx := context.Background()

	source := models.Opportunity{
		ID:       "src",
		Title:    "National Science Olympiad",
		Category: "science",
		Status:   "approved",
	}

	t.Run("unknown source returns not found", func(t *testing.T) {
		engine := newTestEngine(t, &fakeOpportunityReader{}, &fakeInterestReader{})
		_, err := engine.RelatedOpportunities(ctx, "missing", 0)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("ranks the merged pool by similarity", func(t *testing.T) {
		twin := models.Opportunity{
			ID: "twin", Title: "State Science Olympiad", Category: "science",
			Status: "approved", RegistrationDeadline: isoDaysFromNow(10),
		}
		stranger := models.Opportunity{
			ID: "stranger", Title: "Poetry Slam", Category: "arts",
			Status: "approved", RegistrationDeadline: isoDaysFromNow(10),
		}
		opps := &fakeOpportunityReader{
			byID:       map[string]models.Opportunity{"src": source},
			byCategory: map[string][]models.Opportunity{"science": {source, twin}},
			byOrder: map[OrderBy][]models.Opportunity{
				OrderNone: {twin, stranger},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})

		got, err := engine.RelatedOpportunities(ctx, "src", 2)
		if err != nil {
			t.Fatalf("RelatedOpportunities() error: %v", err)
		}
		if len(got) == 0 || got[0].ID != "twin" {
			t.Fatalf("got %v, want twin ranked first", got)
		}
		for i := 1; i < len(got); i++ {
			if got[i].ID == "twin" {
				t.Error("twin appears twice, pool not deduplicated")
			}
		}
	})

	t.Run("category fetch failure is tolerated", func(t *testing.T) {
		other := models.Opportunity{
			ID: "other", Category: "science", Status: "approved",
			RegistrationDeadline: isoDaysFromNow(10),
		}
		opps := &fakeOpportunityReader{
			byID:        map[string]models.Opportunity{"src": source},
			categoryErr: errors.New("category index down"),
			byOrder: map[OrderBy][]models.Opportunity{
				OrderNone: {other},
			},
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})

		got, err := engine.RelatedOpportunities(ctx, "src", 3)
		if err != nil {
			t.Fatalf("RelatedOpportunities() error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "other" {
			t.Errorf("got %v, want [other]", got)
		}
	})

	t.Run("broad pool failure with empty pool propagates", func(t *testing.T) {
		opps := &fakeOpportunityReader{
			byID:        map[string]models.Opportunity{"src": {ID: "src", Status: "approved"}},
			orderErr:    map[OrderBy]error{OrderNone: errors.New("store down")},
			categoryErr: errors.New("category index down"),
		}
		engine := newTestEngine(t, opps, &fakeInterestReader{})
		if _, err := engine.RelatedOpportunities(ctx, "src", 3); err == nil {
			t.Error("RelatedOpportunities() = nil error, want error")
		}
	})
}
