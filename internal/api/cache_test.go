// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/msbhamoo/myark-final-sub005/internal/config"
	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

func cachingRouter(engine *stubEngine) http.Handler {
	cfg := &config.Config{
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		Cache: config.CacheConfig{Enabled: true, TTL: time.Minute},
	}
	return NewRouter(cfg, NewHandlers(engine, &stubTracker{}, &stubStore{}))
}

func TestResponseCache(t *testing.T) {
	trending := &models.RecommendationsResponse{
		Items: []models.ScoredOpportunity{
			{Opportunity: models.Opportunity{ID: "opp-1", Title: "Science Fair"}, Score: 80},
		},
		Type: models.RecommendationTrending,
	}

	get := func(router http.Handler, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("repeat request served from cache", func(t *testing.T) {
		engine := &stubEngine{trending: trending}
		router := cachingRouter(engine)

		first := get(router, "/api/v1/recommendations/trending")
		if first.Code != http.StatusOK {
			t.Fatalf("first status = %d, want 200", first.Code)
		}
		if first.Header().Get("X-Cache") == "hit" {
			t.Error("first request reported a cache hit")
		}

		second := get(router, "/api/v1/recommendations/trending")
		if second.Code != http.StatusOK {
			t.Fatalf("second status = %d, want 200", second.Code)
		}
		if second.Header().Get("X-Cache") != "hit" {
			t.Error("second request missing X-Cache: hit")
		}
		if second.Body.String() != first.Body.String() {
			t.Error("cached body differs from original")
		}
		if engine.calls != 1 {
			t.Errorf("engine calls = %d, want 1", engine.calls)
		}
	})

	t.Run("different query strings cached separately", func(t *testing.T) {
		engine := &stubEngine{trending: trending}
		router := cachingRouter(engine)

		get(router, "/api/v1/recommendations/trending?limit=5")
		get(router, "/api/v1/recommendations/trending?limit=10")
		if engine.calls != 2 {
			t.Errorf("engine calls = %d, want 2", engine.calls)
		}
	})

	t.Run("error responses are not cached", func(t *testing.T) {
		engine := &stubEngine{err: errors.New("engine down")}
		router := cachingRouter(engine)

		get(router, "/api/v1/recommendations/trending")
		get(router, "/api/v1/recommendations/trending")
		if engine.calls != 2 {
			t.Errorf("engine calls = %d, want 2 (errors cached)", engine.calls)
		}
	})

	t.Run("disabled cache passes everything through", func(t *testing.T) {
		engine := &stubEngine{trending: trending}
		router := testRouter(engine, &stubTracker{}, &stubStore{})

		get(router, "/api/v1/recommendations/trending")
		rec := get(router, "/api/v1/recommendations/trending")
		if rec.Header().Get("X-Cache") == "hit" {
			t.Error("disabled cache produced a hit")
		}
		if engine.calls != 2 {
			t.Errorf("engine calls = %d, want 2", engine.calls)
		}
	})
}
