// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

// Package api provides the HTTP surface of the recommendation service:
// chi routing, middleware (request IDs, CORS, rate limiting, metrics),
// and the JSON handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msbhamoo/myark-final-sub005/internal/config"
)

// NewRouter assembles the full route tree.
func NewRouter(cfg *config.Config, handlers *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(&cfg.Security))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(&cfg.Security))
		r.Use(prometheusMetrics)

		r.Get("/health", handlers.Health)

		cached := responseCache(&cfg.Cache)

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(cached)
			r.Get("/trending", handlers.Trending)
			r.Get("/user/{userID}", handlers.Recommendations)
		})

		r.Route("/opportunities/{id}", func(r chi.Router) {
			r.Use(cached)
			r.Get("/similar", handlers.Similar)
			r.Get("/related", handlers.Related)
		})

		r.Post("/views", handlers.TrackView)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// NewServer builds the http.Server for the assembled router.
func NewServer(cfg *config.Config, handlers *Handlers) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      NewRouter(cfg, handlers),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}
}
