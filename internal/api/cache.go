// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package api

import (
	"bytes"
	"net/http"

	"github.com/msbhamoo/myark-final-sub005/internal/cache"
	"github.com/msbhamoo/myark-final-sub005/internal/config"
	"github.com/msbhamoo/myark-final-sub005/internal/logging"
)

// cachedResponse is a replayable snapshot of a successful GET response.
type cachedResponse struct {
	header http.Header
	body   []byte
}

// responseCache caches successful GET responses keyed by request URI.
// Returns a pass-through when caching is disabled.
func responseCache(cfg *config.CacheConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	store := cache.New(cfg.TTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if v, ok := store.Get(key); ok {
				resp := v.(*cachedResponse)
				for name, values := range resp.header {
					// The request id of the original response must not
					// leak into the replay.
					if name == "X-Request-Id" {
						continue
					}
					w.Header()[name] = values
				}
				w.Header().Set("X-Cache", "hit")
				w.WriteHeader(http.StatusOK)
				if _, err := w.Write(resp.body); err != nil {
					logging.Ctx(r.Context()).Error().Err(err).Msg("write cached response failed")
				}
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				store.Set(key, &cachedResponse{
					header: rec.Header().Clone(),
					body:   rec.buf.Bytes(),
				})
			}
		})
	}
}

// recordingWriter tees the response body so it can be cached after the
// handler finishes writing.
type recordingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}
