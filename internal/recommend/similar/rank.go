// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package similar

import (
	"math"
	"sort"
	"time"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// DefaultLimit is the shortlist size when the caller passes limit <= 0.
const DefaultLimit = 3

// expiredGrace matches the scoring grace period: a deadline up to three
// days in the past does not mark a candidate as expired.
const expiredGrace = 3 * 24 * time.Hour

// ranked pairs a candidate with its precomputed ranking signals.
type ranked struct {
	opportunity models.Opportunity
	score       float64
	deadline    float64
	expired     bool
	taken       bool
}

// Rank shortlists the candidates most related to target. Candidates
// sharing the target's identity are dropped. The shortlist fills in
// three passes of loosening strictness: first positive-score unexpired
// candidates, then positive-score expired ones, then anything left,
// so a page always shows related items when any candidates exist.
// Ties on score break toward the sooner deadline.
func Rank(target *models.Opportunity, candidates []models.Opportunity, now time.Time, limit int) []models.Opportunity {
	if limit <= 0 {
		limit = DefaultLimit
	}

	identity := target.Identity()
	enriched := make([]ranked, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if c.Identity() == identity {
			continue
		}
		entry := ranked{
			opportunity: c,
			score:       Score(target, &c, now),
			deadline:    math.MaxFloat64,
		}
		if deadline, ok := c.DeadlineOrEnd(); ok {
			entry.deadline = float64(deadline.UnixMilli())
			entry.expired = deadline.Before(now.Add(-expiredGrace))
		}
		enriched = append(enriched, entry)
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		if enriched[i].score != enriched[j].score {
			return enriched[i].score > enriched[j].score
		}
		return enriched[i].deadline < enriched[j].deadline
	})

	shortlist := make([]models.Opportunity, 0, limit)
	take := func(accept func(*ranked) bool) {
		for i := range enriched {
			if len(shortlist) >= limit {
				return
			}
			entry := &enriched[i]
			if entry.taken || !accept(entry) {
				continue
			}
			entry.taken = true
			shortlist = append(shortlist, entry.opportunity)
		}
	}

	take(func(e *ranked) bool { return e.score > 0 && !e.expired })
	take(func(e *ranked) bool { return e.score > 0 })
	take(func(e *ranked) bool { return true })

	return shortlist
}
