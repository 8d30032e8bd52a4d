// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"fmt"
	"time"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// ReasonTrending is the fallback match reason used when no specific
// rule fires, and the fixed reason on all trending-path items.
const ReasonTrending = "Trending opportunity"

// maxMatchReasons caps the number of reasons attached to a scored item.
const maxMatchReasons = 2

// Reason rule thresholds. Each rule fires on a single feature score; the
// deadline rule fires on proximity directly rather than on its score.
const (
	reasonCategoryThreshold = 70.0
	reasonGradeThreshold    = 80.0
	reasonKeywordThreshold  = 60.0
	reasonDeadlineDays      = 7
)

// matchReasons derives up to two human-readable justification strings
// from the per-feature scores. Rules are evaluated in a fixed order and
// the output is truncated by that order, not by score magnitude.
func matchReasons(o *models.Opportunity, s featureScores, now time.Time) []string {
	reasons := make([]string, 0, maxMatchReasons)

	if s.category >= reasonCategoryThreshold {
		reasons = append(reasons, fmt.Sprintf("Based on your interest in %s", o.DisplayCategory()))
	}
	if s.grade >= reasonGradeThreshold {
		reasons = append(reasons, "Matches your grade level")
	}
	if s.keyword >= reasonKeywordThreshold {
		reasons = append(reasons, "Related to topics you explore")
	}
	if deadlineClosingSoon(o, now) {
		reasons = append(reasons, "Registration closing soon")
	}

	if len(reasons) == 0 {
		return []string{ReasonTrending}
	}
	if len(reasons) > maxMatchReasons {
		reasons = reasons[:maxMatchReasons]
	}
	return reasons
}

// deadlineClosingSoon reports whether a hard (non-TBD) registration
// deadline falls within the next 7 days.
func deadlineClosingSoon(o *models.Opportunity, now time.Time) bool {
	if o.RegistrationDeadlineTBD {
		return false
	}
	deadline, ok := o.Deadline()
	if !ok {
		return false
	}
	days := daysBetween(now, deadline)
	return days >= 0 && days <= reasonDeadlineDays
}
