// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package similar

import (
	"math"
	"strings"
	"time"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// Score contributions. The values are tuned so that a same-category
// listing with overlapping segments outranks anything matched only on
// incidental token overlap.
const (
	categoryExactBonus   = 45.0
	categoryPartialBonus = 25.0

	segmentBonusPerToken = 18.0

	keywordBonusPerToken = 10.0
	keywordTokenCap      = 3

	gradeExactBonus      = 24.0
	gradePartialBonus    = 14.0
	gradeTokenBonus      = 6.0
	gradeTokenBonusCap   = 18.0

	titleBonusPerToken = 3.0
	titleBonusCap      = 12.0

	modeBonus      = 6.0
	organizerBonus = 10.0

	liveStatusBonus    = 8.0
	retiredStatusMalus = 12.0

	openDeadlineBonus    = 10.0
	graceDeadlineBonus   = 4.0
	staleDeadlineMalus   = 12.0
	deadlineGracePeriod  = 3 * 24 * time.Hour
	deadlineClosenessMax = 12.0

	imageBonus = 2.0
)

var (
	liveStatuses    = map[string]struct{}{"approved": {}, "published": {}, "active": {}, "upcoming": {}}
	retiredStatuses = map[string]struct{}{"closed": {}, "expired": {}, "archived": {}}
)

// Score computes the pairwise similarity of candidate against target at
// the given instant. Scores are unbounded floats; only relative order
// and the sign matter to callers.
func Score(target, candidate *models.Opportunity, now time.Time) float64 {
	score := 0.0

	targetCategory := models.NormalizeText(target.DisplayCategory())
	candidateCategory := models.NormalizeText(candidate.DisplayCategory())
	if targetCategory != "" && candidateCategory != "" {
		switch {
		case targetCategory == candidateCategory:
			score += categoryExactBonus
		case strings.Contains(candidateCategory, targetCategory) || strings.Contains(targetCategory, candidateCategory):
			score += categoryPartialBonus
		}
	}

	if shared := overlap(TokenSet(target.Segments...), TokenSet(candidate.Segments...)); shared > 0 {
		score += float64(shared) * segmentBonusPerToken
	}

	if shared := overlap(TokenSet(target.SearchKeywords...), TokenSet(candidate.SearchKeywords...)); shared > 0 {
		score += float64(min(shared, keywordTokenCap)) * keywordBonusPerToken
	}

	score += gradeAffinity(target.GradeEligibility, candidate.GradeEligibility)

	if shared := overlap(TokenSet(target.Title), TokenSet(candidate.Title)); shared > 0 {
		score += math.Min(float64(shared)*titleBonusPerToken, titleBonusCap)
	}

	if models.NormalizeMode(string(candidate.Mode)) == models.NormalizeMode(string(target.Mode)) {
		score += modeBonus
	}

	targetOrganizer := models.NormalizeText(target.DisplayOrganizer())
	candidateOrganizer := models.NormalizeText(candidate.DisplayOrganizer())
	if targetOrganizer != "" && targetOrganizer == candidateOrganizer {
		score += organizerBonus
	}

	if status := models.NormalizeText(candidate.Status); status != "" {
		if _, ok := liveStatuses[status]; ok {
			score += liveStatusBonus
		}
		if _, ok := retiredStatuses[status]; ok {
			score -= retiredStatusMalus
		}
	}

	candidateDeadline, candidateOK := candidate.DeadlineOrEnd()
	if candidateOK {
		switch {
		case !candidateDeadline.Before(now):
			score += openDeadlineBonus
		case !candidateDeadline.Before(now.Add(-deadlineGracePeriod)):
			score += graceDeadlineBonus
		default:
			score -= staleDeadlineMalus
		}

		if targetDeadline, ok := target.DeadlineOrEnd(); ok {
			diffDays := math.Abs(candidateDeadline.Sub(targetDeadline).Hours()) / 24
			score += math.Max(0, deadlineClosenessMax-math.Min(deadlineClosenessMax, diffDays))
		}
	}

	if candidate.Image != "" {
		score += imageBonus
	}

	return score
}

// gradeAffinity compares eligibility labels: exact match, substring
// containment, or as a last resort overlap of the numeric grade tokens.
func gradeAffinity(target, candidate string) float64 {
	a := models.NormalizeText(target)
	b := models.NormalizeText(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return gradeExactBonus
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return gradePartialBonus
	}
	if shared := overlap(GradeTokens(target), GradeTokens(candidate)); shared > 0 {
		return math.Min(float64(shared)*gradeTokenBonus, gradeTokenBonusCap)
	}
	return 0
}
