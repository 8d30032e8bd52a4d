// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"math"
	"strings"
	"time"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

// Feature scorers. Each is a pure function mapping an opportunity (plus
// context) to a score in [0, 100]. The six scorers run independently and
// never short-circuit each other; missing or malformed fields always map
// to an explicit neutral or zero default, never an error.

const (
	// scoreNeutral is the score for features with no usable signal.
	scoreNeutral = 50.0

	// categorySaturationWeight is the interaction weight at which the
	// category score saturates: weight*10 capped at 100.
	categorySaturationWeight = 10.0

	// keywordScale converts an average matched keyword weight to a
	// 0-100 score.
	keywordScale = 20.0
)

// featureScores holds the six per-feature scores for one opportunity.
type featureScores struct {
	category   float64
	grade      float64
	keyword    float64
	recency    float64
	deadline   float64
	popularity float64
}

// daysBetween returns the whole days from "now" to t, floored the way
// the scoring bands are defined: a deadline 36 hours out is "1 day"
// away, one 12 hours past is "-1 days" away.
func daysBetween(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// categoryScore scores affinity between the user's category weights and
// the opportunity's category key. A record with no category scores 0; a
// weight of 10+ prior interactions saturates at 100.
func categoryScore(o *models.Opportunity, interests *models.UserInterests) float64 {
	key := o.CategoryKey()
	if key == "" {
		return 0
	}
	weight := interests.Categories[key]
	return math.Min(weight*categorySaturationWeight, 100)
}

// gradeScore scores grade-eligibility fit. Missing data on either side
// is neutral rather than penalizing: no grade on the record or no
// preferred grades for the user scores 50. A case-insensitive substring
// match in either direction (or the literal "all grades") scores 100,
// a confirmed mismatch 30.
func gradeScore(o *models.Opportunity, interests *models.UserInterests) float64 {
	if o.GradeEligibility == "" || len(interests.PreferredGrades) == 0 {
		return scoreNeutral
	}

	oppGrade := models.NormalizeText(o.GradeEligibility)
	for _, grade := range interests.PreferredGrades {
		g := models.NormalizeText(grade)
		if g == "" {
			continue
		}
		if strings.Contains(oppGrade, g) || strings.Contains(g, oppGrade) || oppGrade == "all grades" {
			return 100
		}
	}
	return 30
}

// keywordReplacer rewrites characters that are unsafe as document-store
// field-path keys. Interest keyword keys are stored sanitized, so
// candidate tokens must be sanitized identically before lookup.
var keywordReplacer = strings.NewReplacer(
	".", "_",
	"/", "_",
	"$", "_",
	"#", "_",
	"[", "_",
	"]", "_",
)

// NormalizeKeyword lowercases a token and replaces store-unsafe
// characters with underscores.
func NormalizeKeyword(token string) string {
	return keywordReplacer.Replace(strings.ToLower(token))
}

// keywordCandidates builds the token list scored against the user's
// keyword weights: searchKeywords, category, categoryName, and the
// whitespace-split title words.
func keywordCandidates(o *models.Opportunity) []string {
	raw := make([]string, 0, len(o.SearchKeywords)+2+8)
	raw = append(raw, o.SearchKeywords...)
	raw = append(raw, o.Category, o.CategoryName)
	raw = append(raw, strings.Fields(strings.ToLower(o.Title))...)

	candidates := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		candidates = append(candidates, NormalizeKeyword(token))
	}
	return candidates
}

// keywordScore scores keyword affinity as the average interest weight of
// matched candidate tokens, scaled by 20 and capped at 100. No candidate
// tokens at all is neutral (50); candidates but zero matches is 30.
func keywordScore(o *models.Opportunity, interests *models.UserInterests) float64 {
	candidates := keywordCandidates(o)
	if len(candidates) == 0 {
		return scoreNeutral
	}

	var matchedWeight float64
	matchCount := 0
	for _, token := range candidates {
		if w, ok := interests.Keywords[token]; ok && w != 0 {
			matchedWeight += w
			matchCount++
		}
	}
	if matchCount == 0 {
		return 30
	}
	return math.Min((matchedWeight/float64(matchCount))*keywordScale, 100)
}

// recencyScore scores time-to-start: soon-to-start records get a boost,
// already-started records a penalty, no start date is neutral.
func recencyScore(o *models.Opportunity, now time.Time) float64 {
	start, ok := models.ParseDate(o.StartDate)
	if !ok {
		return scoreNeutral
	}

	days := daysBetween(now, start)
	switch {
	case days > 0 && days <= 30:
		return 100
	case days > 30 && days <= 60:
		return 80
	case days > 60 && days <= 90:
		return 60
	case days < 0:
		return 20
	default:
		return scoreNeutral
	}
}

// deadlineScore scores registration urgency. A TBD flag overrides any
// raw date; both TBD and missing deadlines are neutral. Past deadlines
// score 0, imminent ones up to 100.
func deadlineScore(o *models.Opportunity, now time.Time) float64 {
	if o.RegistrationDeadlineTBD {
		return scoreNeutral
	}
	deadline, ok := o.Deadline()
	if !ok {
		return scoreNeutral
	}

	days := daysBetween(now, deadline)
	switch {
	case days < 0:
		return 0
	case days <= 3:
		return 100
	case days <= 7:
		return 90
	case days <= 14:
		return 70
	case days <= 30:
		return scoreNeutral
	default:
		return 30
	}
}

// popularityScore maps the view counter onto coarse popularity bands.
func popularityScore(o *models.Opportunity) float64 {
	views := o.Views
	switch {
	case views >= 1000:
		return 100
	case views >= 500:
		return 80
	case views >= 100:
		return 60
	case views >= 50:
		return 40
	case views >= 10:
		return 20
	default:
		return 10
	}
}

// scoreFeatures runs all six scorers for one opportunity.
func scoreFeatures(o *models.Opportunity, interests *models.UserInterests, now time.Time) featureScores {
	return featureScores{
		category:   categoryScore(o, interests),
		grade:      gradeScore(o, interests),
		keyword:    keywordScore(o, interests),
		recency:    recencyScore(o, now),
		deadline:   deadlineScore(o, now),
		popularity: popularityScore(o),
	}
}

// aggregate combines the feature scores under the fixed weights and
// rounds to an integer in [0, 100].
func (w FeatureWeights) aggregate(s featureScores) int {
	total := s.category*w.Category +
		s.grade*w.Grade +
		s.keyword*w.Keyword +
		s.recency*w.Recency +
		s.deadline*w.Deadline +
		s.popularity*w.Popularity
	return int(math.Round(total))
}
