// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

// Package interests maintains per-user interest profiles from view
// events. Each view bumps the weight of the opportunity's category and
// extracted keywords; the recommendation engine later reads those
// weights as its personalization signal.
package interests

import (
	"sort"
	"strings"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

const (
	// maxTitleKeywords caps how many title words feed the keyword list.
	maxTitleKeywords = 5
	// maxKeywords caps the keyword list per view event.
	maxKeywords = 15
	// minTitleWordLength drops short filler words from titles.
	minTitleWordLength = 4
)

// titleStopwords are common words excluded from title-derived keywords.
var titleStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {},
	"from": {}, "this": {}, "that": {}, "your": {},
}

// ExtractKeywords derives the interest keywords of an opportunity:
// its search keywords, its category labels lowercased, and up to five
// meaningful title words. Deduplicated in first-seen order, capped at
// fifteen.
func ExtractKeywords(o *models.Opportunity) []string {
	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{})
	add := func(keyword string) {
		if keyword == "" || len(keywords) >= maxKeywords {
			return
		}
		if _, ok := seen[keyword]; ok {
			return
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}

	for _, kw := range o.SearchKeywords {
		add(kw)
	}
	if o.Category != "" {
		add(strings.ToLower(o.Category))
	}
	if o.CategoryName != "" {
		add(strings.ToLower(o.CategoryName))
	}

	titleWords := 0
	for _, word := range strings.Fields(strings.ToLower(o.Title)) {
		if titleWords >= maxTitleKeywords {
			break
		}
		if len(word) < minTitleWordLength {
			continue
		}
		if _, stop := titleStopwords[word]; stop {
			continue
		}
		add(word)
		titleWords++
	}

	return keywords
}

// TopCategories returns the n heaviest-weighted category keys. Ties
// break alphabetically so repeated calls return the same order.
func TopCategories(interests *models.UserInterests, n int) []string {
	return topKeys(interests.Categories, n)
}

// TopKeywords returns the n heaviest-weighted keywords.
func TopKeywords(interests *models.UserInterests, n int) []string {
	return topKeys(interests.Keywords, n)
}

func topKeys(weights map[string]float64, n int) []string {
	keys := make([]string, 0, len(weights))
	for key := range weights {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if weights[keys[i]] != weights[keys[j]] {
			return weights[keys[i]] > weights[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// MeetsHistoryThreshold reports whether an interest profile carries
// enough signal for personalization: at least two distinct categories,
// or three interactions in total.
func MeetsHistoryThreshold(categories map[string]float64) bool {
	total := 0.0
	for _, weight := range categories {
		total += weight
	}
	return MeetsHistoryCounts(len(categories), total)
}

// MeetsHistoryCounts is the threshold rule on precomputed counts, for
// callers that aggregate in the store instead of loading the profile.
func MeetsHistoryCounts(distinctCategories int, totalInteractions float64) bool {
	return distinctCategories >= 2 || totalInteractions >= 3
}
