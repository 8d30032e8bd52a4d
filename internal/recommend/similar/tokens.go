// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

// Package similar scores pairwise relatedness between opportunities.
// Unlike the interest-based ranking in the parent package, everything
// here compares two listings against each other: shared categories,
// audience segments, keywords, grade bands, and deadline proximity.
package similar

import (
	"regexp"
	"strings"
)

var digitRuns = regexp.MustCompile(`\d+`)

// TokenSet builds a deduplicated lowercase token set from free-form
// values. Tokens are split on non-alphanumeric runs; single-character
// fragments are noise and dropped.
func TokenSet(values ...string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, value := range values {
		addTokens(tokens, value)
	}
	return tokens
}

func addTokens(tokens map[string]struct{}, value string) {
	var b strings.Builder
	flush := func() {
		if b.Len() > 1 {
			tokens[b.String()] = struct{}{}
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
}

// GradeTokens tokenizes a grade-eligibility label. On top of the plain
// token split it pulls out bare digit runs, so "Grades 6-8" and
// "Class 6 to 8" share the tokens "6" and "8" even though "6" and "8"
// are single characters.
func GradeTokens(value string) map[string]struct{} {
	tokens := TokenSet(value)
	for _, run := range digitRuns.FindAllString(value, -1) {
		tokens[run] = struct{}{}
	}
	return tokens
}

// overlap counts tokens present in both sets.
func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for token := range a {
		if _, ok := b[token]; ok {
			n++
		}
	}
	return n
}
