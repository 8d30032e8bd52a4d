// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package similar

import (
	"reflect"
	"sort"
	"testing"
)

func sortedTokens(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for token := range set {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

func TestTokenSet(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{
			name:   "splits on punctuation and whitespace",
			values: []string{"Science & Tech: Robotics"},
			want:   []string{"robotics", "science", "tech"},
		},
		{
			name:   "drops single character fragments",
			values: []string{"a b cd"},
			want:   []string{"cd"},
		},
		{
			name:   "deduplicates across values",
			values: []string{"math olympiad", "Olympiad prep"},
			want:   []string{"math", "olympiad", "prep"},
		},
		{
			name:   "keeps digit runs inside words",
			values: []string{"class10 2026"},
			want:   []string{"2026", "class10"},
		},
		{
			name:   "empty input",
			values: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortedTokens(TokenSet(tt.values...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenSet = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeTokens(t *testing.T) {
	t.Run("bare digits survive", func(t *testing.T) {
		got := GradeTokens("Grades 6-8")
		for _, want := range []string{"grades", "6", "8"} {
			if _, ok := got[want]; !ok {
				t.Errorf("GradeTokens missing %q, got %v", want, sortedTokens(got))
			}
		}
	})

	t.Run("differently phrased ranges share digit tokens", func(t *testing.T) {
		a := GradeTokens("Grades 6-8")
		b := GradeTokens("Class 6 to 8")
		if got := overlap(a, b); got != 2 {
			t.Errorf("overlap = %d, want 2 (tokens 6 and 8)", got)
		}
	})
}

func TestOverlap(t *testing.T) {
	a := TokenSet("alpha beta gamma")
	b := TokenSet("beta gamma delta")
	if got := overlap(a, b); got != 2 {
		t.Errorf("overlap = %d, want 2", got)
	}
	if got := overlap(b, a); got != 2 {
		t.Errorf("overlap is not symmetric: %d, want 2", got)
	}
	if got := overlap(a, TokenSet()); got != 0 {
		t.Errorf("overlap with empty set = %d, want 0", got)
	}
}
