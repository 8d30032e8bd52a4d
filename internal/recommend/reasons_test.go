// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package recommend

import (
	"reflect"
	"testing"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

func TestMatchReasons(t *testing.T) {
	tests := []struct {
		name   string
		opp    models.Opportunity
		scores featureScores
		want   []string
	}{
		{
			name:   "no rule fires falls back to trending",
			opp:    models.Opportunity{},
			scores: featureScores{category: 50, grade: 50, keyword: 50},
			want:   []string{ReasonTrending},
		},
		{
			name:   "category rule uses display name",
			opp:    models.Opportunity{Category: "science", CategoryName: "Science & Tech"},
			scores: featureScores{category: 70},
			want:   []string{"Based on your interest in Science & Tech"},
		},
		{
			name:   "category rule falls back to raw category",
			opp:    models.Opportunity{Category: "science"},
			scores: featureScores{category: 85},
			want:   []string{"Based on your interest in science"},
		},
		{
			name:   "grade rule at threshold",
			opp:    models.Opportunity{},
			scores: featureScores{grade: 80},
			want:   []string{"Matches your grade level"},
		},
		{
			name:   "grade rule below threshold",
			opp:    models.Opportunity{},
			scores: featureScores{grade: 79},
			want:   []string{ReasonTrending},
		},
		{
			name:   "keyword rule at threshold",
			opp:    models.Opportunity{},
			scores: featureScores{keyword: 60},
			want:   []string{"Related to topics you explore"},
		},
		{
			name:   "deadline rule fires on proximity not score",
			opp:    models.Opportunity{RegistrationDeadline: isoDaysFromNow(5)},
			scores: featureScores{},
			want:   []string{"Registration closing soon"},
		},
		{
			name:   "tbd deadline never closing soon",
			opp:    models.Opportunity{RegistrationDeadline: isoDaysFromNow(5), RegistrationDeadlineTBD: true},
			scores: featureScores{},
			want:   []string{ReasonTrending},
		},
		{
			name:   "past deadline never closing soon",
			opp:    models.Opportunity{RegistrationDeadline: isoDaysFromNow(-2)},
			scores: featureScores{},
			want:   []string{ReasonTrending},
		},
		{
			name:   "rule order is fixed and capped at two",
			opp:    models.Opportunity{Category: "math", RegistrationDeadline: isoDaysFromNow(2)},
			scores: featureScores{category: 90, grade: 95, keyword: 75},
			want: []string{
				"Based on your interest in math",
				"Matches your grade level",
			},
		},
		{
			name:   "later rules surface when earlier ones miss",
			opp:    models.Opportunity{RegistrationDeadline: isoDaysFromNow(2)},
			scores: featureScores{keyword: 75},
			want: []string{
				"Related to topics you explore",
				"Registration closing soon",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchReasons(&tt.opp, tt.scores, testNow)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("matchReasons = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeadlineClosingSoon(t *testing.T) {
	tests := []struct {
		name string
		opp  models.Opportunity
		want bool
	}{
		{name: "no deadline", opp: models.Opportunity{}, want: false},
		{name: "today", opp: models.Opportunity{RegistrationDeadline: isoDaysFromNow(0)}, want: true},
		{name: "seven days out", opp: models.Opportunity{RegistrationDeadline: isoDaysFromNow(7)}, want: true},
		{name: "eight days out", opp: models.Opportunity{RegistrationDeadline: isoDaysFromNow(8)}, want: false},
		{name: "already past", opp: models.Opportunity{RegistrationDeadline: isoDaysFromNow(-1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deadlineClosingSoon(&tt.opp, testNow); got != tt.want {
				t.Errorf("deadlineClosingSoon = %v, want %v", got, tt.want)
			}
		})
	}
}
