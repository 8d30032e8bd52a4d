// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package similar

import (
	"math"
	"testing"
	"time"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
)

var scoreNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func isoDate(t time.Time) string {
	return t.Format(time.RFC3339)
}

// baseline is a candidate with no matching signal at all against an
// empty target. Both default to mode online, which contributes the mode
// bonus; everything else is zero.
func TestScoreBaseline(t *testing.T) {
	target := models.Opportunity{}
	candidate := models.Opportunity{}
	if got := Score(&target, &candidate, scoreNow); got != modeBonus {
		t.Errorf("Score = %v, want %v (mode bonus only)", got, modeBonus)
	}
}

func TestScoreCategory(t *testing.T) {
	tests := []struct {
		name      string
		target    models.Opportunity
		candidate models.Opportunity
		want      float64
	}{
		{
			name:      "exact category",
			target:    models.Opportunity{Category: "Science"},
			candidate: models.Opportunity{Category: "science"},
			want:      categoryExactBonus,
		},
		{
			name:      "partial category containment",
			target:    models.Opportunity{Category: "science"},
			candidate: models.Opportunity{Category: "science and technology"},
			want:      categoryPartialBonus,
		},
		{
			name:      "display name beats raw category",
			target:    models.Opportunity{Category: "cat-1", CategoryName: "Robotics"},
			candidate: models.Opportunity{Category: "cat-2", CategoryName: "robotics"},
			want:      categoryExactBonus,
		},
		{
			name:      "unrelated categories",
			target:    models.Opportunity{Category: "science"},
			candidate: models.Opportunity{Category: "arts"},
			want:      0,
		},
		{
			name:      "missing category on either side",
			target:    models.Opportunity{},
			candidate: models.Opportunity{Category: "science"},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(&tt.target, &tt.candidate, scoreNow) - modeBonus
			if got != tt.want {
				t.Errorf("category contribution = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreTokenSignals(t *testing.T) {
	t.Run("segments pay per shared token", func(t *testing.T) {
		target := models.Opportunity{Segments: []string{"school students", "stem"}}
		candidate := models.Opportunity{Segments: []string{"STEM", "students"}}
		want := 2 * segmentBonusPerToken
		if got := Score(&target, &candidate, scoreNow) - modeBonus; got != want {
			t.Errorf("segment contribution = %v, want %v", got, want)
		}
	})

	t.Run("keywords cap at three shared tokens", func(t *testing.T) {
		target := models.Opportunity{SearchKeywords: []string{"math", "logic", "puzzle", "contest", "prize"}}
		candidate := models.Opportunity{SearchKeywords: []string{"math", "logic", "puzzle", "contest", "prize"}}
		want := float64(keywordTokenCap) * keywordBonusPerToken
		if got := Score(&target, &candidate, scoreNow) - modeBonus; got != want {
			t.Errorf("keyword contribution = %v, want %v", got, want)
		}
	})

	t.Run("title overlap caps at twelve", func(t *testing.T) {
		title := "national science olympiad junior senior final"
		target := models.Opportunity{Title: title}
		candidate := models.Opportunity{Title: title}
		if got := Score(&target, &candidate, scoreNow) - modeBonus; got != titleBonusCap {
			t.Errorf("title contribution = %v, want %v", got, titleBonusCap)
		}
	})
}

func TestGradeAffinity(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		candidate string
		want      float64
	}{
		{name: "either side empty", target: "", candidate: "Class 6", want: 0},
		{name: "exact", target: "Class 6-8", candidate: "class 6-8", want: gradeExactBonus},
		{name: "containment", target: "Class 6-8", candidate: "class 6", want: gradePartialBonus},
		{name: "shared digit tokens", target: "Grades 6-8", candidate: "Std 6 to 8", want: 2 * gradeTokenBonus},
		{name: "digit token bonus caps", target: "Grades 5, 6, 7, 8", candidate: "Std 5 to 8 (5 6 7 8)", want: gradeTokenBonusCap},
		{name: "shared word counts as a token", target: "Class 6", candidate: "Class 11", want: gradeTokenBonus},
		{name: "no affinity", target: "Grade 6", candidate: "Std 11", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeAffinity(tt.target, tt.candidate); got != tt.want {
				t.Errorf("gradeAffinity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreModeOrganizerStatusImage(t *testing.T) {
	t.Run("different modes earn nothing", func(t *testing.T) {
		target := models.Opportunity{Mode: models.ModeOffline}
		candidate := models.Opportunity{Mode: models.ModeOnline}
		if got := Score(&target, &candidate, scoreNow); got != 0 {
			t.Errorf("Score = %v, want 0", got)
		}
	})

	t.Run("matching organizer", func(t *testing.T) {
		target := models.Opportunity{Organizer: "NTSE Board"}
		candidate := models.Opportunity{OrganizerName: "ntse board"}
		want := modeBonus + organizerBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("live status bonus", func(t *testing.T) {
		candidate := models.Opportunity{Status: "Approved"}
		target := models.Opportunity{}
		want := modeBonus + liveStatusBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("retired status malus", func(t *testing.T) {
		candidate := models.Opportunity{Status: "expired"}
		target := models.Opportunity{}
		want := modeBonus - retiredStatusMalus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("image bonus", func(t *testing.T) {
		candidate := models.Opportunity{Image: "https://cdn.example/banner.png"}
		target := models.Opportunity{}
		want := modeBonus + imageBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})
}

func TestScoreDeadline(t *testing.T) {
	t.Run("open deadline", func(t *testing.T) {
		candidate := models.Opportunity{RegistrationDeadline: isoDate(scoreNow.AddDate(0, 0, 20))}
		target := models.Opportunity{}
		want := modeBonus + openDeadlineBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("recently passed deadline keeps a small bonus", func(t *testing.T) {
		candidate := models.Opportunity{RegistrationDeadline: isoDate(scoreNow.Add(-48 * time.Hour))}
		target := models.Opportunity{}
		want := modeBonus + graceDeadlineBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("long past deadline penalized", func(t *testing.T) {
		candidate := models.Opportunity{RegistrationDeadline: isoDate(scoreNow.AddDate(0, 0, -30))}
		target := models.Opportunity{}
		want := modeBonus - staleDeadlineMalus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("end date stands in for a missing deadline", func(t *testing.T) {
		candidate := models.Opportunity{EndDate: isoDate(scoreNow.AddDate(0, 0, 5))}
		target := models.Opportunity{}
		want := modeBonus + openDeadlineBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("deadline closeness is fractional", func(t *testing.T) {
		deadline := scoreNow.AddDate(0, 0, 10)
		target := models.Opportunity{RegistrationDeadline: isoDate(deadline)}
		candidate := models.Opportunity{RegistrationDeadline: isoDate(deadline.Add(36 * time.Hour))}
		// 1.5 days apart: closeness 12 - 1.5 = 10.5
		want := modeBonus + openDeadlineBonus + (deadlineClosenessMax - 1.5)
		got := Score(&target, &candidate, scoreNow)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})

	t.Run("far apart deadlines earn no closeness", func(t *testing.T) {
		target := models.Opportunity{RegistrationDeadline: isoDate(scoreNow.AddDate(0, 0, 5))}
		candidate := models.Opportunity{RegistrationDeadline: isoDate(scoreNow.AddDate(0, 0, 60))}
		want := modeBonus + openDeadlineBonus
		if got := Score(&target, &candidate, scoreNow); got != want {
			t.Errorf("Score = %v, want %v", got, want)
		}
	})
}
