// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package importer

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/msbhamoo/myark-final-sub005/internal/models"
	"github.com/msbhamoo/myark-final-sub005/internal/validation"
)

// RawOpportunity is one record of a platform export file: a JSON array
// of listings as the content team exports them. Field names follow the
// export format; values arrive unnormalized.
type RawOpportunity struct {
	ID                   string   `json:"id"`
	Slug                 string   `json:"slug"`
	Title                string   `json:"title" validate:"required,max=512"`
	Description          string   `json:"description"`
	Category             string   `json:"category" validate:"required,max=128"`
	CategoryID           string   `json:"categoryId"`
	CategoryName         string   `json:"categoryName"`
	Organizer            string   `json:"organizer"`
	OrganizerName        string   `json:"organizerName"`
	OrganizerLogo        string   `json:"organizerLogo" validate:"omitempty,url"`
	GradeEligibility     string   `json:"gradeEligibility"`
	Segments             []string `json:"segments"`
	SearchKeywords       []string `json:"searchKeywords"`
	StartDate            string   `json:"startDate" validate:"omitempty,isodate"`
	EndDate              string   `json:"endDate" validate:"omitempty,isodate"`
	RegistrationDeadline string   `json:"registrationDeadline"`
	Fee                  string   `json:"fee"`
	Mode                 string   `json:"mode"`
	Image                string   `json:"image" validate:"omitempty,url"`
	Status               string   `json:"status"`
	Views                int      `json:"views" validate:"gte=0"`
}

// Mapper converts RawOpportunity records to store opportunities.
type Mapper struct {
	// defaultStatus is assigned to records that arrive without a
	// moderation status. Imported listings stay out of the candidate
	// pools until approved unless the operator says otherwise.
	defaultStatus string
}

// NewMapper creates a new field mapper.
func NewMapper(defaultStatus string) *Mapper {
	if defaultStatus == "" {
		defaultStatus = "pending"
	}
	return &Mapper{defaultStatus: defaultStatus}
}

// ToOpportunity converts a RawOpportunity to a store opportunity.
// Records without an id get a deterministic UUID derived from their
// identity, so re-importing the same file upserts rather than
// duplicates.
func (m *Mapper) ToOpportunity(rec *RawOpportunity) *models.Opportunity {
	o := &models.Opportunity{
		ID:               strings.TrimSpace(rec.ID),
		Slug:             strings.TrimSpace(rec.Slug),
		Title:            strings.TrimSpace(rec.Title),
		Description:      rec.Description,
		Category:         strings.TrimSpace(rec.Category),
		CategoryID:       strings.TrimSpace(rec.CategoryID),
		CategoryName:     strings.TrimSpace(rec.CategoryName),
		Organizer:        strings.TrimSpace(rec.Organizer),
		OrganizerName:    strings.TrimSpace(rec.OrganizerName),
		OrganizerLogo:    rec.OrganizerLogo,
		GradeEligibility: strings.TrimSpace(rec.GradeEligibility),
		Segments:         cleanList(rec.Segments),
		SearchKeywords:   cleanList(rec.SearchKeywords),
		StartDate:        strings.TrimSpace(rec.StartDate),
		EndDate:          strings.TrimSpace(rec.EndDate),
		Fee:              strings.TrimSpace(rec.Fee),
		Mode:             models.NormalizeMode(rec.Mode),
		Image:            rec.Image,
		Status:           strings.ToLower(strings.TrimSpace(rec.Status)),
		Views:            rec.Views,
	}

	deadline := strings.TrimSpace(rec.RegistrationDeadline)
	if strings.EqualFold(deadline, "tbd") {
		o.RegistrationDeadlineTBD = true
	} else {
		o.RegistrationDeadline = deadline
	}

	if o.Status == "" {
		o.Status = m.defaultStatus
	}
	if o.Views < 0 {
		o.Views = 0
	}
	if o.ID == "" {
		o.ID = m.deterministicID(o)
	}
	return o
}

// deterministicID derives a UUID from the record's identity so the same
// record always maps to the same store id.
func (m *Mapper) deterministicID(o *models.Opportunity) string {
	key := o.Identity()
	if key == "" {
		key = models.NormalizeText(o.Title) + ":" + models.NormalizeText(o.Organizer)
	}
	hash := sha256.Sum256([]byte("opportunity-import:" + key))

	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		// 16 bytes in, cannot fail; random fallback keeps the import going.
		return uuid.NewString()
	}
	id[6] = (id[6] & 0x0f) | 0x50 // Version 5
	id[8] = (id[8] & 0x3f) | 0x80 // Variant 10
	return id.String()
}

// ValidateRecord checks that a record carries enough data to import.
func (m *Mapper) ValidateRecord(rec *RawOpportunity) error {
	if deadline := strings.TrimSpace(rec.RegistrationDeadline); deadline != "" && !strings.EqualFold(deadline, "tbd") {
		if _, ok := models.ParseDate(deadline); !ok {
			return fmt.Errorf("invalid registrationDeadline %q", rec.RegistrationDeadline)
		}
	}
	if verr := validation.Struct(rec); verr != nil {
		return verr
	}
	return nil
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
