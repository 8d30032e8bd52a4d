// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package models

import (
	"strings"
	"time"
)

// Mode is the delivery mode of an opportunity.
type Mode string

const (
	// ModeOnline indicates a fully remote opportunity.
	ModeOnline Mode = "online"
	// ModeOffline indicates an in-person opportunity.
	ModeOffline Mode = "offline"
	// ModeHybrid indicates a mixed-delivery opportunity.
	ModeHybrid Mode = "hybrid"
)

// NormalizeMode maps arbitrary input to a valid Mode.
// Anything other than "offline" or "hybrid" is treated as online,
// matching how listings are defaulted at submission time.
func NormalizeMode(raw string) Mode {
	switch Mode(NormalizeText(raw)) {
	case ModeOffline:
		return ModeOffline
	case ModeHybrid:
		return ModeHybrid
	default:
		return ModeOnline
	}
}

// Opportunity is a single educational opportunity listing (scholarship,
// competition, olympiad). Records originate in the document store and are
// read-only from the recommendation engine's perspective: the engine only
// produces derived, transient scored views of them.
//
// Date fields are ISO date strings ("2006-01-02" or RFC 3339) and may be
// empty. Parsing is deliberately lenient: a field that does not parse is
// treated the same as an absent field so that partial records degrade
// scores gracefully instead of erroring.
type Opportunity struct {
	// ID is the stable store-assigned identifier.
	ID string `json:"id"`

	// Slug is an optional human-readable alternate identity. When present
	// it takes precedence over ID for dedup/exclusion purposes.
	Slug string `json:"slug,omitempty"`

	// Title is the listing title.
	Title string `json:"title"`

	// Description is the long-form listing description.
	Description string `json:"description,omitempty"`

	// Category is the free-text category label.
	Category string `json:"category"`

	// CategoryID is the optional stable category identifier. Category
	// matching prefers CategoryID and falls back to Category.
	CategoryID string `json:"categoryId,omitempty"`

	// CategoryName is the optional category display name.
	CategoryName string `json:"categoryName,omitempty"`

	// Organizer is the organizing body.
	Organizer string `json:"organizer"`

	// OrganizerName is an alternate organizer display name.
	OrganizerName string `json:"organizerName,omitempty"`

	// OrganizerLogo is a URL to the organizer logo image.
	OrganizerLogo string `json:"organizerLogo,omitempty"`

	// GradeEligibility is a free-text grade/class range, e.g. "Class 7-9".
	GradeEligibility string `json:"gradeEligibility"`

	// Segments is an ordered list of audience-segment tags.
	Segments []string `json:"segments,omitempty"`

	// SearchKeywords is a list of free-text search tokens.
	SearchKeywords []string `json:"searchKeywords,omitempty"`

	// StartDate is the ISO date the opportunity starts.
	StartDate string `json:"startDate,omitempty"`

	// EndDate is the ISO date the opportunity ends.
	EndDate string `json:"endDate,omitempty"`

	// RegistrationDeadline is the ISO date registration closes.
	RegistrationDeadline string `json:"registrationDeadline,omitempty"`

	// RegistrationDeadlineTBD means a deadline exists but is not yet a
	// hard date. When set, deadline-based scoring treats the record as
	// having no deadline.
	RegistrationDeadlineTBD bool `json:"registrationDeadlineTBD,omitempty"`

	// Fee is the free-text registration fee ("", "Free", "500", ...).
	Fee string `json:"fee,omitempty"`

	// Mode is the delivery mode; defaults to online when absent/invalid.
	Mode Mode `json:"mode"`

	// Image is a URL to the listing image.
	Image string `json:"image,omitempty"`

	// Status is the moderation status. Only "approved" records enter the
	// recommendation candidate pools.
	Status string `json:"status"`

	// Views is the non-negative view counter; 0 when absent.
	Views int `json:"views"`
}

// NormalizeText lowercases and trims a value for comparison purposes.
func NormalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Identity returns the normalized identity used for dedup and exclusion:
// the slug when present, otherwise the store id.
func (o *Opportunity) Identity() string {
	if s := NormalizeText(o.Slug); s != "" {
		return s
	}
	return NormalizeText(o.ID)
}

// CategoryKey returns the identifier used for category matching:
// CategoryID when present, otherwise the free-text Category.
// Empty when the record carries no category information at all.
func (o *Opportunity) CategoryKey() string {
	if o.CategoryID != "" {
		return o.CategoryID
	}
	return o.Category
}

// DisplayCategory returns the best available category label for
// user-facing text.
func (o *Opportunity) DisplayCategory() string {
	if o.CategoryName != "" {
		return o.CategoryName
	}
	return o.Category
}

// DisplayOrganizer returns the best available organizer label.
func (o *Opportunity) DisplayOrganizer() string {
	if o.OrganizerName != "" {
		return o.OrganizerName
	}
	return o.Organizer
}

// Deadline parses the registration deadline. The second return is false
// when the field is absent or unparseable.
func (o *Opportunity) Deadline() (time.Time, bool) {
	return ParseDate(o.RegistrationDeadline)
}

// DeadlineOrEnd parses the registration deadline, falling back to the end
// date. Used by the similarity engine where either date serves as the
// liveness signal.
func (o *Opportunity) DeadlineOrEnd() (time.Time, bool) {
	if t, ok := ParseDate(o.RegistrationDeadline); ok {
		return t, true
	}
	return ParseDate(o.EndDate)
}

// dateLayouts are the accepted date string forms, in match order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate leniently parses an ISO date string. Returns false for empty
// or unparseable input rather than an error; malformed store data must
// never fail a scoring pass.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
