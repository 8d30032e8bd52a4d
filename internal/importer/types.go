// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package importer

import (
	"time"
)

// ImportStats holds statistics about an import operation.
type ImportStats struct {
	// TotalRecords is the total number of records in the source file.
	TotalRecords int64

	// Processed is the number of records processed (including skipped).
	Processed int64

	// Imported is the number of records successfully written to the store.
	Imported int64

	// Skipped is the number of records skipped due to validation failures.
	Skipped int64

	// Errors is the number of records that failed to import.
	Errors int64

	// StartTime is when the import started.
	StartTime time.Time

	// EndTime is when the import completed (zero if still running).
	EndTime time.Time

	// LastProcessedIndex is the zero-based index of the last processed
	// record in the source file. Resumed imports continue after it.
	LastProcessedIndex int64

	// DryRun indicates if this was a dry run (no actual writes).
	DryRun bool
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRecords) * 100
}

// RecordsPerSecond returns the import rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// Summary is a human-readable snapshot of import progress.
type Summary struct {
	Status             string    `json:"status"`
	Progress           float64   `json:"progress"`
	TotalRecords       int64     `json:"totalRecords"`
	Processed          int64     `json:"processed"`
	Imported           int64     `json:"imported"`
	Skipped            int64     `json:"skipped"`
	Errors             int64     `json:"errors"`
	RecordsPerSec      float64   `json:"recordsPerSecond"`
	ElapsedSeconds     float64   `json:"elapsedSeconds"`
	StartTime          time.Time `json:"startTime"`
	LastProcessedIndex int64     `json:"lastProcessedIndex"`
	DryRun             bool      `json:"dryRun"`
}

// ToSummary converts ImportStats to a Summary with calculated fields.
func (s *ImportStats) ToSummary(running bool) *Summary {
	summary := &Summary{
		Progress:           s.Progress(),
		TotalRecords:       s.TotalRecords,
		Processed:          s.Processed,
		Imported:           s.Imported,
		Skipped:            s.Skipped,
		Errors:             s.Errors,
		RecordsPerSec:      s.RecordsPerSecond(),
		ElapsedSeconds:     s.Duration().Seconds(),
		StartTime:          s.StartTime,
		LastProcessedIndex: s.LastProcessedIndex,
		DryRun:             s.DryRun,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.EndTime.IsZero():
		summary.Status = "pending"
	default:
		summary.Status = "completed"
	}

	return summary
}
