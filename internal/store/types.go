// Package store provides durable persistence for symptom reports. Reports
// are write-once: they are created with their computed analysis and
// notification outcome and never modified afterwards.
package store

import (
	"context"

	"github.com/healthshield-server/internal/domain"
)

// ReportPage is one page of reports ordered newest first, with pagination
// metadata matching the reports API response.
type ReportPage struct {
	Items []*domain.Report `json:"items"`
	Total int64            `json:"total"`
	Pages int              `json:"pages"`
	Page  int              `json:"page"`
}

// Store defines the interface for report storage operations.
type Store interface {
	// Create persists a new report, assigning its ID and timestamps.
	// The write is atomic; a report is never partially visible.
	Create(ctx context.Context, report *domain.Report) error

	// List returns one page of reports ordered by creation time
	// descending. A page beyond the available reports yields an empty
	// item list with correct metadata, never an error.
	List(ctx context.Context, page, perPage int) (*ReportPage, error)

	// Count returns the total number of stored reports.
	Count(ctx context.Context) (int64, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}

// pageCount computes the number of pages for a total item count, matching
// ceil(total/perPage); zero items yield zero pages.
func pageCount(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
