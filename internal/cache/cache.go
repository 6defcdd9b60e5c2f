// Package cache provides a short-lived cache for report list pages.
// Entries are invalidated whenever a new report is created; computed
// analyses are never cached.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/healthshield-server/internal/store"
)

// PageCache caches report list pages keyed by pagination parameters.
// Implementations invalidate by bumping a generation counter so stale
// pages simply stop being addressable.
type PageCache interface {
	// GetPage returns a cached page, or false on a miss.
	GetPage(ctx context.Context, page, perPage int) (*store.ReportPage, bool)

	// SetPage stores a page for the current generation.
	SetPage(ctx context.Context, page, perPage int, p *store.ReportPage)

	// Invalidate makes all cached pages unreachable.
	Invalidate(ctx context.Context)

	// Close releases cache resources.
	Close() error
}

// pageKey derives a cache key for a list page under a generation counter.
func pageKey(generation int64, page, perPage int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("reports:list:v%d:p%d:n%d", generation, page, perPage)))
	return fmt.Sprintf("healthshield:reports:%x", h[:16])
}
