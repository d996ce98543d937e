package ports

import "context"

// ListingCache is an explicit read-through cache for raw listing results
// (macros, groups). The engine remains the source of truth: reads hit
// the engine unless a cache is installed, and invalidation is always a
// caller-visible call, never implicit.
type ListingCache interface {
	// Get returns the cached raw result for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the raw result for key.
	Set(ctx context.Context, key string, raw string) error
	// Invalidate drops every cached listing.
	Invalidate(ctx context.Context) error
}
