package domain

import "context"

// SampleStore is the persistence contract every backend implements. Each
// call is one logical session: the backend acquires whatever connection it
// needs at entry and releases it on every exit path.
type SampleStore interface {
	// ListSamples returns every sample ordered by id.
	ListSamples(ctx context.Context) ([]PlantSample, error)
	// CreateSample inserts a row and returns the store-generated id. The
	// insert and id retrieval are one atomic statement.
	CreateSample(ctx context.Context, input SampleInput) (int64, error)
	// GetSample returns the sample with the given id or ErrNotFound.
	GetSample(ctx context.Context, id int64) (PlantSample, error)
	// UpdateSample replaces exactly the columns named by the patch. A patch
	// matching no row yields ErrNotFound. Callers reject empty patches
	// before reaching the store.
	UpdateSample(ctx context.Context, id int64, patch SamplePatch) error
	// DeleteSample removes the row or returns ErrNotFound when no row
	// matched; nothing is committed in that case.
	DeleteSample(ctx context.Context, id int64) error
	// Close releases the backend's underlying resources.
	Close() error
}
