package index

import (
	"context"

	"studybuddy/internal/models"
)

// Index is the contract every vector index backend satisfies. The
// underlying ANN structure and distance metric belong to the backend;
// callers only see ranked results, best-first.
//
// Search on an empty index returns an empty result set, not an error.
// After DeleteAll the index stays queryable, just empty.
type Index interface {
	// Add indexes the given texts with their per-text metadata. When ids
	// is nil a unique id is generated per text. A length mismatch
	// between texts, metadatas or ids fails with models.ErrIndexWrite.
	Add(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) error

	// Search returns up to k chunks ranked by similarity to the query.
	Search(ctx context.Context, query string, k int) ([]models.Source, error)

	// Count reports the number of indexed chunks.
	Count() int

	// DeleteAll drops every indexed chunk.
	DeleteAll(ctx context.Context) error
}
