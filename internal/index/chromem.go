package index

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"studybuddy/internal/helper"
	"studybuddy/internal/models"
)

const compress = false

// ChromemIndex is a thin adapter over a persistent chromem-go collection.
// A single mutex serializes mutation; chromem handles concurrent reads.
type ChromemIndex struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	embedFn    chromem.EmbeddingFunc
}

// NewChromem opens (or creates) the persistent database at path and the
// named collection inside it. Embeddings are produced by the provided
// langchaingo embedder.
func NewChromem(path, collectionName string, embedder *embeddings.EmbedderImpl) (*ChromemIndex, error) {
	if err := helper.CreateFolder(path); err != nil {
		return nil, fmt.Errorf("failed to create db folder: %w", err)
	}

	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	embedFn := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	return &ChromemIndex{
		db:         db,
		collection: collection,
		name:       collectionName,
		embedFn:    embedFn,
	}, nil
}

func (m *ChromemIndex) Add(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) error {
	if len(texts) != len(metadatas) {
		return fmt.Errorf("%w: %d texts but %d metadata entries", models.ErrIndexWrite, len(texts), len(metadatas))
	}
	if ids != nil && len(ids) != len(texts) {
		return fmt.Errorf("%w: %d texts but %d ids", models.ErrIndexWrite, len(texts), len(ids))
	}
	if len(texts) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(texts))
	for i, text := range texts {
		id := ""
		if ids != nil {
			id = ids[i]
		} else {
			generated, err := helper.GenerateUUID()
			if err != nil {
				return fmt.Errorf("%w: %v", models.ErrIndexWrite, err)
			}
			id = generated
		}
		docs[i] = chromem.Document{
			ID:       id,
			Content:  text,
			Metadata: metadatas[i],
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (m *ChromemIndex) Search(ctx context.Context, query string, k int) ([]models.Source, error) {
	count := m.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem rejects queries asking for more results than documents
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := m.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	sources := make([]models.Source, len(results))
	for i, r := range results {
		sources[i] = models.Source{
			Text:     r.Content,
			Metadata: r.Metadata,
			Distance: 1 - r.Similarity,
		}
	}
	return sources, nil
}

func (m *ChromemIndex) Count() int {
	return m.collection.Count()
}

// DeleteAll drops the collection and recreates it empty, so the index
// stays queryable.
func (m *ChromemIndex) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.db.DeleteCollection(m.name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	collection, err := m.db.GetOrCreateCollection(m.name, nil, m.embedFn)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	m.collection = collection
	log.Debug().Str("collection", m.name).Msg("collection cleared")
	return nil
}
