package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/models"
)

func meta(name string, i int) map[string]string {
	return map[string]string{models.MetaFileName: name, models.MetaChunkIndex: "0"}
}

func TestMemoryAddValidation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Add(ctx, []string{"a", "b"}, []map[string]string{meta("f", 0)}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrIndexWrite))

	err = m.Add(ctx, []string{"a"}, []map[string]string{meta("f", 0)}, []string{"id1", "id2"})
	assert.True(t, errors.Is(err, models.ErrIndexWrite))
}

func TestMemoryAddGeneratesIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, []string{"a", "b"}, []map[string]string{meta("f", 0), meta("f", 1)}, nil))
	assert.Equal(t, 2, m.Count())
	assert.NotEmpty(t, m.ids[0])
	assert.NotEqual(t, m.ids[0], m.ids[1])
}

func TestMemorySearchEmptyIndex(t *testing.T) {
	m := NewMemory()
	results, err := m.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemorySearchRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	texts := []string{
		"Photosynthesis occurs in chloroplasts.",
		"The mitochondria is the powerhouse of the cell.",
		"Rivers erode their banks over centuries.",
	}
	metas := []map[string]string{meta("bio.txt", 0), meta("bio.txt", 1), meta("geo.txt", 0)}
	require.NoError(t, m.Add(ctx, texts, metas, nil))

	results, err := m.Search(ctx, "Photosynthesis occurs in chloroplasts.", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, texts[0], results[0].Text)
	assert.Equal(t, "bio.txt", results[0].Metadata[models.MetaFileName])
}

func TestMemorySearchClampsK(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, []string{"one chunk only"}, []map[string]string{meta("f", 0)}, nil))

	results, err := m.Search(ctx, "chunk", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryDeleteAllKeepsIndexQueryable(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, []string{"a chunk"}, []map[string]string{meta("f", 0)}, nil))
	require.NoError(t, m.DeleteAll(ctx))

	assert.Equal(t, 0, m.Count())
	results, err := m.Search(ctx, "a chunk", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}
