package index

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"studybuddy/internal/helper"
	"studybuddy/internal/models"
)

var tokenRe = regexp.MustCompile(models.WordRegex)

// MemoryIndex is an embedding-free in-memory backend ranking chunks by
// lexical token overlap (Ochiai coefficient). It exists for offline use
// and tests; persistence-backed deployments use chromem or postgres.
type MemoryIndex struct {
	mu    sync.RWMutex
	texts []string
	metas []map[string]string
	ids   []string
}

func NewMemory() *MemoryIndex { return &MemoryIndex{} }

func (m *MemoryIndex) Add(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) error {
	if len(texts) != len(metadatas) {
		return fmt.Errorf("%w: %d texts but %d metadata entries", models.ErrIndexWrite, len(texts), len(metadatas))
	}
	if ids != nil && len(ids) != len(texts) {
		return fmt.Errorf("%w: %d texts but %d ids", models.ErrIndexWrite, len(texts), len(ids))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
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
		m.texts = append(m.texts, text)
		m.metas = append(m.metas, metadatas[i])
		m.ids = append(m.ids, id)
	}
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, query string, k int) ([]models.Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.texts) == 0 || k <= 0 {
		return nil, nil
	}

	qset := tokenSet(query)
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(m.texts))
	for i, text := range m.texts {
		scores[i] = scored{i, ochiai(qset, tokenSet(text))}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if k > len(scores) {
		k = len(scores)
	}
	results := make([]models.Source, 0, k)
	for _, s := range scores[:k] {
		results = append(results, models.Source{
			Text:     m.texts[s.idx],
			Metadata: m.metas[s.idx],
			Distance: float32(1 - s.score),
		})
	}
	return results, nil
}

func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.texts)
}

func (m *MemoryIndex) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = nil
	m.metas = nil
	m.ids = nil
	return nil
}

func tokenSet(s string) map[string]struct{} {
	tokens := tokenRe.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// ochiai is |A∩B| / sqrt(|A||B|)
func ochiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(a))*float64(len(b)))
}
