package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/config"
	"studybuddy/internal/index"
	"studybuddy/internal/models"
)

func newTestEngine(t *testing.T, texts ...string) (*Engine, *index.MemoryIndex) {
	t.Helper()
	idx := index.NewMemory()
	if len(texts) > 0 {
		metas := make([]map[string]string, len(texts))
		for i := range texts {
			metas[i] = map[string]string{
				models.MetaFileName:   "notes.txt",
				models.MetaChunkIndex: fmt.Sprintf("%d", i),
			}
		}
		require.NoError(t, idx.Add(context.Background(), texts, metas, nil))
	}
	return NewEngine(idx, config.Default()), idx
}

func TestQueryEmptyIndex(t *testing.T) {
	engine, _ := newTestEngine(t)
	sess := NewSession(false)

	resp, err := engine.Query(context.Background(), sess, "what is photosynthesis", 3, "")
	require.NoError(t, err)
	assert.Equal(t, models.MsgNoRelevantInfo, resp.Response)
	assert.Empty(t, resp.Sources)
	// the question still lands in history
	assert.Equal(t, 1, sess.Len())
}

func TestQueryReturnsContext(t *testing.T) {
	engine, _ := newTestEngine(t,
		"Photosynthesis occurs in chloroplasts.",
		"The mitochondria is the powerhouse of the cell.",
	)
	sess := NewSession(false)

	resp, err := engine.Query(context.Background(), sess, "where does photosynthesis occur", 2, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Response, models.ResponsePreface))
	assert.Contains(t, resp.Response, "Photosynthesis occurs in chloroplasts.")
	assert.Len(t, resp.Sources, 2)
}

func TestQueryDifficultyFilterCanEmptySources(t *testing.T) {
	dense := strings.Repeat("empirical methodology paradigm phenomenon hypothesis ", 40)
	engine, _ := newTestEngine(t, dense)
	sess := NewSession(false)

	resp, err := engine.Query(context.Background(), sess, "empirical methodology", 3, "beginner")
	require.NoError(t, err)
	// the only chunk scores advanced, so the beginner band drops it
	assert.Empty(t, resp.Sources)
	assert.Equal(t, models.MsgNoRelevantInfo, resp.Response)
}

func TestQueryDifficultyFilterKeepsMatchingBand(t *testing.T) {
	dense := strings.Repeat("empirical methodology paradigm phenomenon hypothesis ", 40)
	engine, _ := newTestEngine(t, "The cat sat on the mat.", dense)
	sess := NewSession(false)

	resp, err := engine.Query(context.Background(), sess, "cat mat empirical", 5, "beginner")
	require.NoError(t, err)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "The cat sat on the mat.", resp.Sources[0].Text)
}

func TestAssessUnderstandingLevel(t *testing.T) {
	assert.Equal(t, "beginner", assessUnderstandingLevel("What is photosynthesis"))
	assert.Equal(t, "advanced", assessUnderstandingLevel("Analyze the role of chloroplasts"))
	assert.Equal(t, "intermediate", assessUnderstandingLevel("Photosynthesis overview please"))
	// strict majority required for advanced
	assert.Equal(t, "beginner", assessUnderstandingLevel("What is the hypothesis to analyze"))
}

func TestSuggestedActionsFollowLevel(t *testing.T) {
	engine, _ := newTestEngine(t, "Photosynthesis occurs in chloroplasts.")
	sess := NewSession(false)

	resp, err := engine.Query(context.Background(), sess, "what is photosynthesis", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "beginner", resp.UnderstandingLevel)
	assert.Equal(t, models.BeginnerSuggestions, resp.SuggestedActions)
}

func TestExplainSimpleNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)
	resp, err := engine.ExplainSimple(context.Background(), "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, models.MsgTopicNotFound, resp.Response)
}

func TestExplainSimpleShortSentences(t *testing.T) {
	engine, _ := newTestEngine(t, "Photosynthesis occurs in chloroplasts. It uses light. Plants make sugar.")
	resp, err := engine.ExplainSimple(context.Background(), "photosynthesis")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Response, models.SimplePreface))
	assert.Contains(t, resp.Response, "It uses light")
	assert.Equal(t, "beginner", resp.ExplanationLevel)
}

func TestExplainSimpleFallsBackToTruncatedContext(t *testing.T) {
	long := strings.Repeat("word ", 60) // one sentence, no period, >=20 words
	engine, _ := newTestEngine(t, long)
	resp, err := engine.ExplainSimple(context.Background(), "word")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Response, models.SimpleFallbackPreface))
	assert.True(t, strings.HasSuffix(resp.Response, "..."))
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// a multibyte rune straddling the cut must not be split
	s := strings.Repeat("a", 499) + "étude"
	got := truncate(s, 500)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 500, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "é"))

	// under the limit the string is returned unchanged
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "光合作用", truncate("光合作用", 4))
}

func TestKnowledgeGapsNeedsHistory(t *testing.T) {
	engine, _ := newTestEngine(t)
	sess := NewSession(false)
	for i := 0; i < 4; i++ {
		sess.Append("what is photosynthesis")
	}
	gaps := engine.KnowledgeGaps(sess)
	assert.Equal(t, []string{models.MsgNeedMoreHistory}, gaps)
}

func TestKnowledgeGapsFindsRepeatedTopic(t *testing.T) {
	engine, _ := newTestEngine(t)
	sess := NewSession(false)
	sess.Append("what is photosynthesis")
	sess.Append("explain photosynthesis again")
	sess.Append("photosynthesis in plants")
	sess.Append("how do rivers form")
	sess.Append("what are clouds")

	gaps := engine.KnowledgeGaps(sess)
	require.NotEmpty(t, gaps)
	assert.Contains(t, gaps[0], "photosynthesis")
	assert.Contains(t, gaps[0], "3 times")
}

func TestKnowledgeGapsNoWeakAreas(t *testing.T) {
	engine, _ := newTestEngine(t)
	sess := NewSession(false)
	questions := []string{
		"what is photosynthesis",
		"how do rivers form",
		"what are clouds made from",
		"define an ecosystem",
		"describe the water cycle",
	}
	for _, q := range questions {
		sess.Append(q)
	}
	gaps := engine.KnowledgeGaps(sess)
	assert.Equal(t, []string{models.MsgNoWeakAreas}, gaps)
}

func TestSessionReset(t *testing.T) {
	keep := NewSession(false)
	keep.Append("q1")
	keep.Reset()
	assert.Equal(t, 1, keep.Len())

	clear := NewSession(true)
	clear.Append("q1")
	clear.Reset()
	assert.Equal(t, 0, clear.Len())
}
