package difficulty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"cat":        1,
		"table":      1, // trailing e decrement
		"hypothesis": 4,
		"syllable":   2, // y counts, trailing e drops one
		"e":          1, // floor
		"rhythm":     1,
		"empirical":  4,
	}
	for word, want := range cases {
		assert.Equal(t, want, CountSyllables(word), "word %q", word)
	}
}

func TestScoreSimpleTextIsBeginner(t *testing.T) {
	s := NewScorer()
	score := s.Score("The cat sat.")
	assert.Less(t, score, 0.3)
	assert.Equal(t, "beginner", Categorize(score))
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer()

	// pathological run-on text with dense technical vocabulary still clamps at 1
	dense := strings.Repeat("empirical methodology paradigm phenomenon hypothesis ", 40)
	score := s.Score(dense)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)

	assert.GreaterOrEqual(t, s.Score(""), 0.0)
}

func TestScoreMonotonicInSentenceLength(t *testing.T) {
	s := NewScorer()
	short := s.Score("The cat sat. The dog ran. The sun set.")
	long := s.Score("The cat sat on the mat near the door by the wall in the sun all day long today.")
	assert.Greater(t, long, short)
}

func TestScoreTechnicalTermsRaiseDifficulty(t *testing.T) {
	s := NewScorer()
	plain := s.Score("The team looked at the results of the test run.")
	technical := s.Score("The team used empirical methodology to evaluate the hypothesis.")
	assert.Greater(t, technical, plain)
}

func TestCategorizeThresholds(t *testing.T) {
	assert.Equal(t, "beginner", Categorize(0.0))
	assert.Equal(t, "beginner", Categorize(0.29))
	assert.Equal(t, "intermediate", Categorize(0.3))
	assert.Equal(t, "intermediate", Categorize(0.69))
	assert.Equal(t, "advanced", Categorize(0.7))
	assert.Equal(t, "advanced", Categorize(1.0))
}
