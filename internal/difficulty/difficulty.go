package difficulty

import (
	"regexp"
	"strings"

	"studybuddy/internal/models"
)

// Scorer estimates how hard a passage is to read, on a 0-1 scale, from
// four weighted lexical metrics. The syllable counter is a heuristic,
// not a dictionary lookup.
type Scorer struct {
	technicalTerms map[string]struct{}
}

var (
	wordRe     = regexp.MustCompile(models.WordRegex)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

var technicalVocabulary = []string{
	"analyze", "synthesize", "evaluate", "hypothesis", "methodology",
	"paradigm", "phenomenon", "conceptual", "theoretical", "empirical",
}

func NewScorer() *Scorer {
	terms := make(map[string]struct{}, len(technicalVocabulary))
	for _, t := range technicalVocabulary {
		terms[t] = struct{}{}
	}
	return &Scorer{technicalTerms: terms}
}

type metrics struct {
	avgSentenceLength float64
	complexWordRatio  float64 // percent
	syllableDensity   float64
	technicalRatio    float64 // percent
}

// Score returns a difficulty estimate in [0,1].
func (s *Scorer) Score(text string) float64 {
	m := s.calculate(text)

	score := m.avgSentenceLength*0.2 +
		m.complexWordRatio*0.3 +
		m.syllableDensity*0.3 +
		m.technicalRatio*0.2

	score /= 100
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Categorize maps a score onto the beginner/intermediate/advanced bands.
func Categorize(score float64) string {
	switch {
	case score < 0.3:
		return "beginner"
	case score < 0.7:
		return "intermediate"
	default:
		return "advanced"
	}
}

func (s *Scorer) calculate(text string) metrics {
	sentences := splitSentences(text)
	words := wordRe.FindAllString(strings.ToLower(text), -1)

	var m metrics
	if len(sentences) > 0 {
		m.avgSentenceLength = float64(len(words)) / float64(len(sentences))
	}
	if len(words) == 0 {
		return m
	}

	complexCount := 0
	totalSyllables := 0
	technicalCount := 0
	for _, w := range words {
		syl := CountSyllables(w)
		totalSyllables += syl
		if syl >= 3 {
			complexCount++
		}
		if _, ok := s.technicalTerms[w]; ok {
			technicalCount++
		}
	}

	n := float64(len(words))
	m.complexWordRatio = float64(complexCount) / n * 100
	m.syllableDensity = float64(totalSyllables) / n
	m.technicalRatio = float64(technicalCount) / n * 100
	return m
}

func splitSentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	var sentences []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// CountSyllables counts vowel-group transitions, treating y as a vowel.
// A trailing "e" drops one syllable and every word counts at least one.
func CountSyllables(word string) int {
	const vowels = "aeiouy"
	syllables := 0
	prevWasVowel := false
	for _, r := range strings.ToLower(word) {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevWasVowel {
			syllables++
		}
		prevWasVowel = isVowel
	}
	if strings.HasSuffix(word, "e") {
		syllables--
	}
	if syllables < 1 {
		syllables = 1
	}
	return syllables
}
