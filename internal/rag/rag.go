package rag

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"studybuddy/internal/config"
	"studybuddy/internal/difficulty"
	"studybuddy/internal/index"
	"studybuddy/internal/llmservice"
	"studybuddy/internal/models"
)

// Engine orchestrates retrieval, difficulty filtering and templated
// response assembly. It holds no per-user state; the Session does.
type Engine struct {
	idx    index.Index
	scorer *difficulty.Scorer
	cfg    *config.Config
}

func NewEngine(idx index.Index, cfg *config.Config) *Engine {
	return &Engine{idx: idx, scorer: difficulty.NewScorer(), cfg: cfg}
}

var wordRe = regexp.MustCompile(models.WordRegex)

// Query answers a free-text question from the indexed materials. The
// question is appended to the session history before retrieval, so a
// later failure still counts toward gap analysis.
func (e *Engine) Query(ctx context.Context, sess *Session, question string, k int, difficultyLevel string) (*models.QueryResponse, error) {
	sess.Append(question)

	sources, err := e.idx.Search(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	if difficultyLevel != "" {
		sources = e.filterByDifficulty(sources, difficultyLevel)
	}

	level := assessUnderstandingLevel(question)
	return &models.QueryResponse{
		Question:           question,
		Response:           e.buildResponse(ctx, question, sources),
		Sources:            sources,
		UnderstandingLevel: level,
		SuggestedActions:   suggestActions(level),
	}, nil
}

// ExplainSimple builds a beginner-level explanation from short sentences
// of the top two retrieved chunks.
func (e *Engine) ExplainSimple(ctx context.Context, question string) (*models.SimpleResponse, error) {
	sources, err := e.idx.Search(ctx, question, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	if len(sources) == 0 {
		return &models.SimpleResponse{
			Question: question,
			Response: models.MsgTopicNotFound,
		}, nil
	}

	texts := make([]string, len(sources))
	for i, s := range sources {
		texts[i] = s.Text
	}
	contextText := strings.Join(texts, " ")

	var simple []string
	sentences := strings.Split(contextText, models.SentenceSeparator)
	for i, sentence := range sentences {
		if i >= 3 {
			break
		}
		if len(strings.Fields(sentence)) < 20 {
			if trimmed := strings.TrimSpace(sentence); trimmed != "" {
				simple = append(simple, trimmed)
			}
		}
	}

	response := ""
	if len(simple) > 0 {
		response = models.SimplePreface + strings.Join(simple, ". ") + "."
	} else {
		response = models.SimpleFallbackPreface + truncate(contextText, 200) + "..."
	}

	return &models.SimpleResponse{
		Question:         question,
		Response:         response,
		Sources:          sources,
		ExplanationLevel: "beginner",
	}, nil
}

// KnowledgeGaps ranks the most-repeated question topics as candidate
// weak areas. Needs at least five recorded questions to say anything.
func (e *Engine) KnowledgeGaps(sess *Session) []string {
	history := sess.History()
	if len(history) < 5 {
		return []string{models.MsgNeedMoreHistory}
	}

	counts := make(map[string]int)
	var order []string
	for _, question := range history {
		for _, word := range wordRe.FindAllString(strings.ToLower(question), -1) {
			if len(word) <= 3 {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	// frequency descending, first-seen order breaking ties
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})

	var weakAreas []string
	for i, topic := range order {
		if i >= 5 {
			break
		}
		if counts[topic] >= 3 {
			weakAreas = append(weakAreas, fmt.Sprintf(models.WeakAreaFormat, topic, counts[topic]))
		}
	}
	if len(weakAreas) == 0 {
		return []string{models.MsgNoWeakAreas}
	}
	return weakAreas
}

func (e *Engine) filterByDifficulty(sources []models.Source, level string) []models.Source {
	band := e.cfg.Band(level)
	var filtered []models.Source
	for _, s := range sources {
		score := e.scorer.Score(s.Text)
		if score >= band.MinScore && score <= band.MaxScore {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func (e *Engine) buildResponse(ctx context.Context, question string, sources []models.Source) string {
	if len(sources) == 0 {
		return models.MsgNoRelevantInfo
	}

	top := sources
	if len(top) > 3 {
		top = top[:3]
	}
	texts := make([]string, len(top))
	for i, s := range top {
		texts[i] = s.Text
	}
	contextText := strings.Join(texts, " ")

	if e.cfg.Answer.Mode == "llm" {
		answer, err := llmservice.Answer(ctx, &e.cfg.Answer.LLM, contextText, question)
		if err == nil {
			return answer
		}
		log.Warn().Err(err).Msg("llm answer failed, falling back to template")
	}

	return models.ResponsePreface + truncate(contextText, 500) + "..."
}

func assessUnderstandingLevel(question string) string {
	questionWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(question)) {
		questionWords[w] = struct{}{}
	}

	beginnerCount := 0
	for _, w := range models.BeginnerIndicators {
		if _, ok := questionWords[w]; ok {
			beginnerCount++
		}
	}
	advancedCount := 0
	for _, w := range models.AdvancedIndicators {
		if _, ok := questionWords[w]; ok {
			advancedCount++
		}
	}

	switch {
	case advancedCount > beginnerCount:
		return "advanced"
	case beginnerCount > 0:
		return "beginner"
	default:
		return "intermediate"
	}
}

func suggestActions(level string) []string {
	switch level {
	case "beginner":
		return models.BeginnerSuggestions
	case "advanced":
		return models.AdvancedSuggestions
	default:
		return models.IntermediateSuggestions
	}
}

// truncate cuts after n characters, never mid-rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
