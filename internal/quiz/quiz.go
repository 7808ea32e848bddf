package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"studybuddy/internal/index"
	"studybuddy/internal/models"
)

const retrievalDepth = 10

// Generator builds quizzes from retrieved passages with regex and
// template heuristics. Pass a seeded rand for reproducible quizzes.
type Generator struct {
	idx index.Index
	rng *rand.Rand
}

var capitalRe = regexp.MustCompile(models.CapitalWordRegex)

func NewGenerator(idx index.Index, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{idx: idx, rng: rng}
}

// Generate builds a quiz of up to n questions about the topic. Fails
// with models.ErrNoContent when the topic has zero matches.
func (g *Generator) Generate(ctx context.Context, topic string, n int, quizType models.QuizType) (*models.Quiz, error) {
	sources, err := g.idx.Search(ctx, topic, retrievalDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNoContent, topic)
	}

	texts := make([]string, len(sources))
	for i, s := range sources {
		texts[i] = s.Text
	}
	sentences := candidateSentences(strings.Join(texts, " "))

	var questions []models.Question
	switch quizType {
	case models.QuizMultipleChoice:
		questions = g.multipleChoice(sentences, n)
	case models.QuizTrueFalse:
		questions = g.trueFalse(sentences, n)
	case models.QuizShortAnswer:
		questions = g.shortAnswer(sentences, n)
	default: // mixed
		questions = g.mixed(sentences, n)
	}

	return &models.Quiz{
		Topic:        topic,
		NumQuestions: len(questions),
		Type:         quizType,
		Questions:    questions,
	}, nil
}

// candidateSentences splits on periods and keeps sentences long enough
// to carry a fact, in original order.
func candidateSentences(content string) []string {
	var sentences []string
	for _, s := range strings.Split(content, models.SentenceSeparator) {
		s = strings.TrimSpace(s)
		if len(s) > 20 {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func (g *Generator) multipleChoice(sentences []string, n int) []models.Question {
	var questions []models.Question
	for i := 0; i < min(n, len(sentences)); i++ {
		sentence := sentences[i]

		terms := capitalRe.FindAllString(sentence, -1)
		if len(terms) == 0 {
			continue
		}
		keyTerm := terms[g.rng.Intn(len(terms))]
		questionText := strings.ReplaceAll(sentence, keyTerm, "____")

		// TODO: draw distractors from capitalized terms in the other
		// retrieved chunks instead of fixed placeholders
		options := make([]string, 0, 4)
		options = append(options, keyTerm)
		options = append(options, models.DummyOptions...)
		g.rng.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		optionMap := make(map[string]string, len(options))
		order := make([]string, len(options))
		correct := ""
		for j, opt := range options {
			letter := string(rune('A' + j))
			optionMap[letter] = opt
			order[j] = letter
			if opt == keyTerm {
				correct = letter
			}
		}

		questions = append(questions, models.Question{
			Type:          models.QuizMultipleChoice,
			Prompt:        "Fill in the blank: " + questionText,
			Options:       optionMap,
			OptionOrder:   order,
			CorrectAnswer: correct,
		})
	}
	return questions
}

func (g *Generator) trueFalse(sentences []string, n int) []models.Question {
	var questions []models.Question
	for i := 0; i < min(n, len(sentences)); i++ {
		sentence := sentences[i]
		isTrue := i%2 == 0

		text := sentence
		invalid := false
		if !isTrue {
			negated, ok := negate(sentence)
			if ok {
				text = negated
			} else {
				// no pattern matched, so the statement is still true;
				// mark it instead of emitting a mislabeled question
				invalid = true
			}
		}

		label := "True"
		if !isTrue {
			label = "False"
		}
		questions = append(questions, models.Question{
			Type:          models.QuizTrueFalse,
			Prompt:        "True or False: " + text,
			CorrectAnswer: label,
			Invalid:       invalid,
		})
	}
	return questions
}

// negate applies the first matching substitution from the fixed ordered
// list, working on the lowercased sentence.
func negate(sentence string) (string, bool) {
	lower := strings.ToLower(sentence)
	for _, pair := range models.Negations {
		if strings.Contains(lower, pair.From) {
			return strings.Replace(lower, pair.From, pair.To, 1), true
		}
	}
	return sentence, false
}

func (g *Generator) shortAnswer(sentences []string, n int) []models.Question {
	var questions []models.Question
	for i := 0; i < min(n, len(sentences)); i++ {
		sentence := sentences[i]
		words := strings.Fields(sentence)
		if len(words) <= 5 {
			continue
		}

		starter := models.QuestionStarters[g.rng.Intn(len(models.QuestionStarters))]
		keyConcept := strings.ToLower(strings.Join(words[:3], " "))

		questions = append(questions, models.Question{
			Type:         models.QuizShortAnswer,
			Prompt:       fmt.Sprintf("%s %s?", starter, keyConcept),
			SampleAnswer: sentence,
		})
	}
	return questions
}

func (g *Generator) mixed(sentences []string, n int) []models.Question {
	mcCount := n / 3
	tfCount := n / 3
	saCount := n - mcCount - tfCount

	var questions []models.Question
	questions = append(questions, g.multipleChoice(sentences, mcCount)...)
	questions = append(questions, g.trueFalse(sentences, tfCount)...)
	questions = append(questions, g.shortAnswer(sentences, saCount)...)

	g.rng.Shuffle(len(questions), func(a, b int) {
		questions[a], questions[b] = questions[b], questions[a]
	})
	return questions
}
