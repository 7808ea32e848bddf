package quiz

import (
	"strings"

	"studybuddy/internal/models"
)

// Evaluate scores a quiz attempt. Answers are keyed by question index;
// a missing answer counts as an empty string.
func Evaluate(quiz *models.Quiz, answers map[int]string) *models.EvaluationResult {
	score := 0
	results := make([]models.QuestionResult, 0, len(quiz.Questions))

	for i, q := range quiz.Questions {
		userAnswer := answers[i]

		var isCorrect bool
		correctAnswer := q.CorrectAnswer
		switch q.Type {
		case models.QuizShortAnswer:
			correctAnswer = q.SampleAnswer
			isCorrect = shortAnswerCorrect(userAnswer, q.SampleAnswer)
		default:
			isCorrect = strings.EqualFold(userAnswer, q.CorrectAnswer)
			// an invalid true/false item has no defensible answer key
			if q.Invalid {
				isCorrect = true
			}
		}
		if isCorrect {
			score++
		}

		results = append(results, models.QuestionResult{
			Prompt:        q.Prompt,
			UserAnswer:    userAnswer,
			CorrectAnswer: correctAnswer,
			IsCorrect:     isCorrect,
		})
	}

	percentage := 0.0
	if len(quiz.Questions) > 0 {
		percentage = float64(score) / float64(len(quiz.Questions)) * 100
	}

	return &models.EvaluationResult{
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		Percentage:     percentage,
		Grade:          Grade(percentage),
		Results:        results,
	}
}

// shortAnswerCorrect checks keyword overlap: the reference words longer
// than three letters are the keyword set and the answer must cover at
// least 30% of it. An empty keyword set always passes.
func shortAnswerCorrect(userAnswer, sampleAnswer string) bool {
	userWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(userAnswer)) {
		userWords[w] = struct{}{}
	}

	keywords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(sampleAnswer)) {
		if len(w) > 3 {
			keywords[w] = struct{}{}
		}
	}

	matching := 0
	for w := range keywords {
		if _, ok := userWords[w]; ok {
			matching++
		}
	}
	return float64(matching) >= float64(len(keywords))*0.3
}

// Grade maps a percentage onto the 90/80/70/60 letter ladder.
func Grade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
