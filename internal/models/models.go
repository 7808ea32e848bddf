package models

// Document represents a processed study document ready for indexing
type Document struct {
	FilePath  string
	FileName  string
	FileType  string
	Content   string
	Chunks    []string
	WordCount int
}

// metadata keys attached to every indexed chunk
const (
	MetaFileName   = "file_name"
	MetaChunkIndex = "chunk_index"
	MetaFileType   = "file_type"
	MetaWordCount  = "word_count"
)

// Source is a retrieved chunk with its metadata and distance
type Source struct {
	Text     string
	Metadata map[string]string
	Distance float32
}

// QueryResponse is the result of a retrieval-augmented query
type QueryResponse struct {
	Question           string
	Response           string
	Sources            []Source
	UnderstandingLevel string
	SuggestedActions   []string
}

// SimpleResponse is the result of a simplified explanation request
type SimpleResponse struct {
	Question         string
	Response         string
	Sources          []Source
	ExplanationLevel string
}

type QuizType string

const (
	QuizMultipleChoice QuizType = "multiple_choice"
	QuizTrueFalse      QuizType = "true_false"
	QuizShortAnswer    QuizType = "short_answer"
	QuizMixed          QuizType = "mixed"
)

// Quiz is an ordered set of generated questions on a topic
type Quiz struct {
	Topic        string
	NumQuestions int
	Type         QuizType
	Questions    []Question
}

// Question is polymorphic over the three quiz variants. The Type tag
// determines which fields are populated: Options/OptionOrder/CorrectAnswer
// for multiple_choice, CorrectAnswer ("True"/"False") for true_false,
// SampleAnswer for short_answer.
type Question struct {
	Type          QuizType
	Prompt        string
	Options       map[string]string
	OptionOrder   []string
	CorrectAnswer string
	SampleAnswer  string
	// Invalid marks a true_false item whose sentence matched no negation
	// pattern, so the "False" label would have been wrong.
	Invalid bool
}

// QuestionResult is the per-question outcome of an evaluation
type QuestionResult struct {
	Prompt        string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
}

// EvaluationResult aggregates a scored quiz attempt
type EvaluationResult struct {
	Score          int
	TotalQuestions int
	Percentage     float64
	Grade          string
	Results        []QuestionResult
}

// FileResult records the per-file outcome of a batch ingestion
type FileResult struct {
	Path       string
	ChunkCount int
	Err        error
}
