package models

const (
	WordRegex         = `\b\w+\b`
	CapitalWordRegex  = `\b[A-Z][a-z]+\b`
	SentenceSeparator = "."
)

// canned responses used by the retrieval engine
const (
	MsgNoRelevantInfo  = "I couldn't find relevant information in your study materials. Try uploading more documents or rephrasing your question."
	MsgTopicNotFound   = "I couldn't find information about that topic. Try uploading more study materials!"
	MsgNeedMoreHistory = "Upload more documents and ask more questions to identify knowledge gaps!"
	MsgNoWeakAreas     = "No specific weak areas identified yet"

	ResponsePreface       = "Based on your study materials:\n\n"
	SimplePreface         = "Here's a simple explanation:\n\n"
	SimpleFallbackPreface = "Let me explain this in simple terms:\n\n"

	WeakAreaFormat = "You've asked about '%s' %d times - consider reviewing this topic"
)

// understanding-level indicator words
var (
	BeginnerIndicators = []string{"what", "is", "define", "explain", "basic", "simple"}
	AdvancedIndicators = []string{"analyze", "compare", "evaluate", "synthesize", "critique"}
)

// follow-up suggestions by understanding level
var (
	BeginnerSuggestions = []string{
		"Try asking for a more detailed explanation",
		"Request examples to illustrate the concept",
	}
	IntermediateSuggestions = []string{
		"Ask for related concepts to explore",
		"Request practice questions on this topic",
	}
	AdvancedSuggestions = []string{
		"Ask for critical analysis of this topic",
		"Request connections to other advanced concepts",
	}
)

// quiz generation tables
var (
	QuestionStarters = []string{
		"What is", "How does", "Why is", "When did", "Where is",
		"Who was", "Which", "Explain", "Describe", "Define",
	}

	// placeholder distractors for multiple-choice items; generating real
	// distractors from other indexed chunks' capitalized terms is a
	// possible followup
	DummyOptions = []string{"Option A", "Option B", "Option C"}

	// negation substitutions applied in order when building false statements
	Negations = []struct {
		From, To string
	}{
		{"is", "is not"},
		{"was", "was not"},
		{"can", "cannot"},
		{"will", "will not"},
		{"should", "should not"},
	}
)

var AnswerPromptTemplate = `You are a helpful study assistant. Use only the provided context from the student's own materials to answer the question.
<context>
%s
</context>
Question: %s
Answer concisely based on the context above.`
