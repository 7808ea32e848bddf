package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"studybuddy/internal/chunker"
	"studybuddy/internal/config"
	"studybuddy/internal/embedding"
	"studybuddy/internal/extract"
	"studybuddy/internal/helper"
	"studybuddy/internal/index"
	"studybuddy/internal/ingest"
	"studybuddy/internal/models"
	"studybuddy/internal/pgindex"
	"studybuddy/internal/quiz"
	"studybuddy/internal/rag"
)

const configFilePath = "./configs/config.yaml"

type app struct {
	cfg       *config.Config
	idx       index.Index
	processor *ingest.Processor
	engine    *rag.Engine
	quizzer   *quiz.Generator
	session   *rag.Session
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to a document file to ingest")
	dirPath := flag.String("dir", "", "Directory of documents to ingest")
	query := flag.String("query", "", "Question to answer from the indexed materials")
	k := flag.Int("k", 3, "Number of chunks to retrieve")
	difficultyLevel := flag.String("difficulty", "", "Difficulty filter: beginner, intermediate or advanced")
	eli5 := flag.String("eli5", "", "Question to explain in simple terms")
	quizTopic := flag.String("quiz", "", "Topic to generate a quiz for")
	quizSize := flag.Int("n", 0, "Number of quiz questions")
	quizType := flag.String("quiz-type", string(models.QuizMixed), "Quiz type: multiple_choice, true_false, short_answer or mixed")
	dryRun := flag.Bool("dry-run", false, "Chunk the document and print the result without indexing")
	count := flag.Bool("count", false, "Print the number of indexed chunks")
	clear := flag.Bool("clear", false, "Delete every indexed chunk")
	interactive := flag.Bool("interactive", false, "Start an interactive study session")
	flag.Parse()

	// API keys come from the environment, optionally via .env
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	a, err := newApp(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing")
	}

	switch {
	case *filePath != "" && *dryRun:
		a.dryRunFile(*filePath)
	case *filePath != "":
		a.ingestPaths([]string{*filePath})
	case *dirPath != "":
		a.ingestDir(*dirPath)
	case *query != "":
		a.runQuery(*query, *k, *difficultyLevel)
	case *eli5 != "":
		a.runExplain(*eli5)
	case *quizTopic != "":
		a.runQuiz(*quizTopic, *quizSize, models.QuizType(*quizType), bufio.NewScanner(os.Stdin))
	case *count:
		fmt.Printf("%d chunks indexed\n", a.idx.Count())
	case *clear:
		a.clearIndex()
	case *interactive:
		a.runInteractive()
	default:
		flag.Usage()
	}
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		log.Warn().Str("path", configPath).Msg("config file not found, using defaults")
		cfg = config.Default()
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	idx, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	c, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		idx:       idx,
		processor: ingest.NewProcessor(c, idx),
		engine:    rag.NewEngine(idx, cfg),
		quizzer:   quiz.NewGenerator(idx, nil),
		session:   rag.NewSession(cfg.Session.ResetClearsHistory),
	}, nil
}

func buildIndex(cfg *config.Config) (index.Index, error) {
	switch cfg.Index.Backend {
	case "memory":
		return index.NewMemory(), nil
	case "chromem":
		embedder, err := embedding.NewEmbedder(&cfg.Embedding)
		if err != nil {
			return nil, err
		}
		return index.NewChromem(cfg.Index.Path, cfg.Index.Collection, embedder)
	case "postgres":
		embedder, err := embedding.NewEmbedder(&cfg.Embedding)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.IndexTimeout())
		defer cancel()
		return pgindex.New(ctx, &cfg.Index.Postgres, embedder)
	default:
		return nil, fmt.Errorf("unknown index backend: %s", cfg.Index.Backend)
	}
}

func (a *app) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.IndexTimeout())
}

func (a *app) ingestPaths(paths []string) {
	ctx, cancel := a.opCtx()
	defer cancel()

	results := a.processor.ProcessBatch(ctx, paths)
	ok := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("failed  %s: %v\n", r.Path, r.Err)
			continue
		}
		ok++
		fmt.Printf("indexed %s (%d chunks)\n", r.Path, r.ChunkCount)
	}
	fmt.Printf("%d/%d documents processed, %d chunks indexed\n", ok, len(results), a.idx.Count())
}

// dryRunFile shows what would be indexed without touching the index.
func (a *app) dryRunFile(path string) {
	raw, err := extract.Text(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error extracting document")
	}
	c, err := chunker.New(a.cfg.Chunking.Size, a.cfg.Chunking.Overlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building chunker")
	}
	chunks := c.Chunk(chunker.Clean(raw))
	fmt.Printf("%s: %d chunks\n", path, len(chunks))
	helper.PrettyPrint(chunks)
}

func (a *app) ingestDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading directory")
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		fmt.Println("no files found")
		return
	}
	a.ingestPaths(paths)
}

func (a *app) runQuery(question string, k int, difficultyLevel string) {
	ctx, cancel := a.opCtx()
	defer cancel()

	resp, err := a.engine.Query(ctx, a.session, question, k, difficultyLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}
	printQueryResponse(resp)
}

func printQueryResponse(resp *models.QueryResponse) {
	fmt.Printf("%s\n\n", resp.Response)
	for _, src := range resp.Sources {
		fmt.Printf("  source: %s chunk %s (distance %.3f)\n",
			src.Metadata[models.MetaFileName], src.Metadata[models.MetaChunkIndex], src.Distance)
	}
	fmt.Printf("\nunderstanding level: %s\n", resp.UnderstandingLevel)
	for _, action := range resp.SuggestedActions {
		fmt.Printf("  - %s\n", action)
	}
}

func (a *app) runExplain(question string) {
	ctx, cancel := a.opCtx()
	defer cancel()

	resp, err := a.engine.ExplainSimple(ctx, question)
	if err != nil {
		log.Fatal().Err(err).Msg("Error explaining")
	}
	fmt.Printf("%s\n", resp.Response)
}

func (a *app) runQuiz(topic string, n int, quizType models.QuizType, scanner *bufio.Scanner) {
	if n <= 0 {
		n = a.cfg.Quiz.DefaultSize
	}

	ctx, cancel := a.opCtx()
	defer cancel()

	generated, err := a.quizzer.Generate(ctx, topic, n, quizType)
	if err != nil {
		if errors.Is(err, models.ErrNoContent) {
			fmt.Printf("no indexed content matches %q - upload more study materials first\n", topic)
			return
		}
		log.Fatal().Err(err).Msg("Error generating quiz")
	}

	answers := make(map[int]string)
	for i, q := range generated.Questions {
		fmt.Printf("\nQ%d. %s\n", i+1, q.Prompt)
		for _, letter := range q.OptionOrder {
			fmt.Printf("  %s) %s\n", letter, q.Options[letter])
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		answers[i] = strings.TrimSpace(scanner.Text())
	}

	result := quiz.Evaluate(generated, answers)
	fmt.Printf("\nscore: %d/%d (%.1f%%) grade %s\n",
		result.Score, result.TotalQuestions, result.Percentage, result.Grade)
	for i, r := range result.Results {
		mark := "✗"
		if r.IsCorrect {
			mark = "✓"
		}
		fmt.Printf("  %s Q%d correct answer: %s\n", mark, i+1, r.CorrectAnswer)
	}
}

func (a *app) clearIndex() {
	ctx, cancel := a.opCtx()
	defer cancel()

	if err := a.idx.DeleteAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error clearing index")
	}
	a.session.Reset()
	fmt.Println("index cleared")
}

// runInteractive reads questions and commands until EOF. Keeping one
// session alive across questions is what makes gap analysis useful.
func (a *app) runInteractive() {
	fmt.Println("ask a question, or use :gaps, :quiz <topic>, :eli5 <question>, :count, :clear, :quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("study> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == ":quit":
			return
		case line == ":count":
			fmt.Printf("%d chunks indexed\n", a.idx.Count())
		case line == ":clear":
			a.clearIndex()
		case line == ":gaps":
			for _, gap := range a.engine.KnowledgeGaps(a.session) {
				fmt.Printf("  - %s\n", gap)
			}
		case strings.HasPrefix(line, ":quiz "):
			arg := strings.TrimSpace(strings.TrimPrefix(line, ":quiz "))
			topic, n := parseQuizArg(arg, a.cfg.Quiz.DefaultSize)
			a.runQuiz(topic, n, models.QuizMixed, scanner)
		case strings.HasPrefix(line, ":eli5 "):
			a.runExplain(strings.TrimSpace(strings.TrimPrefix(line, ":eli5 ")))
		default:
			a.runQuery(line, 3, "")
		}
	}
}

// parseQuizArg splits ":quiz photosynthesis 5" into topic and count.
func parseQuizArg(arg string, defaultSize int) (string, int) {
	fields := strings.Fields(arg)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil && n > 0 {
			return strings.Join(fields[:len(fields)-1], " "), n
		}
	}
	return arg, defaultSize
}
