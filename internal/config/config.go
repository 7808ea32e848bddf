package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"studybuddy/internal/models"
)

// LLMConfig holds connection details for an embedding or inference model.
type LLMConfig struct {
	Provider string `yaml:"provider"` // ollama | openai
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	KeyEnv   string `yaml:"key_env"`
}

// PostgresConfig contains connection details for the pgvector index backend.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	Backend     string         `yaml:"backend"` // chromem | postgres
	Path        string         `yaml:"path"`
	Collection  string         `yaml:"collection"`
	TimeoutSecs int            `yaml:"timeout_secs"`
	Postgres    PostgresConfig `yaml:"postgres"`
}

// ChunkingConfig configures how document text is split into word windows.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// DifficultyBand is a named range of difficulty scores.
type DifficultyBand struct {
	MinScore float64 `yaml:"min_score"`
	MaxScore float64 `yaml:"max_score"`
}

// QuizConfig configures quiz generation.
type QuizConfig struct {
	DefaultSize int `yaml:"default_size"`
}

// AnswerConfig selects how query responses are composed.
type AnswerConfig struct {
	Mode string    `yaml:"mode"` // template | llm
	LLM  LLMConfig `yaml:"llm"`
}

// SessionConfig controls session lifecycle behavior.
type SessionConfig struct {
	// ResetClearsHistory also wipes the query history on a data reset.
	// Off by default: resets historically only dropped indexed chunks.
	ResetClearsHistory bool `yaml:"reset_clears_history"`
}

type Config struct {
	Embedding  LLMConfig                 `yaml:"embedding"`
	Index      IndexConfig               `yaml:"index"`
	Chunking   ChunkingConfig            `yaml:"chunking"`
	Difficulty map[string]DifficultyBand `yaml:"difficulty"`
	Quiz       QuizConfig                `yaml:"quiz"`
	Answer     AnswerConfig              `yaml:"answer"`
	Session    SessionConfig             `yaml:"session"`
}

const (
	defaultChunkSize    = 1000 // words
	defaultChunkOverlap = 200  // words
	defaultQuizSize     = 5
	defaultTimeoutSecs  = 60
)

// Load reads a config from the given path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every default applied, for callers
// running without a config file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Validate checks the cross-field invariants the loader can enforce early.
func (c *Config) Validate() error {
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			models.ErrInvalidConfiguration, c.Chunking.Overlap, c.Chunking.Size)
	}
	return nil
}

// IndexTimeout is the bounded-wait policy applied to index and embedding calls.
func (c *Config) IndexTimeout() time.Duration {
	return time.Duration(c.Index.TimeoutSecs) * time.Second
}

// Band returns the score range for a difficulty level, defaulting to the
// full [0,1] range for unknown levels.
func (c *Config) Band(level string) DifficultyBand {
	if b, ok := c.Difficulty[level]; ok {
		return b
	}
	return DifficultyBand{MinScore: 0.0, MaxScore: 1.0}
}

func applyDefaults(cfg *Config) {
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "ollama"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "http://localhost:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "nomic-embed-text"
	}
	if cfg.Embedding.KeyEnv == "" {
		cfg.Embedding.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "chromem"
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "./data/vector_db"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "study_buddy"
	}
	if cfg.Index.TimeoutSecs == 0 {
		cfg.Index.TimeoutSecs = defaultTimeoutSecs
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = defaultChunkSize
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = defaultChunkOverlap
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = map[string]DifficultyBand{
			"beginner":     {MinScore: 0.0, MaxScore: 0.3},
			"intermediate": {MinScore: 0.3, MaxScore: 0.7},
			"advanced":     {MinScore: 0.7, MaxScore: 1.0},
		}
	}
	if cfg.Quiz.DefaultSize == 0 {
		cfg.Quiz.DefaultSize = defaultQuizSize
	}
	if cfg.Answer.Mode == "" {
		cfg.Answer.Mode = "template"
	}
	if cfg.Answer.LLM.KeyEnv == "" {
		cfg.Answer.LLM.KeyEnv = "OPENAI_API_KEY"
	}
}
