package pgindex

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"studybuddy/internal/config"
	"studybuddy/internal/helper"
	"studybuddy/internal/models"
)

type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ChunkID       string    `bun:"chunk_id,notnull"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	FileName      string    `bun:"file_name"`
	ChunkIndex    string    `bun:"chunk_index"`
	FileType      string    `bun:"file_type"`
	WordCount     string    `bun:"word_count"`
	Distance      float32   `bun:"distance,scanonly"`
}

// PostgresIndex stores chunk embeddings in a pgvector-enabled Postgres
// table and ranks search results with the `<->` distance operator.
type PostgresIndex struct {
	mu       sync.Mutex
	db       *bun.DB
	embedder *embeddings.EmbedderImpl
}

// New connects to Postgres and ensures the chunks table exists.
func New(ctx context.Context, cfg *config.PostgresConfig, embedder *embeddings.EmbedderImpl) (*PostgresIndex, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	idx := &PostgresIndex{db: db, embedder: embedder}
	if err := idx.init(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *PostgresIndex) init(ctx context.Context) error {
	if _, err := i.db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to initialize chunks table: %w", err)
	}
	return nil
}

func (i *PostgresIndex) Close() error {
	return i.db.Close()
}

func (i *PostgresIndex) Add(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) error {
	if len(texts) != len(metadatas) {
		return fmt.Errorf("%w: %d texts but %d metadata entries", models.ErrIndexWrite, len(texts), len(metadatas))
	}
	if ids != nil && len(ids) != len(texts) {
		return fmt.Errorf("%w: %d texts but %d ids", models.ErrIndexWrite, len(texts), len(ids))
	}
	if len(texts) == 0 {
		return nil
	}

	rows := make([]chunkRow, len(texts))
	for j, text := range texts {
		embedding, err := i.embedder.EmbedQuery(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk: %w", err)
		}
		id := ""
		if ids != nil {
			id = ids[j]
		} else {
			generated, err := helper.GenerateUUID()
			if err != nil {
				return fmt.Errorf("%w: %v", models.ErrIndexWrite, err)
			}
			id = generated
		}
		meta := metadatas[j]
		rows[j] = chunkRow{
			ChunkID:    id,
			Content:    text,
			Embedding:  embedding,
			FileName:   meta[models.MetaFileName],
			ChunkIndex: meta[models.MetaChunkIndex],
			FileType:   meta[models.MetaFileType],
			WordCount:  meta[models.MetaWordCount],
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, err := i.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	return nil
}

func (i *PostgresIndex) Search(ctx context.Context, query string, k int) ([]models.Source, error) {
	if k <= 0 {
		return nil, nil
	}

	queryEmbedding, err := i.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var rows []chunkRow
	err = i.db.NewSelect().
		Model(&rows).
		ColumnExpr("c.*").
		ColumnExpr("c.embedding <-> ? AS distance", queryEmbedding).
		OrderExpr("c.embedding <-> ?", queryEmbedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	sources := make([]models.Source, len(rows))
	for j, row := range rows {
		sources[j] = models.Source{
			Text: row.Content,
			Metadata: map[string]string{
				models.MetaFileName:   row.FileName,
				models.MetaChunkIndex: row.ChunkIndex,
				models.MetaFileType:   row.FileType,
				models.MetaWordCount:  row.WordCount,
			},
			Distance: row.Distance,
		}
	}
	return sources, nil
}

func (i *PostgresIndex) Count() int {
	count, err := i.db.NewSelect().Model((*chunkRow)(nil)).Count(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("failed to count chunks")
		return 0
	}
	return count
}

// DeleteAll truncates the chunks table; the index stays queryable.
func (i *PostgresIndex) DeleteAll(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, err := i.db.NewTruncateTable().Model((*chunkRow)(nil)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	return nil
}
