package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"studybuddy/internal/chunker"
	"studybuddy/internal/extract"
	"studybuddy/internal/index"
	"studybuddy/internal/models"
)

// Processor turns document files into indexed chunks: extract text,
// clean it, slice into word windows, attach metadata, add to the index.
type Processor struct {
	chunker *chunker.Chunker
	idx     index.Index
}

func NewProcessor(c *chunker.Chunker, idx index.Index) *Processor {
	return &Processor{chunker: c, idx: idx}
}

// ProcessFile ingests a single document. The returned Document records
// what was indexed; documents are immutable once chunked.
func (p *Processor) ProcessFile(ctx context.Context, filePath string) (*models.Document, error) {
	raw, err := extract.Text(filePath)
	if err != nil {
		return nil, err
	}

	cleaned := chunker.Clean(raw)
	chunks := p.chunker.Chunk(cleaned)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text content in %s", filePath)
	}

	fileName := filepath.Base(filePath)
	fileType := extract.FileType(filePath)

	metadatas := make([]map[string]string, len(chunks))
	for i, chunk := range chunks {
		metadatas[i] = map[string]string{
			models.MetaFileName:   fileName,
			models.MetaChunkIndex: strconv.Itoa(i),
			models.MetaFileType:   fileType,
			models.MetaWordCount:  strconv.Itoa(len(strings.Fields(chunk))),
		}
	}

	if err := p.idx.Add(ctx, chunks, metadatas, nil); err != nil {
		return nil, err
	}

	return &models.Document{
		FilePath:  filePath,
		FileName:  fileName,
		FileType:  fileType,
		Content:   cleaned,
		Chunks:    chunks,
		WordCount: len(strings.Fields(cleaned)),
	}, nil
}

// ProcessBatch ingests each file independently. One failing document
// never aborts the rest; the caller gets a per-file result list.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) []models.FileResult {
	results := make([]models.FileResult, 0, len(paths))
	for _, path := range paths {
		doc, err := p.ProcessFile(ctx, path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to process document")
			results = append(results, models.FileResult{Path: path, Err: err})
			continue
		}
		log.Info().Str("file", path).Int("chunks", len(doc.Chunks)).Msg("processed document")
		results = append(results, models.FileResult{Path: path, ChunkCount: len(doc.Chunks)})
	}
	return results
}
