package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/models"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chromem", cfg.Index.Backend)
	assert.Equal(t, "study_buddy", cfg.Index.Collection)
	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 200, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Quiz.DefaultSize)
	assert.Equal(t, "template", cfg.Answer.Mode)
	assert.False(t, cfg.Session.ResetClearsHistory)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  backend: memory\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Index.Backend)
	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 200, cfg.Chunking.Overlap)
}

func TestLoadRejectsOverlapNotBelowSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking:\n  size: 100\n  overlap: 100\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidConfiguration))
}

func TestBandFallsBackToFullRange(t *testing.T) {
	cfg := Default()

	band := cfg.Band("beginner")
	assert.Equal(t, 0.0, band.MinScore)
	assert.Equal(t, 0.3, band.MaxScore)

	unknown := cfg.Band("wizard")
	assert.Equal(t, 0.0, unknown.MinScore)
	assert.Equal(t, 1.0, unknown.MaxScore)
}
