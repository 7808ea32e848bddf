package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/models"
)

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("notes.epub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedFileType))

	_, err = Text("noextension")
	assert.True(t, errors.Is(err, models.ErrUnsupportedFileType))
}

func TestTextPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Photosynthesis occurs in chloroplasts."), 0o644))

	got, err := Text(path)
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis occurs in chloroplasts.", got)
}

func TestTextMarkdownStripsMarkup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	src := "# Cell Biology\n\nPhotosynthesis occurs in **chloroplasts**.\n\n- light reactions\n- dark reactions\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	got, err := Text(path)
	require.NoError(t, err)
	assert.Contains(t, got, "Cell Biology")
	assert.Contains(t, got, "Photosynthesis occurs in chloroplasts.")
	assert.Contains(t, got, "light reactions")
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "**")
}

func TestFileType(t *testing.T) {
	assert.Equal(t, ".pdf", FileType("/tmp/Lecture.PDF"))
	assert.Equal(t, ".txt", FileType("notes.txt"))
	assert.Equal(t, "", FileType("noext"))
}
