package text

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/ocr"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("red red blue green"), 0o644))

	got, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "red red blue green", got)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.txt"), "")
	assert.True(t, errors.Is(err, errors.ErrCodeInputNotFound), "got %v", err)

	_, err = Load(dir, "")
	assert.True(t, errors.Is(err, errors.ErrCodeInputNotFound), "got %v", err)
}

func TestLoad_ImageWithoutOCR(t *testing.T) {
	if ocr.Available() {
		t.Skip("built with OCR support")
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	_, err := Load(path, "eng")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter), "got %v", err)
}

func TestIsImagePath(t *testing.T) {
	tests := map[string]bool{
		"notes.txt":   false,
		"scan.PNG":    true,
		"photo.jpeg":  true,
		"doc.tiff":    true,
		"noextension": false,
	}
	for path, want := range tests {
		assert.Equal(t, want, IsImagePath(path), path)
	}
}
