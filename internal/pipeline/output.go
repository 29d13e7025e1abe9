package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/term"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// writeFile encodes img in the format named by path's extension, PNG when
// the extension is unknown, and writes it after creating any missing
// parent directories.
func writeFile(path string, img image.Image) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// writeStream writes img to w as PNG.
func writeStream(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to write image to stdout: %w", err)
	}
	return nil
}

// checkStdout refuses to stream binary image data to a terminal.
func checkStdout(w io.Writer) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New(errors.ErrCodeInvalidParameter,
			"refusing to write image data to a terminal; redirect stdout or pass --output-path")
	}
	return nil
}
