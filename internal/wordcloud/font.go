package wordcloud

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const maxFontFileSize = 10 * 1048576 // 10 MB

// Font hands out faces of one typeface at integer pixel sizes.
// Faces are cached per size; a Font is safe for concurrent use.
type Font struct {
	name string
	otf  *opentype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// DefaultFont returns the embedded Go Regular typeface.
func DefaultFont() (*Font, error) {
	return parseFont("goregular", goregular.TTF)
}

// LoadFont reads a TrueType or OpenType font file.
func LoadFont(path string) (*Font, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ttf" && ext != ".otf" {
		return nil, fmt.Errorf("unsupported font type: %s", ext)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if maxFontFileSize < fi.Size() {
		return nil, errors.New("font file is too large")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFont(filepath.Base(path), data)
}

func parseFont(name string, data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &Font{
		name:  name,
		otf:   otf,
		faces: make(map[int]font.Face),
	}, nil
}

// Name returns the font file name, or "goregular" for the default font.
func (f *Font) Name() string { return f.name }

// Face returns the face at size pixels per em.
func (f *Font) Face(size int) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %dpx face: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Close releases all cached faces.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for size, face := range f.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(f.faces, size)
	}
	return errors.Join(errs...)
}
