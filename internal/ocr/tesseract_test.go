//go:build tesseract

package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// createImageWithText renders text with basicfont, scaled up so Tesseract
// can read it, and returns the PNG path.
func createImageWithText(t *testing.T, text string, scale int) string {
	t.Helper()

	small := image.NewRGBA(image.Rect(0, 0, len(text)*7+40, 40))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(25)},
	}
	d.DrawString(text)

	b := small.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, small.At(x/scale, y/scale))
		}
	}

	path := filepath.Join(t.TempDir(), "text.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestExtractText(t *testing.T) {
	assert.True(t, Available())

	path := createImageWithText(t, "HELLO CLOUD", 4)
	result, err := ExtractText(path, "eng")
	if err != nil && strings.Contains(err.Error(), "language") {
		t.Skip("eng training data not installed")
	}
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(result.FullText), "HELLO")
}

func TestExtractText_NonExistentFile(t *testing.T) {
	_, err := ExtractText("/nonexistent/path/image.png", "eng")
	assert.Error(t, err)
}
