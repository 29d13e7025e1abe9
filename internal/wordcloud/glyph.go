package wordcloud

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// renderGlyph draws word in c on a transparent box that spans the face's
// ascent and descent. Vertical words are rotated 90 degrees
// counter-clockwise so they read bottom to top.
func renderGlyph(face font.Face, word string, c color.Color, vertical bool) *image.NRGBA {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	width := font.MeasureString(face, word).Ceil()
	height := ascent + m.Descent.Ceil()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawString(word, 0, float64(ascent))

	img := imaging.Clone(dc.Image())
	if vertical {
		img = imaging.Rotate90(img)
	}
	return img
}
