package wordcloud

import (
	"image"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// Image draws the cloud: the background, then every word in its color.
func (c *Cloud) Image() (*image.NRGBA, error) {
	dc := gg.NewContext(c.Width, c.Height)
	dc.SetColor(c.Background)
	dc.Clear()

	for _, w := range c.Words {
		face, err := c.font.Face(w.FontSize)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to draw %q", w.Text)
		}
		glyph := renderGlyph(face, w.Text, w.Color.Clamped(), w.Orientation == Vertical)
		dc.DrawImage(glyph, w.X, w.Y)
	}

	return imaging.Clone(dc.Image()), nil
}

// Recolor returns a copy of the cloud with every word colored by fn. The
// layout is unchanged. rng is passed through to fn; when nil, a source
// seeded with the cloud's seed is used.
func (c *Cloud) Recolor(fn ColorFunc, rng *rand.Rand) *Cloud {
	if rng == nil {
		rng = rand.New(rand.NewSource(c.seed))
	}

	out := *c
	out.Words = make([]Word, len(c.Words))
	for i, w := range c.Words {
		w.Color = fn(w, rng)
		out.Words[i] = w
	}
	return &out
}
