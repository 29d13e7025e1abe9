package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/imaging"
)

// ColorFunc picks the color of a placed word. rng is the layout's random
// source; functions that do not need randomness ignore it.
type ColorFunc func(w Word, rng *rand.Rand) colorful.Color

// RandomHSL picks a random hue at 80% saturation and 50% lightness.
func RandomHSL(_ Word, rng *rand.Rand) colorful.Color {
	return colorful.Hsl(float64(rng.Intn(256)), 0.8, 0.5)
}

// ImageColors colors each word with the mean color of img under the
// word's box. img must cover the canvas; words whose box falls outside it
// get fallback.
func ImageColors(img image.Image, fallback colorful.Color) ColorFunc {
	return func(w Word, _ *rand.Rand) colorful.Color {
		if c, ok := imaging.MeanColor(img, w.Bounds()); ok {
			return c
		}
		return fallback
	}
}

// Solid colors every word with c.
func Solid(c colorful.Color) ColorFunc {
	return func(Word, *rand.Rand) colorful.Color { return c }
}

// ParseBackground parses a canvas background: "black", "white",
// "transparent" (or "none"), or a hex color "#rgb", "#rrggbb" or
// "#rrggbbaa". An empty string is black.
func ParseBackground(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "black":
		return color.NRGBA{A: 0xff}, nil
	case "white":
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	case "transparent", "none":
		return color.NRGBA{}, nil
	}

	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}

	alpha := uint8(0xff)
	if len(v) == 9 {
		a, err := strconv.ParseUint(v[7:], 16, 8)
		if err != nil {
			return nil, invalidBackground(s, err)
		}
		alpha = uint8(a)
		v = v[:7]
	}

	c, err := colorful.Hex(v)
	if err != nil {
		return nil, invalidBackground(s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func invalidBackground(s string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidParameter, err,
		"invalid background color: %q (use black, white, transparent or #rrggbb[aa])", s)
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
