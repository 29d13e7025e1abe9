package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanColor(t *testing.T) {
	g := patternGrid(10, 10, 3)

	tests := []struct {
		name   string
		rect   image.Rectangle
		want   [3]uint8
		wantOK bool
	}{
		{"red quadrant", image.Rect(0, 0, 5, 5), [3]uint8{255, 0, 0}, true},
		{"white quadrant", image.Rect(5, 5, 10, 10), [3]uint8{255, 255, 255}, true},
		{"top half", image.Rect(0, 0, 10, 5), [3]uint8{127, 127, 0}, true},
		{"clipped to bounds", image.Rect(8, 8, 20, 20), [3]uint8{255, 255, 255}, true},
		{"outside", image.Rect(20, 20, 30, 30), [3]uint8{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := MeanColor(g, tt.rect)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			r, gg, b := c.RGB255()
			assert.Equal(t, tt.want, [3]uint8{r, gg, b})
		})
	}
}

func TestMeanColor_IgnoresAlpha(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{40, 80, 120, 0})

	c, ok := MeanColor(img, img.Bounds())
	assert.True(t, ok)
	r, g, b := c.RGB255()
	assert.Equal(t, [3]uint8{40, 80, 120}, [3]uint8{r, g, b})
}
