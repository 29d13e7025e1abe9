package imaging

import (
	"image"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// Downsample keeps every stride-th row and column of g, starting at 0.
//
// Stride 1 returns g itself. No averaging is done, so the result aliases
// fine detail; callers trade that for a smaller canvas. The result has
// ceil(H/stride) rows and ceil(W/stride) columns.
func Downsample(g *Grid, stride int) (*Grid, error) {
	if stride < 1 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "downsample stride must be at least 1, got %d", stride)
	}
	if stride == 1 {
		return g, nil
	}

	width := (g.Width() + stride - 1) / stride
	height := (g.Height() + stride - 1) / stride
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := g.PixOffset(x*stride, y*stride)
			dst := out.PixOffset(x, y)
			copy(out.Pix[dst:dst+4], g.Pix[src:src+4])
		}
	}

	return &Grid{NRGBA: out, Channels: g.Channels}, nil
}
