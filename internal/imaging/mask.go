package imaging

import (
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// MaskExclude is the value written to every channel of an excluded cell.
// Grids are 8-bit, so the maximum channel value marks exclusion.
const MaskExclude = 255

// Mask is a copy of a grid in which excluded cells hold MaskExclude.
type Mask struct {
	*Grid
}

// BuildMask derives the exclusion mask for a grid.
//
// A cell is excluded when its channel values sum to zero (or, for grids
// with an alpha channel, when it is fully transparent), or when edges is
// non-nil and the edge strength at the cell exceeds threshold. Excluded
// cells become MaskExclude in every channel; all other cells are copied
// unchanged. g is not modified.
func BuildMask(g *Grid, edges *EdgeMap, threshold float64) (*Mask, error) {
	if g == nil || g.NRGBA == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "mask source grid is nil")
	}
	if g.Channels < 3 {
		return nil, errors.New(errors.ErrCodeUnsupportedShape,
			"unsupported image shape: %d channel(s), need at least 3", g.Channels)
	}

	width, height := g.Width(), g.Height()
	if edges != nil && (edges.Width != width || edges.Height != height) {
		return nil, errors.New(errors.ErrCodeInvalidParameter,
			"edge map is %dx%d but image is %dx%d", edges.Width, edges.Height, width, height)
	}

	out := imaging.Clone(g.NRGBA)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := out.PixOffset(x, y)
			p := out.Pix[i : i+4]

			sum := int(p[0]) + int(p[1]) + int(p[2])
			transparent := false
			if g.Channels == 4 {
				sum += int(p[3])
				transparent = p[3] == 0
			}

			if sum == 0 || transparent || (edges != nil && edges.At(x, y) > threshold) {
				p[0], p[1], p[2], p[3] = MaskExclude, MaskExclude, MaskExclude, MaskExclude
			}
		}
	}

	return &Mask{Grid: &Grid{NRGBA: out, Channels: g.Channels}}, nil
}

// Excluded reports whether the layout may not draw at (x, y).
// Any cell that is pure white in its color channels counts, including
// white pixels copied from the source image.
func (m *Mask) Excluded(x, y int) bool {
	i := m.PixOffset(x, y)
	return m.Pix[i] == MaskExclude && m.Pix[i+1] == MaskExclude && m.Pix[i+2] == MaskExclude
}

// ExcludedCount returns the number of excluded cells.
func (m *Mask) ExcludedCount() int {
	n := 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Excluded(x, y) {
				n++
			}
		}
	}
	return n
}
