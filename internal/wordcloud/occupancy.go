package wordcloud

import (
	"image"
	"math/rand"

	"github.com/ironsheep/imagecloud/internal/imaging"
)

// occupancy tracks which canvas cells are taken, by masked-out pixels or
// by words already drawn. sums is a summed-area table with one extra row
// and column of zeros, so the count of taken cells in any box is four
// lookups.
type occupancy struct {
	width, height int
	taken         []bool
	sums          []int32
}

func newOccupancy(width, height int, mask *imaging.Mask) *occupancy {
	o := &occupancy{
		width:  width,
		height: height,
		taken:  make([]bool, width*height),
		sums:   make([]int32, (width+1)*(height+1)),
	}
	if mask != nil {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				o.taken[y*width+x] = mask.Excluded(x, y)
			}
		}
	}
	o.rebuild(0)
	return o
}

// rebuild recomputes the table for canvas rows from fromY downwards.
func (o *occupancy) rebuild(fromY int) {
	stride := o.width + 1
	for y := fromY; y < o.height; y++ {
		var row int32
		for x := 0; x < o.width; x++ {
			if o.taken[y*o.width+x] {
				row++
			}
			o.sums[(y+1)*stride+x+1] = o.sums[y*stride+x+1] + row
		}
	}
}

// area counts taken cells in the w×h box at (x, y).
func (o *occupancy) area(x, y, w, h int) int32 {
	stride := o.width + 1
	return o.sums[(y+h)*stride+x+w] - o.sums[y*stride+x+w] -
		o.sums[(y+h)*stride+x] + o.sums[y*stride+x]
}

// sample picks uniformly among all positions where a free w×h box fits,
// scanning row by row. It reports false when there is none.
func (o *occupancy) sample(w, h int, rng *rand.Rand) (image.Point, bool) {
	if w > o.width || h > o.height {
		return image.Point{}, false
	}

	hits := 0
	for y := 0; y <= o.height-h; y++ {
		for x := 0; x <= o.width-w; x++ {
			if o.area(x, y, w, h) == 0 {
				hits++
			}
		}
	}
	if hits == 0 {
		return image.Point{}, false
	}

	goal := rng.Intn(hits)
	for y := 0; y <= o.height-h; y++ {
		for x := 0; x <= o.width-w; x++ {
			if o.area(x, y, w, h) != 0 {
				continue
			}
			if goal == 0 {
				return image.Point{X: x, Y: y}, true
			}
			goal--
		}
	}
	return image.Point{}, false
}

// stamp marks every cell under a visible pixel of glyph, drawn at at, as
// taken.
func (o *occupancy) stamp(glyph *image.NRGBA, at image.Point) {
	b := glyph.Bounds()
	top := o.height
	for gy := 0; gy < b.Dy(); gy++ {
		y := at.Y + gy
		if y < 0 || y >= o.height {
			continue
		}
		for gx := 0; gx < b.Dx(); gx++ {
			x := at.X + gx
			if x < 0 || x >= o.width {
				continue
			}
			if glyph.Pix[gy*glyph.Stride+gx*4+3] == 0 {
				continue
			}
			o.taken[y*o.width+x] = true
			if y < top {
				top = y
			}
		}
	}
	if top < o.height {
		o.rebuild(top)
	}
}

// free reports the number of cells nothing has claimed yet.
func (o *occupancy) free() int {
	return o.width*o.height - int(o.area(0, 0, o.width, o.height))
}
