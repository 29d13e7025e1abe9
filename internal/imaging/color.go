package imaging

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// MeanColor returns the average red, green and blue of img inside r.
//
// Alpha is ignored and the mean is truncated to whole 8-bit levels. The
// rectangle is clipped to the image; ok is false when nothing remains.
func MeanColor(img image.Image, r image.Rectangle) (c colorful.Color, ok bool) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return colorful.Color{}, false
	}

	patch := imaging.Crop(img, r)
	n := patch.Rect.Dx() * patch.Rect.Dy()
	if n == 0 {
		return colorful.Color{}, false
	}

	var sr, sg, sb int
	for y := 0; y < patch.Rect.Dy(); y++ {
		for x := 0; x < patch.Rect.Dx(); x++ {
			i := patch.PixOffset(x, y)
			sr += int(patch.Pix[i])
			sg += int(patch.Pix[i+1])
			sb += int(patch.Pix[i+2])
		}
	}

	return colorful.Color{
		R: float64(sr/n) / 255.0,
		G: float64(sg/n) / 255.0,
		B: float64(sb/n) / 255.0,
	}, true
}
