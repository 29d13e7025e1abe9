package imaging

import (
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// Edge strategy names accepted by ParseStrategy.
const (
	StrategyGradient    = "gradient"
	StrategyThresholded = "thresholded"
)

// Canny hysteresis thresholds on the Sobel magnitude of a [0,1] channel.
const (
	cannyLow  = 0.1
	cannyHigh = 0.2
)

// EdgeMap is a per-pixel edge strength in [0,1], stored row-major.
type EdgeMap struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"-"`
}

// NewEdgeMap allocates an all-zero edge map.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the strength at (x, y).
func (m *EdgeMap) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// Max returns the largest strength in the map.
func (m *EdgeMap) Max() float64 {
	var peak float64
	for _, v := range m.Values {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Image renders the map as grayscale, 0 black and 1 white.
func (m *EdgeMap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Values {
		img.Pix[i] = uint8(math.Round(clampUnit(v) * 255))
	}
	return img
}

// Detector is one of the edge strategies: Gradient or Thresholded.
type Detector interface {
	// Name returns the canonical strategy name.
	Name() string

	detect(g *Grid) *EdgeMap
}

// Gradient measures edge strength as the gradient magnitude of each
// Gaussian-smoothed channel. Larger Sigma smooths more and suppresses
// texture noise.
type Gradient struct {
	Sigma float64
}

// Name implements Detector.
func (Gradient) Name() string { return StrategyGradient }

// Thresholded marks Canny edges per channel. When MinObjectSize is
// positive, connected regions of pixels stronger than Threshold that hold
// fewer than MinObjectSize pixels are dropped.
type Thresholded struct {
	Sigma         float64
	Threshold     float64
	MinObjectSize int
}

// Name implements Detector.
func (Thresholded) Name() string { return StrategyThresholded }

// ParseStrategy returns the canonical strategy name for name.
// "gaussian" and "canny" are accepted as aliases.
func ParseStrategy(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyGradient, "gaussian":
		return StrategyGradient, nil
	case StrategyThresholded, "canny":
		return StrategyThresholded, nil
	}
	return "", errors.New(errors.ErrCodeInvalidParameter,
		"invalid edge strategy: %q (must be one of: gradient, thresholded)", name)
}

// NewDetector builds the detector for a strategy name.
func NewDetector(strategy string, sigma, threshold float64, minObjectSize int) (Detector, error) {
	name, err := ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	if sigma < 0 || math.IsNaN(sigma) {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "edge sigma must be non-negative, got %v", sigma)
	}
	if minObjectSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "small object size must be non-negative, got %d", minObjectSize)
	}

	if name == StrategyGradient {
		return Gradient{Sigma: sigma}, nil
	}
	return Thresholded{Sigma: sigma, Threshold: threshold, MinObjectSize: minObjectSize}, nil
}

// Detect computes the edge map of g with detector d.
//
// # Algorithm
//
//  1. Split red, green and blue into separate planes normalized to [0,1].
//  2. Run the strategy on every plane.
//  3. Average the three planes into one map.
//
// Thresholded applies small-object removal after averaging, so each
// per-plane result stays binary while the average takes the values
// 0, 1/3, 2/3 and 1.
func Detect(g *Grid, d Detector) (*EdgeMap, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "edge detector is nil")
	}
	if g == nil || g.NRGBA == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "edge source grid is nil")
	}
	if g.Channels < 3 {
		return nil, errors.New(errors.ErrCodeUnsupportedShape,
			"unsupported image shape: %d channel(s), need at least 3", g.Channels)
	}
	return d.detect(g), nil
}

func (d Gradient) detect(g *Grid) *EdgeMap {
	width, height := g.Width(), g.Height()
	out := NewEdgeMap(width, height)

	for _, c := range []channel.Channel{channel.Red, channel.Green, channel.Blue} {
		plane := smoothedPlane(g, c, d.Sigma)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				gx := (plane[y*width+clamp(x+1, 0, width-1)] - plane[y*width+clamp(x-1, 0, width-1)]) / 2
				gy := (plane[clamp(y+1, 0, height-1)*width+x] - plane[clamp(y-1, 0, height-1)*width+x]) / 2
				out.Values[y*width+x] += math.Sqrt(gx*gx+gy*gy) / 3
			}
		}
	}

	for i, v := range out.Values {
		out.Values[i] = clampUnit(v)
	}
	return out
}

func (d Thresholded) detect(g *Grid) *EdgeMap {
	width, height := g.Width(), g.Height()
	out := NewEdgeMap(width, height)

	for _, c := range []channel.Channel{channel.Red, channel.Green, channel.Blue} {
		edges := cannyPlane(smoothedPlane(g, c, d.Sigma), width, height)
		for i, v := range edges {
			out.Values[i] += v
		}
	}
	for i := range out.Values {
		out.Values[i] /= 3
	}

	if d.MinObjectSize > 0 {
		keep := make([]bool, len(out.Values))
		for i, v := range out.Values {
			keep[i] = v > d.Threshold
		}
		keep = removeSmallObjects(keep, width, height, d.MinObjectSize)
		for i := range out.Values {
			if !keep[i] {
				out.Values[i] = 0
			}
		}
	}
	return out
}

// gaussianTruncate is how many standard deviations the kernel spans on
// each side of its center.
const gaussianTruncate = 4.0

// gaussianKernel returns a normalized 1-D Gaussian with standard deviation
// sigma, cut off at gaussianTruncate*sigma.
func gaussianKernel(sigma float64) convolution.Matrix {
	radius := int(gaussianTruncate*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	k := convolution.NewKernel(2*radius+1, 1)
	for i := range k.Matrix {
		x := float64(i - radius)
		k.Matrix[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	return k.Normalized()
}

// smoothedPlane extracts one channel, smooths it with a Gaussian of
// standard deviation sigma and returns it normalized to [0,1]. Pixels
// outside the image repeat the nearest border pixel.
func smoothedPlane(g *Grid, c channel.Channel, sigma float64) []float64 {
	gray := channel.Extract(g.NRGBA, c)
	width, height := g.Width(), g.Height()
	plane := make([]float64, width*height)

	if sigma <= 0 {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				plane[y*width+x] = float64(gray.Pix[gray.PixOffset(x, y)]) / 255.0
			}
		}
		return plane
	}

	// Separable: rows first, then columns. Every RGBA channel holds the
	// gray value, so reading red is enough.
	k := gaussianKernel(sigma)
	opts := &convolution.Options{}
	blurred := convolution.Convolve(gray, k, opts)
	blurred = convolution.Convolve(blurred, k.Transposed(), opts)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			plane[y*width+x] = float64(blurred.Pix[blurred.PixOffset(x, y)]) / 255.0
		}
	}
	return plane
}

// cannyPlane runs Sobel gradients, non-maximum suppression and hysteresis
// on a smoothed plane. The result holds 1 on edges and 0 elsewhere.
//
// Border pixels never become edges. Weak pixels (magnitude between
// cannyLow and cannyHigh) survive only when 8-connected to a strong one
// through other weak pixels.
func cannyPlane(plane []float64, width, height int) []float64 {
	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := plane[clamp(y+ky, 0, height-1)*width+clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction[y*width+x]
			mag := magnitude[y*width+x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y*width+x-1], magnitude[y*width+x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[(y-1)*width+x+1], magnitude[(y+1)*width+x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[(y-1)*width+x], magnitude[(y+1)*width+x]
			default:
				n1, n2 = magnitude[(y-1)*width+x-1], magnitude[(y+1)*width+x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y*width+x] = mag
			}
		}
	}

	edges := make([]float64, width*height)
	stack := make([]image.Point, 0, 64)
	for i, v := range suppressed {
		if v >= cannyHigh {
			edges[i] = 1
			stack = append(stack, image.Point{X: i % width, Y: i / width})
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if edges[j] == 0 && suppressed[j] >= cannyLow {
					edges[j] = 1
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
		}
	}

	return edges
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
