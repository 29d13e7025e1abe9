package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/anthonynsimon/bild/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// splitGrid returns an opaque grid with left on the left half and right on
// the right half.
func splitGrid(width, height int, left, right color.NRGBA) *Grid {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return &Grid{NRGBA: img, Channels: 3}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"gradient", StrategyGradient, false},
		{"gaussian", StrategyGradient, false},
		{"thresholded", StrategyThresholded, false},
		{" Canny ", StrategyThresholded, false},
		{"sobel", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDetector(t *testing.T) {
	d, err := NewDetector("canny", 2, 0.08, 10)
	require.NoError(t, err)
	assert.Equal(t, Thresholded{Sigma: 2, Threshold: 0.08, MinObjectSize: 10}, d)

	d, err = NewDetector("gradient", 1.5, 0.08, 0)
	require.NoError(t, err)
	assert.Equal(t, Gradient{Sigma: 1.5}, d)

	_, err = NewDetector("gradient", -1, 0.08, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))

	_, err = NewDetector("thresholded", 2, 0.08, -5)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))
}

func TestDetect_UniformImageHasNoEdges(t *testing.T) {
	g := &Grid{NRGBA: solidNRGBA(24, 24, color.NRGBA{128, 64, 200, 255}), Channels: 3}

	for _, d := range []Detector{Gradient{Sigma: 2}, Thresholded{Sigma: 2, Threshold: 0.08}} {
		t.Run(d.Name(), func(t *testing.T) {
			edges, err := Detect(g, d)
			require.NoError(t, err)
			assert.Equal(t, 0.0, edges.Max())
		})
	}
}

func TestDetect_ValuesInUnitRange(t *testing.T) {
	g := patternGrid(32, 32, 3)

	for _, d := range []Detector{Gradient{Sigma: 1}, Gradient{Sigma: 0}, Thresholded{Sigma: 2, Threshold: 0.08}} {
		t.Run(d.Name(), func(t *testing.T) {
			edges, err := Detect(g, d)
			require.NoError(t, err)
			require.Len(t, edges.Values, 32*32)

			for i, v := range edges.Values {
				require.True(t, v >= 0 && v <= 1, "value %v at %d out of range", v, i)
			}
			assert.Greater(t, edges.Max(), 0.0)
		})
	}
}

func TestDetect_GradientPeaksAtBoundary(t *testing.T) {
	g := splitGrid(30, 10, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})

	edges, err := Detect(g, Gradient{Sigma: 1})
	require.NoError(t, err)

	assert.Greater(t, edges.At(15, 5), edges.At(3, 5))
	assert.Equal(t, 0.0, edges.At(2, 5))
	assert.Equal(t, 0.0, edges.At(27, 5))
}

func TestDetect_ThresholdedPlanesAreBinary(t *testing.T) {
	g := patternGrid(40, 40, 3)

	for _, c := range []uint8{0, 1, 2} {
		plane := make([]float64, 40*40)
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				plane[y*40+x] = float64(g.Pix[g.PixOffset(x, y)+int(c)]) / 255
			}
		}
		edges := cannyPlane(plane, 40, 40)
		for _, v := range edges {
			require.True(t, v == 0 || v == 1, "got %v", v)
		}
	}

	edges, err := Detect(g, Thresholded{Sigma: 2, Threshold: 0.08})
	require.NoError(t, err)
	for _, v := range edges.Values {
		thirds := v * 3
		assert.InDelta(t, math.Round(thirds), thirds, 1e-9, "combined value %v is not a multiple of 1/3", v)
	}
}

func TestDetect_ThresholdedGrayEdgesAreBinary(t *testing.T) {
	g := splitGrid(30, 30, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})

	edges, err := Detect(g, Thresholded{Sigma: 2, Threshold: 0.08})
	require.NoError(t, err)

	ones := 0
	for _, v := range edges.Values {
		require.True(t, v == 0 || v == 1, "got %v", v)
		if v == 1 {
			ones++
		}
	}
	assert.Greater(t, ones, 0)
	assert.Equal(t, 0.0, edges.At(2, 15))
}

func TestDetect_SmallObjectRemovalNeverIncreases(t *testing.T) {
	g := patternGrid(40, 40, 3)
	// sprinkle isolated specks that produce tiny edge regions
	for _, p := range []image.Point{{5, 5}, {30, 8}, {8, 30}, {33, 33}} {
		g.SetNRGBA(p.X, p.Y, color.NRGBA{17, 200, 90, 255})
	}

	plain, err := Detect(g, Thresholded{Sigma: 0, Threshold: 0.08})
	require.NoError(t, err)

	for _, size := range []int{1, 5, 20, 1000} {
		filtered, err := Detect(g, Thresholded{Sigma: 0, Threshold: 0.08, MinObjectSize: size})
		require.NoError(t, err)
		for i := range plain.Values {
			require.LessOrEqual(t, filtered.Values[i], plain.Values[i], "size %d pixel %d", size, i)
		}
	}

	all, err := Detect(g, Thresholded{Sigma: 0, Threshold: 0.08, MinObjectSize: 40 * 40 * 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, all.Max(), "no region can reach a size larger than the image")
}

func TestGaussianKernel_Moments(t *testing.T) {
	for _, sigma := range []float64{1, 2, 5} {
		k := gaussianKernel(sigma)
		require.Equal(t, 1, k.MaxY())
		radius := k.MaxX() / 2
		assert.Equal(t, int(4*sigma+0.5), radius, "sigma %v", sigma)

		var sum, variance float64
		for i := 0; i < k.MaxX(); i++ {
			x := float64(i - radius)
			sum += k.At(i, 0)
			variance += x * x * k.At(i, 0)
		}
		assert.InDelta(t, 1, sum, 1e-9, "sigma %v", sigma)
		assert.InDelta(t, sigma*sigma, variance, 0.05*sigma*sigma+0.01, "sigma %v", sigma)
	}
}

// A Gaussian blur turns a step into an error function whose 10-90% rise
// is 2.563 sigma wide.
func TestSmoothedPlane_StepWidthFollowsSigma(t *testing.T) {
	const width = 240
	g := splitGrid(width, 3, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})

	for _, sigma := range []float64{0.5, 2, 8, 18} {
		plane := smoothedPlane(g, channel.Red, sigma)
		row := plane[width : 2*width]

		lo, hi := row[0], row[width-1]
		require.Greater(t, hi-lo, 0.9, "sigma %v", sigma)

		x10, x90 := -1, -1
		for x, v := range row {
			if x10 < 0 && v >= lo+0.1*(hi-lo) {
				x10 = x
			}
			if x90 < 0 && v >= lo+0.9*(hi-lo) {
				x90 = x
			}
		}
		want := 2.563 * sigma
		assert.InDelta(t, want, float64(x90-x10), 1.5+0.05*want, "sigma %v", sigma)
	}
}

func TestDetect_Errors(t *testing.T) {
	g := patternGrid(4, 4, 3)

	_, err := Detect(g, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))

	_, err = Detect(&Grid{NRGBA: g.NRGBA, Channels: 1}, Gradient{Sigma: 1})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedShape))
}

func TestDetect_DoesNotMutateSource(t *testing.T) {
	g := patternGrid(16, 16, 3)
	before := append([]uint8(nil), g.Pix...)

	_, err := Detect(g, Thresholded{Sigma: 2, Threshold: 0.08, MinObjectSize: 3})
	require.NoError(t, err)
	assert.Equal(t, before, g.Pix)
}

func TestEdgeMap_Image(t *testing.T) {
	m := NewEdgeMap(3, 1)
	m.Values = []float64{0, 0.5, 1}

	img := m.Image()
	assert.Equal(t, []uint8{0, 128, 255}, img.Pix)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clamp(tt.val, tt.min, tt.max))
	}
}
