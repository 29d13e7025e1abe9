package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imagecloud/internal/errors"
)

// =============================================================================
// Helpers
// =============================================================================

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writeText(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func quietRunner() *Runner {
	return NewRunner(log.New(&bytes.Buffer{}), nil)
}

func seed(v int64) *int64 { return &v }

// fixture writes a text and an image into a temp dir and returns options
// pointing at them.
func fixture(t *testing.T, body string, img image.Image) Options {
	t.Helper()
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.TextPath = filepath.Join(dir, "words.txt")
	opts.ImagePath = filepath.Join(dir, "picture.png")
	opts.OutputPath = filepath.Join(dir, "out", "cloud.png")
	opts.Seed = seed(1)
	writeText(t, opts.TextPath, body)
	writePNG(t, opts.ImagePath, img)
	return opts
}

type recordingPresenter struct {
	calls int
	err   error
}

func (p *recordingPresenter) Present(_ context.Context, _ Options, res *Result) error {
	p.calls++
	return p.err
}

// =============================================================================
// End-to-End
// =============================================================================

func TestRunSolidRedDefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	writeText(t, "words.txt", "red red blue green")
	writePNG(t, "red.png", solid(10, 10, color.NRGBA{R: 255, A: 255}))

	opts := DefaultOptions()
	opts.TextPath = "words.txt"
	opts.ImagePath = "red.png"
	opts.DetectEdges = false
	opts.Seed = seed(1)

	res, err := quietRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputPath, res.OutputPath)
	f, err := os.Open(filepath.Join(dir, "output", "imagecloud.png"))
	require.NoError(t, err)
	defer f.Close()
	out, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())

	assert.Nil(t, res.Edges)
	assert.Zero(t, res.Mask.ExcludedCount())

	require.NotEmpty(t, res.Cloud.Words)
	largest := res.Cloud.Words[0]
	for _, w := range res.Cloud.Words[1:] {
		if w.FontSize > largest.FontSize {
			largest = w
		}
	}
	assert.Equal(t, "red", largest.Text)

	r, g, b := res.Cloud.Words[0].Color.RGB255()
	assert.Equal(t, []uint8{255, 0, 0}, []uint8{r, g, b})
}

func TestRunCreatesMissingDirectories(t *testing.T) {
	opts := fixture(t, "alpha beta gamma alpha", solid(60, 40, color.NRGBA{R: 30, G: 90, B: 160, A: 255}))
	opts.OutputPath = filepath.Join(filepath.Dir(opts.OutputPath), "a", "b", "c", "cloud.png")
	opts.DetectEdges = false

	_, err := quietRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	assert.FileExists(t, opts.OutputPath)
}

func TestRunDeterministicWithSeed(t *testing.T) {
	img := solid(80, 60, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	body := "sun sun sun moon moon stars stars sky night day day day light"

	render := func() []byte {
		opts := fixture(t, body, img)
		opts.Seed = seed(99)
		_, err := quietRunner().Run(context.Background(), opts)
		require.NoError(t, err)
		data, err := os.ReadFile(opts.OutputPath)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, render(), render())
}

func TestRunEdgesExcludeBoundary(t *testing.T) {
	img := solid(80, 60, color.NRGBA{R: 255, A: 255})
	for y := 0; y < 60; y++ {
		for x := 40; x < 80; x++ {
			img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	opts := fixture(t, "left right left right middle", img)

	res, err := quietRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, res.Edges)
	assert.Positive(t, res.Mask.ExcludedCount())
	assert.True(t, res.Mask.Excluded(40, 30) || res.Mask.Excluded(39, 30))
	assert.False(t, res.Mask.Excluded(10, 30))
}

func TestRunTransparentPixelsExcluded(t *testing.T) {
	img := solid(60, 40, color.NRGBA{G: 180, A: 255})
	for y := 0; y < 40; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{})
		}
	}
	opts := fixture(t, "leaf tree leaf", img)

	res, err := quietRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, res.Mask.Excluded(0, 0))
	assert.True(t, res.Mask.Excluded(5, 20))
}

func TestRunStdout(t *testing.T) {
	opts := fixture(t, "stream stream bytes", solid(40, 30, color.NRGBA{R: 90, G: 90, B: 90, A: 255}))
	opts.OutputPath = StdoutPath
	opts.DetectEdges = false

	var out bytes.Buffer
	runner := quietRunner()
	runner.Stdout = &out

	_, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)

	img, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

// =============================================================================
// Failures
// =============================================================================

func TestRunGrayscaleFailsBeforeOutput(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.TextPath = filepath.Join(dir, "words.txt")
	opts.ImagePath = filepath.Join(dir, "gray.png")
	opts.OutputPath = filepath.Join(dir, "never", "cloud.png")
	writeText(t, opts.TextPath, "gray gray scale")
	writePNG(t, opts.ImagePath, image.NewGray(image.Rect(0, 0, 20, 20)))

	_, err := quietRunner().Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedShape), "got %v", err)
	assert.NoDirExists(t, filepath.Join(dir, "never"))
}

func TestRunErrors(t *testing.T) {
	img := solid(30, 30, color.NRGBA{R: 10, G: 200, B: 10, A: 255})

	tests := []struct {
		name   string
		mutate func(*Options)
		code   errors.Code
	}{
		{"missing text", func(o *Options) { o.TextPath += ".missing" }, errors.ErrCodeInputNotFound},
		{"missing image", func(o *Options) { o.ImagePath += ".missing" }, errors.ErrCodeInputNotFound},
		{"unknown strategy", func(o *Options) { o.EdgeStrategy = "sobel" }, errors.ErrCodeInvalidParameter},
		{"unknown strategy with edges off", func(o *Options) { o.DetectEdges = false; o.EdgeStrategy = "sobel" }, errors.ErrCodeInvalidParameter},
		{"zero downsample", func(o *Options) { o.Downsample = 0 }, errors.ErrCodeInvalidParameter},
		{"relative scaling", func(o *Options) { o.RelativeScaling = 2 }, errors.ErrCodeInvalidParameter},
		{"bad background", func(o *Options) { o.Background = "plaid" }, errors.ErrCodeInvalidParameter},
		{"missing font", func(o *Options) { o.FontPath = "/nonexistent/font.ttf" }, errors.ErrCodeInputNotFound},
		{"no text path", func(o *Options) { o.TextPath = "" }, errors.ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fixture(t, "green grass green", img)
			tt.mutate(&opts)

			_, err := quietRunner().Run(context.Background(), opts)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "got %v", err)
			assert.NoFileExists(t, opts.OutputPath)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	opts := fixture(t, "stop stop now", solid(30, 30, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietRunner().Run(ctx, opts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, opts.OutputPath)
}

// =============================================================================
// Presenter
// =============================================================================

func TestRunPresenterFailureDoesNotBlockWrite(t *testing.T) {
	opts := fixture(t, "show show tell", solid(50, 40, color.NRGBA{R: 100, G: 50, B: 200, A: 255}))

	var logs bytes.Buffer
	presenter := &recordingPresenter{err: stderrors.New("no display")}
	runner := NewRunner(log.New(&logs), presenter)

	res, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, presenter.calls)
	assert.FileExists(t, opts.OutputPath)
	assert.Contains(t, logs.String(), "display failed")
}

func TestRunDisplayDisabled(t *testing.T) {
	opts := fixture(t, "quiet quiet run", solid(50, 40, color.NRGBA{R: 100, G: 50, B: 200, A: 255}))
	opts.Display = false

	presenter := &recordingPresenter{}
	_, err := NewRunner(log.New(&bytes.Buffer{}), presenter).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, presenter.calls)
}
