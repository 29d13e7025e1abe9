package pipeline

import (
	"context"
	"image"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/imaging"
	"github.com/ironsheep/imagecloud/internal/text"
	"github.com/ironsheep/imagecloud/internal/wordcloud"
)

// Presenter shows a finished run. It is called after the output is
// written; its errors are logged and do not fail the run.
type Presenter interface {
	Present(ctx context.Context, opts Options, res *Result) error
}

// Stats holds per-stage durations.
type Stats struct {
	TextTime    time.Duration
	ImageTime   time.Duration
	MaskTime    time.Duration
	LayoutTime  time.Duration
	RecolorTime time.Duration
	WriteTime   time.Duration
	Total       time.Duration
}

// Result carries the output path and every intermediate artifact.
type Result struct {
	OutputPath string

	// Source is the image after downsampling.
	Source *imaging.Grid
	Mask   *imaging.Mask
	// Edges is nil when edge detection is off.
	Edges *imaging.EdgeMap

	Stopwords   text.Set
	Frequencies []text.Frequency

	// Cloud is the recolored layout; Raw and Recolored are its renderings
	// before and after recoloring.
	Cloud     *wordcloud.Cloud
	Raw       *image.NRGBA
	Recolored *image.NRGBA

	Stats Stats
}

// Runner executes the pipeline. It keeps no state between runs.
type Runner struct {
	Logger    *log.Logger
	Presenter Presenter

	// Stdout receives the image when the output path is "-".
	Stdout io.Writer
}

// NewRunner creates a runner. A nil logger falls back to log.Default();
// a nil presenter disables display.
func NewRunner(logger *log.Logger, presenter Presenter) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Logger:    logger,
		Presenter: presenter,
		Stdout:    os.Stdout,
	}
}

// Run executes every stage in order and writes the recolored cloud.
// On error nothing is written.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	detector, _ := opts.detector()
	if opts.WritesToStdout() {
		if err := checkStdout(r.Stdout); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result := &Result{OutputPath: opts.OutputPath}

	// Stage 1: text
	stageStart := time.Now()
	body, err := text.Load(opts.TextPath, opts.OCRLanguage)
	if err != nil {
		return nil, err
	}
	result.Stats.TextTime = time.Since(stageStart)
	r.Logger.Debug("loaded text", "path", opts.TextPath, "bytes", len(body), "duration", result.Stats.TextTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: image
	stageStart = time.Now()
	grid, err := imaging.Load(opts.ImagePath)
	if err != nil {
		return nil, err
	}
	if opts.Downsample != 1 {
		r.Logger.Debug("downsampling", "stride", opts.Downsample)
	}
	grid, err = imaging.Downsample(grid, opts.Downsample)
	if err != nil {
		return nil, err
	}
	result.Source = grid
	result.Stats.ImageTime = time.Since(stageStart)
	r.Logger.Debug("loaded image",
		"path", opts.ImagePath,
		"width", grid.Width(),
		"height", grid.Height(),
		"channels", grid.Channels,
		"duration", result.Stats.ImageTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: edges and mask
	stageStart = time.Now()
	if detector != nil {
		r.Logger.Debug("calculating edges", "strategy", detector.Name(), "sigma", opts.EdgeSigma)
		if result.Edges, err = imaging.Detect(grid, detector); err != nil {
			return nil, err
		}
	}
	if result.Mask, err = imaging.BuildMask(grid, result.Edges, opts.EdgeThreshold); err != nil {
		return nil, err
	}
	result.Stats.MaskTime = time.Since(stageStart)
	r.Logger.Debug("built mask",
		"excluded", result.Mask.ExcludedCount(),
		"cells", grid.Width()*grid.Height(),
		"duration", result.Stats.MaskTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: words and layout
	stageStart = time.Now()
	result.Stopwords = text.Stopwords(opts.ExtraStopwords)

	freqOpts := text.DefaultFrequencyOptions()
	freqOpts.Collocations = opts.Collocations
	result.Frequencies = text.Frequencies(body, result.Stopwords, freqOpts)
	r.Logger.Debug("counted words", "distinct", len(result.Frequencies), "stopwords", result.Stopwords.Len())

	font, err := loadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	defer font.Close()

	cfg := wordcloud.DefaultConfig()
	cfg.MaxWords = opts.MaxWords
	cfg.MaxFontSize = opts.MaxFontSize
	cfg.RelativeScaling = opts.RelativeScaling
	cfg.Seed = opts.Seed
	cfg.Background = opts.background()
	cfg.Font = font

	cloud, err := wordcloud.GenerateContext(ctx, result.Frequencies, result.Mask, cfg)
	if err != nil {
		return nil, err
	}
	if result.Raw, err = cloud.Image(); err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(stageStart)
	r.Logger.Debug("generated word cloud",
		"placed", len(cloud.Words),
		"seed", cloud.Seed(),
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 5: recolor from the image
	stageStart = time.Now()
	fallback := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	result.Cloud = cloud.Recolor(wordcloud.ImageColors(grid.NRGBA, fallback), nil)
	if result.Recolored, err = result.Cloud.Image(); err != nil {
		return nil, err
	}
	result.Stats.RecolorTime = time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 6: write
	stageStart = time.Now()
	r.Logger.Debug("writing file", "path", opts.OutputPath)
	if opts.WritesToStdout() {
		err = writeStream(r.Stdout, result.Recolored)
	} else {
		err = writeFile(opts.OutputPath, result.Recolored)
	}
	if err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(stageStart)
	result.Stats.Total = time.Since(start)

	r.Logger.Info("wrote word cloud",
		"path", opts.OutputPath,
		"words", len(result.Cloud.Words),
		"duration", result.Stats.Total.Round(time.Millisecond))

	// Stage 7: display
	if opts.Display && r.Presenter != nil {
		if err := r.Presenter.Present(ctx, opts, result); err != nil {
			r.Logger.Warn("display failed", "err", err)
		}
	}

	return result, nil
}

func loadFont(path string) (*wordcloud.Font, error) {
	if path == "" {
		font, err := wordcloud.DefaultFont()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to load default font")
		}
		return font, nil
	}
	font, err := wordcloud.LoadFont(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "font %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "failed to load font %s", path)
	}
	return font, nil
}
