package pipeline

import (
	"image/color"
	"math"
	"strings"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/imaging"
	"github.com/ironsheep/imagecloud/internal/text"
	"github.com/ironsheep/imagecloud/internal/wordcloud"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutputPath is where the rendered cloud goes.
	DefaultOutputPath = "output/imagecloud.png"

	// StdoutPath as output path streams the PNG to standard output.
	StdoutPath = "-"

	DefaultDownsample      = 1
	DefaultEdgeSigma       = 2.0
	DefaultEdgeThreshold   = 0.08
	DefaultEdgeStrategy    = imaging.StrategyThresholded
	DefaultMaxWords        = wordcloud.DefaultMaxWords
	DefaultRelativeScaling = wordcloud.DefaultRelativeScaling
	DefaultBackground      = "black"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one run. Zero-valued numeric fields are not filled in;
// start from DefaultOptions.
type Options struct {
	// Inputs and output
	TextPath   string
	ImagePath  string
	OutputPath string

	// Image preparation
	Downsample      int
	DetectEdges     bool
	EdgeStrategy    string
	EdgeSigma       float64
	EdgeThreshold   float64
	SmallObjectSize int

	// Words
	ExtraStopwords string
	Collocations   bool
	OCRLanguage    string

	// Layout
	Seed            *int64
	MaxFontSize     int
	MaxWords        int
	RelativeScaling float64
	Background      string
	FontPath        string

	// Display hands the result to the Presenter after the write.
	Display    bool
	PreviewDir string
}

// DefaultOptions returns the options used when no flag is given.
func DefaultOptions() Options {
	return Options{
		OutputPath:      DefaultOutputPath,
		Downsample:      DefaultDownsample,
		DetectEdges:     true,
		EdgeStrategy:    DefaultEdgeStrategy,
		EdgeSigma:       DefaultEdgeSigma,
		EdgeThreshold:   DefaultEdgeThreshold,
		Collocations:    true,
		OCRLanguage:     text.DefaultOCRLanguage,
		MaxWords:        DefaultMaxWords,
		RelativeScaling: DefaultRelativeScaling,
		Background:      DefaultBackground,
		Display:         true,
	}
}

// Validate checks every option that can be checked without touching the
// filesystem.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.TextPath) == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "text path is required")
	}
	if strings.TrimSpace(o.ImagePath) == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "image path is required")
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "output path is required")
	}
	if o.Downsample < 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "downsample must be at least 1, got %d", o.Downsample)
	}
	if o.MaxWords < 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "max words must be at least 1, got %d", o.MaxWords)
	}
	if o.MaxFontSize < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "max font size must be non-negative, got %d", o.MaxFontSize)
	}
	if o.RelativeScaling < 0 || o.RelativeScaling > 1 || math.IsNaN(o.RelativeScaling) {
		return errors.New(errors.ErrCodeInvalidParameter, "relative scaling must be in [0,1], got %v", o.RelativeScaling)
	}
	if o.EdgeThreshold < 0 || math.IsNaN(o.EdgeThreshold) {
		return errors.New(errors.ErrCodeInvalidParameter, "edge threshold must be non-negative, got %v", o.EdgeThreshold)
	}
	if _, err := o.detector(); err != nil {
		return err
	}
	if _, err := wordcloud.ParseBackground(o.Background); err != nil {
		return err
	}
	return nil
}

// detector returns the configured edge detector, or nil when edge
// detection is off. The strategy is validated either way.
func (o *Options) detector() (imaging.Detector, error) {
	d, err := imaging.NewDetector(o.EdgeStrategy, o.EdgeSigma, o.EdgeThreshold, o.SmallObjectSize)
	if err != nil {
		return nil, err
	}
	if !o.DetectEdges {
		return nil, nil
	}
	return d, nil
}

func (o *Options) background() color.Color {
	c, err := wordcloud.ParseBackground(o.Background)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}

// WritesToStdout reports whether the output goes to standard output.
func (o *Options) WritesToStdout() bool {
	return o.OutputPath == StdoutPath
}
