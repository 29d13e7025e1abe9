package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/pipeline"
)

// fileConfig mirrors the render flags. Nil fields were not set in the file.
type fileConfig struct {
	TextPath        *string  `toml:"text_path"`
	ImagePath       *string  `toml:"image_path"`
	OutputPath      *string  `toml:"output_path"`
	Downsample      *int     `toml:"downsample"`
	Seed            *int64   `toml:"seed"`
	NoDetectEdges   *bool    `toml:"no_detect_edges"`
	EdgeSigma       *float64 `toml:"edge_sigma"`
	EdgeThreshold   *float64 `toml:"edge_threshold"`
	ExtraStopwords  *string  `toml:"extra_stopwords"`
	MaxFontSize     *int     `toml:"max_font_size"`
	MaxWords        *int     `toml:"max_words"`
	RelativeScaling *float64 `toml:"relative_scaling"`
	EdgeStrategy    *string  `toml:"edge_strategy"`
	SmallObjectSize *int     `toml:"small_object_size"`
	NoPlot          *bool    `toml:"no_plot"`
	LogLevel        *string  `toml:"log_level"`
	Background      *string  `toml:"background"`
	FontPath        *string  `toml:"font_path"`
	NoCollocations  *bool    `toml:"no_collocations"`
	OCRLanguage     *string  `toml:"ocr_language"`
	PreviewDir      *string  `toml:"preview_dir"`
}

// loadConfig decodes a TOML file. Unknown keys are an error so typos do
// not go unnoticed.
func loadConfig(path string) (*fileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "failed to read config %s", path)
	}

	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "failed to parse config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidParameter,
			"unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// applyTo copies every key set in the file onto opts, skipping keys whose
// flag was given explicitly on cmd.
func (c *fileConfig) applyTo(cmd *cobra.Command, opts *pipeline.Options) {
	explicit := func(flag string) bool { return cmd.Flags().Changed(flag) }

	setString := func(flag string, src *string, dst *string) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}
	setInt := func(flag string, src *int, dst *int) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}
	setFloat := func(flag string, src *float64, dst *float64) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}
	setNegated := func(flag string, src *bool, dst *bool) {
		if src != nil && !explicit(flag) {
			*dst = !*src
		}
	}

	setString("text-path", c.TextPath, &opts.TextPath)
	setString("image-path", c.ImagePath, &opts.ImagePath)
	setString("output-path", c.OutputPath, &opts.OutputPath)
	setInt("downsample", c.Downsample, &opts.Downsample)
	setNegated("no-detect-edges", c.NoDetectEdges, &opts.DetectEdges)
	setFloat("edge-sigma", c.EdgeSigma, &opts.EdgeSigma)
	setFloat("edge-threshold", c.EdgeThreshold, &opts.EdgeThreshold)
	setString("extra-stopwords", c.ExtraStopwords, &opts.ExtraStopwords)
	setInt("max-font-size", c.MaxFontSize, &opts.MaxFontSize)
	setInt("max-words", c.MaxWords, &opts.MaxWords)
	setFloat("relative-scaling", c.RelativeScaling, &opts.RelativeScaling)
	setString("edge-strategy", c.EdgeStrategy, &opts.EdgeStrategy)
	setInt("small-object-size", c.SmallObjectSize, &opts.SmallObjectSize)
	setNegated("no-plot", c.NoPlot, &opts.Display)
	setString("background", c.Background, &opts.Background)
	setString("font-path", c.FontPath, &opts.FontPath)
	setNegated("no-collocations", c.NoCollocations, &opts.Collocations)
	setString("ocr-language", c.OCRLanguage, &opts.OCRLanguage)
	setString("preview-dir", c.PreviewDir, &opts.PreviewDir)

	if c.Seed != nil && !explicit("seed") {
		seed := *c.Seed
		opts.Seed = &seed
	}
}
