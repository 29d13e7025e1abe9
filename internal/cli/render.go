package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/pipeline"
	"github.com/ironsheep/imagecloud/internal/preview"
)

// renderFlags holds the raw flag values. Only flags the user changed are
// copied onto the options, so config file values survive defaults.
type renderFlags struct {
	textPath        string
	imagePath       string
	outputPath      string
	downsample      int
	seed            int64
	noDetectEdges   bool
	edgeSigma       float64
	edgeThreshold   float64
	extraStopwords  string
	maxFontSize     int
	maxWords        int
	relativeScaling float64
	edgeStrategy    string
	smallObjectSize int
	noPlot          bool
	background      string
	fontPath        string
	noCollocations  bool
	ocrLanguage     string
	previewDir      string
	configPath      string
}

// renderCommand creates the command that renders a word cloud.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags
	d := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a word cloud shaped and colored by an image",
		Long: `Render a word cloud from a text, using an image as both mask and palette.

Transparent pixels and detected edges of the image stay empty; every word
takes the mean color of the image underneath it.`,
		Example: `  imagecloud --text-path speech.txt --image-path flag.png
  imagecloud --text-path notes.txt --image-path logo.png --seed 7 --no-plot --output-path out/logo.png`,
		Args: requireNoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.resolveOptions(cmd, &f)
			if err != nil {
				return err
			}
			return c.runRender(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.textPath, "text-path", "", "source text file, or an image to read by OCR (required)")
	flags.StringVar(&f.imagePath, "image-path", "", "image shaping and coloring the cloud (required)")
	flags.StringVar(&f.outputPath, "output-path", d.OutputPath, `where to write the PNG ("-" for stdout)`)
	flags.IntVar(&f.downsample, "downsample", d.Downsample, "keep every n-th row and column of the image")
	flags.Int64Var(&f.seed, "seed", 0, "random seed for a reproducible layout")
	flags.BoolVar(&f.noDetectEdges, "no-detect-edges", false, "do not exclude image edges from the mask")
	flags.Float64Var(&f.edgeSigma, "edge-sigma", d.EdgeSigma, "smoothing width for edge detection")
	flags.Float64Var(&f.edgeThreshold, "edge-threshold", d.EdgeThreshold, "edge strength above which a pixel is excluded")
	flags.StringVar(&f.extraStopwords, "extra-stopwords", "", "comma-separated words to leave out")
	flags.IntVar(&f.maxFontSize, "max-font-size", 0, "largest font size in pixels (default derived from the image)")
	flags.IntVar(&f.maxWords, "max-words", d.MaxWords, "maximum number of words")
	flags.Float64Var(&f.relativeScaling, "relative-scaling", d.RelativeScaling, "0 sizes words by rank, 1 by frequency")
	flags.StringVar(&f.edgeStrategy, "edge-strategy", d.EdgeStrategy, "edge detection: gradient or thresholded")
	flags.IntVar(&f.smallObjectSize, "small-object-size", 0, "drop connected edge regions smaller than this many pixels")
	flags.BoolVar(&f.noPlot, "no-plot", false, "skip the summary and preview images")
	flags.StringVar(&f.background, "background", d.Background, "black, white, transparent or #rrggbb[aa]")
	flags.StringVar(&f.fontPath, "font-path", "", "TTF or OTF font (default Go Regular)")
	flags.BoolVar(&f.noCollocations, "no-collocations", false, "count every word on its own, never as a two-word phrase")
	flags.StringVar(&f.ocrLanguage, "ocr-language", d.OCRLanguage, "Tesseract language for image texts")
	flags.StringVar(&f.previewDir, "preview-dir", "", "also save raw, recolored, source, mask and edge images here")
	flags.StringVar(&f.configPath, "config", "", "TOML file with flag values")

	return cmd
}

// resolveOptions layers defaults, the config file and explicit flags.
func (c *CLI) resolveOptions(cmd *cobra.Command, f *renderFlags) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	if f.configPath != "" {
		cfg, err := loadConfig(f.configPath)
		if err != nil {
			return opts, err
		}
		cfg.applyTo(cmd, &opts)

		if cfg.LogLevel != nil && !cmd.Flags().Changed("log-level") {
			level, err := parseLevel(*cfg.LogLevel)
			if err != nil {
				return opts, err
			}
			c.SetLogLevel(level)
		}
	}

	changed := cmd.Flags().Changed
	if changed("text-path") {
		opts.TextPath = f.textPath
	}
	if changed("image-path") {
		opts.ImagePath = f.imagePath
	}
	if changed("output-path") {
		opts.OutputPath = f.outputPath
	}
	if changed("downsample") {
		opts.Downsample = f.downsample
	}
	if changed("seed") {
		seed := f.seed
		opts.Seed = &seed
	}
	if changed("no-detect-edges") {
		opts.DetectEdges = !f.noDetectEdges
	}
	if changed("edge-sigma") {
		opts.EdgeSigma = f.edgeSigma
	}
	if changed("edge-threshold") {
		opts.EdgeThreshold = f.edgeThreshold
	}
	if changed("extra-stopwords") {
		opts.ExtraStopwords = f.extraStopwords
	}
	if changed("max-font-size") {
		opts.MaxFontSize = f.maxFontSize
	}
	if changed("max-words") {
		opts.MaxWords = f.maxWords
	}
	if changed("relative-scaling") {
		opts.RelativeScaling = f.relativeScaling
	}
	if changed("edge-strategy") {
		opts.EdgeStrategy = f.edgeStrategy
	}
	if changed("small-object-size") {
		opts.SmallObjectSize = f.smallObjectSize
	}
	if changed("no-plot") {
		opts.Display = !f.noPlot
	}
	if changed("background") {
		opts.Background = f.background
	}
	if changed("font-path") {
		opts.FontPath = f.fontPath
	}
	if changed("no-collocations") {
		opts.Collocations = !f.noCollocations
	}
	if changed("ocr-language") {
		opts.OCRLanguage = f.ocrLanguage
	}
	if changed("preview-dir") {
		opts.PreviewDir = f.previewDir
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runRender executes the pipeline with a spinner on interactive stderr.
func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	// The summary must not mix with image bytes on stdout.
	summaryOut := c.Out
	if opts.WritesToStdout() {
		summaryOut = c.Err
	}

	var presenter pipeline.Presenter
	if opts.Display {
		presenter = preview.New(summaryOut, logger)
	}
	runner := pipeline.NewRunner(logger, presenter)
	runner.Stdout = c.Out

	var spinner *Spinner
	if isTerminal(c.Err) {
		spinner = newSpinnerWithContext(ctx, c.Err, "Rendering word cloud...")
		spinner.Start()
	}

	res, err := runner.Run(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if !opts.WritesToStdout() && !opts.Display {
		printSuccess(c.Err, "Rendered %d words", len(res.Cloud.Words))
		printFile(c.Err, res.OutputPath)
	}
	if len(res.Cloud.Words) < len(res.Frequencies) && len(res.Cloud.Words) < opts.MaxWords {
		printWarning(c.Err, "only %d of %d words fit; try a larger image or a smaller --max-font-size",
			len(res.Cloud.Words), min(len(res.Frequencies), opts.MaxWords))
	}
	return nil
}

// requireNoArgs is cobra.NoArgs with a coded error.
func requireNoArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "%s takes no arguments, got %q", cmd.CommandPath(), args[0])
	}
	return nil
}
