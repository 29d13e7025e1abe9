// Package preview shows a finished imagecloud run: it saves the
// intermediate images for inspection and prints a styled summary.
package preview

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imagecloud/internal/pipeline"
	"github.com/ironsheep/imagecloud/internal/wordcloud"
)

// DefaultTopWords is how many words the summary lists.
const DefaultTopWords = 10

// Artifact file names inside the preview directory.
const (
	FileRaw       = "raw.png"
	FileRecolored = "recolored.png"
	FileSource    = "source.png"
	FileMask      = "mask.png"
	FileEdges     = "edges.png"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorWhite = lipgloss.Color("255")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKey   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
)

// Presenter implements pipeline.Presenter.
type Presenter struct {
	Out      io.Writer
	Logger   *log.Logger
	TopWords int
}

// New returns a presenter printing to out.
func New(out io.Writer, logger *log.Logger) *Presenter {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Presenter{Out: out, Logger: logger, TopWords: DefaultTopWords}
}

// Present saves the artifacts when opts.PreviewDir is set and prints the
// summary.
func (p *Presenter) Present(ctx context.Context, opts pipeline.Options, res *pipeline.Result) error {
	if res == nil {
		return fmt.Errorf("nothing to present")
	}

	var files []string
	if opts.PreviewDir != "" {
		var err error
		if files, err = WriteArtifacts(ctx, opts.PreviewDir, res); err != nil {
			return err
		}
		p.Logger.Debug("wrote preview", "dir", opts.PreviewDir, "files", len(files))
	}

	_, err := io.WriteString(p.Out, p.Summary(res, files))
	return err
}

// WriteArtifacts saves the raw and recolored clouds, the source image, the
// mask and, when present, the edge map into dir. It returns the written
// paths.
func WriteArtifacts(ctx context.Context, dir string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory %s: %w", dir, err)
	}

	type artifact struct {
		name string
		img  image.Image
	}
	var artifacts []artifact
	if res.Raw != nil {
		artifacts = append(artifacts, artifact{FileRaw, res.Raw})
	}
	if res.Recolored != nil {
		artifacts = append(artifacts, artifact{FileRecolored, res.Recolored})
	}
	if res.Source != nil {
		artifacts = append(artifacts, artifact{FileSource, res.Source.NRGBA})
	}
	if res.Mask != nil {
		artifacts = append(artifacts, artifact{FileMask, res.Mask.NRGBA})
	}
	if res.Edges != nil {
		artifacts = append(artifacts, artifact{FileEdges, res.Edges.Image()})
	}

	var written []string
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(dir, a.name)
		if err := imaging.Save(a.img, path); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Summary renders the run: output, canvas, layout figures, the top words
// in their final colors and any preview files.
func (p *Presenter) Summary(res *pipeline.Result, files []string) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Word cloud") + "\n")
	kv := func(key, value string) {
		b.WriteString(styleKey.Render(key) + " " + styleValue.Render(value) + "\n")
	}

	kv("output", res.OutputPath)
	if res.Cloud != nil {
		kv("canvas", fmt.Sprintf("%dx%d", res.Cloud.Width, res.Cloud.Height))
		kv("words", fmt.Sprintf("%d placed of %d counted", len(res.Cloud.Words), len(res.Frequencies)))
		kv("seed", fmt.Sprintf("%d", res.Cloud.Seed()))
	}
	if res.Mask != nil {
		cells := res.Mask.Width() * res.Mask.Height()
		if cells > 0 {
			kv("masked", fmt.Sprintf("%.1f%%", 100*float64(res.Mask.ExcludedCount())/float64(cells)))
		}
	}
	kv("time", res.Stats.Total.Round(time.Millisecond).String())

	if res.Cloud != nil && len(res.Cloud.Words) > 0 {
		b.WriteString("\n" + styleTitle.Render("Top words") + "\n")
		n := p.TopWords
		if n <= 0 || n > len(res.Cloud.Words) {
			n = len(res.Cloud.Words)
		}
		for _, w := range res.Cloud.Words[:n] {
			hex := wordcloud.FormatColor(w.Color.Clamped())
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				swatch,
				styleValue.Render(w.Text),
				styleDim.Render(fmt.Sprintf("%dpx %s", w.FontSize, hex))))
		}
	}

	if len(files) > 0 {
		b.WriteString("\n" + styleTitle.Render("Preview") + "\n")
		for _, f := range files {
			b.WriteString("  " + styleDim.Render("→") + " " + styleValue.Render(f) + "\n")
		}
	}
	return b.String()
}
