package wordcloud

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/imaging"
	"github.com/ironsheep/imagecloud/internal/text"
)

// Layout defaults.
const (
	DefaultWidth            = 400
	DefaultHeight           = 200
	DefaultMaxWords         = 200
	DefaultMinFontSize      = 4
	DefaultFontStep         = 1
	DefaultMargin           = 2
	DefaultPreferHorizontal = 0.9
	DefaultRelativeScaling  = 0.5
)

// Orientation of a placed word.
type Orientation int

const (
	Horizontal Orientation = iota
	// Vertical words are rotated 90 degrees counter-clockwise.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Config controls Generate. The zero value of a field means its default,
// except for MaxFontSize where zero derives the size from the canvas and
// RelativeScaling where zero sizes words by rank only.
type Config struct {
	// Width and Height size the canvas when no mask is given.
	Width  int
	Height int

	MaxWords         int
	MaxFontSize      int
	MinFontSize      int
	FontStep         int
	Margin           int
	PreferHorizontal float64
	RelativeScaling  float64

	// Seed fixes the random source. Nil seeds it from the clock.
	Seed *int64

	Background color.Color
	Font       *Font
	Color      ColorFunc
}

// DefaultConfig returns the renderer defaults.
func DefaultConfig() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		MaxWords:         DefaultMaxWords,
		MinFontSize:      DefaultMinFontSize,
		FontStep:         DefaultFontStep,
		Margin:           DefaultMargin,
		PreferHorizontal: DefaultPreferHorizontal,
		RelativeScaling:  DefaultRelativeScaling,
		Background:       color.NRGBA{A: 0xff},
	}
}

func (c Config) validate() error {
	switch {
	case c.MaxWords < 1:
		return errors.New(errors.ErrCodeInvalidParameter, "max words must be at least 1, got %d", c.MaxWords)
	case c.MaxFontSize < 0:
		return errors.New(errors.ErrCodeInvalidParameter, "max font size must be non-negative, got %d", c.MaxFontSize)
	case c.MinFontSize < 1:
		return errors.New(errors.ErrCodeInvalidParameter, "min font size must be at least 1, got %d", c.MinFontSize)
	case c.FontStep < 1:
		return errors.New(errors.ErrCodeInvalidParameter, "font step must be at least 1, got %d", c.FontStep)
	case c.Margin < 0:
		return errors.New(errors.ErrCodeInvalidParameter, "margin must be non-negative, got %d", c.Margin)
	case c.RelativeScaling < 0 || c.RelativeScaling > 1 || math.IsNaN(c.RelativeScaling):
		return errors.New(errors.ErrCodeInvalidParameter, "relative scaling must be in [0,1], got %v", c.RelativeScaling)
	case c.PreferHorizontal < 0 || c.PreferHorizontal > 1 || math.IsNaN(c.PreferHorizontal):
		return errors.New(errors.ErrCodeInvalidParameter, "prefer horizontal must be in [0,1], got %v", c.PreferHorizontal)
	case c.Width < 1 || c.Height < 1:
		return errors.New(errors.ErrCodeInvalidParameter, "canvas must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Word is one placed word. X and Y are the top-left corner of its box,
// whose size already accounts for the orientation.
type Word struct {
	Text        string         `json:"text"`
	Frequency   float64        `json:"frequency"`
	FontSize    int            `json:"font_size"`
	X           int            `json:"x"`
	Y           int            `json:"y"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Orientation Orientation    `json:"orientation"`
	Color       colorful.Color `json:"-"`
}

// Bounds returns the word's box on the canvas.
func (w Word) Bounds() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// Cloud is a finished layout.
type Cloud struct {
	Width       int
	Height      int
	Background  color.Color
	Frequencies []text.Frequency
	Words       []Word

	font *Font
	seed int64
}

// Seed returns the seed the layout was drawn with. Regenerating with it
// reproduces the cloud.
func (c *Cloud) Seed() int64 { return c.seed }

// Font returns the font the cloud is drawn with.
func (c *Cloud) Font() *Font { return c.font }

type weighted struct {
	text string
	freq float64
}

// Generate lays out freqs on a canvas the size of mask, or of cfg.Width by
// cfg.Height when mask is nil. Masked-out cells stay empty.
//
// # Sizing
//
// Frequencies are divided by the largest and the top cfg.MaxWords kept.
// Each word's font size is the previous size scaled by
//
//	rs*(f/last) + (1-rs)
//
// where rs is cfg.RelativeScaling and last is the previous word's
// frequency, so rs=0 sizes by rank alone and rs=1 by frequency alone.
// When cfg.MaxFontSize is 0 the first size comes from a trial layout of
// the two most frequent words at canvas height.
//
// Layout stops at the first word that no longer fits at cfg.MinFontSize.
// An error is returned only when not even the first word fits.
func Generate(freqs []text.Frequency, mask *imaging.Mask, cfg Config) (*Cloud, error) {
	return GenerateContext(context.Background(), freqs, mask, cfg)
}

// GenerateContext is Generate with cancellation checked between words.
func GenerateContext(ctx context.Context, freqs []text.Frequency, mask *imaging.Mask, cfg Config) (*Cloud, error) {
	cfg = cfg.withDefaults()
	if mask != nil {
		cfg.Width, cfg.Height = mask.Width(), mask.Height()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	words := normalize(freqs, cfg.MaxWords)
	if len(words) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter,
			"need at least 1 word to plot a word cloud, got 0")
	}

	fnt := cfg.Font
	if fnt == nil {
		var err error
		if fnt, err = DefaultFont(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to load default font")
		}
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	l := &layouter{cfg: cfg, font: fnt, mask: mask}

	fontSize := cfg.MaxFontSize
	if fontSize == 0 {
		if len(words) == 1 {
			fontSize = cfg.Height
		} else {
			trial, err := l.run(ctx, words[:2], cfg.Height, rand.New(rand.NewSource(seed)))
			if err != nil {
				return nil, err
			}
			switch len(trial) {
			case 0:
				return nil, errNoSpace()
			case 1:
				fontSize = trial[0].FontSize
			default:
				s0, s1 := trial[0].FontSize, trial[1].FontSize
				fontSize = 2 * s0 * s1 / (s0 + s1)
			}
		}
	}

	placed, err := l.run(ctx, words, fontSize, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	if len(placed) == 0 {
		return nil, errNoSpace()
	}

	kept := make([]text.Frequency, len(freqs))
	copy(kept, freqs)
	return &Cloud{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Background:  cfg.Background,
		Frequencies: kept,
		Words:       placed,
		font:        fnt,
		seed:        seed,
	}, nil
}

func errNoSpace() error {
	return errors.New(errors.ErrCodeInvalidParameter,
		"couldn't find space to draw; either the canvas is too small or too much of the image is masked out")
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.MaxWords == 0 {
		c.MaxWords = d.MaxWords
	}
	if c.MinFontSize == 0 {
		c.MinFontSize = d.MinFontSize
	}
	if c.FontStep == 0 {
		c.FontStep = d.FontStep
	}
	if c.Background == nil {
		c.Background = d.Background
	}
	if c.Color == nil {
		c.Color = RandomHSL
	}
	return c
}

// normalize sorts by count, keeps the top n and divides by the largest.
func normalize(freqs []text.Frequency, n int) []weighted {
	sorted := make([]text.Frequency, 0, len(freqs))
	for _, f := range freqs {
		if f.Count > 0 {
			sorted = append(sorted, f)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if len(sorted) == 0 {
		return nil
	}

	peak := float64(sorted[0].Count)
	out := make([]weighted, len(sorted))
	for i, f := range sorted {
		out[i] = weighted{text: f.Word, freq: float64(f.Count) / peak}
	}
	return out
}

type layouter struct {
	cfg  Config
	font *Font
	mask *imaging.Mask
}

// run places words starting at fontSize and returns those that fit.
func (l *layouter) run(ctx context.Context, words []weighted, fontSize int, rng *rand.Rand) ([]Word, error) {
	cfg := l.cfg
	occ := newOccupancy(cfg.Width, cfg.Height, l.mask)
	rs := cfg.RelativeScaling
	lastFreq := 1.0

	var placed []Word
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if rs != 0 {
			fontSize = int(math.RoundToEven((rs*(w.freq/lastFreq) + (1 - rs)) * float64(fontSize)))
		}

		orientation := Horizontal
		if rng.Float64() >= cfg.PreferHorizontal {
			orientation = Vertical
		}
		triedOther := false

		var (
			glyph *image.NRGBA
			at    image.Point
			found bool
		)
		for fontSize >= cfg.MinFontSize {
			face, err := l.font.Face(fontSize)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to size font")
			}
			glyph = renderGlyph(face, w.text, color.White, orientation == Vertical)
			b := glyph.Bounds()
			if at, found = occ.sample(b.Dx()+cfg.Margin, b.Dy()+cfg.Margin, rng); found {
				break
			}

			if !triedOther && cfg.PreferHorizontal < 1 {
				orientation = 1 - orientation
				triedOther = true
				continue
			}
			fontSize -= cfg.FontStep
			orientation = Horizontal
		}
		if !found {
			break
		}

		at = at.Add(image.Point{X: cfg.Margin / 2, Y: cfg.Margin / 2})
		occ.stamp(glyph, at)

		word := Word{
			Text:        w.text,
			Frequency:   w.freq,
			FontSize:    fontSize,
			X:           at.X,
			Y:           at.Y,
			Width:       glyph.Bounds().Dx(),
			Height:      glyph.Bounds().Dy(),
			Orientation: orientation,
		}
		word.Color = cfg.Color(word, rng)
		placed = append(placed, word)
		lastFreq = w.freq
	}
	return placed, nil
}
