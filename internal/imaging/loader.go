package imaging

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/imagecloud/internal/errors"
)

// Grid is a decoded color image normalized to 8-bit NRGBA at origin (0,0).
//
// Channels is 3 when the source was an opaque color image and 4 when it
// carried an alpha channel. It decides how fully transparent cells are
// recognized when the mask is built.
type Grid struct {
	*image.NRGBA
	Channels int
}

// Width returns the grid width in pixels.
func (g *Grid) Width() int { return g.Rect.Dx() }

// Height returns the grid height in pixels.
func (g *Grid) Height() int { return g.Rect.Dy() }

// NewGrid normalizes a decoded image into a Grid.
//
// Grayscale and alpha-only images have no color axis and are rejected with
// ErrCodeUnsupportedShape.
func NewGrid(img image.Image) (*Grid, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "image is nil")
	}

	channels, err := channelCount(img)
	if err != nil {
		return nil, err
	}

	return &Grid{NRGBA: imaging.Clone(img), Channels: channels}, nil
}

// channelCount reports how many channels the source image carries.
//
// The png decoder returns *image.RGBA for truecolor files without alpha and
// *image.NRGBA when an alpha channel or tRNS chunk is present, so opaque
// RGBA images count as three channels.
func channelCount(img image.Image) (int, error) {
	switch src := img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		b := img.Bounds()
		return 0, errors.New(errors.ErrCodeUnsupportedShape,
			"unsupported image shape: %dx%d single-channel image, need color channels", b.Dx(), b.Dy())
	case *image.NRGBA, *image.NRGBA64:
		return 4, nil
	case *image.RGBA:
		if src.Opaque() {
			return 3, nil
		}
		return 4, nil
	case *image.RGBA64:
		if src.Opaque() {
			return 3, nil
		}
		return 4, nil
	case *image.Paletted:
		for _, c := range src.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4, nil
			}
		}
		return 3, nil
	case *image.YCbCr, *image.CMYK:
		return 3, nil
	}

	if img.ColorModel() == color.GrayModel || img.ColorModel() == color.Gray16Model {
		return 0, errors.New(errors.ErrCodeUnsupportedShape, "unsupported image shape: single-channel image")
	}
	return 4, nil
}

// Load reads and decodes an image file into a Grid.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. A missing or
// undecodable file is reported as ErrCodeInputNotFound; a single-channel
// image as ErrCodeUnsupportedShape.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "failed to open image %s", path)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if header, _ := r.Peek(pngHeaderLen); isGrayPNG(header) {
		return nil, errors.New(errors.ErrCodeUnsupportedShape,
			"unsupported image shape: %s is a grayscale PNG, need color channels", path)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "failed to decode image %s", path)
	}

	return NewGrid(img)
}

// pngHeaderLen covers the signature and the IHDR chunk up to its color
// type byte.
const pngHeaderLen = 26

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// isGrayPNG reports whether header starts a PNG whose color type is
// grayscale (0) or grayscale with alpha (4). The png decoder hands the
// latter back as NRGBA, so the type switch in channelCount cannot see it.
func isGrayPNG(header []byte) bool {
	if len(header) < pngHeaderLen || !bytes.Equal(header[:8], pngSignature) {
		return false
	}
	if string(header[12:16]) != "IHDR" {
		return false
	}
	colorType := header[25]
	return colorType == 0 || colorType == 4
}

// GridCache provides thread-safe caching of loaded grids keyed by path.
//
// The MCP server answers several tool calls about the same picture; the
// cache keeps it from decoding the file each time. Different spellings of
// the same path are separate entries.
type GridCache struct {
	mu    sync.RWMutex
	grids map[string]*Grid
}

// NewGridCache creates an empty cache.
func NewGridCache() *GridCache {
	return &GridCache{
		grids: make(map[string]*Grid),
	}
}

// Load returns the cached grid for path, loading it on first use.
func (c *GridCache) Load(path string) (*Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// Evict removes a specific grid from the cache.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// Clear removes all grids from the cache.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is detected from the file extension, "unknown" otherwise.
	Format string `json:"format"`

	// Channels is 3 or 4, see Grid.
	Channels int  `json:"channels"`
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
func LoadImageInfo(cache *GridCache, path string) (*ImageInfo, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         g.Width(),
		Height:        g.Height(),
		Format:        formatFromExt(path),
		Channels:      g.Channels,
		HasAlpha:      g.Channels == 4,
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
