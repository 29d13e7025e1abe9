// Package imaging turns a picture into the inputs of a word-cloud layout.
//
// The package loads an image into a normalized pixel grid, optionally
// subsamples it, detects edges, and derives the exclusion mask the layout
// must respect. It also samples colors back out of the picture so words can
// be recolored after placement.
//
// # Coordinate System
//
// All grids, masks and edge maps start at (0,0) in the top-left corner,
// X increases rightward and Y increases downward. Rectangles follow the
// image.Rectangle convention: Min is inclusive, Max is exclusive.
//
// # Pixel Grid
//
// A Grid is always 8-bit non-premultiplied RGBA (*image.NRGBA). Channels
// records what the source carried: 3 for opaque color images, 4 when the
// source had an alpha channel. Single-channel sources (grayscale, alpha-only)
// are rejected with an UNSUPPORTED_IMAGE_SHAPE error.
//
// # Mask
//
// Excluded mask cells hold MaskExclude (255) in every channel. The layout
// treats any cell whose red, green and blue are all 255 as forbidden.
//
// # Edge Detection
//
// Detect dispatches over a closed set of strategies:
//   - Gradient: magnitude of the gradient of a Gaussian-smoothed channel
//   - Thresholded: Canny edges per channel, with optional removal of
//     connected edge regions smaller than a minimum size
//
// Each strategy runs on the red, green and blue channels independently
// (normalized to [0,1]) and averages the three results.
//
// # Thread Safety
//
// GridCache is safe for concurrent use. All other functions are stateless
// and never mutate their inputs.
package imaging
