//go:build !tesseract

package ocr

// Available reports whether OCR support is compiled in.
func Available() bool { return false }

// ExtractText always fails with ErrUnavailable in builds without the
// tesseract tag.
func ExtractText(imagePath, language string) (*Result, error) {
	return nil, ErrUnavailable
}
