// Package ocr extracts text from images with Tesseract.
//
// imagecloud accepts a picture of text as its text source; this package
// turns that picture into a string plus word bounding boxes.
//
// # Build Tags
//
// The Tesseract binding (gosseract/v2) needs cgo and the libtesseract
// headers, so it is compiled only with the "tesseract" build tag:
//
//	go build -tags tesseract ./cmd/imagecloud
//
// Without the tag, Available reports false and ExtractText returns
// ErrUnavailable.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Language data files are required for each language used ("eng", "deu",
// "fra", ...).
package ocr
