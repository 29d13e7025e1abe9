package text

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/ocr"
)

// DefaultOCRLanguage is the Tesseract language used when none is given.
const DefaultOCRLanguage = "eng"

var ocrExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImagePath reports whether path names an image that Load reads by OCR.
func IsImagePath(path string) bool {
	return ocrExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load returns the text stored at path.
//
// Image files are run through OCR in the given language; everything else
// is read as UTF-8 text. A missing, unreadable or directory path yields
// ErrCodeInputNotFound.
func Load(path, language string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInputNotFound, err, "failed to open text %s", path)
	}
	if info.IsDir() {
		return "", errors.New(errors.ErrCodeInputNotFound, "text path %s is a directory", path)
	}

	if IsImagePath(path) {
		if language == "" {
			language = DefaultOCRLanguage
		}
		if !ocr.Available() {
			return "", errors.New(errors.ErrCodeInvalidParameter,
				"text path %s is an image but OCR support is not built in (build with -tags tesseract)", path)
		}
		result, err := ocr.ExtractText(path, language)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInputNotFound, err, "failed to read text from image %s", path)
		}
		return result.FullText, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInputNotFound, err, "failed to read text %s", path)
	}
	return string(data), nil
}
