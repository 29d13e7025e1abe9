package imaging

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBase64PNG(t *testing.T) {
	m := NewEdgeMap(5, 3)
	m.Values[7] = 1

	enc, err := EncodeBase64PNG(m.Image())
	require.NoError(t, err)
	assert.Equal(t, 5, enc.Width)
	assert.Equal(t, 3, enc.Height)
	assert.Equal(t, "image/png", enc.MimeType)

	raw, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
}
