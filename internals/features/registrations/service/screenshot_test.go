package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeScreenshot_ReencodesAsJPEG(t *testing.T) {
	got, err := NormalizeScreenshot(pngOf(t, 120, 80))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", got.ContentType)

	img, err := imaging.Decode(bytes.NewReader(got.Data))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestNormalizeScreenshot_ShrinksLargeImages(t *testing.T) {
	got, err := NormalizeScreenshot(pngOf(t, 3000, 1500))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(got.Data))
	require.NoError(t, err)
	assert.Equal(t, 2000, img.Bounds().Dx())
	assert.Equal(t, 1000, img.Bounds().Dy())
}

func TestNormalizeScreenshot_Rejects(t *testing.T) {
	_, err := NormalizeScreenshot(nil)
	assert.ErrorIs(t, err, ErrScreenshotEmpty)

	_, err = NormalizeScreenshot([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrScreenshotUnsupported)

	_, err = NormalizeScreenshot(make([]byte, MaxScreenshotBytes+1))
	assert.ErrorIs(t, err, ErrScreenshotTooLarge)

	// sniffed as png but truncated
	raw := pngOf(t, 10, 10)
	_, err = NormalizeScreenshot(raw[:40])
	assert.ErrorIs(t, err, ErrScreenshotUnsupported)
}
