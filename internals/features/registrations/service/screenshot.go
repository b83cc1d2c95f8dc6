package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // registers the webp decoder
)

const (
	MaxScreenshotBytes = 5 << 20
	maxScreenshotSide  = 2000
	screenshotQuality  = 85
)

var (
	ErrScreenshotEmpty       = errors.New("payment screenshot is empty")
	ErrScreenshotTooLarge    = errors.New("payment screenshot exceeds 5 MB")
	ErrScreenshotUnsupported = errors.New("payment screenshot must be a PNG, JPEG, GIF or WebP image")
)

var allowedScreenshotTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Screenshot is an uploaded proof-of-payment image after normalization.
type Screenshot struct {
	Data        []byte
	ContentType string
}

// NormalizeScreenshot sniffs the upload, decodes it (honouring EXIF orientation),
// shrinks it to fit maxScreenshotSide and re-encodes it as JPEG.
func NormalizeScreenshot(raw []byte) (*Screenshot, error) {
	if len(raw) == 0 {
		return nil, ErrScreenshotEmpty
	}
	if len(raw) > MaxScreenshotBytes {
		return nil, ErrScreenshotTooLarge
	}

	mt := mimetype.Detect(raw)
	if !mimetype.EqualsAny(mt.String(), allowedScreenshotTypes...) {
		return nil, fmt.Errorf("%w (got %s)", ErrScreenshotUnsupported, mt.String())
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshotUnsupported, err)
	}

	b := img.Bounds()
	if b.Dx() > maxScreenshotSide || b.Dy() > maxScreenshotSide {
		img = imaging.Fit(img, maxScreenshotSide, maxScreenshotSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(screenshotQuality)); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return &Screenshot{Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
}
