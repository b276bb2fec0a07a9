// Package imageio wraps raster decoding and encoding so every component
// recognizes the same set of formats.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"styleme/internal/domain"
)

// Config describes an encoded image without decoding its pixels.
type Config struct {
	Format string
	MIME   string
	Width  int
	Height int
}

// Inspect reads the header of data. Payloads that match no registered format
// fail with domain.ErrUnsupportedFormat; recognized but unreadable headers
// fail with domain.ErrImageDecode.
func Inspect(data []byte) (Config, error) {
	if len(data) == 0 {
		return Config{}, fmt.Errorf("%w: empty payload", domain.ErrUnsupportedFormat)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Config{}, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
		}
		return Config{}, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("%w: empty dimensions", domain.ErrImageDecode)
	}
	return Config{Format: format, MIME: MIMEFor(format), Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode fully decodes data into an image.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrImageDecode)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG. The encoding is deterministic for a given
// pixel buffer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// MIMEFor maps a decoder format name to its MIME type.
func MIMEFor(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
