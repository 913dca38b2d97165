// Package imageproc resizes uploaded product photos and encodes them as webp.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Default thumbnail bounds and webp quality.
const (
	DefaultMaxWidth  = 800
	DefaultMaxHeight = 800
	DefaultQuality   = 85
)

// ContentType is the MIME type of every processed image.
const ContentType = "image/webp"

// ErrUnsupported is returned when the input is not a jpeg, png or webp image.
var ErrUnsupported = errors.New("unsupported image format")

// Options bound the output image.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   float32
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// Decode reads a jpeg, png or webp image.
func Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupported
	}
	return img, nil
}

// Thumbnail fits the image within the option bounds, keeping aspect ratio,
// and re-encodes it as lossy webp. Images already inside the bounds are not upscaled.
// POST: output decodes as webp with width <= MaxWidth and height <= MaxHeight
func Thumbnail(data []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() > opts.MaxWidth || b.Dy() > opts.MaxHeight {
		img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New("empty webp output")
	}
	return buf.Bytes(), nil
}
