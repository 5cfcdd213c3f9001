// Package images shrinks book images and builds the cover and app icon.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const (
	jpegQuality = 85
	// MaxPixels bounds the declared size of an image we agree to decode.
	MaxPixels = 40_000_000
)

var ErrTooLarge = errors.New("image too large")

// decode reads the header first so a small file declaring huge dimensions
// is rejected before any pixel buffer is allocated.
func decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("image has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}
	return image.Decode(bytes.NewReader(data))
}

// Transform returns image bytes that are at most maxWidth wide. Images
// already within bounds are returned unchanged. A non-nil error means the
// image could not be processed and data is returned as is.
func Transform(data []byte, maxWidth int) (out []byte, resized bool, err error) {
	src, format, err := decode(data)
	if err != nil {
		return data, false, fmt.Errorf("failed to decode image: %w", err)
	}
	b := src.Bounds()
	if b.Dx() <= maxWidth {
		return data, false, nil
	}

	w, h := fit(b.Dx(), b.Dy(), maxWidth, maxWidth)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	encoded, err := encode(dst, format)
	if err != nil {
		return data, false, err
	}
	return encoded, true, nil
}

// fit scales w×h down or up to the largest size inside maxW×maxH that keeps
// the aspect ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	nw, nh := maxW, h*maxW/w
	if nh > maxH {
		nw, nh = w*maxH/h, maxH
	}
	return max(nw, 1), max(nh, 1)
}

func encode(img image.Image, format string) ([]byte, error) {
	buf := &bytes.Buffer{}
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(buf, img)
	case "gif":
		err = gif.Encode(buf, img, nil)
	case "bmp":
		err = bmp.Encode(buf, img)
	case "tiff":
		err = tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("no encoder for %s images", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return buf.Bytes(), nil
}

// fill returns a w×h canvas painted with c.
func fill(w, h int, c color.Color) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return canvas
}
