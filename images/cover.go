package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

type CoverOptions struct {
	// Width of the presentation cover.
	Width int
	// IconSize is the edge of the square icon.
	IconSize   int
	Background color.Color
}

type Cover struct {
	// Image is the JPEG presentation cover.
	Image []byte
	// Icon is a PNG square of exactly IconSize pixels.
	Icon []byte
}

func ComposeCover(data []byte, opts CoverOptions) (*Cover, error) {
	src, _, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}
	b := src.Bounds()

	h := max(b.Dy()*opts.Width/b.Dx(), 1)
	large := fill(opts.Width, h, opts.Background)
	draw.CatmullRom.Scale(large, large.Bounds(), src, b, draw.Over, nil)
	coverBuf := &bytes.Buffer{}
	if err := jpeg.Encode(coverBuf, large, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode cover: %w", err)
	}

	iw, ih := fit(b.Dx(), b.Dy(), opts.IconSize, opts.IconSize)
	icon := fill(opts.IconSize, opts.IconSize, opts.Background)
	x := (opts.IconSize - iw) / 2
	y := (opts.IconSize - ih) / 2
	draw.CatmullRom.Scale(icon, image.Rect(x, y, x+iw, y+ih), src, b, draw.Over, nil)
	iconBuf := &bytes.Buffer{}
	if err := png.Encode(iconBuf, icon); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}

	return &Cover{Image: coverBuf.Bytes(), Icon: iconBuf.Bytes()}, nil
}

// ParseHexColor parses #rgb or #rrggbb.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
