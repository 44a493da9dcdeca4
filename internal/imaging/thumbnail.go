// Package imaging produces fixed-width derivatives of uploaded images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strconv"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decode only
)

// Widths are the derivative sizes generated for every image, largest first.
var Widths = []int{500, 250, 100}

// ErrDecode is returned when the source bytes are not a supported image.
var ErrDecode = errors.New("unsupported image data")

// MaxPixels caps the declared width*height of a source image.  Decoding
// allocates the full canvas, so larger sources are rejected unread.
const MaxPixels = 50_000_000

// ValidWidth reports whether w is one of Widths.
func ValidWidth(w int) bool {
	for _, v := range Widths {
		if v == w {
			return true
		}
	}
	return false
}

// DerivativeKey names the blob holding the width-px derivative of key.
func DerivativeKey(key string, width int) string {
	return key + "_" + strconv.Itoa(width)
}

// Thumbnail scales src to width pixels wide, keeping the aspect ratio.  The
// result uses the source encoding for jpeg and gif and png otherwise.
func Thumbnail(src []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel limit", ErrDecode, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrDecode
	}
	height := (b.Dy()*width + b.Dx()/2) / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
