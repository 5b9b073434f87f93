// Package color finds the dominant colour of an image, ignoring near-white and near-black background pixels. It is
// used to pick a brand colour from an uploaded logo.
package color

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/image/draw"
)

// ErrNoColor is returned when every pixel was filtered out as background.
var ErrNoColor = errors.New("no color found")

// Options controls sampling and background filtering.
type Options struct {
	// Size is the width and height the image is scaled to before counting.
	Size int

	// A pixel is near-white when all channels are above WhiteThreshold.
	WhiteThreshold uint8

	// A pixel is near-black when all channels are below BlackThreshold.
	BlackThreshold uint8
}

var DefaultOptions = Options{
	Size:           50,
	WhiteThreshold: 240,
	BlackThreshold: 20,
}

// Dominant returns the most frequent colour of img after scaling and background filtering. Ties go to the colour seen
// first in row-major order. The bool is false when no pixel remains.
func Dominant(img image.Image, opts Options) (color.RGBA, bool) {
	size := opts.Size
	if size <= 0 {
		size = DefaultOptions.Size
	}

	// NRGBA keeps straight channels, so partly transparent pixels keep their colour
	scaled := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	counts := make(map[color.RGBA]int)
	var order []color.RGBA
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := scaled.NRGBAAt(x, y)
			// alpha is discarded, matching a plain RGB conversion
			c := color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
			if isBackground(c, opts) {
				continue
			}
			if counts[c] == 0 {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	if len(order) == 0 {
		return color.RGBA{}, false
	}
	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

func isBackground(c color.RGBA, opts Options) bool {
	white := c.R > opts.WhiteThreshold && c.G > opts.WhiteThreshold && c.B > opts.WhiteThreshold
	black := c.R < opts.BlackThreshold && c.G < opts.BlackThreshold && c.B < opts.BlackThreshold
	return white || black
}

// DominantFile decodes the image at path and returns its dominant colour.
func DominantFile(path string, opts Options) (color.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return color.RGBA{}, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("decoding image %s: %w", path, err)
	}
	c, ok := Dominant(img, opts)
	if !ok {
		return color.RGBA{}, fmt.Errorf("%s image %s: %w", format, path, ErrNoColor)
	}
	return c, nil
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
