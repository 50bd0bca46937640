// Package palette maps escape counts to colours for display hosts.
package palette

import (
	"image"
	"image/color"
	"math"

	"github.com/marben/burningship"
)

// Inside is the colour of points that never escaped.
var Inside = color.RGBA{A: 255}

// Rainbow maps count onto a hue wheel between lo and hi.
// Counts at or above hi are Inside; counts below lo clamp to lo.
func Rainbow(count, lo, hi uint16) color.RGBA {
	if count >= hi {
		return Inside
	}
	if count <= lo {
		return wheel(0)
	}
	t := float64(count-lo) / float64(hi-lo)
	// Stop short of a full turn so the last band is not red again.
	return wheel(t * 0.85)
}

// Image paints c into a new RGBA image with Rainbow.
func Image(c burningship.Counts, lo, hi uint16) *image.RGBA {
	w, h := int(c.Width()), int(c.Height())
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	data := c.Data()
	for i, n := range data {
		col := Rainbow(n, lo, hi)
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = col.R
		p[1] = col.G
		p[2] = col.B
		p[3] = col.A
	}
	return img
}

// InsideCount returns how many points reached maxIterations.
func InsideCount(c burningship.Counts, maxIterations uint16) int {
	n := 0
	for _, v := range c.Data() {
		if v >= maxIterations {
			n++
		}
	}
	return n
}

// wheel returns the fully saturated colour at hue, measured in turns.
// Each channel ramps linearly between its two neighbouring primaries.
func wheel(hue float64) color.RGBA {
	channel := func(n float64) uint8 {
		k := math.Mod(n+hue*6, 6)
		return uint8(math.Round(255 * (1 - max(0, min(k, 4-k, 1)))))
	}
	return color.RGBA{R: channel(5), G: channel(3), B: channel(1), A: 255}
}
