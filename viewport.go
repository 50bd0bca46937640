package burningship

import "sort"

// Viewport is the region of the plane mapped onto a grid.
// It is a transient parameter: grids never retain it between calls.
type Viewport struct {
	Xmin float64 `json:"xMin"`
	Xmax float64 `json:"xMax"`
	Ymin float64 `json:"yMin"`
	Ymax float64 `json:"yMax"`
}

// Landmarks of the burning ship fractal.
// With the y axis pointing down the grid, the ship sits upright.
var (
	// Overview – the whole fractal, as the browser host opens it
	Overview = Viewport{
		Xmin: -3,
		Xmax: 0,
		Ymin: -0.5,
		Ymax: 0.5,
	}

	// Ship – the large hull and masts left of the main body
	Ship = Viewport{
		Xmin: -1.80,
		Xmax: -1.70,
		Ymin: -0.09,
		Ymax: 0.01,
	}

	// Armada – a fleet of small ships along the real axis
	Armada = Viewport{
		Xmin: -1.7650,
		Xmax: -1.7550,
		Ymin: -0.0500,
		Ymax: -0.0400,
	}
)

var landmarks = map[string]Viewport{
	"overview": Overview,
	"ship":     Ship,
	"armada":   Armada,
}

// Landmark looks up a named viewport.
func Landmark(name string) (Viewport, bool) {
	v, ok := landmarks[name]
	return v, ok
}

// LandmarkNames returns the known landmark names in sorted order.
func LandmarkNames() []string {
	names := make([]string, 0, len(landmarks))
	for n := range landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() (x, y float64) {
	return (v.Xmin + v.Xmax) / 2, (v.Ymin + v.Ymax) / 2
}

// ExpandToAspect widens or narrows the x range around its centre so that
// the viewport has the same aspect ratio as a width×height grid.
// A zero height leaves v unchanged.
func (v Viewport) ExpandToAspect(width, height uint32) Viewport {
	if height == 0 {
		return v
	}
	aspect := float64(width) / float64(height)
	xRange := v.Xmax - v.Xmin
	yRange := v.Ymax - v.Ymin
	half := (yRange*aspect - xRange) / 2
	v.Xmin -= half
	v.Xmax += half
	return v
}

// Pan shifts the viewport by dx, dy in plane units.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.Xmin += dx
	v.Xmax += dx
	v.Ymin += dy
	v.Ymax += dy
	return v
}

// Zoom scales the viewport about its centre.
// A factor above 1 zooms in; a factor of 0 or less leaves v unchanged.
func (v Viewport) Zoom(factor float64) Viewport {
	if factor <= 0 {
		return v
	}
	cx, cy := v.Center()
	hw := (v.Xmax - v.Xmin) / 2 / factor
	hh := (v.Ymax - v.Ymin) / 2 / factor
	return Viewport{
		Xmin: cx - hw,
		Xmax: cx + hw,
		Ymin: cy - hh,
		Ymax: cy + hh,
	}
}
