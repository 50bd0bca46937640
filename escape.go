package burningship

import (
	"math"
	"time"
)

// Escape returns the number of iterations the point (x0, y0) survives
// before x²+y² reaches 4, capped at maxIterations.
//
// Both coordinates are folded through abs before they are squared on the
// next step. A result equal to maxIterations means the point did not escape.
func Escape(x0, y0 float64, maxIterations uint16) uint16 {
	var x, y, x2, y2 float64
	var iteration uint16
	for x2+y2 < 4.0 && iteration < maxIterations {
		xtemp := math.Abs(x2 - y2 + x0)
		ytemp := math.Abs(2*x*y + y0)
		x = xtemp
		y = ytemp
		x2 = x * x
		y2 = y * y
		iteration++
	}
	return iteration
}

// Generate recomputes every count in the grid for viewport v.
//
// Pixel (row i, column j) maps to
//
//	x0 = Xmin + (Xmax-Xmin)*j/width
//	y0 = Ymin + (Ymax-Ymin)*i/height
//
// Degenerate or inverted viewports are not errors. Generate runs on the
// calling goroutine and returns once every slot has been written.
func (g *Grid) Generate(v Viewport, maxIterations uint16) {
	ev := GenerateEvent{
		Width:         g.width,
		Height:        g.height,
		Viewport:      v,
		MaxIterations: maxIterations,
	}
	log := Logger()
	log.Debug("generating", "width", g.width, "height", g.height, "max_iterations", maxIterations)
	if g.observer != nil {
		g.observer.GenerateStarted(ev)
	}
	start := time.Now()

	width := int(g.width)
	height := int(g.height)
	fw := float64(g.width)
	fh := float64(g.height)
	xDiff := v.Xmax - v.Xmin
	yDiff := v.Ymax - v.Ymin
	for i := 0; i < height; i++ {
		y0 := v.Ymin + yDiff*float64(i)/fh
		row := g.data[i*width : (i+1)*width]
		for j := range row {
			x0 := v.Xmin + xDiff*float64(j)/fw
			row[j] = Escape(x0, y0, maxIterations)
		}
	}

	elapsed := time.Since(start)
	if g.observer != nil {
		g.observer.GenerateFinished(ev, elapsed)
	}
	log.Debug("done", "elapsed", elapsed)
}
