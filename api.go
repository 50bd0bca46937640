package burningship

// Generator recomputes escape counts for a viewport.
type Generator interface {
	Generate(v Viewport, maxIterations uint16)
}

// Counts is a row-major, width*height block of escape counts.
// Both a local Grid and a decoded network frame satisfy it, so hosts
// colour and encode them the same way.
type Counts interface {
	Width() uint32
	Height() uint32
	Data() []uint16
}

var (
	_ Generator = (*Grid)(nil)
	_ Counts    = (*Grid)(nil)
)
