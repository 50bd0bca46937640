package burningship

import (
	"fmt"
	"math"
	"unsafe"
)

// Grid owns a dense row-major buffer of escape counts, one per pixel.
//
// The buffer is allocated once by NewGrid and rewritten in full by every
// Generate call. Data, Bytes and DataPtr hand out borrowed views of that
// buffer without copying: a view is valid while the Grid is reachable and
// must not be read while a Generate call on the same Grid is in flight.
// Grid has no internal locking.
type Grid struct {
	width  uint32
	height uint32
	data   []uint16

	observer Observer
}

// GridOption configures a Grid during creation.
type GridOption func(*Grid)

// WithObserver attaches instrumentation hooks that run at the start and
// end of every Generate call. Observers cannot change the result.
func WithObserver(o Observer) GridOption {
	return func(g *Grid) {
		g.observer = o
	}
}

// NewGrid allocates a zero-filled width×height grid.
// A zero width or height yields a valid, empty grid.
//
// It panics if width*height does not fit in an int, which can only happen
// on 32-bit platforms.
func NewGrid(width, height uint32, opts ...GridOption) *Grid {
	n, ok := gridLen(width, height)
	if !ok {
		panic(fmt.Sprintf("burningship: %dx%d grid exceeds addressable memory", width, height))
	}
	g := &Grid{
		width:  width,
		height: height,
		data:   make([]uint16, n),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// gridLen returns width*height as an int, or false if the count does not
// fit in an int.
func gridLen(width, height uint32) (int, bool) {
	n := uint64(width) * uint64(height)
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// Width returns the grid width in pixels.
func (g *Grid) Width() uint32 {
	return g.width
}

// Height returns the grid height in pixels.
func (g *Grid) Height() uint32 {
	return g.height
}

// Data returns the counts in row-major order. The slice aliases the grid
// buffer and must be treated as read-only.
func (g *Grid) Data() []uint16 {
	return g.data
}

// DataPtr returns the address of the first count, or nil for an empty grid.
// Together with DataLen it lets a foreign reader build a typed view over the
// buffer without copying.
func (g *Grid) DataPtr() unsafe.Pointer {
	if len(g.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&g.data[0])
}

// DataLen returns the number of counts, width*height.
func (g *Grid) DataLen() int {
	return len(g.data)
}

// Bytes returns the buffer reinterpreted as bytes in host byte order,
// two bytes per count. Like Data, it aliases the grid buffer.
func (g *Grid) Bytes() []byte {
	if len(g.data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&g.data[0])), len(g.data)*2)
}

// At returns the count at column col of row row.
// It panics if the coordinate is outside the grid.
func (g *Grid) At(col, row uint32) uint16 {
	if col >= g.width || row >= g.height {
		panic("burningship: pixel out of range")
	}
	return g.data[int(row)*int(g.width)+int(col)]
}
