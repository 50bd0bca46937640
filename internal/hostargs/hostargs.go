// Package hostargs validates grid sizes and iteration caps that arrive from
// outside Go: command-line flags and JavaScript numbers.
package hostargs

import (
	"fmt"
	"math"
)

// Iterations converts n to an iteration cap, rejecting values outside
// [0, 65535] instead of wrapping them.
func Iterations(n int64) (uint16, error) {
	if n < 0 || n > math.MaxUint16 {
		return 0, fmt.Errorf("iterations %d outside [0, %d]", n, math.MaxUint16)
	}
	return uint16(n), nil
}

// Size converts w and h to grid dimensions. Zero is allowed; negative or
// wider-than-32-bit values are not.
func Size(w, h int64) (uint32, uint32, error) {
	if w < 0 || h < 0 || w > math.MaxUint32 || h > math.MaxUint32 {
		return 0, 0, fmt.Errorf("size %dx%d outside [0, %d]", w, h, uint32(math.MaxUint32))
	}
	return uint32(w), uint32(h), nil
}
