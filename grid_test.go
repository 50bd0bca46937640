package burningship

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"
)

func TestNewGridZeroFilled(t *testing.T) {
	sizes := []struct{ w, h uint32 }{
		{1, 1}, {2, 1}, {1, 7}, {16, 9}, {640, 480},
	}
	for _, s := range sizes {
		g := NewGrid(s.w, s.h)
		if got, want := g.DataLen(), int(s.w*s.h); got != want {
			t.Errorf("NewGrid(%d, %d).DataLen() = %d, want %d", s.w, s.h, got, want)
		}
		if len(g.Data()) != g.DataLen() {
			t.Errorf("NewGrid(%d, %d): len(Data()) = %d, DataLen() = %d", s.w, s.h, len(g.Data()), g.DataLen())
		}
		for i, v := range g.Data() {
			if v != 0 {
				t.Fatalf("NewGrid(%d, %d): Data()[%d] = %d, want 0", s.w, s.h, i, v)
			}
		}
	}
}

func TestNewGridEmpty(t *testing.T) {
	for _, s := range []struct{ w, h uint32 }{{0, 0}, {0, 5}, {5, 0}} {
		g := NewGrid(s.w, s.h)
		if g.DataLen() != 0 {
			t.Errorf("NewGrid(%d, %d).DataLen() = %d, want 0", s.w, s.h, g.DataLen())
		}
		if g.DataPtr() != nil {
			t.Errorf("NewGrid(%d, %d).DataPtr() = %p, want nil", s.w, s.h, g.DataPtr())
		}
		if g.Bytes() != nil {
			t.Errorf("NewGrid(%d, %d).Bytes() = %v, want nil", s.w, s.h, g.Bytes())
		}
		// Must not panic.
		g.Generate(Overview, 50)
	}
}

func TestGridLen(t *testing.T) {
	tests := []struct {
		w, h uint32
		want uint64
	}{
		{0, 0, 0},
		{3, 5, 15},
		{65536, 32768, 1 << 31},
	}
	for _, tt := range tests {
		n, ok := gridLen(tt.w, tt.h)
		if tt.want > math.MaxInt {
			if ok {
				t.Errorf("gridLen(%d, %d) = %d, ok on a 32-bit int", tt.w, tt.h, n)
			}
			continue
		}
		if !ok || uint64(n) != tt.want {
			t.Errorf("gridLen(%d, %d) = %d, %v; want %d, true", tt.w, tt.h, n, ok, tt.want)
		}
	}

	n, ok := gridLen(math.MaxUint32, math.MaxUint32)
	if math.MaxInt == math.MaxInt32 {
		if ok {
			t.Errorf("gridLen(max, max) = %d, ok on a 32-bit int", n)
		}
	} else if !ok || uint64(n) != uint64(math.MaxUint32)*math.MaxUint32 {
		t.Errorf("gridLen(max, max) = %d, %v", n, ok)
	}
}

func TestDataPtrAliasesBuffer(t *testing.T) {
	g := NewGrid(4, 3)
	g.Generate(Overview, 20)

	view := unsafe.Slice((*uint16)(g.DataPtr()), g.DataLen())
	for i, v := range g.Data() {
		if view[i] != v {
			t.Fatalf("view[%d] = %d, want %d", i, view[i], v)
		}
	}

	// The address is stable across generations.
	before := g.DataPtr()
	g.Generate(Ship, 30)
	if g.DataPtr() != before {
		t.Error("DataPtr changed after Generate")
	}
	if view[5] != g.Data()[5] {
		t.Errorf("view not updated in place: got %d, want %d", view[5], g.Data()[5])
	}
}

func TestBytesNativeOrder(t *testing.T) {
	g := NewGrid(5, 4)
	g.Generate(Overview, 300)

	b := g.Bytes()
	if len(b) != 2*g.DataLen() {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), 2*g.DataLen())
	}
	for i, v := range g.Data() {
		if got := binary.NativeEndian.Uint16(b[2*i:]); got != v {
			t.Errorf("Bytes() count %d = %d, want %d", i, got, v)
		}
	}
}

func TestAtRowMajor(t *testing.T) {
	g := NewGrid(3, 2)
	g.Generate(Viewport{Xmin: -2, Xmax: 1, Ymin: -1, Ymax: 1}, 40)
	for row := uint32(0); row < 2; row++ {
		for col := uint32(0); col < 3; col++ {
			if got, want := g.At(col, row), g.Data()[row*3+col]; got != want {
				t.Errorf("At(%d, %d) = %d, want %d", col, row, got, want)
			}
		}
	}
}

func TestAtOutOfRangePanics(t *testing.T) {
	g := NewGrid(2, 2)
	defer func() {
		if recover() == nil {
			t.Error("At(2, 0) did not panic")
		}
	}()
	g.At(2, 0)
}
