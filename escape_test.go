package burningship

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name   string
		x0, y0 float64
		limit  uint16
		want   uint16
	}{
		{"origin never moves", 0, 0, 100, 100},
		{"zero cap", 0.5, 0.5, 0, 0},
		{"period two orbit", -1, 0, 10, 10},
		{"escape after two", 1, 0, 10, 2},
		{"escape after five", 0.5, 0, 10, 5},
		{"escape immediately", -2, 0, 10, 1},
		{"far outside", 3, 0, 10, 1},
		{"upper imaginary escapes", 0, 1, 10, 3},
		{"lower imaginary is bounded", 0, -1, 10, 10},
		{"cap shorter than escape", 0.5, 0, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.x0, tt.y0, tt.limit); got != tt.want {
				t.Errorf("Escape(%v, %v, %d) = %d, want %d", tt.x0, tt.y0, tt.limit, got, tt.want)
			}
		})
	}
}

// The textbook quadratic map is symmetric under y -> -y and keeps c = i
// bounded. Folding through abs breaks both.
func TestEscapeAbsFoldBreaksSymmetry(t *testing.T) {
	up := Escape(0, 1, 10)
	down := Escape(0, -1, 10)
	if up == down {
		t.Fatalf("Escape(0, 1) = Escape(0, -1) = %d, want different counts", up)
	}
}

func TestGenerateZeroIterations(t *testing.T) {
	g := NewGrid(8, 6)
	g.Generate(Overview, 50)
	g.Generate(Overview, 0)
	for i, v := range g.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %d, want 0", i, v)
		}
	}
}

func TestGenerateSinglePixelOrigin(t *testing.T) {
	g := NewGrid(1, 1)
	g.Generate(Viewport{}, 100)
	if got := g.Data()[0]; got != 100 {
		t.Errorf("Data()[0] = %d, want 100", got)
	}
}

func TestGenerateFixtures(t *testing.T) {
	tests := []struct {
		name  string
		w, h  uint32
		v     Viewport
		limit uint16
		want  []uint16
	}{
		{
			name:  "two pixels on the real axis",
			w:     2,
			h:     1,
			v:     Viewport{Xmin: -1, Xmax: 1},
			limit: 10,
			want:  []uint16{10, 10},
		},
		{
			name:  "columns map along x",
			w:     2,
			h:     1,
			v:     Viewport{Xmin: -2, Xmax: 3},
			limit: 10,
			want:  []uint16{1, 5},
		},
		{
			name:  "rows map along y",
			w:     1,
			h:     2,
			v:     Viewport{Ymin: -1, Ymax: 3},
			limit: 10,
			want:  []uint16{10, 3},
		},
		{
			name:  "inverted x range",
			w:     2,
			h:     1,
			v:     Viewport{Xmin: 3, Xmax: -2},
			limit: 10,
			want:  []uint16{1, 5},
		},
		{
			name:  "degenerate viewport",
			w:     3,
			h:     2,
			v:     Viewport{Xmin: 0.5, Xmax: 0.5, Ymin: 0, Ymax: 0},
			limit: 10,
			want:  []uint16{5, 5, 5, 5, 5, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.w, tt.h)
			g.Generate(tt.v, tt.limit)
			got := g.Data()
			if len(got) != len(tt.want) {
				t.Fatalf("len(Data()) = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Data()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateIndexMapping(t *testing.T) {
	const w, h = 7, 5
	v := Viewport{Xmin: -2.2, Xmax: 1.1, Ymin: -1.3, Ymax: 0.9}
	g := NewGrid(w, h)
	g.Generate(v, 64)
	for i := 0; i < h; i++ {
		y0 := v.Ymin + (v.Ymax-v.Ymin)*float64(i)/h
		for j := 0; j < w; j++ {
			x0 := v.Xmin + (v.Xmax-v.Xmin)*float64(j)/w
			if got, want := g.Data()[i*w+j], Escape(x0, y0, 64); got != want {
				t.Errorf("pixel (%d, %d) = %d, want %d", i, j, got, want)
			}
		}
	}
}

func TestGenerateWithinCap(t *testing.T) {
	viewports := []Viewport{Overview, Ship, Armada, {Xmin: -10, Xmax: 10, Ymin: -10, Ymax: 10}}
	for _, v := range viewports {
		for _, limit := range []uint16{1, 7, 255, 1000} {
			g := NewGrid(32, 24)
			g.Generate(v, limit)
			for i, c := range g.Data() {
				if c > limit {
					t.Fatalf("viewport %+v cap %d: Data()[%d] = %d exceeds cap", v, limit, i, c)
				}
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGrid(40, 30)
	b := NewGrid(40, 30)
	a.Generate(Ship, 500)
	b.Generate(Overview, 10)
	b.Generate(Ship, 500)
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("Data()[%d]: %d != %d", i, a.Data()[i], b.Data()[i])
		}
	}
}

func TestGenerateObserver(t *testing.T) {
	var started, finished []GenerateEvent
	g := NewGrid(4, 2, WithObserver(ObserverFuncs{
		Started: func(e GenerateEvent) { started = append(started, e) },
		Finished: func(e GenerateEvent, d time.Duration) {
			if d < 0 {
				t.Errorf("negative duration %v", d)
			}
			finished = append(finished, e)
		},
	}))
	g.Generate(Armada, 33)

	want := GenerateEvent{Width: 4, Height: 2, Viewport: Armada, MaxIterations: 33}
	if len(started) != 1 || started[0] != want {
		t.Errorf("started = %+v, want [%+v]", started, want)
	}
	if len(finished) != 1 || finished[0] != want {
		t.Errorf("finished = %+v, want [%+v]", finished, want)
	}
	if got := want.Pixels(); got != 8 {
		t.Errorf("Pixels() = %d, want 8", got)
	}
}

func TestGenerateObserverDoesNotChangeResult(t *testing.T) {
	plain := NewGrid(10, 10)
	observed := NewGrid(10, 10, WithObserver(ObserverFuncs{}))
	plain.Generate(Overview, 80)
	observed.Generate(Overview, 80)
	for i := range plain.Data() {
		if plain.Data()[i] != observed.Data()[i] {
			t.Fatalf("Data()[%d]: %d != %d", i, plain.Data()[i], observed.Data()[i])
		}
	}
}

func TestGenerateLogs(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	NewGrid(2, 2).Generate(Overview, 5)

	out := buf.String()
	for _, msg := range []string{"msg=generating", "msg=done"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output missing %q: %s", msg, out)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	g := NewGrid(320, 240)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Generate(Ship, 256)
	}
}
