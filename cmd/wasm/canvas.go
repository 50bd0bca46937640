//go:build js && wasm

package main

import (
	"context"
	"log/slog"
	"syscall/js"

	"github.com/marben/burningship"
	"github.com/marben/burningship/internal/palette"
)

const overviewIterations = 50

// paintOverview generates the overview at the canvas size and draws it.
func paintOverview(canvas js.Value) {
	w := uint32(canvas.Get("width").Int())
	h := uint32(canvas.Get("height").Int())
	grid := burningship.NewGrid(w, h)
	grid.Generate(burningship.Overview.ExpandToAspect(w, h), overviewIterations)

	img := palette.Image(grid, 0, overviewIterations)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	imageData := js.Global().Get("ImageData").New(jsData, int(w), int(h))
	canvas.Call("getContext", "2d").Call("putImageData", imageData, 0, 0)
}

func logConsole(msg string) {
	js.Global().Get("console").Call("log", msg)
}

// consoleHandler sends slog records to the browser console.
type consoleHandler struct {
	level slog.Level
	attrs []slog.Attr
}

func (h consoleHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h consoleHandler) Handle(_ context.Context, r slog.Record) error {
	args := []any{r.Level.String(), r.Message}
	for _, a := range h.attrs {
		args = append(args, a.Key, a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		args = append(args, a.Key, a.Value.String())
		return true
	})
	js.Global().Get("console").Call("log", args...)
	return nil
}

func (h consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return h
}

func (h consoleHandler) WithGroup(string) slog.Handler { return h }
