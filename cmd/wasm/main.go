//go:build js && wasm

// wasm exposes the burning ship generator to JavaScript.
//
// After the Go runtime starts, the page calls
//
//	const gen = newGenerator(width, height);
//	gen.generate(xMin, xMax, yMin, yMax, maxIterations);
//	const counts = new Uint16Array(go._inst.exports.mem.buffer, gen.dataPtr(), gen.dataLen());
//
// and reads the counts straight out of Go's linear memory. The view must be
// rebuilt after any call that may grow memory, generate included.
//
// The generator lives until the page calls
//
//	gen.free();
//
// which releases its callbacks and lets the runtime reclaim the grid. Views
// over dataPtr/dataLen are invalid after free; a freed generator reports
// a zero pointer and length, and generate returns an Error.
//
// When the page has a canvas with id "fractal-canvas", main also paints the
// overview into it so the build can be checked without any host script.
package main

import (
	"log/slog"
	"syscall/js"

	"github.com/marben/burningship"
)

func main() {
	burningship.SetLogger(slog.New(consoleHandler{level: slog.LevelDebug}))

	js.Global().Set("newGenerator", js.FuncOf(newGenerator))
	logConsole("newGenerator registered")

	if canvas := js.Global().Get("document").Call("getElementById", "fractal-canvas"); canvas.Truthy() {
		paintOverview(canvas)
		logConsole("overview painted")
	}

	// Keep the runtime alive for callbacks.
	select {}
}
