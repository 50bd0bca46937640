//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/marben/burningship"
	"github.com/marben/burningship/internal/hostargs"
)

func jsError(format string, a ...any) js.Value {
	return js.Global().Get("Error").New(fmt.Sprintf(format, a...))
}

// newGenerator is the JS entry point newGenerator(width, height).
// The returned object holds the only reference to its grid; free releases
// the object's callbacks and with them the grid buffer.
func newGenerator(_ js.Value, args []js.Value) any {
	if len(args) != 2 {
		return jsError("newGenerator: want 2 arguments, got %d", len(args))
	}
	w, h, err := hostargs.Size(int64(args[0].Int()), int64(args[1].Int()))
	if err != nil {
		return jsError("newGenerator: %v", err)
	}
	return bindGrid(burningship.NewGrid(w, h))
}

func bindGrid(grid *burningship.Grid) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("width", grid.Width())
	obj.Set("height", grid.Height())

	var generate, dataPtr, dataLen, free js.Func
	generate = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if grid == nil {
			return jsError("generate: generator already freed")
		}
		if len(args) != 5 {
			return jsError("generate: want 5 arguments, got %d", len(args))
		}
		maxIter, err := hostargs.Iterations(int64(args[4].Int()))
		if err != nil {
			return jsError("generate: %v", err)
		}
		v := burningship.Viewport{
			Xmin: args[0].Float(),
			Xmax: args[1].Float(),
			Ymin: args[2].Float(),
			Ymax: args[3].Float(),
		}
		grid.Generate(v, maxIter)
		return nil
	})
	dataPtr = js.FuncOf(func(js.Value, []js.Value) any {
		if grid == nil {
			return 0
		}
		// Go's collector does not move objects, so the address stays valid
		// until free is called.
		return uintptr(grid.DataPtr())
	})
	dataLen = js.FuncOf(func(js.Value, []js.Value) any {
		if grid == nil {
			return 0
		}
		return grid.DataLen()
	})
	free = js.FuncOf(func(js.Value, []js.Value) any {
		if grid == nil {
			return nil
		}
		grid = nil
		for _, name := range []string{"generate", "dataPtr", "dataLen", "free"} {
			obj.Delete(name)
		}
		generate.Release()
		dataPtr.Release()
		dataLen.Release()
		free.Release()
		return nil
	})

	obj.Set("generate", generate)
	obj.Set("dataPtr", dataPtr)
	obj.Set("dataLen", dataLen)
	obj.Set("free", free)
	return obj
}
