package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var encoders = map[string]func(io.Writer, image.Image) error{
	"png": png.Encode,
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	},
	"tif": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	},
}

// save encodes img in format and writes it to path.
func save(path, format string, img image.Image) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unsupported format %q", format)
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := enc(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return f.Close()
}
