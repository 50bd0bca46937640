// render is a CLI host for the burning ship generator.
// It computes a grid locally, or asks a stream server for it, then colours
// the counts and saves them as an image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marben/burningship"
	"github.com/marben/burningship/internal/hostargs"
	"github.com/marben/burningship/internal/palette"
)

type config struct {
	width, height uint
	viewport      burningship.Viewport
	maxIterations uint
	aspect        bool
	format        string
	output        string
	server        string
	compress      bool
	logLevel      slog.Level
}

func parseFlags(args []string) (config, error) {
	var cfg config
	var region string
	var bounds [4]float64
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.UintVar(&cfg.width, "width", 1200, "image width in pixels")
	fs.UintVar(&cfg.height, "height", 800, "image height in pixels")
	fs.StringVar(&region, "region", "overview", "named region: "+strings.Join(burningship.LandmarkNames(), ", "))
	fs.Float64Var(&bounds[0], "xmin", 0, "left bound, overrides -region")
	fs.Float64Var(&bounds[1], "xmax", 0, "right bound, overrides -region")
	fs.Float64Var(&bounds[2], "ymin", 0, "top bound, overrides -region")
	fs.Float64Var(&bounds[3], "ymax", 0, "bottom bound, overrides -region")
	fs.UintVar(&cfg.maxIterations, "iterations", 256, "iteration cap per pixel (at most 65535)")
	fs.BoolVar(&cfg.aspect, "aspect", true, "widen the x range to match the image aspect ratio")
	fs.StringVar(&cfg.format, "format", "", "png, bmp or tiff (default: from -o extension)")
	fs.StringVar(&cfg.output, "o", "burningship.png", "output file")
	fs.StringVar(&cfg.server, "server", "", "stream server url, e.g. ws://localhost:8080/ws (default: compute locally)")
	fs.BoolVar(&cfg.compress, "compress", false, "ask the server for zstd-compressed frames")
	fs.TextVar(&cfg.logLevel, "log-level", slog.LevelInfo, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	v, ok := burningship.Landmark(region)
	if !ok {
		return cfg, fmt.Errorf("unknown region %q", region)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "xmin":
			v.Xmin = bounds[0]
		case "xmax":
			v.Xmax = bounds[1]
		case "ymin":
			v.Ymin = bounds[2]
		case "ymax":
			v.Ymax = bounds[3]
		}
	})
	cfg.viewport = v

	if _, err := hostargs.Iterations(int64(cfg.maxIterations)); err != nil {
		return cfg, fmt.Errorf("-iterations: %w", err)
	}
	if _, _, err := hostargs.Size(int64(cfg.width), int64(cfg.height)); err != nil || cfg.width == 0 || cfg.height == 0 {
		return cfg, errors.New("-width and -height must be positive 32-bit values")
	}
	if cfg.format == "" {
		cfg.format = strings.TrimPrefix(strings.ToLower(filepath.Ext(cfg.output)), ".")
	}
	if _, ok := encoders[cfg.format]; !ok {
		return cfg, fmt.Errorf("unsupported format %q", cfg.format)
	}
	return cfg, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run renders one image and prints a summary line to out.
func run(args []string, out io.Writer) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	burningship.SetLogger(logger)

	w, h := uint32(cfg.width), uint32(cfg.height)
	v := cfg.viewport
	if cfg.aspect {
		v = v.ExpandToAspect(w, h)
	}
	maxIter := uint16(cfg.maxIterations)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	var src countsSource = localSource{}
	if cfg.server != "" {
		src = remoteSource{url: cfg.server, compress: cfg.compress}
	}
	logger.Info("rendering", "source", src, "width", w, "height", h, "viewport", v, "max_iterations", maxIter)
	counts, maxIter, err := src.counts(ctx, w, h, v, maxIter)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	img := palette.Image(counts, 0, maxIter)
	if err := save(cfg.output, cfg.format, img); err != nil {
		return err
	}
	logger.Info("saved", "file", cfg.output, "format", cfg.format)

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "%s: %d×%d, %d pixels, %d inside, %d iterations max, %v\n",
		cfg.output, w, h, len(counts.Data()), palette.InsideCount(counts, maxIter), maxIter, elapsed.Round(time.Millisecond))
	return nil
}
