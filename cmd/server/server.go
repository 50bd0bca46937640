// server serves burning ship grids to browser and CLI hosts over WebSocket.
// Every connection gets its own grid; the viewport arrives per request.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marben/burningship"
	"github.com/marben/burningship/internal/hostargs"
	"github.com/marben/burningship/internal/stream"
)

type config struct {
	addr          string
	staticDir     string
	maxPixels     int
	maxIterations uint
	logLevel      slog.Level
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.addr, "addr", ":8080", "listen address")
	fs.StringVar(&cfg.staticDir, "static", "./static", "directory served at / (empty disables)")
	fs.IntVar(&cfg.maxPixels, "max-pixels", stream.DefaultMaxPixels, "largest grid a client may open")
	fs.UintVar(&cfg.maxIterations, "max-iterations", stream.DefaultMaxIterations, "iteration cap applied to requests")
	fs.TextVar(&cfg.logLevel, "log-level", slog.LevelInfo, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if _, err := hostargs.Iterations(int64(cfg.maxIterations)); err != nil {
		return cfg, fmt.Errorf("-max-iterations: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	burningship.SetLogger(logger)

	handler := stream.NewHandler(
		stream.WithMaxPixels(cfg.maxPixels),
		stream.WithMaxIterations(uint16(cfg.maxIterations)),
		stream.WithOriginPatterns("*"), // TODO: tighten in prod
		stream.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := webServer(cfg.addr, stream.NewMux(handler, cfg.staticDir))

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.addr, "static", cfg.staticDir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
