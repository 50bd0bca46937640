package main

import (
	"context"
	"fmt"

	"github.com/marben/burningship"
	"github.com/marben/burningship/internal/stream"
)

// countsSource produces one grid of counts. It returns the iteration cap
// actually applied, which a server may lower.
type countsSource interface {
	counts(ctx context.Context, w, h uint32, v burningship.Viewport, maxIter uint16) (burningship.Counts, uint16, error)
}

type localSource struct{}

func (localSource) counts(_ context.Context, w, h uint32, v burningship.Viewport, maxIter uint16) (burningship.Counts, uint16, error) {
	g := burningship.NewGrid(w, h)
	g.Generate(v, maxIter)
	return g, maxIter, nil
}

func (localSource) String() string { return "local" }

type remoteSource struct {
	url      string
	compress bool
}

func (s remoteSource) counts(ctx context.Context, w, h uint32, v burningship.Viewport, maxIter uint16) (burningship.Counts, uint16, error) {
	c, err := stream.Dial(ctx, s.url, w, h)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer c.Close()

	f, err := c.Render(ctx, stream.Request{Viewport: v, MaxIterations: maxIter, Compress: s.compress})
	if err != nil {
		return nil, 0, fmt.Errorf("render on %s: %w", s.url, err)
	}
	return f, f.MaxIterations, nil
}

func (s remoteSource) String() string { return s.url }
