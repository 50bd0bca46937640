// Package stream serves generated grids to interactive hosts over WebSocket.
//
// A host connects to /ws?width=W&height=H. The server allocates one grid of
// that size for the connection, then answers every JSON Request read from
// the socket with one binary frame (see package frame) holding the counts
// for the requested viewport.
package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marben/burningship"
	"github.com/marben/burningship/internal/frame"
)

const (
	DefaultMaxPixels     = 4096 * 4096
	DefaultMaxIterations = 5000
)

// Request asks for one generation on the connection's grid.
type Request struct {
	Viewport      burningship.Viewport `json:"viewport"`
	MaxIterations uint16               `json:"maxIterations"`
	Compress      bool                 `json:"compress,omitempty"`
}

// Handler upgrades /ws requests and runs one generation session per
// connection. It is safe for concurrent use.
type Handler struct {
	maxPixels      int
	maxIterations  uint16
	originPatterns []string
	logger         *slog.Logger

	sessions int
	m        sync.Mutex
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxPixels limits width*height of a connection's grid.
func WithMaxPixels(n int) Option {
	return func(h *Handler) {
		h.maxPixels = n
	}
}

// WithMaxIterations caps the iteration count a client may request.
// Larger requests are clamped, not rejected.
func WithMaxIterations(n uint16) Option {
	return func(h *Handler) {
		h.maxIterations = n
	}
}

// WithOriginPatterns sets the cross-origin patterns accepted on upgrade.
func WithOriginPatterns(patterns ...string) Option {
	return func(h *Handler) {
		h.originPatterns = patterns
	}
}

// WithLogger sets the handler's logger. It defaults to burningship.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// NewHandler returns a Handler with the given options applied.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		maxPixels:     DefaultMaxPixels,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = burningship.Logger()
	}
	return h
}

// Sessions returns the number of connections currently being served.
func (h *Handler) Sessions() int {
	h.m.Lock()
	defer h.m.Unlock()
	return h.sessions
}

func (h *Handler) incSessions() {
	h.m.Lock()
	h.sessions++
	n := h.sessions
	h.m.Unlock()

	h.logger.Info("session opened", "sessions", n)
}

func (h *Handler) decSessions() {
	h.m.Lock()
	h.sessions--
	n := h.sessions
	h.m.Unlock()

	h.logger.Info("session closed", "sessions", n)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	width, height, err := h.dimensions(r)
	if err != nil {
		h.logger.Warn("rejected session", "remote", r.RemoteAddr, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer c.CloseNow()

	h.incSessions()
	defer h.decSessions()

	err = h.serve(r, c, width, height)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return
	}
	if err != nil {
		h.logger.Warn("session ended", "remote", r.RemoteAddr, "err", err)
	}
}

func (h *Handler) dimensions(r *http.Request) (width, height uint32, err error) {
	q := r.URL.Query()
	w, err := strconv.ParseUint(q.Get("width"), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	hh, err := strconv.ParseUint(q.Get("height"), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w == 0 || hh == 0 {
		return 0, 0, errors.New("width and height must be positive")
	}
	if w*hh > uint64(h.maxPixels) {
		return 0, 0, fmt.Errorf("%dx%d exceeds %d pixels", w, hh, h.maxPixels)
	}
	return uint32(w), uint32(hh), nil
}

// serve runs the request loop until the client goes away.
func (h *Handler) serve(r *http.Request, c *websocket.Conn, width, height uint32) error {
	ctx := r.Context()
	log := h.logger.With("remote", r.RemoteAddr)
	grid := burningship.NewGrid(width, height, burningship.WithObserver(burningship.ObserverFuncs{
		Finished: func(e burningship.GenerateEvent, d time.Duration) {
			log.Debug("generated", "pixels", e.Pixels(), "max_iterations", e.MaxIterations, "elapsed", d)
		},
	}))
	log.Info("grid allocated", "width", width, "height", height)

	for {
		var req Request
		if err := wsjson.Read(ctx, c, &req); err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		maxIter := req.MaxIterations
		if maxIter > h.maxIterations {
			log.Warn("clamped iterations", "requested", maxIter, "cap", h.maxIterations)
			maxIter = h.maxIterations
		}

		grid.Generate(req.Viewport, maxIter)

		b, err := frame.Encode(grid, req.Viewport, maxIter, frame.EncodeOptions{Compress: req.Compress})
		if err != nil {
			c.Close(websocket.StatusInternalError, "encode failed")
			return fmt.Errorf("frame.Encode: %w", err)
		}
		if err := c.Write(ctx, websocket.MessageBinary, b); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
}

// NewMux routes /ws to h and, when staticDir is not empty, serves the
// browser host's files from staticDir at /.
func NewMux(h http.Handler, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}
