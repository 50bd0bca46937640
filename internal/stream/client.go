package stream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marben/burningship/internal/frame"
)

// ErrUnexpectedMessage is returned when the server answers with a text message.
var ErrUnexpectedMessage = errors.New("stream: unexpected message type")

// Client is one session with a stream server. Calls must not overlap.
type Client struct {
	conn   *websocket.Conn
	width  uint32
	height uint32
}

// Dial opens a session for a width×height grid. rawURL points at the
// server's /ws endpoint, with a ws, wss, http or https scheme.
func Dial(ctx context.Context, rawURL string, width, height uint32) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("width", strconv.FormatUint(uint64(width), 10))
	q.Set("height", strconv.FormatUint(uint64(height), 10))
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", u.Redacted(), resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}
	conn.SetReadLimit(frame.MaxEncodedLen(width, height))

	return &Client{conn: conn, width: width, height: height}, nil
}

// Render asks the server to generate req and returns the decoded frame.
func (c *Client) Render(ctx context.Context, req Request) (*frame.Frame, error) {
	if err := wsjson.Write(ctx, c.conn, req); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	typ, b, err := c.conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	if typ != websocket.MessageBinary {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedMessage, typ)
	}
	h, _, err := frame.DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	if h.Width != c.width || h.Height != c.height {
		return nil, fmt.Errorf("%w: got %dx%d, dialled %dx%d",
			frame.ErrSizeMismatch, h.Width, h.Height, c.width, c.height)
	}
	return frame.Decode(b)
}

// Close ends the session.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
