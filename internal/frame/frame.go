// Package frame is the binary wire format for a generated grid.
//
// A frame is a fixed little-endian header followed by the counts payload:
//
//	magic    [4]byte  "BSF1"
//	version  uint8
//	flags    uint8    FlagZstd, FlagBigEndian
//	width    uint32
//	height   uint32
//	maxIter  uint16
//	xmin..ymax float64 ×4
//	length   uint32   payload bytes that follow
//	payload  []byte
//
// The payload is the grid buffer as the encoder holds it in memory, so it
// is in the encoder's byte order; FlagBigEndian records which order that is.
// With FlagZstd the payload is zstd-compressed.
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/marben/burningship"
)

const (
	magic      = "BSF1"
	version    = 1
	headerSize = 4 + 1 + 1 + 4 + 4 + 2 + 4*8 + 4

	// maxCounts keeps 2*counts addressable on every platform.
	maxCounts        = math.MaxInt / 2
	maxDecoderMemory = 1 << 32
)

// Flags describe how the payload is stored.
type Flags uint8

const (
	FlagZstd Flags = 1 << iota
	FlagBigEndian
)

var (
	ErrBadMagic      = errors.New("frame: bad magic")
	ErrVersion       = errors.New("frame: unsupported version")
	ErrShortFrame    = errors.New("frame: short frame")
	ErrSizeMismatch  = errors.New("frame: payload size does not match dimensions")
	ErrTrailingBytes = errors.New("frame: trailing bytes after payload")
	ErrUnknownFlags  = errors.New("frame: unknown flags")
)

// Header carries everything needed to interpret the payload.
type Header struct {
	Width         uint32
	Height        uint32
	MaxIterations uint16
	Viewport      burningship.Viewport
	Flags         Flags
}

// Frame is a decoded grid. It satisfies burningship.Counts.
type Frame struct {
	Header
	Counts []uint16
}

func (f *Frame) Width() uint32  { return f.Header.Width }
func (f *Frame) Height() uint32 { return f.Header.Height }
func (f *Frame) Data() []uint16 { return f.Counts }

var _ burningship.Counts = (*Frame)(nil)

// MaxEncodedLen bounds the size of an encoded width×height frame,
// compressed or not. Readers use it as a message size limit.
func MaxEncodedLen(width, height uint32) int64 {
	raw := 2 * int64(width) * int64(height)
	return headerSize + raw + raw/255 + 1024
}

// EncodeOptions controls payload encoding.
type EncodeOptions struct {
	Compress bool
}

// hostFlags is FlagBigEndian on big-endian hosts and zero otherwise.
var hostFlags = func() Flags {
	var one [2]byte
	binary.NativeEndian.PutUint16(one[:], 1)
	if one[0] == 0 {
		return FlagBigEndian
	}
	return 0
}()

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecoderMemory))
		return dec
	},
}

// Encode serialises g, which was last generated for v with maxIterations.
// The grid buffer is read in place through Grid.Bytes.
func Encode(g *burningship.Grid, v burningship.Viewport, maxIterations uint16, opts EncodeOptions) ([]byte, error) {
	payload := g.Bytes()
	flags := hostFlags
	if opts.Compress {
		enc := zstdEncPool.Get().(*zstd.Encoder)
		payload = enc.EncodeAll(payload, nil)
		zstdEncPool.Put(enc)
		flags |= FlagZstd
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("frame: payload of %d bytes too large", len(payload))
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	buf.WriteString(magic)
	buf.WriteByte(version)
	buf.WriteByte(byte(flags))

	le := binary.LittleEndian
	var scratch [8]byte
	le.PutUint32(scratch[:4], g.Width())
	buf.Write(scratch[:4])
	le.PutUint32(scratch[:4], g.Height())
	buf.Write(scratch[:4])
	le.PutUint16(scratch[:2], maxIterations)
	buf.Write(scratch[:2])
	for _, f := range []float64{v.Xmin, v.Xmax, v.Ymin, v.Ymax} {
		le.PutUint64(scratch[:], math.Float64bits(f))
		buf.Write(scratch[:])
	}
	le.PutUint32(scratch[:4], uint32(len(payload)))
	buf.Write(scratch[:4])
	buf.Write(payload)

	burningship.Logger().Debug("frame encoded",
		"width", g.Width(), "height", g.Height(),
		"raw_bytes", 2*g.DataLen(), "payload_bytes", len(payload))
	return buf.Bytes(), nil
}

// DecodeHeader parses the header and returns it with the raw payload.
func DecodeHeader(b []byte) (Header, []byte, error) {
	var h Header
	if len(b) < headerSize {
		return h, nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(b))
	}
	if string(b[:4]) != magic {
		return h, nil, ErrBadMagic
	}
	if b[4] != version {
		return h, nil, fmt.Errorf("%w: %d", ErrVersion, b[4])
	}
	h.Flags = Flags(b[5])
	if h.Flags&^(FlagZstd|FlagBigEndian) != 0 {
		return h, nil, fmt.Errorf("%w: %#x", ErrUnknownFlags, uint8(h.Flags))
	}

	le := binary.LittleEndian
	off := 6
	h.Width = le.Uint32(b[off:])
	off += 4
	h.Height = le.Uint32(b[off:])
	off += 4
	h.MaxIterations = le.Uint16(b[off:])
	off += 2
	bounds := make([]float64, 4)
	for i := range bounds {
		bounds[i] = math.Float64frombits(le.Uint64(b[off:]))
		off += 8
	}
	h.Viewport = burningship.Viewport{Xmin: bounds[0], Xmax: bounds[1], Ymin: bounds[2], Ymax: bounds[3]}
	n := int(le.Uint32(b[off:]))
	off += 4

	rest := b[off:]
	if len(rest) < n {
		return h, nil, fmt.Errorf("%w: payload wants %d bytes, have %d", ErrShortFrame, n, len(rest))
	}
	if len(rest) > n {
		return h, nil, fmt.Errorf("%w: %d", ErrTrailingBytes, len(rest)-n)
	}
	return h, rest, nil
}

// Decode parses a frame produced by Encode on any host.
func Decode(b []byte) (*Frame, error) {
	h, payload, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}

	want := uint64(h.Width) * uint64(h.Height)
	if want > maxCounts {
		return nil, fmt.Errorf("%w: %dx%d is too large", ErrSizeMismatch, h.Width, h.Height)
	}
	if h.Flags&FlagZstd != 0 {
		payload, err = decompress(payload, int64(2*want))
		if err != nil {
			return nil, err
		}
	}

	if len(payload)%2 != 0 || uint64(len(payload))/2 != want {
		return nil, fmt.Errorf("%w: %dx%d, got %d payload bytes",
			ErrSizeMismatch, h.Width, h.Height, len(payload))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if h.Flags&FlagBigEndian != 0 {
		order = binary.BigEndian
	}
	counts := make([]uint16, want)
	for i := range counts {
		counts[i] = order.Uint16(payload[2*i:])
	}
	return &Frame{Header: h, Counts: counts}, nil
}

// decompress inflates a zstd payload, stopping once it exceeds limit bytes.
func decompress(payload []byte, limit int64) ([]byte, error) {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	if err := dec.Reset(bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	out, err := io.ReadAll(io.LimitReader(dec, limit+1))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: decompressed payload exceeds %d bytes", ErrSizeMismatch, limit)
	}
	return out, nil
}
