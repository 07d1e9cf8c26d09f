package fastvec

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/hupe1980/fastvec/internal/blockcodec"
	"github.com/hupe1980/fastvec/internal/conv"
	"github.com/hupe1980/fastvec/resource"
)

// Compression selects the block compression of a snapshot.
type Compression = blockcodec.Compression

const (
	// CompressionNone stores blocks uncompressed.
	CompressionNone = blockcodec.None
	// CompressionLZ4 uses LZ4 (fast, the default).
	CompressionLZ4 = blockcodec.LZ4
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD = blockcodec.ZSTD
)

// DefaultSnapshotBlockSize is the uncompressed size of one snapshot block.
const DefaultSnapshotBlockSize = blockcodec.DefaultBlockSize

// ErrUnknownCompression is returned for an unsupported compression id.
var ErrUnknownCompression = blockcodec.ErrUnknownCompression

const (
	snapshotMagic      = "FVEC"
	snapshotVersion    = 1
	snapshotHeaderSize = 28
)

type snapshotOptions struct {
	compression Compression
	blockSize   int
	concurrency int
	io          *resource.Controller
	logger      *Logger
}

// SnapshotOption configures Encode and Decode.
type SnapshotOption func(*snapshotOptions)

// WithCompression sets the block compression used by Encode. Decode reads it from the header.
func WithCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed bytes per block used by Encode.
func WithBlockSize(n int) SnapshotOption {
	return func(o *snapshotOptions) {
		o.blockSize = n
	}
}

// WithConcurrency bounds the number of blocks compressed in parallel by Encode.
// Defaults to GOMAXPROCS.
func WithConcurrency(n int) SnapshotOption {
	return func(o *snapshotOptions) {
		o.concurrency = n
	}
}

// WithIOController throttles snapshot reads and writes with the controller's IO limit.
func WithIOController(c *resource.Controller) SnapshotOption {
	return func(o *snapshotOptions) {
		o.io = c
	}
}

// WithSnapshotLogger overrides the vector's logger for one snapshot operation.
func WithSnapshotLogger(l *Logger) SnapshotOption {
	return func(o *snapshotOptions) {
		o.logger = l
	}
}

func (v *Vector[T]) snapshotOptions(opts []SnapshotOption) snapshotOptions {
	o := snapshotOptions{
		compression: CompressionLZ4,
		blockSize:   DefaultSnapshotBlockSize,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      v.opts.logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.blockSize <= 0 {
		o.blockSize = DefaultSnapshotBlockSize
	}
	return o
}

type snapshotHeader struct {
	compression Compression
	elemSize    uint32
	length      uint64
	blockSize   uint32
	blockCount  uint32
}

func (h snapshotHeader) marshal() []byte {
	b := make([]byte, snapshotHeaderSize)
	copy(b[0:4], snapshotMagic)
	b[4] = snapshotVersion
	b[5] = byte(h.compression)
	binary.LittleEndian.PutUint32(b[8:], h.elemSize)
	binary.LittleEndian.PutUint64(b[12:], h.length)
	binary.LittleEndian.PutUint32(b[20:], h.blockSize)
	binary.LittleEndian.PutUint32(b[24:], h.blockCount)
	return b
}

func parseSnapshotHeader(b []byte) (snapshotHeader, error) {
	if string(b[0:4]) != snapshotMagic {
		return snapshotHeader{}, fmt.Errorf("%w: bad magic %q", ErrInvalidSnapshot, b[0:4])
	}
	if b[4] != snapshotVersion {
		return snapshotHeader{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, b[4])
	}
	h := snapshotHeader{
		compression: Compression(b[5]),
		elemSize:    binary.LittleEndian.Uint32(b[8:]),
		length:      binary.LittleEndian.Uint64(b[12:]),
		blockSize:   binary.LittleEndian.Uint32(b[20:]),
		blockCount:  binary.LittleEndian.Uint32(b[24:]),
	}
	if !h.compression.Valid() {
		return snapshotHeader{}, fmt.Errorf("%w: %w: %d", ErrInvalidSnapshot, ErrUnknownCompression, b[5])
	}
	if h.blockSize == 0 || h.blockSize > blockcodec.MaxBlockSize {
		return snapshotHeader{}, fmt.Errorf("%w: block size %d", ErrInvalidSnapshot, h.blockSize)
	}
	return h, nil
}

// WriteTo implements io.WriterTo by encoding a snapshot with default options.
func (v *Vector[T]) WriteTo(w io.Writer) (int64, error) {
	return v.Encode(context.Background(), w)
}

// ReadFrom implements io.ReaderFrom by decoding one snapshot with default options.
// It reads exactly the snapshot, not necessarily until EOF.
func (v *Vector[T]) ReadFrom(r io.Reader) (int64, error) {
	return v.Decode(context.Background(), r)
}

// Encode writes the live elements as a snapshot. Only trivial element types can be encoded;
// other types return ErrNotTrivial. Element bytes are written in their in-memory
// representation, so snapshots are portable only between identical architectures.
func (v *Vector[T]) Encode(ctx context.Context, w io.Writer, opts ...SnapshotOption) (written int64, err error) {
	o := v.snapshotOptions(opts)
	start := time.Now()
	defer func() {
		o.logger.LogEncode(ctx, v.length, written, o.compression.String(), err)
		if m := v.opts.metrics; m != nil {
			m.RecordEncode(written, time.Since(start), err)
		}
	}()

	v.init()
	if !v.ops.trivial() {
		return 0, ErrNotTrivial
	}
	if !o.compression.Valid() {
		return 0, fmt.Errorf("fastvec: %w: %d", ErrUnknownCompression, o.compression)
	}

	raw := bytesOf(v.data[:v.length])
	blocks, err := blockcodec.EncodeBlocks(ctx, raw, o.blockSize, o.compression, o.concurrency)
	if err != nil {
		return 0, err
	}

	h := snapshotHeader{compression: o.compression}
	if h.length, err = conv.IntToUint64(v.length); err != nil {
		return 0, err
	}
	if h.elemSize, err = conv.IntToUint32(elemSize[T]()); err != nil {
		return 0, err
	}
	if h.blockSize, err = conv.IntToUint32(o.blockSize); err != nil {
		return 0, err
	}
	if h.blockCount, err = conv.IntToUint32(len(blocks)); err != nil {
		return 0, err
	}

	out := io.Writer(w)
	if o.io != nil {
		out = resource.NewRateLimitedWriter(ctx, w, o.io)
	}
	cw := &countingWriter{w: out}

	if _, err := cw.Write(h.marshal()); err != nil {
		return cw.n, err
	}
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return cw.n, err
		}
		if _, err := cw.Write(block); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// Decode replaces the contents of v with the snapshot read from r. On success the buffer holds
// exactly the decoded length; on failure v is unchanged. Only trivial element types can be
// decoded, and the snapshot must have been written for the same element size.
func (v *Vector[T]) Decode(ctx context.Context, r io.Reader, opts ...SnapshotOption) (read int64, err error) {
	o := v.snapshotOptions(opts)
	length := 0
	start := time.Now()
	defer func() {
		o.logger.LogDecode(ctx, length, read, err)
		if m := v.opts.metrics; m != nil {
			m.RecordDecode(read, time.Since(start), err)
		}
	}()

	v.init()
	if !v.ops.trivial() {
		return 0, ErrNotTrivial
	}

	in := r
	if o.io != nil {
		in = resource.NewRateLimitedReader(ctx, r, o.io)
	}
	cr := &countingReader{r: in}

	var hdr [snapshotHeaderSize]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return cr.n, fmt.Errorf("%w: header: %w", ErrInvalidSnapshot, err)
	}
	h, err := parseSnapshotHeader(hdr[:])
	if err != nil {
		return cr.n, err
	}
	if int(h.elemSize) != elemSize[T]() {
		return cr.n, fmt.Errorf("%w: snapshot has %d bytes per element, want %d", ErrElementSizeMismatch, h.elemSize, elemSize[T]())
	}

	n, err := conv.Uint64ToInt(h.length)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	total, err := conv.MulInt(n, elemSize[T]())
	if err != nil {
		return cr.n, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	blockSize := int(h.blockSize)
	if want := blockcodec.BlockCount(total, blockSize); int(h.blockCount) != want {
		return cr.n, fmt.Errorf("%w: %d blocks for %d bytes, want %d", ErrInvalidSnapshot, h.blockCount, total, want)
	}

	// Stage the bytes first: the header is untrusted, so memory grows only with the data
	// actually read, and v stays untouched until everything has been verified.
	var staged []byte
	var bh [blockcodec.HeaderSize]byte
	for i := range int(h.blockCount) {
		if err := ctx.Err(); err != nil {
			return cr.n, err
		}
		if _, err := io.ReadFull(cr, bh[:]); err != nil {
			return cr.n, fmt.Errorf("%w: block %d header: %w", ErrInvalidSnapshot, i, err)
		}
		bhdr, err := blockcodec.ParseHeader(bh[:])
		if err != nil {
			return cr.n, fmt.Errorf("%w: block %d: %w", ErrInvalidSnapshot, i, err)
		}
		off := i * blockSize
		if want := min(blockSize, total-off); int(bhdr.UncompressedSize) != want {
			return cr.n, fmt.Errorf("%w: block %d holds %d bytes, want %d", ErrInvalidSnapshot, i, bhdr.UncompressedSize, want)
		}

		payload := make([]byte, bhdr.PayloadSize())
		if _, err := io.ReadFull(cr, payload); err != nil {
			return cr.n, fmt.Errorf("%w: block %d payload: %w", ErrInvalidSnapshot, i, err)
		}

		staged = slices.Grow(staged, int(bhdr.UncompressedSize))[:off+int(bhdr.UncompressedSize)]
		if err := blockcodec.DecodeBlock(bhdr, payload, h.compression, staged[off:]); err != nil {
			return cr.n, fmt.Errorf("%w: block %d: %w", ErrInvalidSnapshot, i, err)
		}
	}

	var buf []T
	if n > 0 {
		buf = v.allocate(n)
		copy(bytesOf(buf), staged)
	}
	v.Release()
	v.data = buf
	v.length = n
	length = n

	return cr.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
