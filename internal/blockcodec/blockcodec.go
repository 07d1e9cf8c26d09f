package blockcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the compression algorithm used for a block.
type Compression uint8

const (
	// None stores blocks uncompressed.
	None Compression = 0
	// LZ4 uses LZ4 block compression.
	LZ4 Compression = 1
	// ZSTD uses ZSTD block compression.
	ZSTD Compression = 2
)

const (
	// HeaderSize is the size of the per-block header in bytes.
	HeaderSize = 12
	// DefaultBlockSize is the default amount of uncompressed data per block.
	DefaultBlockSize = 256 * 1024
	// MaxBlockSize bounds the uncompressed size accepted when decoding.
	MaxBlockSize = 64 << 20
)

var (
	// ErrCorrupt is returned when a block header or payload is malformed.
	ErrCorrupt = errors.New("blockcodec: corrupt block")
	// ErrChecksum is returned when a decoded block does not match its checksum.
	ErrChecksum = errors.New("blockcodec: checksum mismatch")
	// ErrUnknownCompression is returned for an unsupported compression id.
	ErrUnknownCompression = errors.New("blockcodec: unknown compression")
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Valid reports whether c is a known compression.
func (c Compression) Valid() bool {
	return c <= ZSTD
}

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Header describes one encoded block.
type Header struct {
	UncompressedSize uint32
	CompressedSize   uint32 // 0 means stored raw
	Checksum         uint32
}

// PayloadSize returns the number of payload bytes following the header.
func (h Header) PayloadSize() int {
	if h.CompressedSize == 0 {
		return int(h.UncompressedSize)
	}
	return int(h.CompressedSize)
}

// ParseHeader decodes a block header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header too small (%d bytes)", ErrCorrupt, len(b))
	}
	h := Header{
		UncompressedSize: binary.LittleEndian.Uint32(b[0:]),
		CompressedSize:   binary.LittleEndian.Uint32(b[4:]),
		Checksum:         binary.LittleEndian.Uint32(b[8:]),
	}
	if h.UncompressedSize > MaxBlockSize || h.CompressedSize > MaxBlockSize {
		return Header{}, fmt.Errorf("%w: block size exceeds %d bytes", ErrCorrupt, MaxBlockSize)
	}
	return h, nil
}

// EncodeBlock compresses data and returns the header followed by the payload.
func EncodeBlock(data []byte, c Compression) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
	if len(data) > MaxBlockSize {
		return nil, fmt.Errorf("%w: block of %d bytes exceeds %d", ErrCorrupt, len(data), MaxBlockSize)
	}

	var (
		compressed []byte
		err        error
	)
	switch c {
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed, err = compressZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	sum := crc32.Checksum(data, crc32cTable)

	// Not worth it below a 10% saving.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, HeaderSize+len(data))
		putHeader(out, Header{UncompressedSize: uint32(len(data)), Checksum: sum})
		copy(out[HeaderSize:], data)
		return out, nil
	}

	out := make([]byte, HeaderSize+len(compressed))
	putHeader(out, Header{
		UncompressedSize: uint32(len(data)),
		CompressedSize:   uint32(len(compressed)),
		Checksum:         sum,
	})
	copy(out[HeaderSize:], compressed)
	return out, nil
}

func putHeader(b []byte, h Header) {
	binary.LittleEndian.PutUint32(b[0:], h.UncompressedSize)
	binary.LittleEndian.PutUint32(b[4:], h.CompressedSize)
	binary.LittleEndian.PutUint32(b[8:], h.Checksum)
}

func compressLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

func compressZSTD(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

// DecodeBlock decodes payload into dst, which must be exactly h.UncompressedSize bytes long.
func DecodeBlock(h Header, payload []byte, c Compression, dst []byte) error {
	if len(dst) != int(h.UncompressedSize) {
		return fmt.Errorf("%w: destination is %d bytes, block holds %d", ErrCorrupt, len(dst), h.UncompressedSize)
	}
	if len(payload) != h.PayloadSize() {
		return fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), h.PayloadSize())
	}

	if h.CompressedSize == 0 {
		copy(dst, payload)
	} else {
		switch c {
		case LZ4:
			n, err := lz4.UncompressBlock(payload, dst)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			if n != len(dst) {
				return fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
			}
		case ZSTD:
			dec, err := getZstdDecoder()
			if err != nil {
				return err
			}
			decoded, err := dec.DecodeAll(payload, dst[:0])
			zstdDecoderPool.Put(dec)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			if len(decoded) != len(dst) {
				return fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
			}
			copy(dst, decoded)
		case None:
			return fmt.Errorf("%w: compressed block in uncompressed stream", ErrCorrupt)
		default:
			return fmt.Errorf("%w: %d", ErrUnknownCompression, c)
		}
	}

	if crc32.Checksum(dst, crc32cTable) != h.Checksum {
		return ErrChecksum
	}
	return nil
}

// BlockCount returns the number of blocks needed for size bytes.
func BlockCount(size, blockSize int) int {
	if size <= 0 {
		return 0
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return (size-1)/blockSize + 1
}
