// Package blockcodec compresses byte streams in independent, checksummed blocks.
//
// # Block Format
//
//	[UncompressedSize uint32][CompressedSize uint32][CRC32C uint32][payload...]
//
// All fields are little-endian. CompressedSize == 0 means the payload is stored raw. The
// checksum always covers the uncompressed bytes, so corruption is detected regardless of the
// compression used.
//
// # Compression
//
//   - None: stored raw
//   - LZ4: fast, good for hot data
//   - ZSTD: better ratio, good for cold data
//
// A block whose compressed form is not at least 10% smaller is stored raw.
package blockcodec
