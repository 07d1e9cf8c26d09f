// Package mmap provides anonymous memory mappings used as off-heap element storage.
//
// # Overview
//
// Anonymous read-write mappings live outside the Go heap. The garbage collector never scans
// them, so they may only hold pointer-free data. Buffers obtained from Map must be returned
// with Unmap; nothing else frees them.
//
// # Usage
//
//	buf, err := mmap.Map(4096)
//	if err != nil { ... }
//	buf, err = mmap.Remap(buf, 8192) // contents preserved, address may change
//	_ = mmap.Unmap(buf)
//
// # Platform Support
//
//   - Linux: mmap(2), mremap(2) with MREMAP_MAYMOVE, munmap(2)
//   - Other Unix: mmap(2); Remap maps a new region, copies and unmaps the old one
//   - Everything else: Supported is false and every call returns ErrUnsupported
package mmap
