package fastvec

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned by checked element access when the position is not less than
	// the vector length.
	ErrOutOfRange = errors.New("fastvec: position out of range")

	// ErrAllocationFailed is the cause of every allocation panic.
	ErrAllocationFailed = errors.New("fastvec: allocation failed")

	// ErrContractViolation is the cause of debug assertion panics (build tag fastvec_debug).
	ErrContractViolation = errors.New("fastvec: contract violation")

	// ErrNotTrivial is returned by operations that require a trivial element type.
	ErrNotTrivial = errors.New("fastvec: element type is not trivial")

	// ErrInvalidSnapshot is returned when snapshot bytes cannot be decoded.
	ErrInvalidSnapshot = errors.New("fastvec: invalid snapshot")

	// ErrElementSizeMismatch is returned when a snapshot was written for a different element size.
	ErrElementSizeMismatch = errors.New("fastvec: element size mismatch")
)

// OutOfRangeError reports a checked access past the end of a vector.
//
// errors.Is(err, ErrOutOfRange) reports true for it.
type OutOfRangeError struct {
	Pos int
	Len int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("fastvec: position %d out of range [0, %d)", e.Pos, e.Len)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// AllocationError is the panic value of a failed capacity change. The vector is left exactly as
// it was before the operation.
//
// errors.Is(err, ErrAllocationFailed) reports true for it; the underlying cause (for example
// resource.ErrMemoryLimitExceeded or an mmap errno) is reachable through errors.Is/As as well.
type AllocationError struct {
	Requested int // slots requested
	Bytes     int64
	Storage   string
	cause     error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("fastvec: allocating %d slots (%d bytes) from %s storage: %v",
		e.Requested, e.Bytes, e.Storage, e.cause)
}

func (e *AllocationError) Unwrap() []error { return []error{ErrAllocationFailed, e.cause} }
