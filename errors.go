package canard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for null pointers, out-of-range fields,
	// anonymous multi-frame attempts, and service transfers missing an
	// endpoint.
	ErrInvalidArgument = errors.New("canard: invalid argument")
	// ErrOutOfMemory is returned when the allocator fails mid-operation.
	// Whatever was allocated for that operation is freed before it is
	// returned, so library-owned state is left exactly as it was.
	ErrOutOfMemory = errors.New("canard: out of memory")
	// ErrBadTransferID is returned when a transfer-id does not fit in
	// [0, TransferIDMax]. It is an ErrInvalidArgument.
	ErrBadTransferID = fmt.Errorf("%w: transfer id must be in 0..%d", ErrInvalidArgument, TransferIDMax)
	// ErrTransferKind is returned for an out-of-range TransferKind. It is
	// an ErrInvalidArgument.
	ErrTransferKind = fmt.Errorf("%w: undefined transfer kind", ErrInvalidArgument)
)
