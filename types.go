package canard

// Parameter ranges are inclusive; the lower bound is zero for all. See the
// Cyphal/CAN Specification for background.
const (
	SubjectIDMax        = 8191
	ServiceIDMax        = 511
	NodeIDMax           = 127
	PriorityMax         = 7
	TransferIDBitLength = 5
	TransferIDMax       = (1 << TransferIDBitLength) - 1
)

// MTU presets. Any value in between is rounded up to the next valid DLC.
const (
	MTUCANClassic = 8
	MTUCANFD      = 64
)

// canExtIDMask covers the 29 bits of an extended CAN identifier.
const canExtIDMask ID = (1 << 29) - 1

// NodeID identifies a node on the bus, in [0, NodeIDMax], or the sentinel
// NodeIDUnset for anonymous transfers.
type NodeID uint8

// NodeIDUnset is the sentinel value meaning "no node-id assigned".
const NodeIDUnset NodeID = 0xFF

// IsSet reports whether n holds a concrete node-id in [0, NodeIDMax].
func (n NodeID) IsSet() bool { return n <= NodeIDMax }

// IsUnset reports whether n is the anonymous sentinel.
func (n NodeID) IsUnset() bool { return n == NodeIDUnset }

// IsValid reports whether n is either set or the unset sentinel; any other
// byte value (the gap between NodeIDMax and NodeIDUnset) is not a valid
// NodeID.
func (n NodeID) IsValid() bool { return n.IsSet() || n.IsUnset() }

// PortID identifies a subject (message) or service on the bus.
type PortID uint32

// TransferID is the 5-bit counter distinguishing consecutive transfers on a
// given (kind, port, source).
type TransferID uint8

// Priority is the 3-bit arbitration priority, 0 (highest) through 7.
type Priority uint8

// Named priority levels per the Cyphal Specification's recommendations.
const (
	PriorityExceptional Priority = iota
	PriorityImmediate
	PriorityFast
	PriorityHigh
	PriorityNominal // Default priority for most application transfers.
	PriorityLow
	PrioritySlow
	PriorityOptional
)

// TransferKind distinguishes the three transfer categories the transport
// recognizes.
type TransferKind uint8

const (
	TransferKindMessage TransferKind = iota
	TransferKindRequest
	TransferKindResponse
	numTransferKinds
)

func (k TransferKind) valid() bool { return k < numTransferKinds }

// Metadata carries the application-visible fields of a transfer that are
// not the payload itself.
type Metadata struct {
	Priority Priority
	Kind     TransferKind
	Port     PortID
	// Remote is the destination node-id on transmit (services only) and the
	// source node-id on receive; NodeIDUnset for anonymous messages.
	Remote NodeID
	TID    TransferID
}

// Transfer is the application-visible unit exchanged with the engine. On
// transmit it is consumed and copied into frames; on receive it is handed
// to the caller who owns Payload until it releases it through the
// allocator's Free hook (see Allocator). A received anonymous transfer is
// the exception: its Payload aliases the received frame's buffer and was
// not obtained from the allocator.
type Transfer struct {
	Metadata
	// Timestamp is caller-supplied on transmit and echoed on receive as the
	// timestamp of the first frame of the transfer.
	Timestamp   uint64
	PayloadSize int
	Payload     []byte
}
