package canard

import "github.com/cyphal-can/canard/internal/avltree"

// Instance is the per-library-user container. It holds MTU configuration,
// the local node-id, the allocator pair, one subscription index per
// transfer kind, and the transmit queue head.
//
// An Instance is not safe for concurrent use; the caller serializes all
// operations on it, typically with a single mutex shared by the transmit
// and receive threads.
type Instance struct {
	// NodeID is the local node's address, or NodeIDUnset. With node-id
	// unset the instance may only transmit anonymous single-frame
	// messages.
	NodeID NodeID
	// MTU is the configured CAN frame size: MTUCANClassic, MTUCANFD, or
	// any value in between (coerced up to the next valid DLC length).
	MTU int
	// UserReference is opaque storage for the application.
	UserReference any

	alloc Allocator

	rxSubs [numTransferKinds]*avltree.Tree[*Subscription]

	txHead *txQueueItem
	txSize int
}

// Init produces an Instance in its default state: MTU = CAN FD, node-id
// unset. alloc may be nil, in which case DefaultAllocator (the Go heap) is
// used; the hooks stay pluggable for callers that need to bound or
// observe the engine's memory use.
func Init(alloc Allocator) *Instance {
	ins := &Instance{
		NodeID: NodeIDUnset,
		MTU:    MTUCANFD,
		alloc:  alloc,
	}
	for k := range ins.rxSubs {
		ins.rxSubs[k] = newSubTree()
	}
	return ins
}

func (ins *Instance) allocator() Allocator {
	if ins.alloc == nil {
		return DefaultAllocator
	}
	return ins.alloc
}
