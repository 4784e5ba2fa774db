package canard

// This file holds the library's public surface: thin,
// argument-validating wrappers over the private encode/decode/session logic
// in tx.go, rx.go, rxsession.go, and subscription.go. None of them hold a
// lock; concurrent use of one Instance is the caller's responsibility.

// TxPush encodes transfer into one or more CAN frames and enqueues them in
// priority/FIFO order, returning the number of frames enqueued. deadline is
// opaque to the engine; it is copied onto every enqueued frame and
// interpreted only by the caller's transmit loop.
//
// On ErrOutOfMemory the queue is left exactly as it was before the call:
// partial multi-frame encodes never leave a truncated chain behind.
func (ins *Instance) TxPush(deadline uint64, transfer *Transfer) (int, error) {
	if transfer == nil {
		return 0, ErrInvalidArgument
	}
	if transfer.PayloadSize < 0 || transfer.PayloadSize > len(transfer.Payload) {
		return 0, ErrInvalidArgument
	}
	return ins.txPush(deadline, &transfer.Metadata, transfer.PayloadSize, transfer.Payload)
}

// TxPeek returns a non-owning view of the highest-priority queued frame,
// without removing it. The caller must not retain Payload past the next
// TxPop.
func (ins *Instance) TxPeek() (TxFrame, bool) {
	return ins.txPeek()
}

// TxPop removes and frees the frame at the head of the queue, which is the
// frame TxPeek last returned as long as nothing was pushed in between. It is
// a no-op on an empty queue, so callers may call it unconditionally after a
// successful send.
func (ins *Instance) TxPop() {
	ins.txPop()
}

// TxQueueSize returns the number of frames currently queued for transmit.
func (ins *Instance) TxQueueSize() int {
	return ins.txSize
}

// RxAccept feeds one received CAN frame into the engine. iface identifies
// the redundant transport interface the frame arrived on; the engine
// records it per session but performs no cross-interface deduplication,
// treating each source independently. RxAccept returns a completed
// Transfer and true when frame was the one that finished reassembling it;
// otherwise it returns (nil, false, nil) for any protocol-level reason
// (wrong address, no subscriber, mid-transfer frame, dropped duplicate,
// failed CRC) — none of which are errors. A non-nil error means the
// allocator failed or frame was nil.
func (ins *Instance) RxAccept(frame *Frame, iface uint8) (*Transfer, bool, error) {
	return ins.rxAccept(frame, iface)
}

// RxSubscribe registers sub to receive transfers of the given kind on port.
// extent bounds the payload size delivered to the application; payload
// bytes beyond it are silently dropped (implicit truncation).
// tidTimeout bounds how long a stalled multi-frame transfer may sit
// before its session is reset. Any prior subscription on the same (kind,
// port) is replaced; RxSubscribe reports whether one was.
func (ins *Instance) RxSubscribe(kind TransferKind, port PortID, extent int, tidTimeout uint64, sub *Subscription) (bool, error) {
	return ins.subscribe(kind, port, extent, tidTimeout, sub)
}

// RxUnsubscribe removes the subscription registered for (kind, port), if
// any, freeing every session buffer it held. It reports whether a
// subscription was removed.
func (ins *Instance) RxUnsubscribe(kind TransferKind, port PortID) (bool, error) {
	return ins.unsubscribe(kind, port)
}
