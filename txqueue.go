package canard

// txQueueItem is one queued outgoing CAN frame. The engine is the
// exclusive owner of every item until Pop hands it back for freeing.
// Invariant: the chain reachable from Instance.txHead is totally ordered
// by id ascending, ties broken FIFO, mirroring bus arbitration.
type txQueueItem struct {
	next     *txQueueItem
	deadline uint64
	id       ID
	payload  []byte // allocator-backed; tail byte is payload[len-1]
}

// TxFrame is a non-owning view of a queued frame, returned by TxPeek.
type TxFrame struct {
	Timestamp     uint64
	ExtendedCANID ID
	Payload       []byte
}

// txFindSupremum returns the last item whose id is <= probe, the anchor
// after which a new item/chain must be spliced to preserve ascending
// order with FIFO tie-breaking. Returns nil if probe must be the new
// head. O(n); queues stay short enough on real buses that an ordered
// structure with better asymptotics has never been worth the weight.
func txFindSupremum(head *txQueueItem, probe ID) *txQueueItem {
	if head == nil || head.id > probe {
		return nil
	}
	out := head
	for out.next != nil && out.next.id <= probe {
		out = out.next
	}
	return out
}

// txInsertOne splices a single item into the queue at its correct
// position.
func (ins *Instance) txInsertOne(item *txQueueItem) {
	sup := txFindSupremum(ins.txHead, item.id)
	if sup == nil {
		item.next = ins.txHead
		ins.txHead = item
	} else {
		item.next = sup.next
		sup.next = item
	}
	ins.txSize++
}

// txInsertChain splices a contiguous, already-ordered chain of frames
// belonging to one multi-frame transfer into the queue as a single atomic
// operation, so the transfer's frames stay adjacent and cannot be
// interleaved by later pushes of equal priority. All items in the chain
// share the same CAN-ID, so the chain's position is determined once from
// head.id.
func (ins *Instance) txInsertChain(head, tail *txQueueItem, count int) {
	sup := txFindSupremum(ins.txHead, head.id)
	if sup == nil {
		tail.next = ins.txHead
		ins.txHead = head
	} else {
		tail.next = sup.next
		sup.next = head
	}
	ins.txSize += count
}

// txPeek returns a non-owning view of the head of the tx queue, or false
// if the queue is empty.
func (ins *Instance) txPeek() (TxFrame, bool) {
	if ins.txHead == nil {
		return TxFrame{}, false
	}
	h := ins.txHead
	return TxFrame{Timestamp: h.deadline, ExtendedCANID: h.id, Payload: h.payload}, true
}

// txPop detaches and frees the head item. No-op if the queue is empty.
func (ins *Instance) txPop() {
	h := ins.txHead
	if h == nil {
		return
	}
	ins.txHead = h.next
	ins.txSize--
	ins.allocator().Free(h.payload)
}
