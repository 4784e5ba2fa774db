package canard

import "github.com/cyphal-can/canard/internal/avltree"

// Subscription is a caller-owned record describing interest in a
// particular (kind, port-id). The library links it into an instance-scoped
// index and writes its private fields; the caller must not mutate a
// Subscription while it is registered.
type Subscription struct {
	port       PortID
	extent     int
	tidTimeout uint64
	sessions   [NodeIDMax + 1]*rxSession

	// UserReference is opaque storage for the application.
	UserReference any
}

// Port returns the subject/service-id this subscription listens on.
func (s *Subscription) Port() PortID { return s.port }

// Extent returns the maximum payload size this subscription will deliver.
func (s *Subscription) Extent() int { return s.extent }

// Timeout returns the transfer-id timeout used to detect a stalled
// transfer and restart its session.
func (s *Subscription) Timeout() uint64 { return s.tidTimeout }

func subscriptionLess(a, b *Subscription) bool { return a.port < b.port }

func newSubTree() *avltree.Tree[*Subscription] {
	return avltree.New(subscriptionLess)
}

// subscribe registers sub under (kind, port). Any existing entry on the
// same pair is unsubscribed first — critical because a larger extent could
// let the engine overrun an already-allocated session buffer sized to the
// old, smaller extent. It then resets sub's session slots and links it in.
// Returns true if a prior subscription on this port was displaced.
func (ins *Instance) subscribe(kind TransferKind, port PortID, extent int, tidTimeout uint64, sub *Subscription) (bool, error) {
	if !kind.valid() {
		return false, ErrTransferKind
	}
	if sub == nil {
		return false, ErrInvalidArgument
	}
	displaced, err := ins.unsubscribe(kind, port)
	if err != nil {
		return false, err
	}
	for i := range sub.sessions {
		sub.sessions[i] = nil
	}
	sub.port = port
	sub.extent = extent
	sub.tidTimeout = tidTimeout
	ins.rxSubs[kind].Insert(sub)
	return displaced, nil
}

// unsubscribe unlinks the record for (kind, port) and frees every session
// buffer still held by its 128 slots.
func (ins *Instance) unsubscribe(kind TransferKind, port PortID) (bool, error) {
	if !kind.valid() {
		return false, ErrTransferKind
	}
	probe := &Subscription{port: port}
	sub, ok := ins.rxSubs[kind].Delete(probe)
	if !ok {
		return false, nil
	}
	alloc := ins.allocator()
	for i, sess := range sub.sessions {
		if sess != nil {
			alloc.Free(sess.payload)
			sub.sessions[i] = nil
		}
	}
	return true, nil
}

// findSubscription looks up the subscription registered for (kind, port),
// if any.
func (ins *Instance) findSubscription(kind TransferKind, port PortID) (*Subscription, bool) {
	if !kind.valid() {
		return nil, false
	}
	return ins.rxSubs[kind].Find(&Subscription{port: port})
}

// Subscriptions returns every subscription currently registered for kind,
// in ascending port-id order. It is a diagnostic/introspection helper, not
// part of the hot path.
func (ins *Instance) Subscriptions(kind TransferKind) []*Subscription {
	if !kind.valid() {
		return nil
	}
	var out []*Subscription
	ins.rxSubs[kind].Walk(func(s *Subscription) { out = append(out, s) })
	return out
}
