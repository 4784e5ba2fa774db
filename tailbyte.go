package canard

// Tail is the last byte of every transfer frame's payload: start/end of
// transfer flags, the toggle bit, and the 5-bit transfer-id.
type Tail byte

const (
	tailStartOfTransfer Tail = 0x80
	tailEndOfTransfer   Tail = 0x40
	tailToggle          Tail = 0x20
)

// IsStart reports whether the start-of-transfer bit is set.
func (t Tail) IsStart() bool { return t&tailStartOfTransfer != 0 }

// IsEnd reports whether the end-of-transfer bit is set.
func (t Tail) IsEnd() bool { return t&tailEndOfTransfer != 0 }

// Toggle reports the state of the toggle bit.
func (t Tail) Toggle() bool { return t&tailToggle != 0 }

// TransferID extracts the 5-bit transfer-id field.
func (t Tail) TransferID() TransferID { return TransferID(t) & TransferIDMax }

// makeTailByte packs the tail byte. If start is true, toggle must also be
// true: the initial toggle state doubles as a protocol version marker.
func makeTailByte(start, end, toggle bool, tid TransferID) Tail {
	var t Tail
	if start {
		t |= tailStartOfTransfer
	}
	if end {
		t |= tailEndOfTransfer
	}
	if toggle {
		t |= tailToggle
	}
	t |= Tail(tid) & TransferIDMax
	return t
}
