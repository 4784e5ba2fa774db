package canard

// Frame is the wire-visible unit handed to and received from the CAN
// driver.
type Frame struct {
	Timestamp     uint64
	ExtendedCANID ID
	Payload       []byte
}

// PayloadSize returns the number of payload bytes, tail byte included.
func (f Frame) PayloadSize() int { return len(f.Payload) }

// frameModel is the parsed, validated representation of an inbound frame,
// with the tail byte decoded and stripped.
type frameModel struct {
	timestamp uint64
	priority  Priority
	kind      TransferKind
	port      PortID
	src       NodeID
	dst       NodeID
	tid       TransferID
	start     bool
	end       bool
	toggle    bool
	payload   []byte // effective payload, tail byte already removed
}

// parseFrame validates an inbound frame and decodes it into a frameModel.
// It returns false (with no error) for frames that are not valid
// UAVCAN/CAN frames at all; such frames are silently dropped, not
// reported as library errors.
func parseFrame(frame *Frame) (frameModel, bool) {
	var out frameModel
	if len(frame.Payload) == 0 || frame.ExtendedCANID > canExtIDMask {
		return out, false
	}

	id := frame.ExtendedCANID
	out.timestamp = frame.Timestamp
	out.priority = id.Priority()
	out.src = id.Source()

	var valid bool
	if id.IsMessage() {
		out.kind = TransferKindMessage
		out.port = id.PortID()
		if id.IsAnonymous() {
			out.src = NodeIDUnset
		}
		out.dst = NodeIDUnset
		valid = id&flagReserved23 == 0 && id&flagReserved07 == 0
	} else {
		if id.IsRequest() {
			out.kind = TransferKindRequest
		} else {
			out.kind = TransferKindResponse
		}
		out.port = id.PortID()
		out.dst = id.Destination()
		valid = id&flagReserved23 == 0
	}

	payloadSize := len(frame.Payload) - 1
	tail := Tail(frame.Payload[payloadSize])
	out.payload = frame.Payload[:payloadSize]
	out.tid = tail.TransferID()
	out.start = tail.IsStart()
	out.end = tail.IsEnd()
	out.toggle = tail.Toggle()

	// Protocol version check: SOT implies the initial toggle state.
	valid = valid && (!out.start || out.toggle)
	// Anonymous transfers are stateless and therefore always single-frame.
	valid = valid && (out.src.IsSet() || (out.start && out.end))

	if !valid {
		return out, false
	}
	return out, true
}
