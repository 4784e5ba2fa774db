package canard

// ID is a 29-bit extended CAN identifier laid out per the UAVCAN/CAN
// transport: priority in the top three bits, kind flags, port-id, and the
// source (and, for services, destination) node-id in the low bits.
type ID uint32

const (
	offsetPriority  = 26
	offsetSubjectID = 8
	offsetServiceID = 14
	offsetDstNodeID = 7

	flagServiceNotMessage  ID = 1 << 25
	flagAnonymousMessage   ID = 1 << 24
	flagRequestNotResponse ID = 1 << 24
	flagReserved23         ID = 1 << 23
	flagReserved07         ID = 1 << 7
)

// Priority extracts the 3-bit arbitration priority.
func (id ID) Priority() Priority { return Priority(id>>offsetPriority) & PriorityMax }

// Source extracts the 7-bit source node-id field.
func (id ID) Source() NodeID { return NodeID(id) & NodeIDMax }

// Destination extracts the 7-bit destination node-id field (service frames
// only; meaningless on messages).
func (id ID) Destination() NodeID { return NodeID(id>>offsetDstNodeID) & NodeIDMax }

// IsMessage reports whether the service-not-message flag is clear.
func (id ID) IsMessage() bool { return id&flagServiceNotMessage == 0 }

// IsRequest reports whether this is a service frame carrying a request.
func (id ID) IsRequest() bool { return !id.IsMessage() && id&flagRequestNotResponse != 0 }

// IsAnonymous reports whether the anonymous-message flag is set.
func (id ID) IsAnonymous() bool { return id&flagAnonymousMessage != 0 }

// PortID extracts the subject-id (messages) or service-id (services).
func (id ID) PortID() PortID {
	if id.IsMessage() {
		return PortID(id>>offsetSubjectID) & SubjectIDMax
	}
	return PortID(id>>offsetServiceID) & ServiceIDMax
}

func makeMessageSessionSpecifier(subject PortID, src NodeID) ID {
	return ID(src) | ID(subject)<<offsetSubjectID
}

func makeServiceSessionSpecifier(service PortID, requestNotResponse bool, src, dst NodeID) ID {
	out := ID(src) | ID(dst)<<offsetDstNodeID | ID(service)<<offsetServiceID | flagServiceNotMessage
	if requestNotResponse {
		out |= flagRequestNotResponse
	}
	return out
}

// makeCANID builds the 29-bit CAN identifier for a transfer:
//
//   - Message, local node-id set: source is the local node-id.
//   - Message, local node-id unset: the payload must fit a single frame;
//     the source is a CRC-derived pseudo node-id and the anonymous flag is
//     set. A multi-frame anonymous message is rejected.
//   - Service: both local and remote node-id must be set.
//   - Priority above PriorityMax is rejected.
func makeCANID(m *Metadata, local NodeID, payloadSize int, payload []byte, presentationLayerMTU int) (ID, error) {
	if m.Priority > PriorityMax {
		return 0, ErrInvalidArgument
	}

	var out ID
	switch {
	case m.Kind == TransferKindMessage && m.Remote.IsUnset() && m.Port <= SubjectIDMax:
		switch {
		case local.IsSet():
			out = makeMessageSessionSpecifier(m.Port, local)
		case payloadSize <= presentationLayerMTU:
			pseudo := NodeID(CRCInitial.Add(payload[:payloadSize])) & NodeIDMax
			out = makeMessageSessionSpecifier(m.Port, pseudo) | flagAnonymousMessage
		default:
			return 0, ErrInvalidArgument // Anonymous multi-frame messages are not allowed.
		}
	case (m.Kind == TransferKindRequest || m.Kind == TransferKindResponse) &&
		m.Remote.IsSet() && m.Port <= ServiceIDMax:
		if !local.IsSet() {
			return 0, ErrInvalidArgument // Anonymous service transfers are not allowed.
		}
		out = makeServiceSessionSpecifier(m.Port, m.Kind == TransferKindRequest, local, m.Remote)
	default:
		return 0, ErrInvalidArgument
	}

	out |= ID(m.Priority) << offsetPriority
	return out, nil
}
