package canard

// rxAccept is the receive pipeline: parse, address filter, subscription
// lookup, session update. It returns (transfer, true)
// when a transfer completed, (nil, false) when the frame was consumed
// without producing one — never an error for protocol-level drops, only
// for allocator failure or bad arguments.
func (ins *Instance) rxAccept(frame *Frame, iface uint8) (*Transfer, bool, error) {
	if frame == nil {
		return nil, false, ErrInvalidArgument
	}
	model, ok := parseFrame(frame)
	if !ok {
		return nil, false, nil // Not a valid UAVCAN/CAN frame; silently drop.
	}
	if model.dst.IsSet() && ins.NodeID != model.dst {
		return nil, false, nil // Mis-addressed, not an error.
	}

	sub, ok := ins.findSubscription(model.kind, model.port)
	if !ok {
		return nil, false, nil // No application interest in this port.
	}

	if model.src.IsUnset() {
		// Anonymous transfers are stateless: the frame is the transfer.
		// The payload aliases the frame's buffer; the caller copies it
		// if it needs it past this frame.
		return &Transfer{
			Metadata: Metadata{
				Priority: model.priority,
				Kind:     model.kind,
				Port:     model.port,
				Remote:   NodeIDUnset,
				TID:      model.tid,
			},
			Timestamp:   model.timestamp,
			PayloadSize: len(model.payload),
			Payload:     model.payload,
		}, true, nil
	}

	rs := sub.sessions[model.src]
	if rs == nil {
		if !model.start {
			return nil, false, nil // SOT miss: nothing to attach this frame to.
		}
		rs = newRxSession(model.timestamp, model.tid, iface)
		sub.sessions[model.src] = rs
	}
	transfer, ok, err := ins.rxUpdateSession(rs, sub, &model)
	if err != nil {
		return nil, false, err
	}
	// rs is reset in place by rxUpdateSession on both completion and CRC
	// failure, and stays installed in the slot ready for the next transfer.
	return transfer, ok, nil
}
