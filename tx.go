package canard

// txPush encodes a transfer into one or more CAN frames and enqueues
// them. It validates the transfer and its addressing via makeCANID, then
// dispatches to the single- or multi-frame encoder.
//
// On allocator failure mid multi-frame encode, every frame already
// allocated for this transfer is freed and the queue is left exactly as it
// was before the call; nothing partial is ever spliced in.
func (ins *Instance) txPush(deadline uint64, m *Metadata, payloadSize int, payload []byte) (int, error) {
	if m == nil || (payload == nil && payloadSize != 0) {
		return 0, ErrInvalidArgument
	}
	if m.TID > TransferIDMax {
		return 0, ErrBadTransferID
	}
	plMTU := presentationLayerMTU(ins.MTU)
	canID, err := makeCANID(m, ins.NodeID, payloadSize, payload, plMTU)
	if err != nil {
		return 0, err
	}
	if payloadSize <= plMTU {
		return ins.txPushSingleFrame(deadline, canID, m.TID, payload[:payloadSize])
	}
	return ins.txPushMultiFrame(deadline, canID, m.TID, plMTU, payloadSize, payload)
}

func (ins *Instance) txPushSingleFrame(deadline uint64, id ID, tid TransferID, payload []byte) (int, error) {
	frameSize := roundFrameLengthUp(len(payload) + 1)
	buf, err := ins.allocator().Allocate(frameSize)
	if err != nil {
		return 0, ErrOutOfMemory
	}
	copy(buf, payload)
	for i := len(payload); i < frameSize-1; i++ {
		buf[i] = 0 // padding between payload and tail
	}
	buf[frameSize-1] = byte(makeTailByte(true, true, true, tid))
	ins.txInsertOne(&txQueueItem{deadline: deadline, id: id, payload: buf})
	return 1, nil
}

// txPushMultiFrame implements the CAN transport's payload fragmentation:
// every frame but the last carries a full presentationLayerMTU
// bytes of payload; the CRC-16 of the whole payload plus the last frame's
// zero padding is appended as trailing
// bytes before the final tail byte, and the last frame's DLC is rounded up
// with zero padding inserted ahead of the CRC/tail, never after.
func (ins *Instance) txPushMultiFrame(deadline uint64, id ID, tid TransferID, plMTU, payloadSize int, payload []byte) (int, error) {
	payloadSizeWithCRC := payloadSize + crcSizeBytes
	crc := CRCInitial.Add(payload[:payloadSize])
	alloc := ins.allocator()

	var head, tail *txQueueItem
	count := 0
	freeChain := func() {
		for n := head; n != nil; {
			next := n.next
			alloc.Free(n.payload)
			n = next
		}
	}

	offset := 0
	start := true
	toggle := true
	for offset < payloadSizeWithCRC {
		remaining := payloadSizeWithCRC - offset
		var frameSize int
		if remaining < plMTU {
			frameSize = roundFrameLengthUp(remaining + 1)
		} else {
			frameSize = plMTU + 1
		}
		buf, err := alloc.Allocate(frameSize)
		if err != nil {
			freeChain()
			return 0, ErrOutOfMemory
		}
		item := &txQueueItem{deadline: deadline, id: id, payload: buf}
		if head == nil {
			head = item
		} else {
			tail.next = item
		}
		tail = item
		count++

		framePayloadSize := frameSize - 1
		frameOffset := 0

		if offset < payloadSize {
			moveSize := payloadSize - offset
			if moveSize > framePayloadSize {
				moveSize = framePayloadSize
			}
			copy(buf[:moveSize], payload[offset:offset+moveSize])
			frameOffset += moveSize
			offset += moveSize
		}

		if offset >= payloadSize {
			// Pad the last frame up to its DLC-rounded length. Padding sits
			// between the payload and the CRC, and is protected by it.
			for frameOffset+crcSizeBytes < framePayloadSize {
				buf[frameOffset] = 0
				crc = crc.AddByte(0)
				frameOffset++
			}
			crcBytes := crc.Bytes()
			if frameOffset < framePayloadSize && offset == payloadSize {
				buf[frameOffset] = crcBytes[0]
				frameOffset++
				offset++
			}
			if frameOffset < framePayloadSize && offset > payloadSize {
				buf[frameOffset] = crcBytes[1]
				frameOffset++
				offset++
			}
		}

		buf[frameOffset] = byte(makeTailByte(start, offset >= payloadSizeWithCRC, toggle, tid))
		start = false
		toggle = !toggle
	}

	ins.txInsertChain(head, tail, count)
	return count, nil
}
