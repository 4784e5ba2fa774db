package canard

// rxSession is the per-(subscription, source node-id) reassembly state.
// It exists only for sessions keyed by a concrete source node-id;
// anonymous transfers are stateless and never allocate one.
type rxSession struct {
	startTS    uint64 // timestamp of the transfer's first frame
	totalSize  int    // bytes (incl. padding/CRC) logically seen since SOT
	storedSize int    // bytes actually written into payload, <= extent
	payload    []byte
	crc        CRC
	tid        TransferID
	toggle     bool
	iface      uint8
}

func newRxSession(ts uint64, tid TransferID, iface uint8) *rxSession {
	return &rxSession{startTS: ts, tid: tid, toggle: true, crc: CRCInitial, iface: iface}
}

// reset clears the session back to its just-created state for the next
// transfer-id. The caller is responsible for freeing rs.payload through
// the allocator before calling reset, if it was allocated.
func (rs *rxSession) reset(tid TransferID, ts uint64) {
	rs.totalSize = 0
	rs.storedSize = 0
	rs.payload = nil
	rs.crc = CRCInitial
	rs.tid = tid
	rs.toggle = true
	rs.startTS = ts
}

// rxWritePayload appends data to the session's payload buffer, allocating
// it lazily on the first byte stored, and truncates silently once extent
// bytes have accumulated. The running CRC must already have been updated
// by the caller, so truncation never affects CRC validation.
func (ins *Instance) rxWritePayload(rs *rxSession, extent int, data []byte) error {
	rs.totalSize += len(data)
	toCopy := len(data)
	if room := extent - rs.storedSize; toCopy > room {
		toCopy = room
	}
	if toCopy <= 0 {
		return nil
	}
	if rs.payload == nil {
		buf, err := ins.allocator().Allocate(extent)
		if err != nil {
			return ErrOutOfMemory
		}
		rs.payload = buf
	}
	copy(rs.payload[rs.storedSize:rs.storedSize+toCopy], data[:toCopy])
	rs.storedSize += toCopy
	return nil
}

// rxUpdateSession feeds one already-parsed frame into an established
// session: timeout restart, SOT/toggle/transfer-id sequencing, CRC
// validation at end-of-transfer, and payload truncation to the
// subscription's extent.
//
// It returns a completed Transfer and true on successful end-of-transfer.
// Any other outcome — a dropped frame, a frame buffered mid-transfer, or a
// failed CRC — returns (nil, false, nil): these are not errors, the
// caller's receive loop simply keeps going.
func (ins *Instance) rxUpdateSession(rs *rxSession, sub *Subscription, frame *frameModel) (*Transfer, bool, error) {
	timedOut := frame.timestamp > rs.startTS && frame.timestamp-rs.startTS > sub.tidTimeout
	if timedOut {
		ins.allocator().Free(rs.payload)
		rs.reset(frame.tid, frame.timestamp)
		if !frame.start {
			return nil, false, nil // Nothing to restart from; drop.
		}
	} else if frame.tid != rs.tid || frame.toggle != rs.toggle {
		return nil, false, nil // Stale, duplicate, or out-of-sequence frame.
	}

	if rs.totalSize == 0 && !frame.start {
		return nil, false, nil // An idle session accepts only a start-of-transfer.
	}

	if frame.start {
		rs.startTS = frame.timestamp
	}
	single := frame.start && frame.end
	if !single {
		rs.crc = rs.crc.Add(frame.payload)
	}

	if err := ins.rxWritePayload(rs, sub.extent, frame.payload); err != nil {
		return nil, false, err
	}

	if !frame.end {
		rs.toggle = !rs.toggle
		return nil, false, nil
	}

	if !single && rs.crc != 0 {
		// A well-formed multi-frame transfer's trailing CRC, folded back
		// into the running CRC along with the payload it protects, always
		// drives the accumulator to zero. Anything else is corruption.
		ins.allocator().Free(rs.payload)
		rs.reset((rs.tid+1)&TransferIDMax, rs.startTS)
		return nil, false, nil
	}

	size := rs.storedSize
	if !single {
		// The trailing CRC bytes are wire framing, never handed to the
		// application. If any landed within the stored (non-truncated)
		// region, trim them back off.
		cut := crcSizeBytes - (rs.totalSize - rs.storedSize)
		if cut > size {
			cut = size
		}
		if cut > 0 {
			size -= cut
		}
	}
	payload := []byte{} // An empty transfer still delivers a non-nil, zero-length payload.
	if rs.payload != nil {
		payload = rs.payload[:size]
	}
	out := &Transfer{
		Metadata: Metadata{
			Priority: frame.priority,
			Kind:     frame.kind,
			Port:     frame.port,
			Remote:   frame.src,
			TID:      frame.tid,
		},
		Timestamp:   rs.startTS,
		PayloadSize: size,
		Payload:     payload,
	}

	rs.payload = nil // Ownership transferred to out.
	rs.reset((rs.tid+1)&TransferIDMax, rs.startTS)
	return out, true, nil
}
