// Package canard implements the transfer-layer engine of the UAVCAN/Cyphal
// transport protocol over Classic CAN 2.0B and CAN FD.
//
// It turns application transfers (messages or service request/response
// pairs) into priority-ordered CAN frames on transmit, and reassembles
// received CAN frames back into transfers on receive. The package is a
// direct translation of the synchronous, allocator-driven design of
// libcanard: every operation runs to completion on the calling goroutine,
// nothing blocks, and an Instance is not safe for concurrent use without
// external synchronization.
package canard
