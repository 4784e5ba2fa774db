//go:build linux

package main

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/cyphal-can/canard"
)

// canFrameHeaderLen is the fixed header of linux/can.h's struct can_frame
// and struct canfd_frame: 4 bytes can_id, 1 byte length, pad/flags/resv.
const canFrameHeaderLen = 8

// canfdMTU is sizeof(struct canfd_frame) per linux/can.h. golang.org/x/sys
// does not export this constant (only CAN_MTU), so it is defined here.
const canfdMTU = 72

// socketCANDriver is a raw AF_CAN/CAN_RAW socket bound to one interface. It
// speaks only in canard.Frame (received) and canard.TxFrame (sent): the
// 29-bit extended id plus the payload the
// engine already fragmented and tail-byte-encoded, never touching transfer
// semantics.
type socketCANDriver struct {
	fd int
}

func openSocketCAN(iface string, fd bool) (*socketCANDriver, error) {
	sock, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("socket(AF_CAN): %w", err)
	}
	if fd {
		if err := unix.SetsockoptInt(sock, unix.SOL_CAN_RAW, unix.CAN_RAW_FD_FRAMES, 1); err != nil {
			_ = unix.Close(sock)
			return nil, fmt.Errorf("enable CAN FD frames: %w", err)
		}
	}
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		_ = unix.Close(sock)
		return nil, fmt.Errorf("interface %q: %w", iface, err)
	}
	sa := &unix.SockaddrCAN{Ifindex: ifi.Index}
	if err := unix.Bind(sock, sa); err != nil {
		_ = unix.Close(sock)
		return nil, fmt.Errorf("bind(can@%s): %w", iface, err)
	}
	return &socketCANDriver{fd: sock}, nil
}

func (d *socketCANDriver) Close() error { return unix.Close(d.fd) }

// Send encodes one canard.TxFrame into a Linux can_frame/canfd_frame and
// writes it to the socket. Frames with a payload over 8 bytes are written
// in the canfd_frame layout (64-byte data region); the kernel distinguishes
// them by the write size, per linux/can.h.
func (d *socketCANDriver) Send(f canard.TxFrame) error {
	mtu := unix.CAN_MTU
	dataCap := 8
	if len(f.Payload) > 8 {
		mtu = canfdMTU
		dataCap = 64
	}
	buf := make([]byte, mtu)
	putUint32LE(buf[0:4], uint32(f.ExtendedCANID)|unix.CAN_EFF_FLAG)
	buf[4] = uint8(len(f.Payload))
	if mtu == canfdMTU {
		const canfdFDF = 0x04 // linux/can.h CANFD_FDF flags bit
		buf[5] = canfdFDF
	}
	if len(f.Payload) > dataCap {
		return fmt.Errorf("canarddump: frame payload %d exceeds %d-byte frame", len(f.Payload), dataCap)
	}
	copy(buf[canFrameHeaderLen:], f.Payload)
	n, err := unix.Write(d.fd, buf)
	if err != nil {
		return err
	}
	if n != mtu {
		return fmt.Errorf("canarddump: short write %d/%d", n, mtu)
	}
	return nil
}

// Recv reads one frame from the socket and decodes it into a canard.Frame.
// The caller stamps Timestamp; the driver only knows wall-clock, not the
// engine's notion of time.
func (d *socketCANDriver) Recv() (canard.Frame, error) {
	buf := make([]byte, canfdMTU)
	n, err := unix.Read(d.fd, buf)
	if err != nil {
		return canard.Frame{}, err
	}
	if n < canFrameHeaderLen {
		return canard.Frame{}, fmt.Errorf("canarddump: short read %d", n)
	}
	id := getUint32LE(buf[0:4]) &^ uint32(unix.CAN_EFF_FLAG|unix.CAN_RTR_FLAG|unix.CAN_ERR_FLAG)
	dlc := int(buf[4])
	if dlc > n-canFrameHeaderLen {
		dlc = n - canFrameHeaderLen
	}
	payload := make([]byte, dlc)
	copy(payload, buf[canFrameHeaderLen:canFrameHeaderLen+dlc])
	return canard.Frame{ExtendedCANID: canard.ID(id), Payload: payload}, nil
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
