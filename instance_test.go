package canard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestInitDefaults(t *testing.T) {
	ins := Init(nil)
	assert.Equal(t, NodeIDUnset, ins.NodeID)
	assert.Equal(t, MTUCANFD, ins.MTU)
	assert.Same(t, DefaultAllocator, ins.allocator())
}

func TestInitUsesSuppliedAllocator(t *testing.T) {
	alloc := newFailAfterN(5)
	ins := Init(alloc)
	assert.Same(t, Allocator(alloc), ins.allocator())
}

func TestTxPushFacadeRejectsNilTransfer(t *testing.T) {
	ins := Init(nil)
	_, err := ins.TxPush(0, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRxAcceptFacadeRejectsNilFrame(t *testing.T) {
	ins := Init(nil)
	_, _, err := ins.RxAccept(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEndToEndRequestResponse(t *testing.T) {
	server := Init(nil)
	server.NodeID = 10
	client := Init(nil)
	client.NodeID = 20

	sub := &Subscription{}
	_, err := server.RxSubscribe(TransferKindRequest, 5, 16, 1_000_000, sub)
	require.NoError(t, err)

	req := &Transfer{
		Metadata:    Metadata{Priority: PriorityHigh, Kind: TransferKindRequest, Port: 5, Remote: 10, TID: 1},
		PayloadSize: 3,
		Payload:     []byte{1, 2, 3},
	}
	n, err := client.TxPush(0, req)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	f, ok := client.TxPeek()
	require.True(t, ok)
	client.TxPop()

	tr, done, err := server.RxAccept(&Frame{ExtendedCANID: f.ExtendedCANID, Payload: f.Payload}, 0)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, []byte{1, 2, 3}, tr.Payload)
	assert.Equal(t, NodeID(20), tr.Remote)
}

func TestRxAcceptToggleViolationDropsTransfer(t *testing.T) {
	tx := Init(nil)
	tx.NodeID = 42
	tx.MTU = MTUCANClassic

	payload := make([]byte, 13)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	n, err := tx.TxPush(0, &Transfer{
		Metadata:    Metadata{Priority: PriorityFast, Kind: TransferKindMessage, Port: 9, Remote: NodeIDUnset, TID: 7},
		PayloadSize: len(payload),
		Payload:     payload,
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	var frames []*Frame
	for {
		f, ok := tx.TxPeek()
		if !ok {
			break
		}
		frames = append(frames, &Frame{Timestamp: 1, ExtendedCANID: f.ExtendedCANID, Payload: append([]byte{}, f.Payload...)})
		tx.TxPop()
	}
	require.Len(t, frames, 3)

	// Corrupt the second frame's toggle bit. The receiver must consume the
	// first frame, drop the corrupted one, and then ignore the third.
	frames[1].Payload[len(frames[1].Payload)-1] ^= byte(tailToggle)

	rx := Init(nil)
	_, err = rx.RxSubscribe(TransferKindMessage, 9, len(payload), 1_000_000, &Subscription{})
	require.NoError(t, err)

	for _, f := range frames {
		tr, done, rerr := rx.RxAccept(f, 0)
		require.NoError(t, rerr)
		assert.False(t, done)
		assert.Nil(t, tr)
	}
}

func TestEndToEndMessageRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pub := Init(nil)
		pub.NodeID = 1
		pub.MTU = rapid.SampledFrom([]int{MTUCANClassic, MTUCANFD}).Draw(rt, "mtu")
		size := rapid.IntRange(0, 40).Draw(rt, "size")
		payload := rapid.SliceOfN(rapid.Byte(), size, size).Draw(rt, "payload")

		// Subscribing with extent == payload size makes the delivered
		// payload bit-identical to the published one: DLC padding beyond
		// the extent is cut off by the truncation rule.
		sub := &Subscription{}
		subscriber := Init(nil)
		subscriber.NodeID = 2
		_, err := subscriber.RxSubscribe(TransferKindMessage, 7, size, 1_000_000, sub)
		assert.NoError(rt, err)

		tr := &Transfer{
			Metadata:    Metadata{Priority: PriorityNominal, Kind: TransferKindMessage, Port: 7, Remote: NodeIDUnset},
			PayloadSize: size,
			Payload:     payload,
		}
		_, err = pub.TxPush(0, tr)
		assert.NoError(rt, err)

		var got *Transfer
		for {
			f, ok := pub.TxPeek()
			if !ok {
				break
			}
			frame := &Frame{ExtendedCANID: f.ExtendedCANID, Payload: append([]byte{}, f.Payload...)}
			pub.TxPop()
			out, done, err := subscriber.RxAccept(frame, 0)
			assert.NoError(rt, err)
			if done {
				got = out
			}
		}
		if assert.NotNil(rt, got) {
			assert.Equal(rt, payload, got.Payload)
		}
	})
}
