package canard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeCANIDMessageAddressed(t *testing.T) {
	m := &Metadata{Priority: PriorityNominal, Kind: TransferKindMessage, Port: 1234, Remote: NodeIDUnset}
	id, err := makeCANID(m, 42, 4, []byte{1, 2, 3, 4}, MTUCANFD-1)
	require.NoError(t, err)
	assert.True(t, id.IsMessage())
	assert.False(t, id.IsAnonymous())
	assert.Equal(t, NodeID(42), id.Source())
	assert.Equal(t, PortID(1234), id.PortID())
	assert.Equal(t, PriorityNominal, id.Priority())
}

func TestMakeCANIDAnonymousSingleFrame(t *testing.T) {
	m := &Metadata{Priority: PriorityLow, Kind: TransferKindMessage, Port: 7, Remote: NodeIDUnset}
	payload := []byte{0xAA, 0xBB}
	id, err := makeCANID(m, NodeIDUnset, len(payload), payload, MTUCANFD-1)
	require.NoError(t, err)
	assert.True(t, id.IsAnonymous())
	assert.True(t, id.Source().IsSet()) // pseudo node-id derived from CRC
}

func TestMakeCANIDAnonymousMultiFrameRejected(t *testing.T) {
	m := &Metadata{Priority: PriorityLow, Kind: TransferKindMessage, Port: 7, Remote: NodeIDUnset}
	payload := make([]byte, 100)
	_, err := makeCANID(m, NodeIDUnset, len(payload), payload, MTUCANClassic-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMakeCANIDServiceRequiresBothEndpoints(t *testing.T) {
	m := &Metadata{Priority: PriorityHigh, Kind: TransferKindRequest, Port: 10, Remote: 9}
	_, err := makeCANID(m, NodeIDUnset, 0, nil, MTUCANFD-1)
	assert.ErrorIs(t, err, ErrInvalidArgument) // anonymous service transfer is invalid

	id, err := makeCANID(m, 3, 0, nil, MTUCANFD-1)
	require.NoError(t, err)
	assert.True(t, id.IsRequest())
	assert.Equal(t, NodeID(3), id.Source())
	assert.Equal(t, NodeID(9), id.Destination())
}

func TestMakeCANIDPriorityOutOfRange(t *testing.T) {
	m := &Metadata{Priority: Priority(8), Kind: TransferKindMessage, Port: 1, Remote: NodeIDUnset}
	_, err := makeCANID(m, 0, 0, nil, MTUCANFD-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
