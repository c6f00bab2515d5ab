package svm

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baserelay/bridge-sdk/identity"
)

func TestAnchorDiscriminatorStableAndDistinctPerName(t *testing.T) {
	a := anchorDiscriminator("bridge_native")
	b := anchorDiscriminator("bridge_native")
	c := anchorDiscriminator("bridge_token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestIxDataBuilderLayout(t *testing.T) {
	var salt [32]byte
	salt[0] = 0xaa
	var to [32]byte
	to[0] = 0xbb

	data := newIxData("bridge_native").bytes32(salt).bytes32(to).u64(1000).build()

	disc := anchorDiscriminator("bridge_native")
	require.Len(t, data, 8+32+32+8)
	assert.Equal(t, disc[:], data[:8])
	assert.Equal(t, salt[:], data[8:40])
	assert.Equal(t, to[:], data[40:72])
	assert.Equal(t, uint64(1000), binary.LittleEndian.Uint64(data[72:80]))
}

func TestIxDataBuilderBytesWithLenPrefix(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	data := newIxData("bridge_call").bytesWithLen(payload).build()

	gotLen := binary.LittleEndian.Uint32(data[8:12])
	assert.Equal(t, uint32(len(payload)), gotLen)
	assert.Equal(t, payload, data[12:])
}

func TestIxDataBuilderBool(t *testing.T) {
	withTrue := newIxData("x").bool(true).build()
	withFalse := newIxData("x").bool(false).build()
	assert.Equal(t, byte(1), withTrue[8])
	assert.Equal(t, byte(0), withFalse[8])
}

func TestDecodeIncomingMessageAccountRejectsShortData(t *testing.T) {
	_, err := decodeIncomingMessageAccount([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeOutgoingMessageAccountRoundTrip(t *testing.T) {
	var sender [32]byte
	sender[0] = 0x05

	ty, payloadData, err := identity.EncodePayload(identity.Message{
		Kind: identity.PayloadCall,
		Call: &identity.CallPayload{CallType: 0, To: [32]byte{0x11}, Value: big.NewInt(0), Data: []byte{0xde, 0xad, 0xbe, 0xef}},
	})
	require.NoError(t, err)

	disc := anchorDiscriminator("outgoing_message")
	buf := append([]byte(nil), disc[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, 7) // nonce
	buf = append(buf, sender[:]...)
	buf = append(buf, ty)

	lenPrefix := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenPrefix, uint32(len(payloadData)))
	buf = append(buf, lenPrefix...)
	buf = append(buf, payloadData...)

	msg, err := decodeOutgoingMessageAccount(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), msg.Nonce)
	assert.Equal(t, sender, msg.Sender)
	require.NotNil(t, msg.Message.Call)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, msg.Message.Call.Data)
}
