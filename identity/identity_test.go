package identity

import (
	"math/big"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOuterHashDeterministic(t *testing.T) {
	var sender [32]byte
	copy(sender[:], []byte("11111111111111111111111111111111"))

	msg := OutgoingMessage{
		Nonce:  42,
		Sender: sender,
		Message: Message{
			Kind: PayloadCall,
			Call: &CallPayload{
				CallType: 0,
				To:       [32]byte{0x11},
				Value:    big.NewInt(0),
				Data:     []byte{0xd0, 0x9d, 0xe0, 0x8a},
			},
		},
	}
	var outgoingPda [32]byte
	copy(outgoingPda[:], []byte("outgoing-message-pda-bytes-here"))

	outer1, inner1, err := DeriveOuterHash(msg, outgoingPda)
	require.NoError(t, err)

	outer2, inner2, err := DeriveOuterHash(msg, outgoingPda)
	require.NoError(t, err)

	assert.Equal(t, outer1, outer2, "outer hash must be deterministic for identical input")
	assert.Equal(t, inner1, inner2, "inner hash must be deterministic for identical input")
	assert.NotEqual(t, [32]byte{}, outer1)
}

func TestOuterHashChangesWithNonce(t *testing.T) {
	var sender [32]byte
	var outgoingPda [32]byte

	base := OutgoingMessage{
		Nonce:   1,
		Sender:  sender,
		Message: Message{Kind: PayloadCall, Call: &CallPayload{To: [32]byte{0x22}, Value: big.NewInt(0)}},
	}
	bumped := base
	bumped.Nonce = 2

	outerA, _, err := DeriveOuterHash(base, outgoingPda)
	require.NoError(t, err)
	outerB, _, err := DeriveOuterHash(bumped, outgoingPda)
	require.NoError(t, err)

	assert.NotEqual(t, outerA, outerB)
}

func TestEncodeDecodeCallRoundTrip(t *testing.T) {
	call := CallPayload{
		CallType: 3,
		To:       [32]byte{0xaa, 0xbb},
		Value:    big.NewInt(12345),
		Data:     []byte{0x01, 0x02, 0x03},
	}
	msg := Message{Kind: PayloadCall, Call: &call}

	ty, data, err := EncodePayload(msg)
	require.NoError(t, err)
	assert.Equal(t, uint8(PayloadCall), ty)

	decoded, err := DecodePayload(ty, data)
	require.NoError(t, err)
	require.NotNil(t, decoded.Call)
	assert.Equal(t, call.CallType, decoded.Call.CallType)
	assert.Equal(t, call.To, decoded.Call.To)
	assert.Equal(t, 0, call.Value.Cmp(decoded.Call.Value))
	assert.Equal(t, call.Data, decoded.Call.Data)
}

func TestEncodeDecodeTransferRoundTrip(t *testing.T) {
	transfer := TransferPayload{
		LocalToken:   [32]byte{0x01},
		RemoteToken:  [32]byte{0x02},
		To:           append(make([]byte, 12), []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x00, 0x01, 0x02, 0x03, 0x04}...),
		RemoteAmount: 999,
	}
	msg := Message{Kind: PayloadTransfer, Transfer: &transfer}

	ty, data, err := EncodePayload(msg)
	require.NoError(t, err)
	assert.Equal(t, uint8(PayloadTransfer), ty)

	decoded, err := DecodePayload(ty, data)
	require.NoError(t, err)
	require.NotNil(t, decoded.Transfer)
	assert.Equal(t, transfer.LocalToken, decoded.Transfer.LocalToken)
	assert.Equal(t, transfer.RemoteToken, decoded.Transfer.RemoteToken)
	assert.Equal(t, transfer.RemoteAmount, decoded.Transfer.RemoteAmount)
}

func TestDecodeSVMPubkeyRoundTrip(t *testing.T) {
	var raw [32]byte
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	encoded := EncodeSVMPubkey(raw)
	decoded, err := DecodeSVMPubkey(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeSVMPubkeyRejectsOversizedInput(t *testing.T) {
	oversized := make([]byte, 40)
	for i := range oversized {
		oversized[i] = byte(i + 1)
	}
	_, err := DecodeSVMPubkey(base58.Encode(oversized))
	assert.Error(t, err)
}
