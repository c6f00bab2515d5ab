package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeContractABIParsesExpectedSurface(t *testing.T) {
	for _, name := range []string{"BRIDGE_VALIDATOR", "successes", "failures", "getMessageHash", "generateProof", "relayMessages", "bridgeCall", "bridgeToken"} {
		_, ok := bridgeContractABI.Methods[name]
		assert.True(t, ok, "missing method %s", name)
	}
	_, ok := bridgeContractABI.Events["MessageInitiated"]
	assert.True(t, ok, "missing MessageInitiated event")
}

func TestValidatorABIParsesExpectedSurface(t *testing.T) {
	_, ok := validatorABI.Methods["validMessages"]
	assert.True(t, ok)
}

func TestToIxTuplesPreservesFields(t *testing.T) {
	ixs := []Ix{
		{ProgramID: [32]byte{1}, Accounts: []byte{2, 3}, Data: []byte{4, 5, 6}},
		{ProgramID: [32]byte{7}, Accounts: nil, Data: []byte{8}},
	}
	tuples := toIxTuples(ixs)
	require.Len(t, tuples, 2)
	assert.Equal(t, ixs[0].ProgramID, tuples[0].ProgramId)
	assert.Equal(t, ixs[0].Accounts, tuples[0].Accounts)
	assert.Equal(t, ixs[0].Data, tuples[0].Data)
	assert.Equal(t, ixs[1].ProgramID, tuples[1].ProgramId)
}

func TestMessageInitiatedEventRoundTrip(t *testing.T) {
	messageHash := [32]byte{0xaa}
	mmrRoot := [32]byte{0xbb}
	msg := messageTuple{Nonce: 42, Sender: [32]byte{0xcc}, Ty: 1, Data: []byte{0x01, 0x02}}

	packed, err := bridgeContractABI.Events["MessageInitiated"].Inputs.Pack(messageHash, mmrRoot, msg)
	require.NoError(t, err)

	event, err := decodeMessageInitiated(packed)
	require.NoError(t, err)
	assert.Equal(t, messageHash, event.MessageHash)
	assert.Equal(t, mmrRoot, event.MmrRoot)
	assert.Equal(t, msg.Nonce, event.Nonce)
	assert.Equal(t, msg.Sender, event.Sender)
	assert.Equal(t, msg.Ty, event.Ty)
	assert.Equal(t, msg.Data, event.Data)
}

func TestAbiAsStructCopiesByFieldName(t *testing.T) {
	type src struct {
		Nonce uint64
		Extra string
	}
	type dst struct {
		Nonce uint64
	}
	out := abiAsStruct[dst](src{Nonce: 7, Extra: "ignored"})
	assert.Equal(t, uint64(7), out.Nonce)
}

