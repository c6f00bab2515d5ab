package bridgetypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainIdKind(t *testing.T) {
	assert.Equal(t, ChainKindEVM, ChainId("eip155:8453").Kind())
	assert.Equal(t, ChainKindSVM, ChainId("solana:mainnet").Kind())
}

func TestRouteValid(t *testing.T) {
	t.Run("hub on destination is valid", func(t *testing.T) {
		r := BridgeRoute{SourceChain: "solana:mainnet", DestinationChain: HubMainnet}
		assert.True(t, r.Valid())
		assert.True(t, r.IsSVMToEVM())
		assert.False(t, r.IsEVMToSVM())
	})

	t.Run("hub on source is valid", func(t *testing.T) {
		r := BridgeRoute{SourceChain: HubMainnet, DestinationChain: "solana:mainnet"}
		assert.True(t, r.Valid())
		assert.True(t, r.IsEVMToSVM())
	})

	t.Run("no hub endpoint is invalid", func(t *testing.T) {
		r := BridgeRoute{SourceChain: "eip155:1", DestinationChain: "solana:mainnet"}
		assert.False(t, r.Valid())
	})
}

func TestRouteKey(t *testing.T) {
	r := BridgeRoute{SourceChain: "solana:mainnet", DestinationChain: HubMainnet}
	assert.Equal(t, "solana:mainnet->eip155:8453", r.Key())
}
