package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/chain"
	evmchain "github.com/baserelay/bridge-sdk/chain/evm"
	svmchain "github.com/baserelay/bridge-sdk/chain/svm"
)

const (
	solanaDevnet = bridgetypes.ChainId("solana:devnet")
	baseSepolia  = bridgetypes.HubTestnet
)

func newSVMAdapter(t *testing.T) *svmchain.Adapter {
	t.Helper()
	a, err := svmchain.New(svmchain.Config{ChainId: solanaDevnet, RpcURL: "http://127.0.0.1:8899"})
	require.NoError(t, err)
	return a
}

func newEVMAdapter(t *testing.T) *evmchain.Adapter {
	t.Helper()
	a, err := evmchain.New(evmchain.Config{ChainId: baseSepolia, RpcURL: "http://127.0.0.1:8545"})
	require.NoError(t, err)
	return a
}

func validDeployments() Deployments {
	return Deployments{
		SVM: map[bridgetypes.ChainId]SVMDeployment{
			solanaDevnet: {BridgeProgram: "11111111111111111111111111111111", RelayerProgram: "11111111111111111111111111111111"},
		},
		EVM: map[bridgetypes.ChainId]EVMDeployment{
			baseSepolia: {BridgeContract: "0x0000000000000000000000000000000000dEaD"},
		},
	}
}

func TestNewRequiresAtLeastOneChain(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.ConfigError))
}

func TestNewBuildsHubSpokeRouteBothDirections(t *testing.T) {
	svmAdapter := newSVMAdapter(t)
	evmAdapter := newEVMAdapter(t)

	client, err := New(Config{
		Chains: map[bridgetypes.ChainId]chain.Adapter{
			solanaDevnet: svmAdapter,
			baseSepolia:  evmAdapter,
		},
		Deployments: validDeployments(),
	})
	require.NoError(t, err)

	_, err = client.ResolveRoute(bridgetypes.BridgeRoute{SourceChain: solanaDevnet, DestinationChain: baseSepolia})
	assert.NoError(t, err)

	_, err = client.ResolveRoute(bridgetypes.BridgeRoute{SourceChain: baseSepolia, DestinationChain: solanaDevnet})
	assert.NoError(t, err)
}

func TestNewSkipsNonHubPairs(t *testing.T) {
	svmAdapter := newSVMAdapter(t)
	altSVM, err := svmchain.New(svmchain.Config{ChainId: "solana:testnet", RpcURL: "http://127.0.0.1:8899"})
	require.NoError(t, err)

	client, err := New(Config{
		Chains: map[bridgetypes.ChainId]chain.Adapter{
			solanaDevnet:      svmAdapter,
			"solana:testnet":  altSVM,
		},
	})
	require.NoError(t, err)

	_, err = client.ResolveRoute(bridgetypes.BridgeRoute{SourceChain: solanaDevnet, DestinationChain: "solana:testnet"})
	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.UnsupportedRoute))
}

func TestNewErrorsOnMissingDeployment(t *testing.T) {
	svmAdapter := newSVMAdapter(t)
	evmAdapter := newEVMAdapter(t)

	_, err := New(Config{
		Chains: map[bridgetypes.ChainId]chain.Adapter{
			solanaDevnet: svmAdapter,
			baseSepolia:  evmAdapter,
		},
		Deployments: Deployments{}, // no SVM/EVM deployments configured
	})
	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.ConfigError))
}

func TestCapabilitiesReflectsResolvedRoute(t *testing.T) {
	svmAdapter := newSVMAdapter(t)
	evmAdapter := newEVMAdapter(t)

	client, err := New(Config{
		Chains: map[bridgetypes.ChainId]chain.Adapter{
			solanaDevnet: svmAdapter,
			baseSepolia:  evmAdapter,
		},
		Deployments: validDeployments(),
	})
	require.NoError(t, err)

	caps, err := client.Capabilities(bridgetypes.BridgeRoute{SourceChain: solanaDevnet, DestinationChain: baseSepolia})
	require.NoError(t, err)
	assert.True(t, caps.AutoRelay)
	assert.False(t, caps.Prove)

	caps, err = client.Capabilities(bridgetypes.BridgeRoute{SourceChain: baseSepolia, DestinationChain: solanaDevnet})
	require.NoError(t, err)
	assert.True(t, caps.Prove)
}
