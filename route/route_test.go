package route

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/monitor"
)

type stubAdapter struct{}

func (stubAdapter) Capabilities() bridgetypes.RouteCapabilities { return bridgetypes.RouteCapabilities{} }
func (stubAdapter) Initiate(ctx context.Context, req bridgetypes.BridgeRequest) (bridgetypes.MessageRef, error) {
	return bridgetypes.MessageRef{}, nil
}
func (stubAdapter) Prove(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	return bridgetypes.MessageRef{}, nil
}
func (stubAdapter) Execute(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	return bridgetypes.MessageRef{}, nil
}
func (stubAdapter) Status(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.ExecutionStatus, error) {
	return bridgetypes.ExecutionStatus{}, nil
}
func (stubAdapter) Monitor(ctx context.Context, ref bridgetypes.MessageRef, opts monitor.Options, onStatus func(bridgetypes.ExecutionStatus) error) error {
	return nil
}

const (
	hub    = bridgetypes.HubTestnet
	svmDev = bridgetypes.ChainId("solana:devnet")
	evmAlt = bridgetypes.ChainId("eip155:1") // not a hub chain
)

func TestRegistryRejectsNonHubRoute(t *testing.T) {
	r := NewRegistry()
	err := r.Register(svmDev, evmAlt, stubAdapter{})
	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.UnsupportedRoute))
}

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(svmDev, hub, stubAdapter{}))
	err := r.Register(svmDev, hub, stubAdapter{})
	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.ConfigError))
}

func TestRegistryResolveRoundTrip(t *testing.T) {
	r := NewRegistry()
	adapter := stubAdapter{}
	require.NoError(t, r.Register(svmDev, hub, adapter))

	resolved, err := r.Resolve(bridgetypes.BridgeRoute{SourceChain: svmDev, DestinationChain: hub})
	require.NoError(t, err)
	assert.Equal(t, adapter, resolved)
}

func TestRegistryResolveUnknownRouteErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(bridgetypes.BridgeRoute{SourceChain: svmDev, DestinationChain: hub})
	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.UnsupportedRoute))
}
