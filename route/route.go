// Package route defines the uniform contract every direction-specific
// route adapter implements, and the registry that maps a BridgeRoute to
// its adapter while enforcing the hub-and-spoke invariant (spec.md
// §2 items 4-5, §4.3.3, §4.5).
package route

import (
	"context"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/monitor"
)

// Adapter is the uniform surface a direction-specific route
// implementation exposes to the bridge client.
type Adapter interface {
	Capabilities() bridgetypes.RouteCapabilities
	Initiate(ctx context.Context, req bridgetypes.BridgeRequest) (bridgetypes.MessageRef, error)
	Prove(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error)
	Execute(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error)
	Status(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.ExecutionStatus, error)
	Monitor(ctx context.Context, ref bridgetypes.MessageRef, opts monitor.Options, onStatus func(bridgetypes.ExecutionStatus) error) error
}

// Registry maps a BridgeRoute to its adapter, enforcing the
// hub-and-spoke invariant at registration time.
type Registry struct {
	byRoute map[bridgetypes.ChainId]map[bridgetypes.ChainId]Adapter
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byRoute: make(map[bridgetypes.ChainId]map[bridgetypes.ChainId]Adapter)}
}

// Register binds an adapter to a (source, destination) pair. Rejects
// routes violating the hub invariant and duplicate registrations.
func (r *Registry) Register(source, destination bridgetypes.ChainId, adapter Adapter) error {
	route := bridgetypes.BridgeRoute{SourceChain: source, DestinationChain: destination}
	if !route.Valid() {
		return bridgeerr.New(bridgeerr.UnsupportedRoute, bridgeerr.StageInitiate, "route violates hub invariant").WithRoute(route.Key())
	}

	if _, ok := r.byRoute[source]; !ok {
		r.byRoute[source] = make(map[bridgetypes.ChainId]Adapter)
	}
	if _, exists := r.byRoute[source][destination]; exists {
		return bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageInitiate, "duplicate route registration").WithRoute(route.Key())
	}
	r.byRoute[source][destination] = adapter
	return nil
}

// Resolve looks up the adapter for a route, erroring UnsupportedRoute
// if none is registered.
func (r *Registry) Resolve(route bridgetypes.BridgeRoute) (Adapter, error) {
	if !route.Valid() {
		return nil, bridgeerr.New(bridgeerr.UnsupportedRoute, bridgeerr.StageInitiate, "route violates hub invariant").WithRoute(route.Key())
	}
	dests, ok := r.byRoute[route.SourceChain]
	if !ok {
		return nil, bridgeerr.New(bridgeerr.UnsupportedRoute, bridgeerr.StageInitiate, "no adapter registered for source chain").WithRoute(route.Key())
	}
	adapter, ok := dests[route.DestinationChain]
	if !ok {
		return nil, bridgeerr.New(bridgeerr.UnsupportedRoute, bridgeerr.StageInitiate, "no adapter registered for route").WithRoute(route.Key())
	}
	return adapter, nil
}
