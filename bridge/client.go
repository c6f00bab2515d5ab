// Package bridge is the public surface of the SDK: BridgeClient wires
// the chain adapters, engines, and route adapters together behind the
// five operations a caller needs (transfer/call/request, prove,
// execute, status, monitor), enforcing the hub-and-spoke invariant at
// construction time (spec.md §2, §5).
package bridge

import (
	"context"
	"math/big"

	"github.com/blocto/solana-go-sdk/common"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/chain"
	evmchain "github.com/baserelay/bridge-sdk/chain/evm"
	svmchain "github.com/baserelay/bridge-sdk/chain/svm"
	evmengine "github.com/baserelay/bridge-sdk/engine/evm"
	svmengine "github.com/baserelay/bridge-sdk/engine/svm"
	"github.com/baserelay/bridge-sdk/log"
	"github.com/baserelay/bridge-sdk/monitor"
	"github.com/baserelay/bridge-sdk/route"
	"github.com/baserelay/bridge-sdk/route/evm2svm"
	"github.com/baserelay/bridge-sdk/route/svm2evm"
)

// SVMDeployment names one SVM chain's bridge/relayer program ids.
type SVMDeployment struct {
	BridgeProgram  string
	RelayerProgram string
}

// EVMDeployment names one EVM chain's bridge contract address.
type EVMDeployment struct {
	BridgeContract string
}

// Deployments groups the per-chain contract/program addresses a client
// needs to build engines for every configured chain.
type Deployments struct {
	SVM map[bridgetypes.ChainId]SVMDeployment
	EVM map[bridgetypes.ChainId]EVMDeployment
}

// Defaults holds the fallback options applied when a caller leaves a
// per-call option unset.
type Defaults struct {
	Monitor monitor.Options
	Relay   bridgetypes.RelayOptions
}

// Config constructs a BridgeClient. Chains must hold one adapter per
// chain id the caller intends to route through; Deployments names the
// on-chain program/contract addresses for each; TokenMappings resolves
// token addresses across a chain pair in both directions.
type Config struct {
	Chains        map[bridgetypes.ChainId]chain.Adapter
	Deployments   Deployments
	TokenMappings map[bridgetypes.ChainId]map[bridgetypes.ChainId]map[string]string
	Defaults      Defaults
	Logger        log.Logger
}

// Client is the public entry point: resolve a route, drive it through
// initiate/prove/execute, and observe status.
type Client struct {
	chains   map[bridgetypes.ChainId]chain.Adapter
	registry *route.Registry
	defaults Defaults
	logger   log.Logger
}

// New validates the configuration (at least one chain; adapter kinds and
// deployments for every pair that satisfies the hub invariant, other
// pairs being skipped) and builds every engine/route adapter eagerly so
// construction-time errors surface before any call is made. Chains is a
// map, so no chain id can be registered twice.
func New(cfg Config) (*Client, error) {
	if len(cfg.Chains) == 0 {
		return nil, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageInitiate, "bridge client requires at least one chain adapter")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}

	c := &Client{
		chains:   cfg.Chains,
		registry: route.NewRegistry(),
		defaults: cfg.Defaults,
		logger:   logger.With("component", "bridge.client"),
	}

	for source := range cfg.Chains {
		for destination := range cfg.Chains {
			if source == destination {
				continue
			}
			routeID := bridgetypes.BridgeRoute{SourceChain: source, DestinationChain: destination}
			if !routeID.Valid() {
				continue
			}

			adapter, err := c.buildRouteAdapter(cfg, routeID)
			if err != nil {
				return nil, err
			}
			if adapter == nil {
				continue
			}
			if err := c.registry.Register(source, destination, adapter); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Client) buildRouteAdapter(cfg Config, r bridgetypes.BridgeRoute) (route.Adapter, error) {
	switch {
	case r.IsSVMToEVM():
		svmAdapter, ok := c.chains[r.SourceChain].(*svmchain.Adapter)
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "chain %s is not configured with an SVM adapter", r.SourceChain)
		}
		evmAdapter, ok := c.chains[r.DestinationChain].(*evmchain.Adapter)
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "chain %s is not configured with an EVM adapter", r.DestinationChain)
		}
		svmDeploy, ok := cfg.Deployments.SVM[r.SourceChain]
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "no SVM deployment configured for %s", r.SourceChain)
		}
		evmDeploy, ok := cfg.Deployments.EVM[r.DestinationChain]
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "no EVM deployment configured for %s", r.DestinationChain)
		}

		svmEng, err := svmengine.New(svmengine.Config{
			Adapter:        svmAdapter,
			BridgeProgram:  common.PublicKeyFromString(svmDeploy.BridgeProgram),
			RelayerProgram: common.PublicKeyFromString(svmDeploy.RelayerProgram),
			Logger:         c.logger,
		})
		if err != nil {
			return nil, err
		}
		evmEng, err := evmengine.New(evmengine.Config{
			Adapter:        evmAdapter,
			BridgeContract: ethcommon.HexToAddress(evmDeploy.BridgeContract),
			Logger:         c.logger,
		})
		if err != nil {
			return nil, err
		}

		return svm2evm.New(svm2evm.Config{
			SourceChain:      r.SourceChain,
			DestinationChain: r.DestinationChain,
			SVMEngine:        svmEng,
			EVMEngine:        evmEng,
			EVMAdapter:       evmAdapter,
			TokenMappings:    cfg.TokenMappings[r.SourceChain][r.DestinationChain],
			Logger:           c.logger,
		})

	case r.IsEVMToSVM():
		evmAdapter, ok := c.chains[r.SourceChain].(*evmchain.Adapter)
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "chain %s is not configured with an EVM adapter", r.SourceChain)
		}
		svmAdapter, ok := c.chains[r.DestinationChain].(*svmchain.Adapter)
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "chain %s is not configured with an SVM adapter", r.DestinationChain)
		}
		evmDeploy, ok := cfg.Deployments.EVM[r.SourceChain]
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "no EVM deployment configured for %s", r.SourceChain)
		}
		svmDeploy, ok := cfg.Deployments.SVM[r.DestinationChain]
		if !ok {
			return nil, bridgeerr.Newf(bridgeerr.ConfigError, bridgeerr.StageInitiate, "no SVM deployment configured for %s", r.DestinationChain)
		}

		evmEng, err := evmengine.New(evmengine.Config{
			Adapter:        evmAdapter,
			BridgeContract: ethcommon.HexToAddress(evmDeploy.BridgeContract),
			Logger:         c.logger,
		})
		if err != nil {
			return nil, err
		}
		svmEng, err := svmengine.New(svmengine.Config{
			Adapter:        svmAdapter,
			BridgeProgram:  common.PublicKeyFromString(svmDeploy.BridgeProgram),
			RelayerProgram: common.PublicKeyFromString(svmDeploy.RelayerProgram),
			Logger:         c.logger,
		})
		if err != nil {
			return nil, err
		}

		return evm2svm.New(evm2svm.Config{
			SourceChain:      r.SourceChain,
			DestinationChain: r.DestinationChain,
			EVMEngine:        evmEng,
			SVMEngine:        svmEng,
			TokenMappings:    cfg.TokenMappings[r.SourceChain][r.DestinationChain],
			Logger:           c.logger,
		})

	default:
		// Both endpoints are the same chain kind (e.g. hub-to-hub); no
		// route adapter exists for that pairing.
		return nil, nil
	}
}

// ResolveRoute exposes the registry lookup so callers can check support
// for a pair before attempting an operation.
func (c *Client) ResolveRoute(r bridgetypes.BridgeRoute) (route.Adapter, error) {
	return c.registry.Resolve(r)
}

// Capabilities reports what steps/flags a route supports.
func (c *Client) Capabilities(r bridgetypes.BridgeRoute) (bridgetypes.RouteCapabilities, error) {
	adapter, err := c.registry.Resolve(r)
	if err != nil {
		return bridgetypes.RouteCapabilities{}, err
	}
	return adapter.Capabilities(), nil
}

func (c *Client) withDefaults(req bridgetypes.BridgeRequest) bridgetypes.BridgeRequest {
	if req.Relay == nil {
		relay := c.defaults.Relay
		req.Relay = &relay
	}
	return req
}

// Request is the general entry point: resolve the route and initiate.
func (c *Client) Request(ctx context.Context, req bridgetypes.BridgeRequest) (bridgetypes.MessageRef, error) {
	adapter, err := c.registry.Resolve(req.Route)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	return adapter.Initiate(ctx, c.withDefaults(req))
}

// Transfer is a thin wrapper over Request for asset-move actions.
func (c *Client) Transfer(ctx context.Context, r bridgetypes.BridgeRoute, asset bridgetypes.AssetRef, amount *big.Int, recipient string, opts ...func(*bridgetypes.BridgeRequest)) (bridgetypes.MessageRef, error) {
	req := bridgetypes.BridgeRequest{Route: r, Action: bridgetypes.Transfer(asset, amount, recipient)}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Request(ctx, req)
}

// Call is a thin wrapper over Request for bare-call actions.
func (c *Client) Call(ctx context.Context, r bridgetypes.BridgeRoute, to string, value *big.Int, data []byte, callType uint8, opts ...func(*bridgetypes.BridgeRequest)) (bridgetypes.MessageRef, error) {
	req := bridgetypes.BridgeRequest{Route: r, Action: bridgetypes.Call(to, value, data, callType)}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Request(ctx, req)
}

// Prove drives the route's prove step. Routes without one return
// bridgeerr.UnsupportedStep.
func (c *Client) Prove(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	adapter, err := c.registry.Resolve(ref.Route)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	return adapter.Prove(ctx, ref)
}

// Execute drives the route's execute step.
func (c *Client) Execute(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	adapter, err := c.registry.Resolve(ref.Route)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	return adapter.Execute(ctx, ref)
}

// Status reads the current execution status for ref.
func (c *Client) Status(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.ExecutionStatus, error) {
	adapter, err := c.registry.Resolve(ref.Route)
	if err != nil {
		return bridgetypes.ExecutionStatus{}, err
	}
	return adapter.Status(ctx, ref)
}

// Monitor polls ref's status to completion, applying the client's
// default monitor options where opts leaves fields zero.
func (c *Client) Monitor(ctx context.Context, ref bridgetypes.MessageRef, opts monitor.Options, onStatus func(bridgetypes.ExecutionStatus) error) error {
	adapter, err := c.registry.Resolve(ref.Route)
	if err != nil {
		return err
	}
	merged := opts
	if merged.TimeoutMs == 0 {
		merged.TimeoutMs = c.defaults.Monitor.TimeoutMs
	}
	if merged.PollIntervalMs == 0 {
		merged.PollIntervalMs = c.defaults.Monitor.PollIntervalMs
	}
	return adapter.Monitor(ctx, ref, merged, onStatus)
}
