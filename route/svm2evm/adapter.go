// Package svm2evm implements the SVM→EVM route adapter: initiate on the
// SVM source engine, derive the EVM-side outer hash as soon as the
// outgoing message exists, and execute/monitor against the EVM engine
// (spec.md §4.3.3 "SVM→EVM adapter").
package svm2evm

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/chain"
	evmchain "github.com/baserelay/bridge-sdk/chain/evm"
	evmengine "github.com/baserelay/bridge-sdk/engine/evm"
	svmengine "github.com/baserelay/bridge-sdk/engine/svm"
	"github.com/baserelay/bridge-sdk/identity"
	"github.com/baserelay/bridge-sdk/log"
	"github.com/baserelay/bridge-sdk/monitor"
)

// Config configures an Adapter for one SVM source / EVM hub pair.
type Config struct {
	SourceChain      bridgetypes.ChainId
	DestinationChain bridgetypes.ChainId
	SVMEngine        *svmengine.Engine
	EVMEngine        *evmengine.Engine
	EVMAdapter       *evmchain.Adapter
	// TokenMappings maps a base58 SVM mint to its hex EVM token address,
	// consulted for transfer(token) (spec.md §4.3.3 "rejects token
	// transfers without a configured tokenMappings entry").
	TokenMappings map[string]string
	Logger        log.Logger
}

// Adapter is the route.Adapter implementation for SVM→EVM.
type Adapter struct {
	sourceChain      bridgetypes.ChainId
	destinationChain bridgetypes.ChainId
	svm              *svmengine.Engine
	evm              *evmengine.Engine
	evmAdapter       *evmchain.Adapter
	tokenMappings    map[string]string
	logger           log.Logger
}

// New constructs an Adapter from cfg.
func New(cfg Config) (*Adapter, error) {
	if cfg.SVMEngine == nil || cfg.EVMEngine == nil || cfg.EVMAdapter == nil {
		return nil, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageInitiate, "svm2evm adapter requires both engines and the EVM adapter")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Adapter{
		sourceChain:      cfg.SourceChain,
		destinationChain: cfg.DestinationChain,
		svm:              cfg.SVMEngine,
		evm:              cfg.EVMEngine,
		evmAdapter:       cfg.EVMAdapter,
		tokenMappings:    cfg.TokenMappings,
		logger:           logger.With("component", "route.svm2evm"),
	}, nil
}

// Capabilities reports this direction's fixed step/flag set (spec.md
// §4.3.3): auto-relay, no prove step, manual execute available only
// when the bound EVM adapter holds a signing key.
func (a *Adapter) Capabilities() bridgetypes.RouteCapabilities {
	return bridgetypes.RouteCapabilities{
		Steps:         []bridgetypes.RouteStep{bridgetypes.StepInitiate, bridgetypes.StepExecute, bridgetypes.StepMonitor},
		AutoRelay:     true,
		ManualExecute: a.evmAdapter.WalletMode() == chain.WalletPrivateKey,
		Prove:         false,
	}
}

func hexTo32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, bridgeerr.Wrap(bridgeerr.ConfigError, bridgeerr.StageInitiate, "invalid hex value "+s, err)
	}
	n := len(b)
	if n > 32 {
		n = 32
	}
	copy(out[:n], b[:n])
	return out, nil
}

func nestedCallPayload(nc *bridgetypes.NestedCall) (*identity.CallPayload, error) {
	if nc == nil {
		return nil, nil
	}
	toBytes, err := hexTo32(nc.To)
	if err != nil {
		return nil, err
	}
	return &identity.CallPayload{CallType: nc.CallType, To: toBytes, Value: nc.Value, Data: nc.Data}, nil
}

func bridgeOptions(req bridgetypes.BridgeRequest, nc *identity.CallPayload) svmengine.BridgeOptions {
	payForRelay := req.Relay == nil || req.Relay.Mode == bridgetypes.RelayAuto
	return svmengine.BridgeOptions{
		PayForRelay:    payForRelay,
		IdempotencyKey: req.IdempotencyKey,
		KeypairPath:    req.Metadata["svmKeypairPath"],
		NestedCall:     nc,
	}
}

// Initiate dispatches to the appropriate SVM engine operation by
// (action.Kind, asset.Kind), then re-fetches the outgoing message PDA
// and derives the EVM outer hash so the returned MessageRef already
// carries both endpoint identities.
func (a *Adapter) Initiate(ctx context.Context, req bridgetypes.BridgeRequest) (bridgetypes.MessageRef, error) {
	nc, err := nestedCallPayload(req.Action.NestedCall)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	opts := bridgeOptions(req, nc)

	var result svmengine.BridgeResult
	switch req.Action.Kind {
	case bridgetypes.ActionCall:
		value := req.Action.Value
		if value == nil {
			value = big.NewInt(0)
		}
		result, err = a.svm.BridgeCall(ctx, req.Action.To, value, req.Action.Data, req.Action.CallType, opts)
	case bridgetypes.ActionTransfer:
		amount := uint64(0)
		if req.Action.Amount != nil {
			amount = req.Action.Amount.Uint64()
		}
		switch req.Action.Asset.Kind {
		case bridgetypes.AssetNative:
			result, err = a.svm.BridgeNative(ctx, req.Action.Recipient, amount, opts)
		case bridgetypes.AssetToken:
			remoteToken, ok := a.tokenMappings[req.Action.Asset.Address]
			if !ok {
				return bridgetypes.MessageRef{}, bridgeerr.Newf(bridgeerr.UnsupportedAction, bridgeerr.StageInitiate, "no token mapping configured for SVM mint %s", req.Action.Asset.Address)
			}
			result, err = a.svm.BridgeToken(ctx, req.Action.Recipient, req.Action.Asset.Address, remoteToken, amount, opts)
		case bridgetypes.AssetWrapped:
			result, err = a.svm.BridgeWrapped(ctx, req.Action.Recipient, req.Action.Asset.Address, amount, opts)
		default:
			return bridgetypes.MessageRef{}, bridgeerr.Newf(bridgeerr.UnsupportedAction, bridgeerr.StageInitiate, "unsupported asset kind %s", req.Action.Asset.Kind)
		}
	default:
		return bridgetypes.MessageRef{}, bridgeerr.Newf(bridgeerr.UnsupportedAction, bridgeerr.StageInitiate, "unsupported action kind %s", req.Action.Kind)
	}
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	outgoingPda32, err := identity.DecodeSVMPubkey(result.OutgoingMessagePda)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	msg, err := a.svm.FetchOutgoingMessage(ctx, result.OutgoingMessagePda)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	outerHash, _, err := identity.DeriveOuterHash(msg, outgoingPda32)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	return bridgetypes.MessageRef{
		Route: bridgetypes.BridgeRoute{SourceChain: a.sourceChain, DestinationChain: a.destinationChain},
		Source: bridgetypes.MessageEndpointRef{
			ID:      bridgetypes.MessageId{Scheme: bridgetypes.SchemeSVMOutgoingMessagePda, Value: result.OutgoingMessagePda},
			Derived: map[string]string{"signature": result.Signature},
		},
		Destination: &bridgetypes.MessageEndpointRef{
			ID: bridgetypes.MessageId{Scheme: bridgetypes.SchemeEVMBridgeOuterHash, Value: identity.HexHash(outerHash)},
		},
	}, nil
}

// Prove is not a step this direction supports: the EVM destination
// validates messages off-chain, it does not need a relayed Merkle proof
// (spec.md §4.3.3 "prove: unsupported step").
func (a *Adapter) Prove(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	return bridgetypes.MessageRef{}, bridgeerr.New(bridgeerr.UnsupportedStep, bridgeerr.StageProve, "svm2evm route has no prove step")
}

func outerHashFromRef(ref bridgetypes.MessageRef) ([32]byte, error) {
	if ref.Destination == nil || ref.Destination.ID.Scheme != bridgetypes.SchemeEVMBridgeOuterHash {
		return [32]byte{}, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageExecute, "message ref is missing its EVM outer hash destination id")
	}
	var out [32]byte
	copy(out[:], ethcommon.HexToHash(ref.Destination.ID.Value).Bytes())
	return out, nil
}

// Execute re-derives the outgoing message and submits it to the EVM
// bridge contract (spec.md §4.3.3 "execute: fetches the outgoing PDA
// and calls executeMessage").
func (a *Adapter) Execute(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	if _, err := outerHashFromRef(ref); err != nil {
		return bridgetypes.MessageRef{}, err
	}

	outgoingPda32, err := identity.DecodeSVMPubkey(ref.Source.ID.Value)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	msg, err := a.svm.FetchOutgoingMessage(ctx, ref.Source.ID.Value)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	txHash, err := a.evm.ExecuteMessage(ctx, msg, outgoingPda32, evmengine.ExecuteOptions{})
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	return ref.WithDerived("executionTx", txHash), nil
}

// Status reads successes/failures on the bridge contract and maps them
// onto the execution status DAG (spec.md §4.3.3 "status: multicall
// reads successes/failures").
func (a *Adapter) Status(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.ExecutionStatus, error) {
	outerHash, err := outerHashFromRef(ref)
	if err != nil {
		return bridgetypes.ExecutionStatus{}, err
	}

	failed, err := a.evm.Failures(ctx, outerHash)
	if err != nil {
		return bridgetypes.ExecutionStatus{}, err
	}
	if failed {
		return bridgetypes.ExecutionStatus{Kind: bridgetypes.StatusFailed, At: time.Now(), Reason: "destination recorded permanent failure"}, nil
	}

	executed, err := a.evm.Successes(ctx, outerHash)
	if err != nil {
		return bridgetypes.ExecutionStatus{}, err
	}
	if executed {
		return bridgetypes.ExecutionStatus{Kind: bridgetypes.StatusExecuted, At: time.Now(), ExecutionTx: ref.Get("executionTx")}, nil
	}

	return bridgetypes.ExecutionStatus{Kind: bridgetypes.StatusExecutable, At: time.Now()}, nil
}

// Monitor wraps Status as a monitor.Probe and drives the generic
// polling loop.
func (a *Adapter) Monitor(ctx context.Context, ref bridgetypes.MessageRef, opts monitor.Options, onStatus func(bridgetypes.ExecutionStatus) error) error {
	probe := func(ctx context.Context) (bridgetypes.ExecutionStatus, error) {
		return a.Status(ctx, ref)
	}
	return monitor.RunWithLogger(ctx, probe, opts, onStatus, a.logger)
}
