// Package evm2svm implements the EVM→SVM route adapter: initiate a
// token transfer on the EVM source engine, prove it on SVM once the hub
// block height recorded by the SVM bridge covers it, then execute
// (relay) it on SVM (spec.md §4.3.3 "EVM→SVM adapter").
package evm2svm

import (
	"context"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	evmengine "github.com/baserelay/bridge-sdk/engine/evm"
	svmengine "github.com/baserelay/bridge-sdk/engine/svm"
	"github.com/baserelay/bridge-sdk/identity"
	"github.com/baserelay/bridge-sdk/log"
	"github.com/baserelay/bridge-sdk/monitor"
)

// Config configures an Adapter for one EVM hub / SVM destination pair.
type Config struct {
	SourceChain      bridgetypes.ChainId
	DestinationChain bridgetypes.ChainId
	EVMEngine        *evmengine.Engine
	SVMEngine        *svmengine.Engine
	// TokenMappings maps a hex ERC20 address to its base58 SVM mint,
	// consulted for transfer(token) (spec.md §4.3.3 "restricted to
	// transfer(token) with a registered ERC20→mint mapping").
	TokenMappings map[string]string
	Logger        log.Logger
}

// Adapter is the route.Adapter implementation for EVM→SVM.
type Adapter struct {
	sourceChain      bridgetypes.ChainId
	destinationChain bridgetypes.ChainId
	evm              *evmengine.Engine
	svm              *svmengine.Engine
	tokenMappings    map[string]string
	logger           log.Logger
}

// New constructs an Adapter from cfg.
func New(cfg Config) (*Adapter, error) {
	if cfg.EVMEngine == nil || cfg.SVMEngine == nil {
		return nil, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageInitiate, "evm2svm adapter requires both engines")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Adapter{
		sourceChain:      cfg.SourceChain,
		destinationChain: cfg.DestinationChain,
		evm:              cfg.EVMEngine,
		svm:              cfg.SVMEngine,
		tokenMappings:    cfg.TokenMappings,
		logger:           logger.With("component", "route.evm2svm"),
	}, nil
}

// Capabilities reports this direction's fixed step/flag set (spec.md
// §4.3.3): manual relay, prove required, execute always manual (the
// SVM side never auto-relays on behalf of the caller).
func (a *Adapter) Capabilities() bridgetypes.RouteCapabilities {
	return bridgetypes.RouteCapabilities{
		Steps:         []bridgetypes.RouteStep{bridgetypes.StepInitiate, bridgetypes.StepProve, bridgetypes.StepExecute, bridgetypes.StepMonitor},
		AutoRelay:     false,
		ManualExecute: true,
		Prove:         true,
	}
}

// Initiate submits a token transfer to the EVM bridge contract and
// decodes the sole MessageInitiated log it produced (spec.md §4.3.3
// "restricted to transfer(token)").
func (a *Adapter) Initiate(ctx context.Context, req bridgetypes.BridgeRequest) (bridgetypes.MessageRef, error) {
	if req.Action.Kind != bridgetypes.ActionTransfer || req.Action.Asset.Kind != bridgetypes.AssetToken {
		return bridgetypes.MessageRef{}, bridgeerr.New(bridgeerr.UnsupportedAction, bridgeerr.StageInitiate, "evm2svm route only supports transfer(token)")
	}

	remoteMint, ok := a.tokenMappings[req.Action.Asset.Address]
	if !ok {
		return bridgetypes.MessageRef{}, bridgeerr.Newf(bridgeerr.UnsupportedAction, bridgeerr.StageInitiate, "no token mapping configured for EVM token %s", req.Action.Asset.Address)
	}
	remoteTokenBytes, err := identity.DecodeSVMPubkey(remoteMint)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}
	recipientBytes, err := identity.DecodeSVMPubkey(req.Action.Recipient)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	amount := uint64(0)
	if req.Action.Amount != nil {
		amount = req.Action.Amount.Uint64()
	}

	transfer := evmengine.Transfer{
		LocalToken:   ethcommon.HexToAddress(req.Action.Asset.Address),
		RemoteToken:  remoteTokenBytes,
		To:           recipientBytes,
		RemoteAmount: amount,
	}

	var ixs []evmengine.Ix
	if nc := req.Action.NestedCall; nc != nil {
		programID, err := identity.DecodeSVMPubkey(nc.To)
		if err != nil {
			return bridgetypes.MessageRef{}, err
		}
		ixs = []evmengine.Ix{{ProgramID: programID, Data: nc.Data}}
	}

	txHash, err := a.evm.BridgeToken(ctx, transfer, ixs)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	event, err := a.evm.DecodeInitiatedEvent(ctx, txHash)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	return bridgetypes.MessageRef{
		Route: bridgetypes.BridgeRoute{SourceChain: a.sourceChain, DestinationChain: a.destinationChain},
		Source: bridgetypes.MessageEndpointRef{
			ID:      bridgetypes.MessageId{Scheme: bridgetypes.SchemeEVMMessageHash, Value: identity.HexHash(event.MessageHash)},
			Derived: map[string]string{"txHash": txHash},
		},
	}, nil
}

// Prove fetches the current hub block height, generates the Merkle
// proof against it, and submits it to the SVM bridge program. Idempotent:
// svmEngine.ProveIncomingMessage skips submission if the incoming PDA
// already exists (spec.md §4.3.3 "idempotent").
func (a *Adapter) Prove(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	txHash := ref.Source.Derived["txHash"]
	if txHash == "" {
		return bridgetypes.MessageRef{}, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageProve, "message ref is missing its initiating EVM tx hash")
	}

	blockNumber, err := a.svm.LatestDestinationBlockNumber(ctx)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	event, proof, err := a.evm.GenerateProof(ctx, txHash, blockNumber)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	if _, err := a.svm.ProveIncomingMessage(ctx, event, proof, blockNumber); err != nil {
		return bridgetypes.MessageRef{}, err
	}

	incomingPda, err := a.svm.IncomingMessagePDA(event.MessageHash)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	return ref.WithDerived("incomingMessagePda", incomingPda), nil
}

// Execute relays the proven incoming message on SVM. already_executed
// and not_proven are the SVM engine's own typed bridgeerr codes, so no
// additional error-string mapping is needed here (spec.md §9 Open
// Questions).
func (a *Adapter) Execute(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.MessageRef, error) {
	if ref.Source.ID.Scheme != bridgetypes.SchemeEVMMessageHash {
		return bridgetypes.MessageRef{}, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageExecute, "message ref is missing its EVM message hash source id")
	}
	messageHash := ethcommon.HexToHash(ref.Source.ID.Value)
	var hashBytes [32]byte
	copy(hashBytes[:], messageHash.Bytes())

	sig, err := a.svm.ExecuteIncomingMessage(ctx, hashBytes)
	if err != nil {
		return bridgetypes.MessageRef{}, err
	}

	return ref.WithDerived("executionTx", sig), nil
}

// Status derives the incoming-message PDA and reports whether it
// exists yet and whether it has been executed.
func (a *Adapter) Status(ctx context.Context, ref bridgetypes.MessageRef) (bridgetypes.ExecutionStatus, error) {
	if ref.Source.ID.Scheme != bridgetypes.SchemeEVMMessageHash {
		return bridgetypes.ExecutionStatus{}, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageExecute, "message ref is missing its EVM message hash source id")
	}
	messageHash := ethcommon.HexToHash(ref.Source.ID.Value)
	var hashBytes [32]byte
	copy(hashBytes[:], messageHash.Bytes())

	exists, executed, err := a.svm.IncomingMessageStatus(ctx, hashBytes)
	if err != nil {
		return bridgetypes.ExecutionStatus{}, err
	}
	if !exists {
		return bridgetypes.ExecutionStatus{Kind: bridgetypes.StatusInitiated, At: time.Now(), SourceTx: ref.Source.Derived["txHash"]}, nil
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
