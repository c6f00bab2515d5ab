// Package evm is the EVM source engine: it submits EVM-originated
// sends (fungible-token and arbitrary call), produces Merkle-style
// proofs for EVM→SVM messages, and monitors/executes SVM→EVM messages
// on the destination (spec.md §4.3.2). Grounded on the teacher's
// facilitator/evm/facilitator.go for the read-receipt/find-event/call-
// view idiom, generalized from payment settlement to message proving.
package evm

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	evmchain "github.com/baserelay/bridge-sdk/chain/evm"
	"github.com/baserelay/bridge-sdk/identity"
	"github.com/baserelay/bridge-sdk/log"
)

const (
	defaultApprovalPollIntervalMs = 5_000
	defaultApprovalTimeoutMs      = 60_000
	approvalBackoffCapMs          = 30_000
)

// Config configures a new Engine.
type Config struct {
	Adapter        *evmchain.Adapter
	BridgeContract common.Address
	Logger         log.Logger
}

// Engine is the EVM source engine.
type Engine struct {
	adapter        *evmchain.Adapter
	bridgeContract common.Address
	logger         log.Logger

	validatorOnce sync.Once
	validatorAddr common.Address
	validatorErr  error
}

// New constructs an EVM engine bound to adapter and one bridge contract
// deployment.
func New(cfg Config) (*Engine, error) {
	if cfg.Adapter == nil {
		return nil, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageInitiate, "EVM engine requires an adapter")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		adapter:        cfg.Adapter,
		bridgeContract: cfg.BridgeContract,
		logger:         logger.With("component", "engine.evm"),
	}, nil
}

// BridgeCall forwards an instruction batch to be executed on SVM.
func (e *Engine) BridgeCall(ctx context.Context, ixs []Ix) (string, error) {
	return e.adapter.WriteContract(ctx, evmchain.WriteRequest{
		Address: e.bridgeContract,
		ABI:     bridgeContractABI,
		Method:  "bridgeCall",
		Args:    []interface{}{toIxTuples(ixs)},
	})
}

// BridgeToken submits an ERC20 transfer to SVM, optionally followed by
// a destination-side instruction batch.
func (e *Engine) BridgeToken(ctx context.Context, transfer Transfer, ixs []Ix) (string, error) {
	return e.adapter.WriteContract(ctx, evmchain.WriteRequest{
		Address: e.bridgeContract,
		ABI:     bridgeContractABI,
		Method:  "bridgeToken",
		Args:    []interface{}{transfer, toIxTuples(ixs)},
	})
}

// GenerateProof reads the transaction receipt, finds the sole
// MessageInitiated log, asserts the destination's recorded hub block
// number is not behind it, and reads the contract's generateProof view
// at that block (spec.md §4.3.2).
func (e *Engine) GenerateProof(ctx context.Context, txHash string, blockNumber uint64) (identity.InitiatedEvent, [][32]byte, error) {
	receipt, err := e.adapter.TransactionReceipt(ctx, txHash)
	if err != nil {
		return identity.InitiatedEvent{}, nil, err
	}

	eventID := bridgeContractABI.Events["MessageInitiated"].ID
	var matchData []byte
	var matchBlock uint64
	count := 0
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > 0 && lg.Topics[0] == eventID {
			matchData = lg.Data
			matchBlock = lg.BlockNumber
			count++
		}
	}
	if count != 1 {
		return identity.InitiatedEvent{}, nil, bridgeerr.Newf(bridgeerr.ProofNotAvailable, bridgeerr.StageProve, "expected exactly one MessageInitiated event, found %d", count)
	}

	event, err := decodeMessageInitiated(matchData)
	if err != nil {
		return identity.InitiatedEvent{}, nil, bridgeerr.Wrap(bridgeerr.ProofNotAvailable, bridgeerr.StageProve, "failed to decode MessageInitiated event", err)
	}

	if blockNumber < matchBlock {
		return identity.InitiatedEvent{}, nil, bridgeerr.Newf(bridgeerr.NotFinal, bridgeerr.StageProve, "recorded hub block %d behind initiation log block %d", blockNumber, matchBlock)
	}

	res, err := e.adapter.ReadContract(ctx, evmchain.ReadCall{
		Address:     e.bridgeContract,
		ABI:         bridgeContractABI,
		Method:      "generateProof",
		Args:        []interface{}{event.Nonce},
		BlockNumber: new(big.Int).SetUint64(blockNumber),
	})
	if err != nil {
		return identity.InitiatedEvent{}, nil, err
	}

	raw, ok := res[0].([][32]byte)
	if !ok {
		return identity.InitiatedEvent{}, nil, bridgeerr.New(bridgeerr.InvariantViolation, bridgeerr.StageProve, "unexpected generateProof return shape")
	}
	return event, raw, nil
}

// DecodeInitiatedEvent reads txHash's receipt and decodes its sole
// MessageInitiated log, without the finality check GenerateProof does
// (used by the EVM→SVM route adapter right after initiation, before a
// hub block number is available to prove against).
func (e *Engine) DecodeInitiatedEvent(ctx context.Context, txHash string) (identity.InitiatedEvent, error) {
	receipt, err := e.adapter.TransactionReceipt(ctx, txHash)
	if err != nil {
		return identity.InitiatedEvent{}, err
	}

	eventID := bridgeContractABI.Events["MessageInitiated"].ID
	var matchData []byte
	count := 0
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > 0 && lg.Topics[0] == eventID {
			matchData = lg.Data
			count++
		}
	}
	if count != 1 {
		return identity.InitiatedEvent{}, bridgeerr.Newf(bridgeerr.ProofNotAvailable, bridgeerr.StageInitiate, "expected exactly one MessageInitiated event, found %d", count)
	}
	return decodeMessageInitiated(matchData)
}

func decodeMessageInitiated(data []byte) (identity.InitiatedEvent, error) {
	vals, err := bridgeContractABI.Events["MessageInitiated"].Inputs.Unpack(data)
	if err != nil {
		return identity.InitiatedEvent{}, err
	}
	messageHash, _ := vals[0].([32]byte)
	mmrRoot, _ := vals[1].([32]byte)
	msg := abiAsStruct[messageTuple](vals[2])

	return identity.InitiatedEvent{
		MessageHash: messageHash,
		MmrRoot:     mmrRoot,
		Nonce:       msg.Nonce,
		Sender:      msg.Sender,
		Ty:          msg.Ty,
		Data:        msg.Data,
	}, nil
}

// EstimateGasForCall estimates gas for a destination-side call.
func (e *Engine) EstimateGasForCall(ctx context.Context, to common.Address, data []byte, value *big.Int) (uint64, error) {
	return e.adapter.EstimateGas(ctx, to, data, value, e.adapter.Address())
}

// ExecuteOptions parameterizes ExecuteMessage's approval wait.
type ExecuteOptions struct {
	PollIntervalMs uint64
	TimeoutMs      uint64
}

// ExecuteMessage builds the EVM-side IncomingMessage tuple for an
// SVM-originated message, verifies its hash on-chain, waits for
// validator approval, then relays it (spec.md §4.3.2 "executeMessage").
func (e *Engine) ExecuteMessage(ctx context.Context, msg identity.OutgoingMessage, outgoingPda [32]byte, opts ExecuteOptions) (string, error) {
	outerHash, _, err := identity.DeriveOuterHash(msg, outgoingPda)
	if err != nil {
		return "", err
	}

	ty, data, err := identity.EncodePayload(msg.Message)
	if err != nil {
		return "", err
	}
	incoming := incomingMessageTuple{
		Nonce:                 msg.Nonce,
		OutgoingMessagePubkey: outgoingPda,
		Sender:                msg.Sender,
		Ty:                    ty,
		Data:                  data,
	}

	results, err := e.adapter.Multicall(ctx, []evmchain.ReadCall{
		{Address: e.bridgeContract, ABI: bridgeContractABI, Method: "successes", Args: []interface{}{outerHash}},
		{Address: e.bridgeContract, ABI: bridgeContractABI, Method: "failures", Args: []interface{}{outerHash}},
		{Address: e.bridgeContract, ABI: bridgeContractABI, Method: "getMessageHash", Args: []interface{}{incoming}},
	})
	if err != nil {
		return "", err
	}

	if already, _ := results[0][0].(bool); already {
		return identity.HexHash(outerHash), nil
	}
	if failed, _ := results[1][0].(bool); failed {
		return "", bridgeerr.New(bridgeerr.MessageFailed, bridgeerr.StageExecute, "destination recorded permanent failure")
	}
	onChainHash, _ := results[2][0].([32]byte)
	if onChainHash != outerHash {
		return "", bridgeerr.New(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "on-chain message hash does not match locally-computed outer hash")
	}

	if err := e.waitForApproval(ctx, outerHash, opts); err != nil {
		return "", err
	}

	return e.adapter.WriteContract(ctx, evmchain.WriteRequest{
		Address: e.bridgeContract,
		ABI:     bridgeContractABI,
		Method:  "relayMessages",
		Args:    []interface{}{[]incomingMessageTuple{incoming}},
	})
}

// waitForApproval polls the validator's validMessages(outerHash) with
// exponential backoff starting at opts.PollIntervalMs, growing 1.5x,
// capped at approvalBackoffCapMs (30s), bounded by opts.TimeoutMs. The
// cap is a fixed constant; ExecuteOptions has no field to change it.
func (e *Engine) waitForApproval(ctx context.Context, outerHash [32]byte, opts ExecuteOptions) error {
	pollMs := opts.PollIntervalMs
	if pollMs == 0 {
		pollMs = defaultApprovalPollIntervalMs
	}
	timeoutMs := opts.TimeoutMs
	if timeoutMs == 0 {
		timeoutMs = defaultApprovalTimeoutMs
	}

	validatorAddr, err := e.validatorAddress(ctx)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	interval := time.Duration(pollMs) * time.Millisecond
	backoffCap := time.Duration(approvalBackoffCapMs) * time.Millisecond

	for {
		res, err := e.adapter.ReadContract(ctx, evmchain.ReadCall{
			Address: validatorAddr,
			ABI:     validatorABI,
			Method:  "validMessages",
			Args:    []interface{}{outerHash},
		})
		if err != nil {
			return err
		}
		if approved, _ := res[0].(bool); approved {
			return nil
		}
		if time.Now().After(deadline) {
			return bridgeerr.New(bridgeerr.Timeout, bridgeerr.StageExecute, "timed out waiting for validator approval")
		}

		select {
		case <-ctx.Done():
			return bridgeerr.Wrap(bridgeerr.Timeout, bridgeerr.StageExecute, "approval wait cancelled", ctx.Err())
		case <-time.After(interval):
		}

		interval = time.Duration(float64(interval) * 1.5)
		if interval > backoffCap {
			interval = backoffCap
		}
	}
}

func (e *Engine) validatorAddress(ctx context.Context) (common.Address, error) {
	e.validatorOnce.Do(func() {
		res, err := e.adapter.ReadContract(ctx, evmchain.ReadCall{
			Address: e.bridgeContract,
			ABI:     bridgeContractABI,
			Method:  "BRIDGE_VALIDATOR",
		})
		if err != nil {
			e.validatorErr = err
			return
		}
		addr, _ := res[0].(common.Address)
		e.validatorAddr = addr
	})
	return e.validatorAddr, e.validatorErr
}

// Successes reads successes(outerHash).
func (e *Engine) Successes(ctx context.Context, outerHash [32]byte) (bool, error) {
	res, err := e.adapter.ReadContract(ctx, evmchain.ReadCall{Address: e.bridgeContract, ABI: bridgeContractABI, Method: "successes", Args: []interface{}{outerHash}})
	if err != nil {
		return false, err
	}
	ok, _ := res[0].(bool)
	return ok, nil
}

// Failures reads failures(outerHash).
func (e *Engine) Failures(ctx context.Context, outerHash [32]byte) (bool, error) {
	res, err := e.adapter.ReadContract(ctx, evmchain.ReadCall{Address: e.bridgeContract, ABI: bridgeContractABI, Method: "failures", Args: []interface{}{outerHash}})
	if err != nil {
		return false, err
	}
	ok, _ := res[0].(bool)
	return ok, nil
}

// MonitorExecution polls successes(outerHash) until true or timeout
// (spec.md §4.3.2 "monitorExecution").
func (e *Engine) MonitorExecution(ctx context.Context, outerHash [32]byte, pollIntervalMs, timeoutMs uint64) error {
	if pollIntervalMs == 0 {
		pollIntervalMs = defaultApprovalPollIntervalMs
	}
	if timeoutMs == 0 {
		timeoutMs = defaultApprovalTimeoutMs
	}

	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	ticker := time.NewTicker(time.Duration(pollIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		res, err := e.adapter.ReadContract(ctx, evmchain.ReadCall{
			Address: e.bridgeContract,
			ABI:     bridgeContractABI,
			Method:  "successes",
			Args:    []interface{}{outerHash},
		})
		if err != nil {
			return err
		}
		if ok, _ := res[0].(bool); ok {
			return nil
		}
		if time.Now().After(deadline) {
			return bridgeerr.New(bridgeerr.Timeout, bridgeerr.StageMonitor, "timed out waiting for execution success")
		}

		select {
		case <-ctx.Done():
			return bridgeerr.Wrap(bridgeerr.Timeout, bridgeerr.StageMonitor, "monitor wait cancelled", ctx.Err())
		case <-ticker.C:
		}
	}
}
