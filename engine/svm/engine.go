// Package svm is the SVM source engine: it builds and submits the
// instructions for SVM-originated sends (native, token, wrapped-token,
// arbitrary call, wrap-token metadata creation) and drives the
// prove/execute side of EVM→SVM messages (spec.md §4.3.1). Grounded on
// the pack's base/alt-l1-bridge oracle handler for PDA derivation and
// instruction-building idiom, and on the teacher's facilitator.solana
// package for the read-check-submit shape of a single operation.
package svm

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	chainsvm "github.com/baserelay/bridge-sdk/chain/svm"
	"github.com/baserelay/bridge-sdk/identity"
	"github.com/baserelay/bridge-sdk/log"
	"github.com/baserelay/bridge-sdk/seeds"
)

// Config configures a new Engine.
type Config struct {
	Adapter        *chainsvm.Adapter
	BridgeProgram  common.PublicKey
	RelayerProgram common.PublicKey
	Logger         log.Logger
}

// Engine is the SVM source engine.
type Engine struct {
	adapter        *chainsvm.Adapter
	bridgeProgram  common.PublicKey
	relayerProgram common.PublicKey
	logger         log.Logger
}

// New constructs an SVM engine bound to adapter and the bridge/relayer
// program ids for one deployment.
func New(cfg Config) (*Engine, error) {
	if cfg.Adapter == nil {
		return nil, bridgeerr.New(bridgeerr.ConfigError, bridgeerr.StageInitiate, "SVM engine requires an adapter")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		adapter:        cfg.Adapter,
		bridgeProgram:  cfg.BridgeProgram,
		relayerProgram: cfg.RelayerProgram,
		logger:         logger.With("component", "engine.svm"),
	}, nil
}

// BridgeOptions parameterizes a source-side bridge operation.
type BridgeOptions struct {
	PayForRelay    bool
	IdempotencyKey string
	// Signer, if set, is used as the operation's authority signer in
	// preference to KeypairPath or the adapter's bound fee payer.
	Signer *types.Account
	// KeypairPath, if set and Signer is nil, is loaded (and cached) as
	// the operation's authority signer.
	KeypairPath string
	// NestedCall, if set, is appended to the transfer's instruction
	// data so the on-chain program performs it on destination after
	// crediting funds (identity.PayloadTransferWithCall).
	NestedCall *identity.CallPayload
}

// appendNestedCall writes a presence flag followed by the nested
// call's fields, or just a zero presence byte when nc is nil.
func appendNestedCall(b *ixDataBuilder, nc *identity.CallPayload) {
	if nc == nil {
		b.bool(false)
		return
	}
	value := nc.Value
	if value == nil {
		value = big.NewInt(0)
	}
	b.bool(true).u8(nc.CallType).bytes32(nc.To).bytesWithLen(value.Bytes()).bytesWithLen(nc.Data)
}

// BridgeResult is returned by every source-side bridge operation.
type BridgeResult struct {
	OutgoingMessagePda string
	Signature          string
}

// deriveSalt implements spec.md §4.3.1 step 1: keccak256(idempotencyKey)
// if provided, else 32 fresh random bytes.
func deriveSalt(idempotencyKey string) ([32]byte, error) {
	var salt [32]byte
	if idempotencyKey != "" {
		copy(salt[:], crypto.Keccak256([]byte(idempotencyKey)))
		return salt, nil
	}
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, bridgeerr.Wrap(bridgeerr.ConfigError, bridgeerr.StageInitiate, "failed to generate salt", err)
	}
	return salt, nil
}

func (e *Engine) outgoingMessagePda(salt [32]byte) (common.PublicKey, error) {
	pda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.OutgoingMessage, salt[:]}, e.bridgeProgram)
	if err != nil {
		return common.PublicKey{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to derive outgoing message PDA", err)
	}
	return pda, nil
}

// resolveSigner implements spec.md §4.3.1 step 2.
func (e *Engine) resolveSigner(opts BridgeOptions) (types.Account, error) {
	if opts.Signer != nil {
		return *opts.Signer, nil
	}
	if opts.KeypairPath != "" {
		return chainsvm.LoadKeypair(opts.KeypairPath)
	}
	return e.adapter.FeePayer()
}

// decodeHexTo32 parses a 0x-prefixed (or bare) hex destination address
// into its right-padded 32-byte form, matching the transfer-tuple
// boundary behavior in spec.md §8.
func decodeHexTo32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, bridgeerr.Wrap(bridgeerr.ConfigError, bridgeerr.StageInitiate, "invalid hex address "+s, err)
	}
	n := len(b)
	if n > 32 {
		n = 32
	}
	copy(out[:n], b[:n])
	return out, nil
}

type ixFactory func(salt [32]byte, outgoingPda common.PublicKey, payer types.Account) (types.Instruction, error)

// submit runs the shared skeleton (steps 1,2,4,5 of spec.md §4.3.1):
// derive the salt and outgoing PDA, resolve the signer, build the
// caller-supplied instruction, optionally append a pay-for-relay
// instruction, and submit with confirmed commitment.
func (e *Engine) submit(ctx context.Context, opts BridgeOptions, build ixFactory) (BridgeResult, error) {
	salt, err := deriveSalt(opts.IdempotencyKey)
	if err != nil {
		return BridgeResult{}, err
	}

	outgoingPda, err := e.outgoingMessagePda(salt)
	if err != nil {
		return BridgeResult{}, err
	}

	payer, err := e.resolveSigner(opts)
	if err != nil {
		return BridgeResult{}, err
	}

	ix, err := build(salt, outgoingPda, payer)
	if err != nil {
		return BridgeResult{}, err
	}

	instructions := []types.Instruction{ix}
	if opts.PayForRelay {
		relayIx, err := e.payForRelayInstruction(payer)
		if err != nil {
			return BridgeResult{}, err
		}
		instructions = append(instructions, relayIx)
	}

	sig, err := e.adapter.SubmitTransaction(ctx, chainsvm.SubmitTransactionRequest{
		Instructions: instructions,
		Signers:      []types.Account{payer},
	})
	if err != nil {
		return BridgeResult{}, err
	}

	return BridgeResult{OutgoingMessagePda: outgoingPda.ToBase58(), Signature: sig}, nil
}

// payForRelayInstruction builds the "pay for relay" side instruction
// against a fresh relayer-program PDA (spec.md §4.3.1 step 4).
func (e *Engine) payForRelayInstruction(payer types.Account) (types.Instruction, error) {
	var relaySalt [32]byte
	if _, err := rand.Read(relaySalt[:]); err != nil {
		return types.Instruction{}, bridgeerr.Wrap(bridgeerr.ConfigError, bridgeerr.StageInitiate, "failed to generate relay salt", err)
	}

	cfgPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.Cfg}, e.relayerProgram)
	if err != nil {
		return types.Instruction{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to derive relayer config PDA", err)
	}
	paymentPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.Mtr, relaySalt[:]}, e.relayerProgram)
	if err != nil {
		return types.Instruction{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to derive relay payment PDA", err)
	}

	return types.Instruction{
		ProgramID: e.relayerProgram,
		Accounts: []types.AccountMeta{
			{PubKey: cfgPda, IsSigner: false, IsWritable: false},
			{PubKey: paymentPda, IsSigner: false, IsWritable: true},
			{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		Data: newIxData("pay_for_relay").bytes32(relaySalt).build(),
	}, nil
}

// BridgeNative sends native SOL to an EVM recipient.
func (e *Engine) BridgeNative(ctx context.Context, to string, amount uint64, opts BridgeOptions) (BridgeResult, error) {
	toBytes, err := decodeHexTo32(to)
	if err != nil {
		return BridgeResult{}, err
	}

	return e.submit(ctx, opts, func(salt [32]byte, outgoingPda common.PublicKey, payer types.Account) (types.Instruction, error) {
		solVaultPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.SolVault}, e.bridgeProgram)
		if err != nil {
			return types.Instruction{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to derive SOL vault PDA", err)
		}
		b := newIxData("bridge_native").bytes32(salt).bytes32(toBytes).u64(amount)
		appendNestedCall(b, opts.NestedCall)
		data := b.build()
		return types.Instruction{
			ProgramID: e.bridgeProgram,
			Accounts: []types.AccountMeta{
				{PubKey: outgoingPda, IsSigner: false, IsWritable: true},
				{PubKey: solVaultPda, IsSigner: false, IsWritable: true},
				{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
				{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			},
			Data: data,
		}, nil
	})
}

// BridgeToken sends an SPL token, identified by mint and its remote
// (EVM) token address, to an EVM recipient.
func (e *Engine) BridgeToken(ctx context.Context, to string, mint string, remoteToken string, amount uint64, opts BridgeOptions) (BridgeResult, error) {
	toBytes, err := decodeHexTo32(to)
	if err != nil {
		return BridgeResult{}, err
	}
	remoteTokenBytes, err := decodeHexTo32(remoteToken)
	if err != nil {
		return BridgeResult{}, err
	}
	mintPk := common.PublicKeyFromString(mint)

	return e.submit(ctx, opts, func(salt [32]byte, outgoingPda common.PublicKey, payer types.Account) (types.Instruction, error) {
		tokenVaultPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.TokenVault, mintPk.Bytes(), remoteTokenBytes[:]}, e.bridgeProgram)
		if err != nil {
			return types.Instruction{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to derive token vault PDA", err)
		}
		b := newIxData("bridge_token").bytes32(salt).bytes32(toBytes).bytes32(remoteTokenBytes).u64(amount)
		appendNestedCall(b, opts.NestedCall)
		data := b.build()
		return types.Instruction{
			ProgramID: e.bridgeProgram,
			Accounts: []types.AccountMeta{
				{PubKey: outgoingPda, IsSigner: false, IsWritable: true},
				{PubKey: mintPk, IsSigner: false, IsWritable: false},
				{PubKey: tokenVaultPda, IsSigner: false, IsWritable: true},
				{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
				{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			},
			Data: data,
		}, nil
	})
}

// BridgeWrapped sends a wrapped-token mint (one created by
// WrapTokenMetadata) back to its EVM origin.
func (e *Engine) BridgeWrapped(ctx context.Context, to string, wrappedMint string, amount uint64, opts BridgeOptions) (BridgeResult, error) {
	toBytes, err := decodeHexTo32(to)
	if err != nil {
		return BridgeResult{}, err
	}
	mintPk := common.PublicKeyFromString(wrappedMint)

	return e.submit(ctx, opts, func(salt [32]byte, outgoingPda common.PublicKey, payer types.Account) (types.Instruction, error) {
		b := newIxData("bridge_wrapped").bytes32(salt).bytes32(toBytes).u64(amount)
		appendNestedCall(b, opts.NestedCall)
		data := b.build()
		return types.Instruction{
			ProgramID: e.bridgeProgram,
			Accounts: []types.AccountMeta{
				{PubKey: outgoingPda, IsSigner: false, IsWritable: true},
				{PubKey: mintPk, IsSigner: false, IsWritable: true},
				{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
				{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			},
			Data: data,
		}, nil
	})
}

// BridgeCall sends an arbitrary call to be executed on the EVM side.
func (e *Engine) BridgeCall(ctx context.Context, to string, value *big.Int, data []byte, callType uint8, opts BridgeOptions) (BridgeResult, error) {
	toBytes, err := decodeHexTo32(to)
	if err != nil {
		return BridgeResult{}, err
	}
	if value == nil {
		value = big.NewInt(0)
	}

	return e.submit(ctx, opts, func(salt [32]byte, outgoingPda common.PublicKey, payer types.Account) (types.Instruction, error) {
		ixData := newIxData("bridge_call").
			bytes32(salt).
			u8(callType).
			bytes32(toBytes).
			bytesWithLen(value.Bytes()).
			bytesWithLen(data).
			build()
		return types.Instruction{
			ProgramID: e.bridgeProgram,
			Accounts: []types.AccountMeta{
				{PubKey: outgoingPda, IsSigner: false, IsWritable: true},
				{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
				{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			},
			Data: ixData,
		}, nil
	})
}

// WrapTokenResult is returned by WrapTokenMetadata.
type WrapTokenResult struct {
	WrappedMint string
	Signature   string
}

// wrappedTokenMetadataHash derives the keccak hash of the metadata blob
// a wrapped mint's PDA is seeded with (spec.md §4.3.1 step 3, GLOSSARY
// "Wrapped token").
func wrappedTokenMetadataHash(remoteToken [32]byte, name, symbol string, decimals, scalerExponent uint8) [32]byte {
	var buf bytes.Buffer
	buf.Write(remoteToken[:])
	writeLenPrefixed(&buf, []byte(name))
	writeLenPrefixed(&buf, []byte(symbol))
	buf.WriteByte(decimals)
	buf.WriteByte(scalerExponent)

	var hash [32]byte
	copy(hash[:], crypto.Keccak256(buf.Bytes()))
	return hash
}

// WrapTokenMetadata creates the deterministic wrapped mint for an EVM
// token the first time it is bridged to SVM.
func (e *Engine) WrapTokenMetadata(ctx context.Context, remoteToken string, name, symbol string, decimals, scalerExponent uint8, opts BridgeOptions) (WrapTokenResult, error) {
	remoteTokenBytes, err := decodeHexTo32(remoteToken)
	if err != nil {
		return WrapTokenResult{}, err
	}

	metadataHash := wrappedTokenMetadataHash(remoteTokenBytes, name, symbol, decimals, scalerExponent)
	wrappedMintPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.WrappedToken, {decimals}, metadataHash[:]}, e.bridgeProgram)
	if err != nil {
		return WrapTokenResult{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to derive wrapped mint PDA", err)
	}

	payer, err := e.resolveSigner(opts)
	if err != nil {
		return WrapTokenResult{}, err
	}

	ixData := newIxData("wrap_token_metadata").
		bytes32(remoteTokenBytes).
		stringWithLen(name).
		stringWithLen(symbol).
		u8(decimals).
		u8(scalerExponent).
		build()

	ix := types.Instruction{
		ProgramID: e.bridgeProgram,
		Accounts: []types.AccountMeta{
			{PubKey: wrappedMintPda, IsSigner: false, IsWritable: true},
			{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		Data: ixData,
	}

	sig, err := e.adapter.SubmitTransaction(ctx, chainsvm.SubmitTransactionRequest{
		Instructions: []types.Instruction{ix},
		Signers:      []types.Account{payer},
	})
	if err != nil {
		return WrapTokenResult{}, err
	}

	return WrapTokenResult{WrappedMint: wrappedMintPda.ToBase58(), Signature: sig}, nil
}

// FetchOutgoingMessage re-reads an outgoing-message PDA and decodes it,
// used by the SVM→EVM route adapter to derive the EVM outer hash right
// after initiation (spec.md §4.3.3 "After the outgoing PDA exists,
// re-fetches it and derives the EVM outer hash").
func (e *Engine) FetchOutgoingMessage(ctx context.Context, outgoingMessagePda string) (identity.OutgoingMessage, error) {
	info, err := e.adapter.GetAccountInfo(ctx, outgoingMessagePda)
	if err != nil {
		return identity.OutgoingMessage{}, err
	}
	return decodeOutgoingMessageAccount(info.Data)
}

// LatestDestinationBlockNumber reads the bridge account's recorded hub
// block height, used for prove readiness (spec.md §4.3.1).
func (e *Engine) LatestDestinationBlockNumber(ctx context.Context) (uint64, error) {
	bridgePda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.Bridge}, e.bridgeProgram)
	if err != nil {
		return 0, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageProve, "failed to derive bridge state PDA", err)
	}

	info, err := e.adapter.GetAccountInfo(ctx, bridgePda.ToBase58())
	if err != nil {
		return 0, err
	}
	if len(info.Data) < accountDiscriminatorSize+8 {
		return 0, bridgeerr.Newf(bridgeerr.InvariantViolation, bridgeerr.StageProve, "bridge account data too short: got %d bytes", len(info.Data))
	}
	return leUint64(info.Data[accountDiscriminatorSize : accountDiscriminatorSize+8]), nil
}

// ProveResult is returned by ProveIncomingMessage.
type ProveResult struct {
	// Signature is empty if the incoming message was already proven
	// (idempotent no-op).
	Signature   string
	MessageHash [32]byte
}

// IncomingMessagePDA derives the base58 address of the incoming-message
// PDA for messageHash, used by the EVM→SVM route adapter to record it
// in a MessageRef's Derived hints ("incomingMessagePda") once proving
// succeeds.
func (e *Engine) IncomingMessagePDA(messageHash [32]byte) (string, error) {
	pda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.IncomingMessage, messageHash[:]}, e.bridgeProgram)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageProve, "failed to derive incoming message PDA", err)
	}
	return pda.ToBase58(), nil
}

// ProveIncomingMessage submits the Merkle-style proof for an
// EVM-originated message, skipping submission if the incoming PDA
// already exists (spec.md §4.3.1, "Prove and execute are idempotent").
func (e *Engine) ProveIncomingMessage(ctx context.Context, event identity.InitiatedEvent, proof [][32]byte, blockNumber uint64) (ProveResult, error) {
	incomingPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.IncomingMessage, event.MessageHash[:]}, e.bridgeProgram)
	if err != nil {
		return ProveResult{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageProve, "failed to derive incoming message PDA", err)
	}

	exists, err := e.adapter.AccountExists(ctx, incomingPda.ToBase58())
	if err != nil {
		return ProveResult{}, err
	}
	if exists {
		e.logger.Debug().Str("incoming_message_pda", incomingPda.ToBase58()).Msg("incoming message already proven")
		return ProveResult{MessageHash: event.MessageHash}, nil
	}

	payer, err := e.resolveSigner(BridgeOptions{})
	if err != nil {
		return ProveResult{}, err
	}

	b := newIxData("prove_incoming_message").
		bytes32(event.MessageHash).
		bytes32(event.MmrRoot).
		u64(event.Nonce).
		bytes32(event.Sender).
		u8(event.Ty).
		bytesWithLen(event.Data).
		u64(blockNumber).
		u8(uint8(len(proof)))
	for _, p := range proof {
		b.bytes32(p)
	}

	ix := types.Instruction{
		ProgramID: e.bridgeProgram,
		Accounts: []types.AccountMeta{
			{PubKey: incomingPda, IsSigner: false, IsWritable: true},
			{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		Data: b.build(),
	}

	sig, err := e.adapter.SubmitTransaction(ctx, chainsvm.SubmitTransactionRequest{
		Instructions: []types.Instruction{ix},
		Signers:      []types.Account{payer},
	})
	if err != nil {
		return ProveResult{}, err
	}

	return ProveResult{Signature: sig, MessageHash: event.MessageHash}, nil
}

// IncomingMessageStatus reports whether messageHash's incoming-message
// PDA exists yet and, if so, whether it has already been executed; used
// by the EVM→SVM route adapter's status probe.
func (e *Engine) IncomingMessageStatus(ctx context.Context, messageHash [32]byte) (exists bool, executed bool, err error) {
	incomingPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.IncomingMessage, messageHash[:]}, e.bridgeProgram)
	if err != nil {
		return false, false, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "failed to derive incoming message PDA", err)
	}

	ok, err := e.adapter.AccountExists(ctx, incomingPda.ToBase58())
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, false, nil
	}

	info, err := e.adapter.GetAccountInfo(ctx, incomingPda.ToBase58())
	if err != nil {
		return false, false, err
	}
	incoming, err := decodeIncomingMessageAccount(info.Data)
	if err != nil {
		return false, false, err
	}
	return true, incoming.Executed, nil
}

// ExecuteIncomingMessage walks the stored incoming message, reconstructs
// its remaining-accounts list, and submits relayMessage (spec.md
// §4.3.1 "Execution on SVM").
func (e *Engine) ExecuteIncomingMessage(ctx context.Context, messageHash [32]byte) (string, error) {
	incomingPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.IncomingMessage, messageHash[:]}, e.bridgeProgram)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "failed to derive incoming message PDA", err)
	}

	info, err := e.adapter.GetAccountInfo(ctx, incomingPda.ToBase58())
	if err != nil {
		return "", err
	}
	if len(info.Data) == 0 {
		return "", bridgeerr.New(bridgeerr.NotProven, bridgeerr.StageExecute, "incoming message has not been proven").WithChain(string(e.adapter.ChainId()))
	}

	incoming, err := decodeIncomingMessageAccount(info.Data)
	if err != nil {
		return "", err
	}
	if incoming.Executed {
		return "", bridgeerr.New(bridgeerr.AlreadyExecuted, bridgeerr.StageExecute, "incoming message already executed").WithChain(string(e.adapter.ChainId()))
	}

	remaining, err := e.remainingAccountsFor(incoming)
	if err != nil {
		return "", err
	}

	cpiAuthorityPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.BridgeCpiAuthority}, e.bridgeProgram)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "failed to derive CPI authority PDA", err)
	}

	payer, err := e.resolveSigner(BridgeOptions{})
	if err != nil {
		return "", err
	}

	accounts := []types.AccountMeta{
		{PubKey: incomingPda, IsSigner: false, IsWritable: true},
		// Downgraded to read-only: this client only ever forwards the
		// CPI authority, never mutates it directly.
		{PubKey: cpiAuthorityPda, IsSigner: false, IsWritable: false},
		{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
	}
	accounts = append(accounts, remaining...)

	ix := types.Instruction{
		ProgramID: e.bridgeProgram,
		Accounts:  accounts,
		Data:      newIxData("relay_message").bytes32(messageHash).build(),
	}

	sig, err := e.adapter.SubmitTransaction(ctx, chainsvm.SubmitTransactionRequest{
		Instructions: []types.Instruction{ix},
		Signers:      []types.Account{payer},
	})
	if err != nil {
		return "", err
	}

	e.logger.Info().Str("message_hash", hex.EncodeToString(messageHash[:])).Str("signature", sig).Msg("relayed incoming message")
	return sig, nil
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
