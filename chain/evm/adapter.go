// Package evm implements the EVM chain adapter: read helpers (receipts,
// contract reads, multicall, block number) and, when configured with a
// signer, write helpers (submit signed transaction, estimate gas).
// Grounded on the teacher's facilitator/evm/signer.EVMSigner, generalized
// from x402 payment signing to generic contract reads/writes (spec.md
// §4.1).
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	gethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/chain"
	"github.com/baserelay/bridge-sdk/log"
)

// Config configures a new Adapter.
type Config struct {
	ChainId    bridgetypes.ChainId
	RpcURL     string
	PrivateKey string // optional hex, with or without 0x prefix
	Logger     log.Logger
}

// Adapter is the EVM chain adapter.
type Adapter struct {
	chainID    bridgetypes.ChainId
	client     *ethclient.Client
	wallet     chain.WalletMode
	privateKey *ecdsa.PrivateKey
	address    common.Address
	logger     log.Logger
}

var _ chain.Adapter = (*Adapter)(nil)

// New constructs an EVM adapter. Mirrors the teacher's NewEVMSigner:
// dial eagerly, validate required fields up front.
func New(cfg Config) (*Adapter, error) {
	if cfg.RpcURL == "" {
		return nil, bridgeerr.New(bridgeerr.ConfigError, "", "rpc URL is required")
	}
	client, err := ethclient.Dial(cfg.RpcURL)
	if err != nil {
		return nil, bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to connect to EVM RPC", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With("component", "chain.evm").With("chain", string(cfg.ChainId))

	a := &Adapter{
		chainID: cfg.ChainId,
		client:  client,
		wallet:  chain.WalletNone,
		logger:  logger,
	}

	if cfg.PrivateKey != "" {
		pk, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, bridgeerr.Wrap(bridgeerr.ConfigError, "", "invalid EVM private key", err)
		}
		pubKey, ok := pk.Public().(*ecdsa.PublicKey)
		if !ok {
			return nil, bridgeerr.New(bridgeerr.ConfigError, "", "failed to derive EVM public key")
		}
		a.privateKey = pk
		a.address = crypto.PubkeyToAddress(*pubKey)
		a.wallet = chain.WalletPrivateKey
	}

	return a, nil
}

func (a *Adapter) Kind() bridgetypes.ChainKind   { return bridgetypes.ChainKindEVM }
func (a *Adapter) ChainId() bridgetypes.ChainId  { return a.chainID }
func (a *Adapter) WalletMode() chain.WalletMode  { return a.wallet }
func (a *Adapter) Address() common.Address       { return a.address }
func (a *Adapter) Client() *ethclient.Client      { return a.client }

func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.client.BlockNumber(ctx)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.RpcError, "", "ping failed", err)
	}
	return nil
}

// BlockNumber reads the latest block number.
func (a *Adapter) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := a.client.BlockNumber(ctx)
	if err != nil {
		return 0, bridgeerr.Wrap(bridgeerr.RpcError, "", "block number read failed", err)
	}
	return n, nil
}

// TransactionReceipt reads a transaction receipt by hash.
func (a *Adapter) TransactionReceipt(ctx context.Context, txHash string) (*ethtypes.Receipt, error) {
	receipt, err := a.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, bridgeerr.Wrap(bridgeerr.RpcError, "", fmt.Sprintf("receipt read failed for %s", txHash), err)
	}
	return receipt, nil
}

// ReadCall is one entry of a ReadContract/Multicall batch.
type ReadCall struct {
	Address      common.Address
	ABI          abi.ABI
	Method       string
	Args         []interface{}
	BlockNumber  *big.Int // nil = latest
}

// ReadContract performs a single eth_call and unpacks the result.
func (a *Adapter) ReadContract(ctx context.Context, call ReadCall) ([]interface{}, error) {
	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to pack call", err)
	}

	result, err := a.client.CallContract(ctx, gethereum.CallMsg{
		To:   &call.Address,
		Data: data,
	}, call.BlockNumber)
	if err != nil {
		return nil, bridgeerr.Wrap(bridgeerr.RpcError, "", fmt.Sprintf("call to %s failed", call.Method), err)
	}

	method, ok := call.ABI.Methods[call.Method]
	if !ok {
		return nil, bridgeerr.Newf(bridgeerr.RpcError, "", "method %s not in ABI", call.Method)
	}
	out, err := method.Outputs.Unpack(result)
	if err != nil {
		return nil, bridgeerr.Wrap(bridgeerr.RpcError, "", fmt.Sprintf("failed to unpack %s result", call.Method), err)
	}
	return out, nil
}

// Multicall batches reads with all-success-or-fail semantics: if any
// call fails, the whole batch fails (spec.md §4.1 EVM adapter).
func (a *Adapter) Multicall(ctx context.Context, calls []ReadCall) ([][]interface{}, error) {
	out := make([][]interface{}, len(calls))
	for i, c := range calls {
		res, err := a.ReadContract(ctx, c)
		if err != nil {
			return nil, bridgeerr.Wrap(bridgeerr.RpcError, "", fmt.Sprintf("multicall entry %d failed", i), err)
		}
		out[i] = res
	}
	return out, nil
}

// WriteRequest describes a contract write.
type WriteRequest struct {
	Address common.Address
	ABI     abi.ABI
	Method  string
	Args    []interface{}
	Value   *big.Int
}

// WriteContract signs and submits a transaction calling Method. Requires
// WalletPrivateKey.
func (a *Adapter) WriteContract(ctx context.Context, req WriteRequest) (string, error) {
	if a.wallet != chain.WalletPrivateKey {
		return "", bridgeerr.New(bridgeerr.ConfigError, "", "EVM adapter has no signer configured")
	}

	data, err := req.ABI.Pack(req.Method, req.Args...)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to pack write call", err)
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	return a.sendRaw(ctx, req.Address, value, data)
}

// EstimateGas estimates gas for an arbitrary call.
func (a *Adapter) EstimateGas(ctx context.Context, to common.Address, data []byte, value *big.Int, from common.Address) (uint64, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	gas, err := a.client.EstimateGas(ctx, gethereum.CallMsg{From: from, To: &to, Data: data, Value: value})
	if err != nil {
		return 0, bridgeerr.Wrap(bridgeerr.RpcError, "", "gas estimation failed", err)
	}
	return gas, nil
}

// sendRaw signs and submits a raw transaction to (to, value, data) using
// the adapter's private key, mirroring the teacher's WriteContract/
// SendTransaction flow: fetch nonce, suggest gas price, estimate gas,
// sign, send.
func (a *Adapter) sendRaw(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error) {
	nonce, err := a.client.PendingNonceAt(ctx, a.address)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to get nonce", err)
	}

	gasPrice, err := a.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to suggest gas price", err)
	}

	gasLimit, err := a.client.EstimateGas(ctx, gethereum.CallMsg{From: a.address, To: &to, Data: data, Value: value})
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to estimate gas", err)
	}

	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	chainID, err := a.client.NetworkID(ctx)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to read network id", err)
	}
	signer := ethtypes.LatestSignerForChainID(chainID)
	signedTx, err := ethtypes.SignTx(tx, signer, a.privateKey)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.ConfigError, "", "failed to sign transaction", err)
	}

	if err := a.client.SendTransaction(ctx, signedTx); err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to send transaction", err)
	}

	a.logger.Info().Str("tx_hash", signedTx.Hash().Hex()).Msg("submitted EVM transaction")
	return signedTx.Hash().Hex(), nil
}

// Close releases the underlying RPC client.
func (a *Adapter) Close() { a.client.Close() }
