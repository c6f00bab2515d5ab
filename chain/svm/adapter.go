// Package svm implements the SVM chain adapter: latest-blockhash read,
// account fetch by PDA, build-and-send signed transaction with a
// confirmed-commitment wait, and the program-derived-address helper.
// Grounded on the pack's base/alt-l1-bridge oracle handler (which reads
// bridge-program accounts and submits relay instructions through
// blocto/solana-go-sdk) and facilitator/solana.Facilitator's
// keypair-from-hex construction (spec.md §4.1).
package svm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/chain"
	"github.com/baserelay/bridge-sdk/log"
)

// Config configures a new Adapter.
type Config struct {
	ChainId  bridgetypes.ChainId
	RpcURL   string
	FeePayer *types.Account // optional; nil means read-only
	Logger   log.Logger
}

// Adapter is the SVM chain adapter.
type Adapter struct {
	chainID  bridgetypes.ChainId
	client   *client.Client
	feePayer *types.Account
	wallet   chain.WalletMode
	logger   log.Logger
}

var _ chain.Adapter = (*Adapter)(nil)

// New constructs an SVM adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.RpcURL == "" {
		return nil, bridgeerr.New(bridgeerr.ConfigError, "", "rpc URL is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With("component", "chain.svm").With("chain", string(cfg.ChainId))

	wallet := chain.WalletNone
	if cfg.FeePayer != nil {
		wallet = chain.WalletPrivateKey
	}

	return &Adapter{
		chainID:  cfg.ChainId,
		client:   client.NewClient(cfg.RpcURL),
		feePayer: cfg.FeePayer,
		wallet:   wallet,
		logger:   logger,
	}, nil
}

func (a *Adapter) Kind() bridgetypes.ChainKind  { return bridgetypes.ChainKindSVM }
func (a *Adapter) ChainId() bridgetypes.ChainId { return a.chainID }
func (a *Adapter) WalletMode() chain.WalletMode { return a.wallet }
func (a *Adapter) Client() *client.Client       { return a.client }

// FeePayer returns the configured fee payer account, or an error if the
// adapter is read-only.
func (a *Adapter) FeePayer() (types.Account, error) {
	if a.feePayer == nil {
		return types.Account{}, bridgeerr.New(bridgeerr.ConfigError, "", "SVM adapter has no fee payer configured")
	}
	return *a.feePayer, nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.client.GetSlot(ctx)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.RpcError, "", "ping failed", err)
	}
	return nil
}

// LatestBlockhash reads the latest blockhash for transaction building.
func (a *Adapter) LatestBlockhash(ctx context.Context) (string, error) {
	res, err := a.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "latest blockhash read failed", err)
	}
	return res.Blockhash, nil
}

// GetAccountInfo fetches raw account data by base58 address.
func (a *Adapter) GetAccountInfo(ctx context.Context, base58Addr string) (client.AccountInfo, error) {
	info, err := a.client.GetAccountInfo(ctx, base58Addr)
	if err != nil {
		return client.AccountInfo{}, bridgeerr.Wrap(bridgeerr.RpcError, "", fmt.Sprintf("account fetch failed for %s", base58Addr), err)
	}
	return info, nil
}

// AccountExists reports whether the account at base58Addr has been
// created on-chain, without surfacing the "not found" RPC error as a
// failure (used for prove/execute idempotency checks).
func (a *Adapter) AccountExists(ctx context.Context, base58Addr string) (bool, error) {
	info, err := a.client.GetAccountInfo(ctx, base58Addr)
	if err != nil {
		if isAccountNotFound(err) {
			return false, nil
		}
		return false, bridgeerr.Wrap(bridgeerr.RpcError, "", fmt.Sprintf("account fetch failed for %s", base58Addr), err)
	}
	return len(info.Data) > 0, nil
}

func isAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "could not find")
}

// FindProgramAddress derives a program-derived-address from seeds,
// delegating to blocto/solana-go-sdk's implementation (spec.md §4.1
// "program-derived-address helper").
func FindProgramAddress(seeds [][]byte, programID common.PublicKey) (common.PublicKey, uint8, error) {
	pda, bump, err := common.FindProgramAddress(seeds, programID)
	if err != nil {
		return common.PublicKey{}, 0, bridgeerr.Wrap(bridgeerr.InvariantViolation, "", "PDA derivation failed", err)
	}
	return pda, bump, nil
}

// SubmitTransactionRequest bundles the instructions and any additional
// signers (beyond the fee payer) a submission needs.
type SubmitTransactionRequest struct {
	Instructions []types.Instruction
	Signers      []types.Account
}

// SubmitTransaction builds, signs, and sends a transaction, then waits
// for confirmed commitment (spec.md §4.1 "build-and-send signed
// transaction with a confirmed-commitment wait").
func (a *Adapter) SubmitTransaction(ctx context.Context, req SubmitTransactionRequest) (string, error) {
	if a.feePayer == nil {
		return "", bridgeerr.New(bridgeerr.ConfigError, "", "SVM adapter has no fee payer configured")
	}

	blockhash, err := a.LatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	signers := append([]types.Account{*a.feePayer}, req.Signers...)

	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        a.feePayer.PublicKey,
		RecentBlockhash: blockhash,
		Instructions:    req.Instructions,
	})

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: msg,
		Signers: signers,
	})
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.ConfigError, "", "failed to build transaction", err)
	}

	sig, err := a.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", bridgeerr.Wrap(bridgeerr.RpcError, "", "failed to send transaction", err)
	}

	if err := a.waitForConfirmation(ctx, sig); err != nil {
		return sig, err
	}

	a.logger.Info().Str("signature", sig).Msg("submitted SVM transaction")
	return sig, nil
}

// waitForConfirmation polls signature status until it reaches
// "confirmed" commitment or the context is done.
func (a *Adapter) waitForConfirmation(ctx context.Context, signature string) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		statuses, err := a.client.GetSignatureStatus(ctx, signature)
		if err != nil {
			return bridgeerr.Wrap(bridgeerr.RpcError, "", "signature status read failed", err)
		}
		if statuses != nil {
			if statuses.Err != nil {
				return bridgeerr.Newf(bridgeerr.RpcError, "", "transaction %s failed on-chain: %v", signature, statuses.Err)
			}
			if statuses.ConfirmationStatus != nil &&
				(*statuses.ConfirmationStatus == "confirmed" || *statuses.ConfirmationStatus == "finalized") {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return bridgeerr.Wrap(bridgeerr.Timeout, "", "confirmation wait cancelled", ctx.Err())
		case <-ticker.C:
		}
	}
}
