// Package chain defines the thin, chain-neutral contracts the two
// concrete adapters (chain/evm, chain/svm) implement. Adapters wrap RPC
// and signer material and expose a stable interface to the engines;
// they have no cross-chain awareness (spec.md §4.1).
package chain

import (
	"context"

	"github.com/baserelay/bridge-sdk/bridgetypes"
)

// Adapter is the marker interface both concrete adapters satisfy so
// code that only needs to know "what chain is this" can stay generic.
type Adapter interface {
	Kind() bridgetypes.ChainKind
	ChainId() bridgetypes.ChainId
	// Ping performs a cheap RPC round-trip for health checking.
	Ping(ctx context.Context) error
}

// WalletMode describes whether an adapter can sign and submit
// transactions, or is read-only.
type WalletMode string

const (
	WalletNone       WalletMode = "none"
	WalletPrivateKey WalletMode = "private_key"
)
