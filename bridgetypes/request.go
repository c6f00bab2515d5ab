package bridgetypes

import "math/big"

// RelayMode controls who executes the message on the destination chain.
type RelayMode string

const (
	// RelayAuto attaches a "pay for relay" side instruction so an
	// off-chain relayer executes on destination.
	RelayAuto RelayMode = "auto"
	// RelayManual leaves execution to the caller.
	RelayManual RelayMode = "manual"
	// RelayNone means initiation only; nothing executes on destination.
	RelayNone RelayMode = "none"
)

// RelayOptions configures how a message gets from initiation to
// execution on the destination chain.
type RelayOptions struct {
	Mode     RelayMode
	GasLimit uint64

	// EVM fee caps, only meaningful when the destination (or source, for
	// SVM->EVM execute) is an EVM chain.
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// DefaultRelayOptions matches the teacher's pattern of sensible
// zero-value defaults rather than requiring every caller to specify
// everything.
func DefaultRelayOptions() RelayOptions {
	return RelayOptions{Mode: RelayAuto}
}

// BridgeRequest is the input to BridgeClient.Request (and, via thin
// wrappers, Transfer/Call).
type BridgeRequest struct {
	Route          BridgeRoute
	Action         BridgeAction
	IdempotencyKey string // optional; seeds the per-message salt deterministically
	Relay          *RelayOptions
	Metadata       map[string]string
}
