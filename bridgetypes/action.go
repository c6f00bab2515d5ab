package bridgetypes

import "math/big"

// ActionKind discriminates the tagged BridgeAction variant.
type ActionKind string

const (
	ActionTransfer ActionKind = "transfer"
	ActionCall     ActionKind = "call"
)

// NestedCall is the "perform this after crediting funds" call embedded
// in a Transfer action (spec.md §3 BridgeAction).
type NestedCall struct {
	To       string
	Value    *big.Int
	Data     []byte
	CallType uint8
}

// BridgeAction is a tagged union over the two shapes an operation can
// take: move an asset (optionally followed by a call on destination),
// or perform a bare call.
type BridgeAction struct {
	Kind ActionKind

	// Transfer fields.
	Asset      AssetRef
	Amount     *big.Int
	Recipient  string
	NestedCall *NestedCall

	// Call fields.
	To       string
	Value    *big.Int
	Data     []byte
	CallType uint8
}

// Transfer constructs a plain asset-move action.
func Transfer(asset AssetRef, amount *big.Int, recipient string) BridgeAction {
	return BridgeAction{Kind: ActionTransfer, Asset: asset, Amount: amount, Recipient: recipient}
}

// TransferWithCall constructs an asset-move action with a nested
// destination-side call.
func TransferWithCall(asset AssetRef, amount *big.Int, recipient string, call NestedCall) BridgeAction {
	return BridgeAction{Kind: ActionTransfer, Asset: asset, Amount: amount, Recipient: recipient, NestedCall: &call}
}

// Call constructs a bare-call action.
func Call(to string, value *big.Int, data []byte, callType uint8) BridgeAction {
	return BridgeAction{Kind: ActionCall, To: to, Value: value, Data: data, CallType: callType}
}
