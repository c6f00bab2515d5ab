// Package identity derives the canonical cross-chain message identifiers
// (inner hash, outer hash) and encodes the on-wire payload for each
// message variant, per spec.md §4.2. Every function here is pure: no
// I/O, no RPC, no signing.
package identity

import "math/big"

// PayloadKind discriminates the tagged Message variant that an
// OutgoingMessage carries, matching the `ty` byte in the wire encoding.
type PayloadKind uint8

const (
	PayloadCall             PayloadKind = 0
	PayloadTransfer         PayloadKind = 1
	PayloadTransferWithCall PayloadKind = 2
)

// CallPayload mirrors the SVM-side Call variant: `to` is carried as a
// raw 32-byte SVM-side value; only its first 20 bytes are meaningful as
// an EVM address (spec.md §4.2 Call encoding).
type CallPayload struct {
	CallType uint8
	To       [32]byte
	Value    *big.Int
	Data     []byte
}

// TransferPayload mirrors the SVM-side Transfer variant. Field naming
// intentionally follows the SVM program's naming, not the EVM ABI tuple
// it gets encoded into (spec.md §9 Open Questions): LocalToken is the
// SVM mint (32-byte form), RemoteToken is the EVM token address
// (32-byte form, first 20 bytes meaningful), To is the raw destination
// bytes (right-padded to 32 if shorter), RemoteAmount is the amount in
// the destination token's smallest unit.
type TransferPayload struct {
	LocalToken   [32]byte
	RemoteToken  [32]byte
	To           []byte
	RemoteAmount uint64
}

// Message is the tagged union an OutgoingMessage account carries.
type Message struct {
	Kind       PayloadKind
	Call       *CallPayload     // PayloadCall
	Transfer   *TransferPayload // PayloadTransfer / PayloadTransferWithCall
	NestedCall *CallPayload     // only set when Kind == PayloadTransferWithCall
}

// OutgoingMessage is the deserialized form of the SVM "outgoing message"
// account read by PDA (spec.md §4.2 step 1).
type OutgoingMessage struct {
	Nonce   uint64
	Sender  [32]byte
	Message Message
}
