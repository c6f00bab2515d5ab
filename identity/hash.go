package identity

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint8Type, _   = abi.NewType("uint8", "", nil)
	uint64Type, _  = abi.NewType("uint64", "", nil)
	bytesType, _   = abi.NewType("bytes", "", nil)

	innerHashArgs = abi.Arguments{{Type: bytes32Type}, {Type: uint8Type}, {Type: bytesType}}
	outerHashArgs = abi.Arguments{{Type: uint64Type}, {Type: bytes32Type}, {Type: bytes32Type}}
)

// InnerHash computes keccak256(abi_encode(bytes32 sender, uint8 ty,
// bytes data)) (spec.md §4.2 step 3).
func InnerHash(sender [32]byte, ty uint8, data []byte) ([32]byte, error) {
	packed, err := innerHashArgs.Pack(sender, ty, data)
	if err != nil {
		return [32]byte{}, err
	}
	return keccak(packed), nil
}

// OuterHash computes keccak256(abi_encode(uint64 nonce, bytes32
// outgoingMessagePubkey, bytes32 innerHash)) (spec.md §4.2 step 4).
func OuterHash(nonce uint64, outgoingMessagePubkey [32]byte, innerHash [32]byte) ([32]byte, error) {
	packed, err := outerHashArgs.Pack(nonce, outgoingMessagePubkey, innerHash)
	if err != nil {
		return [32]byte{}, err
	}
	return keccak(packed), nil
}

func keccak(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], crypto.Keccak256(b))
	return out
}

// DeriveOuterHash runs the full §4.2 pipeline: encode the message
// payload, compute the inner hash, then the outer hash. outgoingPda is
// the base58-decoded 32-byte outgoing message PDA.
func DeriveOuterHash(msg OutgoingMessage, outgoingPda [32]byte) (outer [32]byte, inner [32]byte, err error) {
	ty, data, err := EncodePayload(msg.Message)
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	inner, err = InnerHash(msg.Sender, ty, data)
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	outer, err = OuterHash(msg.Nonce, outgoingPda, inner)
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	return outer, inner, nil
}

// HexHash formats a 32-byte hash as 0x-hex, matching the evm:* MessageId
// scheme's wire form.
func HexHash(h [32]byte) string {
	return common.BytesToHash(h[:]).Hex()
}
