package identity

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// DecodeSVMPubkey decodes a base58 SVM-side public key/PDA into its
// 32-byte form. An SVM pubkey is always exactly 32 bytes in practice;
// per spec.md §8 boundary behavior, a shorter decode is left-padded
// defensively rather than rejected.
func DecodeSVMPubkey(b58 string) ([32]byte, error) {
	raw, err := base58.Decode(b58)
	if err != nil {
		return [32]byte{}, fmt.Errorf("identity: invalid base58 pubkey %q: %w", b58, err)
	}
	if len(raw) > 32 {
		return [32]byte{}, fmt.Errorf("identity: pubkey %q decodes to %d bytes, want at most 32", b58, len(raw))
	}
	var out [32]byte
	copy(out[32-len(raw):], raw)
	return out, nil
}

// EncodeSVMPubkey encodes a 32-byte value back to base58.
func EncodeSVMPubkey(b [32]byte) string {
	return base58.Encode(b[:])
}
