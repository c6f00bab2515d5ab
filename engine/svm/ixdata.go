package svm

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
)

// anchorDiscriminator computes the 8-byte instruction discriminator
// convention the on-chain bridge/relayer programs use: the first 8
// bytes of sha256("global:<name>"). Grounded on the pack's
// base/alt-l1-bridge oracle handler, which builds relay instructions
// against the same convention (there hardcoded; computed here so it
// stays in lockstep with instruction names instead of needing the
// literal bytes transcribed).
func anchorDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// ixDataBuilder assembles instruction data: an 8-byte discriminator
// followed by little-endian-encoded fields (spec.md §4.2 "All integer
// encodings are little-endian when used as SVM-side PDA seeds" — the
// same convention carries to instruction data on the on-chain programs
// this client talks to).
type ixDataBuilder struct {
	buf bytes.Buffer
}

func newIxData(name string) *ixDataBuilder {
	b := &ixDataBuilder{}
	disc := anchorDiscriminator(name)
	b.buf.Write(disc[:])
	return b
}

func (b *ixDataBuilder) u8(v uint8) *ixDataBuilder {
	b.buf.WriteByte(v)
	return b
}

func (b *ixDataBuilder) u64(v uint64) *ixDataBuilder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *ixDataBuilder) bytes32(v [32]byte) *ixDataBuilder {
	b.buf.Write(v[:])
	return b
}

// bytesWithLen writes a u32 length prefix followed by the raw bytes,
// the standard Borsh-style encoding for variable-length fields.
func (b *ixDataBuilder) bytesWithLen(v []byte) *ixDataBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(v)))
	b.buf.Write(tmp[:])
	b.buf.Write(v)
	return b
}

func (b *ixDataBuilder) stringWithLen(v string) *ixDataBuilder {
	return b.bytesWithLen([]byte(v))
}

func (b *ixDataBuilder) bool(v bool) *ixDataBuilder {
	if v {
		return b.u8(1)
	}
	return b.u8(0)
}

func (b *ixDataBuilder) build() []byte {
	return append([]byte(nil), b.buf.Bytes()...)
}

// writeLenPrefixed appends a u32 length prefix and raw bytes to buf,
// used for hashing metadata blobs outside the discriminator-prefixed
// instruction format (wrapTokenMetadata's mint derivation).
func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(b)))
	buf.Write(tmp[:])
	buf.Write(b)
}
