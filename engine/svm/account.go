package svm

import (
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	chainsvm "github.com/baserelay/bridge-sdk/chain/svm"
	"github.com/baserelay/bridge-sdk/identity"
	"github.com/baserelay/bridge-sdk/seeds"
)

// tokenProgramID is the well-known SPL Token program address.
var tokenProgramID = common.PublicKeyFromString("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

const accountDiscriminatorSize = 8

// incomingMessageAccount is the decoded shape of an incoming-message
// PDA: discriminator(8) + executed(1) + nonce(8) + sender(32) +
// ty(1) + data(u32-len-prefixed).
type incomingMessageAccount struct {
	Executed bool
	Nonce    uint64
	Sender   [32]byte
	Ty       uint8
	Data     []byte
}

func decodeIncomingMessageAccount(raw []byte) (incomingMessageAccount, error) {
	const headerSize = accountDiscriminatorSize + 1 + 8 + 32 + 1 + 4
	if len(raw) < headerSize {
		return incomingMessageAccount{}, bridgeerr.New(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "incoming message account data too short")
	}

	off := accountDiscriminatorSize
	executed := raw[off] != 0
	off++

	nonce := binary.LittleEndian.Uint64(raw[off : off+8])
	off += 8

	var sender [32]byte
	copy(sender[:], raw[off:off+32])
	off += 32

	ty := raw[off]
	off++

	dataLen := int(binary.LittleEndian.Uint32(raw[off : off+4]))
	off += 4
	if off+dataLen > len(raw) {
		return incomingMessageAccount{}, bridgeerr.New(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "incoming message account data truncated")
	}

	return incomingMessageAccount{
		Executed: executed,
		Nonce:    nonce,
		Sender:   sender,
		Ty:       ty,
		Data:     append([]byte(nil), raw[off:off+dataLen]...),
	}, nil
}

// decodeOutgoingMessageAccount decodes an outgoing-message PDA's raw
// account data: discriminator(8) + nonce(8) + sender(32) + ty(1) +
// data(u32-len-prefixed).
func decodeOutgoingMessageAccount(raw []byte) (identity.OutgoingMessage, error) {
	const headerSize = accountDiscriminatorSize + 8 + 32 + 1 + 4
	if len(raw) < headerSize {
		return identity.OutgoingMessage{}, bridgeerr.New(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "outgoing message account data too short")
	}

	off := accountDiscriminatorSize
	nonce := binary.LittleEndian.Uint64(raw[off : off+8])
	off += 8

	var sender [32]byte
	copy(sender[:], raw[off:off+32])
	off += 32

	ty := raw[off]
	off++

	dataLen := int(binary.LittleEndian.Uint32(raw[off : off+4]))
	off += 4
	if off+dataLen > len(raw) {
		return identity.OutgoingMessage{}, bridgeerr.New(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "outgoing message account data truncated")
	}

	message, err := identity.DecodePayload(ty, raw[off:off+dataLen])
	if err != nil {
		return identity.OutgoingMessage{}, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageInitiate, "failed to decode outgoing message payload", err)
	}

	return identity.OutgoingMessage{Nonce: nonce, Sender: sender, Message: message}, nil
}

func isZero32(b [32]byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// remainingAccountsFor reconstructs the remaining-accounts list the
// on-chain relayMessage instruction needs for a decoded incoming
// message: SOL vault or token vault, recipient, and mint owner program
// for transfers; the nested call's target program for calls (spec.md
// §4.3.1 "Execution on SVM").
func (e *Engine) remainingAccountsFor(msg incomingMessageAccount) ([]types.AccountMeta, error) {
	decoded, err := identity.DecodePayload(msg.Ty, msg.Data)
	if err != nil {
		return nil, bridgeerr.Wrap(bridgeerr.InvariantViolation, bridgeerr.StageExecute, "failed to decode incoming message payload", err)
	}

	var accounts []types.AccountMeta

	if decoded.Transfer != nil {
		recipient := common.PublicKeyFromBytes(decoded.Transfer.To[:])
		if isZero32(decoded.Transfer.LocalToken) {
			solVaultPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.SolVault}, e.bridgeProgram)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts,
				types.AccountMeta{PubKey: solVaultPda, IsSigner: false, IsWritable: true},
				types.AccountMeta{PubKey: recipient, IsSigner: false, IsWritable: true},
				types.AccountMeta{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			)
		} else {
			mintPk := common.PublicKeyFromBytes(decoded.Transfer.LocalToken[:])
			tokenVaultPda, _, err := chainsvm.FindProgramAddress([][]byte{seeds.TokenVault, mintPk.Bytes(), decoded.Transfer.RemoteToken[:]}, e.bridgeProgram)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts,
				types.AccountMeta{PubKey: mintPk, IsSigner: false, IsWritable: false},
				types.AccountMeta{PubKey: tokenVaultPda, IsSigner: false, IsWritable: true},
				types.AccountMeta{PubKey: recipient, IsSigner: false, IsWritable: true},
				types.AccountMeta{PubKey: tokenProgramID, IsSigner: false, IsWritable: false},
			)
		}
	}

	if decoded.NestedCall != nil {
		accounts = append(accounts, nestedCallAccounts(*decoded.NestedCall)...)
	} else if decoded.Call != nil {
		accounts = append(accounts, nestedCallAccounts(*decoded.Call)...)
	}

	return accounts, nil
}

// nestedCallAccounts forwards the nested call's target as a remaining
// account. Full introspection of an arbitrary serialized instruction
// list embedded in a call's data is chain-native instruction encoding
// — explicitly out of scope (spec.md §1) — so the on-chain relay
// program is responsible for interpreting call.Data against this
// single forwarded program id.
func nestedCallAccounts(c identity.CallPayload) []types.AccountMeta {
	programID := common.PublicKeyFromBytes(c.To[:])
	return []types.AccountMeta{
		{PubKey: programID, IsSigner: false, IsWritable: false},
	}
}
