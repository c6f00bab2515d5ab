package identity

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// callTuple is the Go-side mirror of the EVM ABI tuple
// (uint8 callType, address to, uint128 value, bytes data).
type callTuple struct {
	CallType uint8
	To       common.Address
	Value    *big.Int
	Data     []byte
}

// transferTuple is the Go-side mirror of the EVM ABI tuple
// (address localToken, bytes32 remoteToken, bytes32 to, uint64 remoteAmount).
type transferTuple struct {
	LocalToken   common.Address
	RemoteToken  [32]byte
	To           [32]byte
	RemoteAmount uint64
}

func mustTupleType(name string, components []abi.ArgumentMarshaling) abi.Type {
	t, err := abi.NewType("tuple", "", components)
	if err != nil {
		panic(fmt.Sprintf("identity: building %s tuple type: %v", name, err))
	}
	return t
}

var (
	callTupleType = mustTupleType("call", []abi.ArgumentMarshaling{
		{Name: "callType", Type: "uint8"},
		{Name: "to", Type: "address"},
		{Name: "value", Type: "uint128"},
		{Name: "data", Type: "bytes"},
	})

	transferTupleType = mustTupleType("transfer", []abi.ArgumentMarshaling{
		{Name: "localToken", Type: "address"},
		{Name: "remoteToken", Type: "bytes32"},
		{Name: "to", Type: "bytes32"},
		{Name: "remoteAmount", Type: "uint64"},
	})
)

// first20 returns the first 20 bytes of a 32-byte SVM-side value as an
// EVM address (spec.md §4.2: "to is taken from the first 20 bytes of
// the 32-byte SVM-side to").
func first20(b [32]byte) common.Address {
	var addr common.Address
	copy(addr[:], b[:20])
	return addr
}

// to32 right-pads a possibly-shorter-than-32-byte slice with zeros so
// that bytes20(to) recovers the original address (spec.md §8 boundary
// behavior). Longer-than-32 input is truncated defensively.
func to32(b []byte) [32]byte {
	var out [32]byte
	n := len(b)
	if n > 32 {
		n = 32
	}
	copy(out[:n], b[:n])
	return out
}

func encodeCallTuple(c CallPayload) ([]byte, error) {
	args := abi.Arguments{{Type: callTupleType}}
	return args.Pack(toCallTuple(c))
}

func encodeTransferTuple(t TransferPayload) ([]byte, error) {
	args := abi.Arguments{{Type: transferTupleType}}
	return args.Pack(toTransferTuple(t))
}

func toTransferTuple(t TransferPayload) transferTuple {
	return transferTuple{
		LocalToken:   first20(t.RemoteToken),
		RemoteToken:  t.LocalToken,
		To:           to32(t.To),
		RemoteAmount: t.RemoteAmount,
	}
}

func toCallTuple(c CallPayload) callTuple {
	value := c.Value
	if value == nil {
		value = big.NewInt(0)
	}
	return callTuple{
		CallType: c.CallType,
		To:       first20(c.To),
		Value:    value,
		Data:     c.Data,
	}
}

// encodeTransferAndCall ABI-encodes both tuples as a single two-argument
// call so dynamic offsets (the nested call's `data` field) are computed
// relative to the combined head, not each tuple in isolation (spec.md
// §4.2: "ty = 2, data = abi_encode(transferTuple, callTuple)").
func encodeTransferAndCall(t TransferPayload, c CallPayload) ([]byte, error) {
	args := abi.Arguments{{Type: transferTupleType}, {Type: callTupleType}}
	return args.Pack(toTransferTuple(t), toCallTuple(c))
}

func abiArgsOf(t abi.Type) abi.Arguments {
	return abi.Arguments{{Type: t}}
}

func abiArgsOfMany(ts ...abi.Type) abi.Arguments {
	args := make(abi.Arguments, len(ts))
	for i, t := range ts {
		args[i] = abi.Argument{Type: t}
	}
	return args
}

// abiAsStruct copies the anonymous struct go-ethereum's abi package
// generates for an unpacked tuple (field names taken from the ABI
// component names) into our named mirror type T, field by field. The
// two struct shapes are kept in lockstep by callTupleType/
// transferTupleType above, so every destination field finds a match.
func abiAsStruct[T any](v interface{}) T {
	var out T
	src := reflect.ValueOf(v)
	dst := reflect.ValueOf(&out).Elem()
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		if sf := src.FieldByName(name); sf.IsValid() {
			dst.Field(i).Set(sf)
		}
	}
	return out
}

// EncodePayload deterministically encodes an OutgoingMessage's payload
// into the (ty, data) pair the inner hash is computed over (spec.md
// §4.2 "Payload encoding").
func EncodePayload(m Message) (ty uint8, data []byte, err error) {
	switch m.Kind {
	case PayloadCall:
		if m.Call == nil {
			return 0, nil, fmt.Errorf("identity: Call payload missing Call field")
		}
		data, err = encodeCallTuple(*m.Call)
		return uint8(PayloadCall), data, err

	case PayloadTransfer:
		if m.Transfer == nil {
			return 0, nil, fmt.Errorf("identity: Transfer payload missing Transfer field")
		}
		data, err = encodeTransferTuple(*m.Transfer)
		return uint8(PayloadTransfer), data, err

	case PayloadTransferWithCall:
		if m.Transfer == nil || m.NestedCall == nil {
			return 0, nil, fmt.Errorf("identity: TransferWithCall payload missing Transfer or NestedCall field")
		}
		data, err = encodeTransferAndCall(*m.Transfer, *m.NestedCall)
		return uint8(PayloadTransferWithCall), data, err

	default:
		return 0, nil, fmt.Errorf("identity: unknown payload kind %d", m.Kind)
	}
}
