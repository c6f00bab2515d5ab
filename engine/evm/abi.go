package evm

import (
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// bridgeContractABIJSON is the bridge contract's read/write surface
// (spec.md §6 "EVM bridge contract surface").
const bridgeContractABIJSON = `[
  {"type":"function","name":"BRIDGE_VALIDATOR","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"successes","stateMutability":"view","inputs":[{"name":"outerHash","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"failures","stateMutability":"view","inputs":[{"name":"outerHash","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getMessageHash","stateMutability":"view","inputs":[{"name":"message","type":"tuple","components":[
    {"name":"nonce","type":"uint64"},
    {"name":"outgoingMessagePubkey","type":"bytes32"},
    {"name":"sender","type":"bytes32"},
    {"name":"ty","type":"uint8"},
    {"name":"data","type":"bytes"}
  ]}],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"generateProof","stateMutability":"view","inputs":[{"name":"nonce","type":"uint64"}],"outputs":[{"name":"","type":"bytes32[]"}]},
  {"type":"function","name":"relayMessages","stateMutability":"nonpayable","inputs":[{"name":"messages","type":"tuple[]","components":[
    {"name":"nonce","type":"uint64"},
    {"name":"outgoingMessagePubkey","type":"bytes32"},
    {"name":"sender","type":"bytes32"},
    {"name":"ty","type":"uint8"},
    {"name":"data","type":"bytes"}
  ]}],"outputs":[]},
  {"type":"function","name":"bridgeCall","stateMutability":"nonpayable","inputs":[{"name":"ixs","type":"tuple[]","components":[
    {"name":"programId","type":"bytes32"},
    {"name":"accounts","type":"bytes"},
    {"name":"data","type":"bytes"}
  ]}],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"bridgeToken","stateMutability":"nonpayable","inputs":[
    {"name":"transfer","type":"tuple","components":[
      {"name":"localToken","type":"address"},
      {"name":"remoteToken","type":"bytes32"},
      {"name":"to","type":"bytes32"},
      {"name":"remoteAmount","type":"uint64"}
    ]},
    {"name":"ixs","type":"tuple[]","components":[
      {"name":"programId","type":"bytes32"},
      {"name":"accounts","type":"bytes"},
      {"name":"data","type":"bytes"}
    ]}
  ],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"event","name":"MessageInitiated","anonymous":false,"inputs":[
    {"name":"messageHash","type":"bytes32","indexed":false},
    {"name":"mmrRoot","type":"bytes32","indexed":false},
    {"name":"message","type":"tuple","indexed":false,"components":[
      {"name":"nonce","type":"uint64"},
      {"name":"sender","type":"bytes32"},
      {"name":"ty","type":"uint8"},
      {"name":"data","type":"bytes"}
    ]}
  ]}
]`

// validatorABIJSON is the bridge validator contract's read surface.
const validatorABIJSON = `[
  {"type":"function","name":"validMessages","stateMutability":"view","inputs":[{"name":"outerHash","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	bridgeContractABI = mustParseABI(bridgeContractABIJSON)
	validatorABI      = mustParseABI(validatorABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("engine/evm: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

// Ix is a caller-facing, chain-neutral SVM instruction forward: the
// exact account-metadata encoding is left opaque to this client (ABI/
// IDL-level instruction encoding is out of scope; spec.md §1), so
// Accounts is treated as a pre-encoded blob the on-chain relay program
// interprets.
type Ix struct {
	ProgramID [32]byte
	Accounts  []byte
	Data      []byte
}

// ixTuple mirrors the EVM ABI tuple (bytes32 programId, bytes accounts,
// bytes data).
type ixTuple struct {
	ProgramId [32]byte
	Accounts  []byte
	Data      []byte
}

func toIxTuples(ixs []Ix) []ixTuple {
	out := make([]ixTuple, len(ixs))
	for i, ix := range ixs {
		out[i] = ixTuple{ProgramId: ix.ProgramID, Accounts: ix.Accounts, Data: ix.Data}
	}
	return out
}

// Transfer mirrors the EVM ABI tuple (address localToken, bytes32
// remoteToken, bytes32 to, uint64 remoteAmount) bridgeToken expects.
type Transfer struct {
	LocalToken   common.Address
	RemoteToken  [32]byte
	To           [32]byte
	RemoteAmount uint64
}

// incomingMessageTuple mirrors the on-chain IncomingMessage tuple:
// everything getMessageHash needs to recompute the outer hash.
type incomingMessageTuple struct {
	Nonce                 uint64
	OutgoingMessagePubkey [32]byte
	Sender                [32]byte
	Ty                    uint8
	Data                  []byte
}

// messageTuple mirrors the Message tuple embedded in MessageInitiated.
type messageTuple struct {
	Nonce  uint64
	Sender [32]byte
	Ty     uint8
	Data   []byte
}

// abiAsStruct copies the anonymous struct go-ethereum's abi package
// generates for an unpacked tuple into our named mirror type T, field
// by field (same idiom as identity.abiAsStruct; duplicated here since
// the two packages unpack different tuple shapes).
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
