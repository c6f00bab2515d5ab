package identity

import "fmt"

// DecodePayload is the inverse of EncodePayload: given the (ty, data)
// pair stored on an incoming/outgoing message account, reconstruct the
// tagged Message. Used by the SVM engine when it needs to inspect a
// message it (or its counterpart) already encoded, and by the payload
// encode/decode round-trip tests.
func DecodePayload(ty uint8, data []byte) (Message, error) {
	switch PayloadKind(ty) {
	case PayloadCall:
		c, err := decodeCallTuple(data)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: PayloadCall, Call: &c}, nil

	case PayloadTransfer:
		t, err := decodeTransferTuple(data)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: PayloadTransfer, Transfer: &t}, nil

	case PayloadTransferWithCall:
		t, c, err := decodeTransferAndCall(data)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: PayloadTransferWithCall, Transfer: &t, NestedCall: &c}, nil

	default:
		return Message{}, fmt.Errorf("identity: unknown payload kind %d", ty)
	}
}

func decodeCallTuple(data []byte) (CallPayload, error) {
	args := abiArgsOf(callTupleType)
	vals, err := args.Unpack(data)
	if err != nil {
		return CallPayload{}, fmt.Errorf("identity: decode call tuple: %w", err)
	}
	out := abiAsStruct[callTuple](vals[0])
	return CallPayload{
		CallType: out.CallType,
		To:       to32(out.To.Bytes()),
		Value:    out.Value,
		Data:     out.Data,
	}, nil
}

func decodeTransferTuple(data []byte) (TransferPayload, error) {
	args := abiArgsOf(transferTupleType)
	vals, err := args.Unpack(data)
	if err != nil {
		return TransferPayload{}, fmt.Errorf("identity: decode transfer tuple: %w", err)
	}
	out := abiAsStruct[transferTuple](vals[0])
	return TransferPayload{
		LocalToken:   out.RemoteToken,
		RemoteToken:  to32(out.LocalToken.Bytes()),
		To:           append([]byte(nil), out.To[:]...),
		RemoteAmount: out.RemoteAmount,
	}, nil
}

func decodeTransferAndCall(data []byte) (TransferPayload, CallPayload, error) {
	args := abiArgsOfMany(transferTupleType, callTupleType)
	vals, err := args.Unpack(data)
	if err != nil {
		return TransferPayload{}, CallPayload{}, fmt.Errorf("identity: decode transfer+call: %w", err)
	}
	tt := abiAsStruct[transferTuple](vals[0])
	ct := abiAsStruct[callTuple](vals[1])
	transfer := TransferPayload{
		LocalToken:   tt.RemoteToken,
		RemoteToken:  to32(tt.LocalToken.Bytes()),
		To:           append([]byte(nil), tt.To[:]...),
		RemoteAmount: tt.RemoteAmount,
	}
	call := CallPayload{
		CallType: ct.CallType,
		To:       to32(ct.To.Bytes()),
		Value:    ct.Value,
		Data:     ct.Data,
	}
	return transfer, call, nil
}
