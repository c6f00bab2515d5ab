package bridgetypes

// AssetKind discriminates the tagged AssetRef variant.
type AssetKind string

const (
	AssetNative  AssetKind = "native"
	AssetToken   AssetKind = "token"
	AssetWrapped AssetKind = "wrapped"
)

// AssetRef is a tagged variant over the kinds of value a BridgeAction can
// move. Address is chain-scoped: EVM hex for EVM tokens, base58 mint for
// SVM mints. Native carries no address.
type AssetRef struct {
	Kind    AssetKind
	Address string
}

// Native constructs the AssetRef for the chain's native currency.
func Native() AssetRef { return AssetRef{Kind: AssetNative} }

// Token constructs an AssetRef referring to a fungible token at address.
func Token(address string) AssetRef { return AssetRef{Kind: AssetToken, Address: address} }

// Wrapped constructs an AssetRef referring to a wrapped-token mint/contract.
func Wrapped(address string) AssetRef { return AssetRef{Kind: AssetWrapped, Address: address} }
