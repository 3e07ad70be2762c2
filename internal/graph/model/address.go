package model

// AddressType is the closed set of output script patterns.
type AddressType string

var (
	AddressPubKeyHash       AddressType = "p2pkh"
	AddressScript           AddressType = "p2sh"
	AddressPubKey           AddressType = "p2pk"
	AddressMultiSig         AddressType = "p2ms"
	AddressWitnessV0KeyHash AddressType = "p2wpkh"
	AddressWitnessV0Script  AddressType = "p2wsh"
	AddressWitnessV1Taproot AddressType = "p2tr"
	AddressOpReturn         AddressType = "OP_RETURN"
	AddressInvalid          AddressType = "invalid"
	AddressUnknown          AddressType = "unknown"
)

// Placeholder vertex identities for outputs without a canonical address.
const (
	OpReturnPlaceholder = "OP_RETURN"
	InvalidPlaceholder  = "invalid"
	UnknownPlaceholder  = "undefined"
)

// Address is a classified output: its pattern and the vertex identities derived from it.
type Address struct {
	Type      AddressType
	Addresses []string
}

// Canonical reports whether the addresses are real encoded addresses rather than placeholders.
func (a Address) Canonical() bool {
	switch a.Type {
	case AddressOpReturn, AddressInvalid, AddressUnknown:
		return false
	default:
		return true
	}
}
