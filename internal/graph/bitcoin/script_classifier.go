package bitcoin

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
)

// ScriptClassifier maps output scripts to address patterns and encoded addresses.
type ScriptClassifier struct {
	params *chaincfg.Params
}

// NewScriptClassifier initializes a classifier encoding addresses for the provided network.
func NewScriptClassifier(network model.Network) (*ScriptClassifier, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &ScriptClassifier{params: params}, nil
}

type scriptOp struct {
	code byte
	data []byte
}

// Classify returns the script's pattern and at least one vertex identity. Multisig
// scripts are represented by their first public key only.
func (c *ScriptClassifier) Classify(script []byte) model.Address {
	if len(script) > 0 && script[0] == txscript.OP_RETURN {
		return placeholder(model.AddressOpReturn, model.OpReturnPlaceholder)
	}

	ops, ok := tokenize(script)
	if !ok {
		return placeholder(model.AddressInvalid, model.InvalidPlaceholder)
	}

	switch {
	case isPubKeyHash(ops):
		return c.encode(model.AddressPubKeyHash, func() (btcutil.Address, error) {
			return btcutil.NewAddressPubKeyHash(ops[2].data, c.params)
		})
	case isPubKey(ops):
		return c.encode(model.AddressPubKey, func() (btcutil.Address, error) {
			return btcutil.NewAddressPubKeyHash(btcutil.Hash160(ops[0].data), c.params)
		})
	case isScriptHash(ops):
		return c.encode(model.AddressScript, func() (btcutil.Address, error) {
			return btcutil.NewAddressScriptHashFromHash(ops[1].data, c.params)
		})
	case isMultiSig(ops):
		return c.encode(model.AddressMultiSig, func() (btcutil.Address, error) {
			return btcutil.NewAddressPubKeyHash(btcutil.Hash160(ops[1].data), c.params)
		})
	case isWitnessV0(ops, txscript.OP_DATA_20):
		return c.encode(model.AddressWitnessV0KeyHash, func() (btcutil.Address, error) {
			return btcutil.NewAddressWitnessPubKeyHash(ops[1].data, c.params)
		})
	case isWitnessV0(ops, txscript.OP_DATA_32):
		return c.encode(model.AddressWitnessV0Script, func() (btcutil.Address, error) {
			return btcutil.NewAddressWitnessScriptHash(ops[1].data, c.params)
		})
	case isTaproot(ops):
		return c.encode(model.AddressWitnessV1Taproot, func() (btcutil.Address, error) {
			return btcutil.NewAddressTaproot(ops[1].data, c.params)
		})
	default:
		return placeholder(model.AddressUnknown, model.UnknownPlaceholder)
	}
}

func (c *ScriptClassifier) encode(addrType model.AddressType, build func() (btcutil.Address, error)) model.Address {
	addr, err := build()
	if err != nil {
		return placeholder(model.AddressInvalid, model.InvalidPlaceholder)
	}
	return model.Address{Type: addrType, Addresses: []string{addr.EncodeAddress()}}
}

func placeholder(addrType model.AddressType, vertex string) model.Address {
	return model.Address{Type: addrType, Addresses: []string{vertex}}
}

func tokenize(script []byte) ([]scriptOp, bool) {
	ops := make([]scriptOp, 0, 8)
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		ops = append(ops, scriptOp{code: tokenizer.Opcode(), data: tokenizer.Data()})
	}
	if tokenizer.Err() != nil {
		return nil, false
	}
	return ops, true
}

// OP_DUP OP_HASH160 <20> OP_EQUALVERIFY OP_CHECKSIG
func isPubKeyHash(ops []scriptOp) bool {
	return len(ops) == 5 &&
		ops[0].code == txscript.OP_DUP &&
		ops[1].code == txscript.OP_HASH160 &&
		ops[2].code == txscript.OP_DATA_20 &&
		ops[3].code == txscript.OP_EQUALVERIFY &&
		ops[4].code == txscript.OP_CHECKSIG
}

// <pubkey> OP_CHECKSIG
func isPubKey(ops []scriptOp) bool {
	return len(ops) == 2 &&
		looksLikePubKey(ops[0].data) &&
		ops[1].code == txscript.OP_CHECKSIG
}

// OP_HASH160 <20> OP_EQUAL
func isScriptHash(ops []scriptOp) bool {
	return len(ops) == 3 &&
		ops[0].code == txscript.OP_HASH160 &&
		ops[1].code == txscript.OP_DATA_20 &&
		ops[2].code == txscript.OP_EQUAL
}

// OP_m <pubkey>... OP_n OP_CHECKMULTISIG
func isMultiSig(ops []scriptOp) bool {
	if len(ops) < 4 {
		return false
	}
	first, last := ops[0], ops[len(ops)-2]
	if ops[len(ops)-1].code != txscript.OP_CHECKMULTISIG ||
		!txscript.IsSmallInt(first.code) || !txscript.IsSmallInt(last.code) {
		return false
	}
	m, n := txscript.AsSmallInt(first.code), txscript.AsSmallInt(last.code)
	keys := ops[1 : len(ops)-2]
	if m < 1 || n < m || len(keys) != n {
		return false
	}
	for _, key := range keys {
		if !looksLikePubKey(key.data) {
			return false
		}
	}
	return true
}

// OP_0 <20|32>
func isWitnessV0(ops []scriptOp, push byte) bool {
	return len(ops) == 2 &&
		ops[0].code == txscript.OP_0 &&
		ops[1].code == push
}

// OP_1 <32>
func isTaproot(ops []scriptOp) bool {
	return len(ops) == 2 &&
		ops[0].code == txscript.OP_1 &&
		ops[1].code == txscript.OP_DATA_32
}

func looksLikePubKey(data []byte) bool {
	switch len(data) {
	case 33:
		return data[0] == 0x02 || data[0] == 0x03
	case 65:
		return data[0] == 0x04 || data[0] == 0x06 || data[0] == 0x07
	default:
		return false
	}
}
