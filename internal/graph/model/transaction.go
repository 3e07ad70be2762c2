package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// CoinbasePrevIndex is the previous-output index carried by coinbase inputs.
const CoinbasePrevIndex uint32 = 0xffffffff

// Transaction is a decoded transaction reduced to what graph extraction needs.
type Transaction struct {
	TxID    chainhash.Hash
	Inputs  []Input
	Outputs []Output
}

// Input references the output it spends.
type Input struct {
	PrevTxID  chainhash.Hash
	PrevIndex uint32
}

// IsCoinbase reports whether the input creates new coins (all-zero previous txid).
func (in Input) IsCoinbase() bool {
	return in.PrevTxID == chainhash.Hash{}
}

// Output is a value locked by a script.
type Output struct {
	Value  int64
	Script []byte
}
