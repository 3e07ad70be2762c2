package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// CoinbaseSource is the source vertex used for newly minted coins.
const CoinbaseSource = "00"

// Source is the funding side of an edge. Resolved sources carry an address; unresolved
// (raw mode) sources carry the outpoint so a later pass can resolve them.
type Source struct {
	Address    string
	PrevTxID   chainhash.Hash
	PrevIndex  uint32
	Unresolved bool
}

// NewCoinbaseSource returns the sentinel source for coinbase inputs.
func NewCoinbaseSource(raw bool) Source {
	if raw {
		return Source{Address: CoinbaseSource, PrevIndex: CoinbasePrevIndex, Unresolved: true}
	}
	return Source{Address: CoinbaseSource}
}

// NewOutpointSource returns an unresolved source referencing a previous output.
func NewOutpointSource(prevTxID chainhash.Hash, prevIndex uint32) Source {
	return Source{PrevTxID: prevTxID, PrevIndex: prevIndex, Unresolved: true}
}

// Destination is one receiving address together with the output that paid it.
type Destination struct {
	Address string
	Index   uint32
}

// Edge connects a funding source to a receiving address within one transaction.
type Edge struct {
	Timestamp   int64
	TxID        chainhash.Hash
	Source      Source
	Destination Destination
	Value       int64
	HasValue    bool
	FileNumber  int
}

// EnrichmentFlags selects the optional edge columns and the resolution mode.
type EnrichmentFlags struct {
	WithTimestamp   bool
	WithValue       bool
	WithOutputIndex bool
	WithFileNumber  bool
	Raw             bool
}

// Normalize applies flag dependencies: raw mode always carries the output index.
func (f EnrichmentFlags) Normalize() EnrichmentFlags {
	if f.Raw {
		f.WithOutputIndex = true
	}
	return f
}

// Batch is the set of edges produced from one block file, handed to a sink.
type Batch struct {
	RunID      string
	FileNumber int
	Flags      EnrichmentFlags
	Edges      []Edge
}
