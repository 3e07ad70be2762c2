package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// RawBlock is one framed block body extracted from a block file.
type RawBlock struct {
	FileNumber int
	Offset     int64
	Bytes      []byte
}

// Block is a decoded block: header timestamp, hash and transactions in ledger order.
type Block struct {
	Hash         chainhash.Hash
	Timestamp    time.Time
	Transactions []Transaction
}
