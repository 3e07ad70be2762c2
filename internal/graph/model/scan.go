package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ScanParams bounds a scan. EndFile is exclusive; zero means no upper bound.
// StartTx is inclusive and EndTx exclusive; nil means unbounded.
type ScanParams struct {
	BlocksDir    string
	Network      Network
	StartFile    int
	EndFile      int
	StartTx      *chainhash.Hash
	EndTx        *chainhash.Hash
	EndTimestamp *time.Time
	Flags        EnrichmentFlags
}

// Checkpoint is the persisted scan-position token written after each flush. Started
// records whether the start transaction gate had opened by LastTxID.
type Checkpoint struct {
	RunID              string
	CreatedAt          time.Time
	LastFileNumber     int
	FileComplete       bool
	Started            bool
	LastBlockTimestamp time.Time
	LastBlockHash      chainhash.Hash
	LastTxID           chainhash.Hash
	Flags              EnrichmentFlags
}
