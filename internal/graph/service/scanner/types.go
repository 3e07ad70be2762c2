package scanner

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/utxo"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Sink receives one batch per block file. Returning sink.ErrStop ends the scan
	// gracefully; any other error causes the batch to be offered again.
	Sink interface {
		Flush(ctx context.Context, batch model.Batch) error
	}
	// CheckpointStore persists scan positions and, when idx is non-nil, the live
	// UtxoIndex snapshot alongside.
	CheckpointStore interface {
		SaveCheckpoint(ctx context.Context, cp model.Checkpoint, idx *utxo.Index) error
		LatestCheckpoint(ctx context.Context) (model.Checkpoint, error)
		LoadUtxoIndex(ctx context.Context, idx *utxo.Index) error
	}
	Metrics interface {
		ObserveBlock(skipped bool)
		ObserveTransactions(count int)
		ObserveEdges(count int)
		ObserveUnresolvedInput()
		ObserveValueMismatch(count int)
		ObserveFlush(err error, edges int, started time.Time)
		ObserveFile(err error, file int, started time.Time)
		SetUtxoSize(entries, outputs int)
	}
)
