package badgerdb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/dgraph-io/badger/v4"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/utxo"
	"github.com/timshannon/badgerhold/v4"
	"go.uber.org/zap"
)

const (
	latestCheckpointKey = "latest"
	snapshotPrefix      = "utxo/"
)

// checkpointDTO points at the snapshot generation written with the checkpoint.
type checkpointDTO struct {
	model.Checkpoint
	Generation  uint64
	HasSnapshot bool
}

// SaveCheckpoint writes the utxo snapshot under a new generation, then switches the
// latest checkpoint to it and drops the previous generation. A crash between the steps
// leaves the previous checkpoint and its snapshot intact.
func (s *Store) SaveCheckpoint(ctx context.Context, cp model.Checkpoint, idx *utxo.Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prev, err := s.latest()
	if err != nil && !errors.Is(err, model.ErrCheckpointNotFound) {
		return err
	}
	dto := checkpointDTO{Checkpoint: cp, Generation: prev.Generation + 1, HasSnapshot: idx != nil}

	if idx != nil {
		if err := s.writeSnapshot(dto.Generation, idx); err != nil {
			return err
		}
	}

	if err := s.store.Upsert(latestCheckpointKey, &dto); err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}

	if prev.HasSnapshot {
		if err := s.store.Badger().DropPrefix(generationPrefix(prev.Generation)); err != nil {
			s.logger.Warn("drop previous utxo snapshot failed",
				zap.Uint64("generation", prev.Generation),
				zap.Error(err))
		}
	}

	s.logger.Debug("checkpoint saved",
		zap.String("run_id", cp.RunID),
		zap.Int("file", cp.LastFileNumber),
		zap.Bool("file_complete", cp.FileComplete),
		zap.Uint64("generation", dto.Generation))
	return nil
}

// LatestCheckpoint returns the most recently saved checkpoint.
func (s *Store) LatestCheckpoint(ctx context.Context) (model.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return model.Checkpoint{}, err
	}
	dto, err := s.latest()
	if err != nil {
		return model.Checkpoint{}, err
	}
	return dto.Checkpoint, nil
}

// LoadUtxoIndex fills idx with the snapshot saved beside the latest checkpoint.
func (s *Store) LoadUtxoIndex(ctx context.Context, idx *utxo.Index) error {
	dto, err := s.latest()
	if err != nil {
		return err
	}
	if !dto.HasSnapshot {
		return fmt.Errorf("checkpoint of run %s has no utxo snapshot", dto.RunID)
	}

	prefix := generationPrefix(dto.Generation)
	return s.store.Badger().View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 1000})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			txid, err := chainhash.NewHash(item.Key()[len(prefix):])
			if err != nil {
				return fmt.Errorf("snapshot key %x: %w", item.Key(), err)
			}
			err = item.Value(func(val []byte) error {
				outputs, err := utxo.DecodeOutputs(val)
				if err != nil {
					return fmt.Errorf("snapshot entry %s: %w", txid, err)
				}
				idx.RecordOutputs(*txid, outputs)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) latest() (checkpointDTO, error) {
	var dto checkpointDTO
	err := s.store.Get(latestCheckpointKey, &dto)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return checkpointDTO{}, model.ErrCheckpointNotFound
	}
	if err != nil {
		return checkpointDTO{}, fmt.Errorf("get checkpoint: %w", err)
	}
	return dto, nil
}

func (s *Store) writeSnapshot(generation uint64, idx *utxo.Index) error {
	wb := s.store.Badger().NewWriteBatch()
	defer wb.Cancel()

	prefix := generationPrefix(generation)
	var err error
	idx.Each(func(txid chainhash.Hash, outputs []utxo.Output) bool {
		key := make([]byte, 0, len(prefix)+chainhash.HashSize)
		key = append(append(key, prefix...), txid[:]...)
		err = wb.Set(key, utxo.EncodeOutputs(outputs))
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("write utxo snapshot: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush utxo snapshot: %w", err)
	}
	return nil
}

func generationPrefix(generation uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(snapshotPrefix), generation)
}
