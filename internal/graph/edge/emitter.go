// Package edge builds address-flow edges for a transaction and renders them as rows.
package edge

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"go.uber.org/zap"
)

// ErrValueMismatch is reported when a destination has no collected output value.
var ErrValueMismatch = errors.New("output value mismatch")

// TxMeta carries the per-transaction columns shared by every edge of the transaction.
type TxMeta struct {
	TxID       chainhash.Hash
	Timestamp  int64
	FileNumber int
}

// Emitter produces the sources x destinations cross product in the configured shape.
type Emitter struct {
	flags  model.EnrichmentFlags
	logger *zap.Logger
}

// NewEmitter creates an emitter for flags. Raw mode implies output indexes.
func NewEmitter(flags model.EnrichmentFlags, logger *zap.Logger) *Emitter {
	return &Emitter{
		flags:  flags.Normalize(),
		logger: logger,
	}
}

// Flags returns the normalized flags the emitter applies.
func (e *Emitter) Flags() model.EnrichmentFlags {
	return e.flags
}

// Emit appends to dst one edge per distinct source and destination pair. values holds
// output values by output index and is consulted only when values are enabled; a
// destination without a value is emitted without one. The number of such value
// mismatches is returned alongside the edges.
func (e *Emitter) Emit(dst []model.Edge, tx TxMeta, sources []model.Source, destinations []model.Destination, values []int64) ([]model.Edge, int) {
	sources = dedupSources(sources)
	if len(sources) == 0 || len(destinations) == 0 {
		return dst, 0
	}

	var mismatches int
	for _, src := range sources {
		for _, d := range destinations {
			edge := model.Edge{
				TxID:        tx.TxID,
				Source:      src,
				Destination: d,
			}
			if e.flags.WithTimestamp {
				edge.Timestamp = tx.Timestamp
			}
			if e.flags.WithFileNumber {
				edge.FileNumber = tx.FileNumber
			}
			if e.flags.WithValue {
				value, err := valueFor(values, d)
				if err != nil {
					mismatches++
					e.logger.Warn("emit edge without value",
						zap.Stringer("txid", tx.TxID),
						zap.Int("file", tx.FileNumber),
						zap.Uint32("output_index", d.Index),
						zap.Error(err))
				} else {
					edge.Value = value
					edge.HasValue = true
				}
			}
			dst = append(dst, edge)
		}
	}
	return dst, mismatches
}

func valueFor(values []int64, d model.Destination) (int64, error) {
	if int(d.Index) >= len(values) {
		return 0, fmt.Errorf("output %d of %d collected values: %w", d.Index, len(values), ErrValueMismatch)
	}
	return values[d.Index], nil
}

func dedupSources(sources []model.Source) []model.Source {
	if len(sources) < 2 {
		return sources
	}
	seen := make(map[model.Source]struct{}, len(sources))
	out := make([]model.Source, 0, len(sources))
	for _, src := range sources {
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
