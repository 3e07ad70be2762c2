package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/edge"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/sink"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/utxo"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/safe"
	"go.uber.org/zap"
)

type blockSource interface {
	Next() (model.RawBlock, error)
}

// scan is the state of one sequential walk over a file range.
type scan struct {
	service     *Service
	logger      *zap.Logger
	checkpoints CheckpointStore
	params      model.ScanParams
	runID       string
	classifier  *bitcoin.ScriptClassifier
	emitter     *edge.Emitter
	index       *utxo.Index
	resumeAfter *chainhash.Hash
	cursor      *Cursor

	fileOpen    bool
	fileStarted time.Time
	batch       []model.Edge
	res         Result

	// fileAdmitted is set once a transaction of the current file passed the start gate.
	fileAdmitted bool
}

func (r *scan) run(ctx context.Context, blocks blockSource) (Result, error) {
	if err := r.cursor.Start(ctx); err != nil {
		return r.result(), err
	}

	for {
		if ctx.Err() != nil {
			return r.interrupt(ctx)
		}

		raw, err := blocks.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.fail(ctx, fmt.Errorf("read block file %d: %w", r.cursor.FileNumber, err), true)
		}

		if r.fileOpen && raw.FileNumber != r.cursor.FileNumber {
			if err := r.completeFile(ctx); err != nil {
				return r.settle(ctx, err)
			}
		}
		if !r.fileOpen {
			r.beginFile(raw.FileNumber)
		}

		block, err := bitcoin.DecodeBlock(raw)
		if err != nil {
			return r.fail(ctx, fmt.Errorf("decode block in file %d: %w", raw.FileNumber, err), true)
		}

		ended, err := r.processBlock(ctx, block)
		if err != nil {
			if ctx.Err() != nil {
				return r.interrupt(ctx)
			}
			return r.fail(ctx, err, true)
		}
		if ended {
			return r.endReached(ctx)
		}
	}

	if r.fileOpen {
		if err := r.completeFile(ctx); err != nil {
			return r.settle(ctx, err)
		}
	}
	if err := r.cursor.Finish(ctx); err != nil {
		return r.result(), err
	}
	r.logger.Info("scan finished",
		zap.Int("files", r.res.Files),
		zap.Int("edges", r.res.Edges),
		zap.Int("unresolved_inputs", r.res.Unresolved),
	)
	return r.result(), nil
}

func (r *scan) beginFile(fileNumber int) {
	r.cursor.FileNumber = fileNumber
	r.fileOpen = true
	r.fileAdmitted = false
	r.fileStarted = r.service.now()
	r.batch = make([]model.Edge, 0, initialBatchCapacity)
	r.logger.Debug("file started", zap.Int("file", fileNumber))
}

// processBlock reports whether the end transaction was reached.
func (r *scan) processBlock(ctx context.Context, block model.Block) (bool, error) {
	if r.params.EndTimestamp != nil && block.Timestamp.After(*r.params.EndTimestamp) {
		r.res.SkippedBlocks++
		r.service.metrics.ObserveBlock(true)
		r.logger.Debug("skip block past end timestamp",
			zap.Stringer("block", block.Hash),
			zap.Time("timestamp", block.Timestamp),
			zap.Int("file", r.cursor.FileNumber),
		)
		return false, nil
	}

	r.res.Blocks++
	r.service.metrics.ObserveBlock(false)
	r.cursor.BlockHash = block.Hash
	r.cursor.BlockTimestamp = block.Timestamp

	processed := 0
	defer func() {
		r.res.Transactions += processed
		r.service.metrics.ObserveTransactions(processed)
	}()

	for i := range block.Transactions {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		tx := &block.Transactions[i]

		admitted := r.admit(tx.TxID)
		// The end transaction only counts once the gate is open and is not processed.
		if r.cursor.Started && r.params.EndTx != nil && tx.TxID == *r.params.EndTx {
			r.cursor.Ended = true
			return true, nil
		}
		if !admitted {
			continue
		}
		if err := r.processTx(tx); err != nil {
			return false, err
		}
		r.cursor.TxID = tx.TxID
		r.fileAdmitted = true
		processed++
	}
	return false, nil
}

// admit opens the start gate when the start transaction, or the transaction after the
// resume point, is reached and reports whether txid may have side effects.
func (r *scan) admit(txid chainhash.Hash) bool {
	if r.cursor.Started {
		return true
	}
	if r.resumeAfter != nil {
		if txid == *r.resumeAfter {
			r.cursor.Started = true
			r.cursor.TxID = txid
			r.fileAdmitted = true
		}
		return false
	}
	if r.params.StartTx == nil || txid == *r.params.StartTx {
		r.cursor.Started = true
		return true
	}
	return false
}

func (r *scan) processTx(tx *model.Transaction) error {
	dests := make([]model.Destination, 0, len(tx.Outputs))
	values := make([]int64, len(tx.Outputs))
	var unspent []utxo.Output
	if r.index != nil {
		unspent = make([]utxo.Output, 0, len(tx.Outputs))
	}

	for i, out := range tx.Outputs {
		index, err := safe.Uint32(i)
		if err != nil {
			return fmt.Errorf("output of tx %s: %w", tx.TxID, err)
		}
		addr := r.classifier.Classify(out.Script)
		values[i] = out.Value
		for _, a := range addr.Addresses {
			dests = append(dests, model.Destination{Address: a, Index: index})
		}
		if r.index != nil && addr.Type != model.AddressOpReturn {
			unspent = append(unspent, utxo.Output{Index: index, Addresses: addr.Addresses})
		}
	}
	if r.index != nil {
		r.index.RecordOutputs(tx.TxID, unspent)
	}

	raw := r.params.Flags.Raw
	sources := make([]model.Source, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		switch {
		case in.IsCoinbase():
			sources = append(sources, model.NewCoinbaseSource(raw))
		case raw:
			sources = append(sources, model.NewOutpointSource(in.PrevTxID, in.PrevIndex))
		default:
			addrs, err := r.index.ResolveAndConsume(in.PrevTxID, in.PrevIndex)
			if err != nil {
				r.res.Unresolved++
				r.service.metrics.ObserveUnresolvedInput()
				r.logger.Debug("input unresolved",
					zap.Stringer("txid", tx.TxID),
					zap.Stringer("prev_txid", in.PrevTxID),
					zap.Uint32("prev_index", in.PrevIndex),
					zap.Int("file", r.cursor.FileNumber),
					zap.Error(err),
				)
				continue
			}
			for _, a := range addrs {
				sources = append(sources, model.Source{Address: a})
			}
		}
	}

	before := len(r.batch)
	var mismatches int
	r.batch, mismatches = r.emitter.Emit(r.batch, edge.TxMeta{
		TxID:       tx.TxID,
		Timestamp:  r.cursor.BlockTimestamp.Unix(),
		FileNumber: r.cursor.FileNumber,
	}, sources, dests, values)

	r.service.metrics.ObserveEdges(len(r.batch) - before)
	if mismatches > 0 {
		r.res.ValueMismatches += mismatches
		r.service.metrics.ObserveValueMismatch(mismatches)
	}
	return nil
}

func (r *scan) completeFile(ctx context.Context) error {
	file := r.cursor.FileNumber
	edges := len(r.batch)
	err := r.flush(ctx)
	r.service.metrics.ObserveFile(err, file, r.fileStarted)
	if err != nil {
		return err
	}
	if err := r.checkpoint(ctx, true); err != nil {
		return err
	}

	r.fileOpen = false
	r.res.Files++
	if r.index != nil {
		r.service.metrics.SetUtxoSize(r.index.Len(), r.index.Outputs())
	}
	r.logger.Info("file complete",
		zap.Int("file", file),
		zap.Int("edges", edges),
		zap.Int("utxo_entries", indexLen(r.index)),
		zap.Duration("duration", r.service.now().Sub(r.fileStarted)),
	)
	return nil
}

// flush hands the current batch to the sink. Only failures wrapping sink.ErrRetry are
// offered again; any other error is returned at once.
func (r *scan) flush(ctx context.Context) error {
	batch := model.Batch{
		RunID:      r.runID,
		FileNumber: r.cursor.FileNumber,
		Flags:      r.params.Flags,
		Edges:      r.batch,
	}

	for attempt := 1; ; attempt++ {
		started := r.service.now()
		err := r.service.sink.Flush(ctx, batch)
		r.service.metrics.ObserveFlush(err, len(batch.Edges), started)
		if err == nil {
			r.res.Edges += len(batch.Edges)
			r.batch = make([]model.Edge, 0, initialBatchCapacity)
			return nil
		}
		if !errors.Is(err, sink.ErrRetry) {
			return fmt.Errorf("flush file %d: %w", batch.FileNumber, err)
		}
		if attempt >= r.service.flushAttempts {
			return fmt.Errorf("flush file %d after %d attempts: %w", batch.FileNumber, attempt, err)
		}

		backoff := clock.LinearBackoff(r.service.flushBackoff, maxFlushBackoff, attempt)
		r.logger.Warn("flush failed, retrying",
			zap.Int("file", batch.FileNumber),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := r.service.sleep(ctx, backoff); err != nil {
			return fmt.Errorf("flush file %d: %w", batch.FileNumber, err)
		}
	}
}

func (r *scan) checkpoint(ctx context.Context, fileComplete bool) error {
	if r.checkpoints == nil {
		return nil
	}
	cp := model.Checkpoint{
		RunID:              r.runID,
		CreatedAt:          r.service.now().UTC(),
		LastFileNumber:     r.cursor.FileNumber,
		FileComplete:       fileComplete,
		Started:            r.cursor.Started,
		LastBlockTimestamp: r.cursor.BlockTimestamp,
		LastBlockHash:      r.cursor.BlockHash,
		LastTxID:           r.cursor.TxID,
		Flags:              r.params.Flags,
	}
	if !fileComplete && !r.fileAdmitted {
		switch {
		case r.resumeAfter != nil && !r.cursor.Started:
			// The resume point was not reached yet, so the loaded position still holds.
			cp.Started = true
			cp.LastTxID = *r.resumeAfter
		case r.cursor.Started:
			// Nothing in this file was admitted: the index matches the end of the previous file.
			cp.LastFileNumber = r.cursor.FileNumber - 1
			cp.FileComplete = true
		}
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, cp, r.index); err != nil {
		return fmt.Errorf("save checkpoint for file %d: %w", cp.LastFileNumber, err)
	}
	r.res.Checkpoint = cp
	return nil
}

// endReached flushes the partial batch once the end transaction is seen.
func (r *scan) endReached(ctx context.Context) (Result, error) {
	r.res.Stopped = true
	if err := r.cursor.Stop(ctx); err != nil {
		return r.result(), err
	}
	r.logger.Info("end transaction reached",
		zap.Stringer("txid", r.params.EndTx),
		zap.Int("file", r.cursor.FileNumber),
	)

	err := r.flush(ctx)
	if err == nil {
		err = r.checkpoint(ctx, false)
	}
	if err != nil {
		return r.settle(ctx, err)
	}
	if err := r.cursor.Finish(ctx); err != nil {
		return r.result(), err
	}
	return r.result(), nil
}

// settle maps a flush or checkpoint error to the terminal state.
func (r *scan) settle(ctx context.Context, err error) (Result, error) {
	switch {
	case errors.Is(err, sink.ErrStop):
		r.res.Stopped = true
		r.logger.Info("sink requested stop", zap.Int("file", r.cursor.FileNumber))
		if r.cursor.State() == StateScanning {
			if err := r.cursor.Stop(ctx); err != nil {
				return r.result(), err
			}
		}
		if err := r.cursor.Finish(ctx); err != nil {
			return r.result(), err
		}
		return r.result(), nil
	case ctx.Err() != nil:
		return r.interrupt(ctx)
	default:
		return r.fail(ctx, err, false)
	}
}

// interrupt flushes whatever the current file produced so far, checkpoints and ends
// the scan without an error.
func (r *scan) interrupt(ctx context.Context) (Result, error) {
	r.res.Interrupted = true
	r.logger.Info("scan interrupted",
		zap.Int("file", r.cursor.FileNumber),
		zap.Stringer("last_txid", r.cursor.TxID),
		zap.Int("pending_edges", len(r.batch)),
	)
	r.flushPending(ctx)
	if err := r.cursor.Finish(ctx); err != nil {
		return r.result(), err
	}
	return r.result(), nil
}

func (r *scan) fail(ctx context.Context, cause error, flushPending bool) (Result, error) {
	r.logger.Error("scan failed", zap.Int("file", r.cursor.FileNumber), zap.Error(cause))
	if flushPending {
		r.flushPending(ctx)
	}
	if err := r.cursor.Fail(ctx); err != nil {
		return r.result(), errors.Join(cause, err)
	}
	return r.result(), cause
}

func (r *scan) flushPending(ctx context.Context) {
	if !r.fileOpen {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), interruptFlushTimeout)
	defer cancel()

	if err := r.flush(ctx); err != nil {
		r.logger.Error("flush pending edges", zap.Int("file", r.cursor.FileNumber), zap.Error(err))
		return
	}
	if err := r.checkpoint(ctx, false); err != nil {
		r.logger.Error("save checkpoint", zap.Int("file", r.cursor.FileNumber), zap.Error(err))
	}
}

func (r *scan) result() Result {
	r.res.RunID = r.runID
	r.res.State = r.cursor.State()
	r.res.UtxoEntries = indexLen(r.index)
	return r.res
}
