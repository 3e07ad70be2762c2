package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/edge"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/sink"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/safe"
	"go.uber.org/zap"
)

const insertEdgesQuery = `
INSERT INTO address_flow_edges (
    run_id,
    file_number,
    txid,
    source,
    prev_txid,
    prev_output_index,
    destination,
    output_index,
    raw,
    block_timestamp,
    value
) VALUES`

// Flush inserts the batch in chunks. Network failures are reported wrapped in
// sink.ErrRetry. Rows are keyed so that a re-offered batch collapses on merge.
func (r *Repository) Flush(ctx context.Context, b model.Batch) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_edges", len(b.Edges), err, start)
	}()

	if len(b.Edges) == 0 {
		return nil
	}
	fileNumber, err := safe.Uint32(b.FileNumber)
	if err != nil {
		return fmt.Errorf("file number %d: %w", b.FileNumber, err)
	}

	err = r.chunks.Run(ctx, b.Edges, func(ctx context.Context, chunk []model.Edge) error {
		return r.insertChunk(ctx, b.RunID, fileNumber, b.Flags, chunk)
	})
	if err != nil {
		err = retryable(err)
		r.logger.Warn("insert edges failed",
			zap.Int("file", b.FileNumber),
			zap.Int("edges", len(b.Edges)),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) insertChunk(ctx context.Context, runID string, fileNumber uint32, flags model.EnrichmentFlags, edges []model.Edge) error {
	batch, err := r.conn.PrepareBatch(ctx, insertEdgesQuery)
	if err != nil {
		return fmt.Errorf("prepare edges batch: %w", err)
	}

	for _, e := range edges {
		if err := batch.Append(edgeValues(runID, fileNumber, flags, e)...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append edge: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert edges: %w", err)
	}
	return nil
}

func edgeValues(runID string, fileNumber uint32, flags model.EnrichmentFlags, e model.Edge) []any {
	flags = flags.Normalize()

	var (
		source    = e.Source.Address
		prevTxID  string
		prevIndex uint32
		timestamp *time.Time
		value     *int64
	)
	if flags.Raw {
		prevTxID = edge.SourceTxID(e.Source)
		prevIndex = e.Source.PrevIndex
	}
	if flags.WithTimestamp {
		ts := time.Unix(e.Timestamp, 0).UTC()
		timestamp = &ts
	}
	if flags.WithValue && e.HasValue {
		v := e.Value
		value = &v
	}

	return []any{
		runID,
		fileNumber,
		e.TxID.String(),
		source,
		prevTxID,
		prevIndex,
		e.Destination.Address,
		e.Destination.Index,
		flags.Raw,
		timestamp,
		value,
	}
}

func retryable(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &netErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, clickhouse.ErrAcquireConnTimeout):
		return fmt.Errorf("%w: %w", sink.ErrRetry, err)
	default:
		return err
	}
}
