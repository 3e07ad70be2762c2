package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/workerpool"
	"go.uber.org/zap"
)

type shard struct {
	n     int
	start int
	end   int
}

// splitFiles divides [start, end) into at most parts contiguous, non-empty ranges whose
// sizes differ by at most one.
func splitFiles(start, end, parts int) []shard {
	total := end - start
	if total <= 0 || parts <= 0 {
		return nil
	}
	if parts > total {
		parts = total
	}

	size, rem := total/parts, total%parts
	shards := make([]shard, 0, parts)
	lo := start
	for i := 0; i < parts; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		shards = append(shards, shard{n: i, start: lo, end: hi})
		lo = hi
	}
	return shards
}

// ScanPartitioned scans contiguous shards of the file range concurrently, each with its
// own cursor. Inputs can be funded across shard boundaries, so shards always run in raw
// mode, ignore transaction bounds and are not checkpointed. Shards without block files
// are skipped. Results are returned in shard order.
func (s *Service) ScanPartitioned(ctx context.Context, params model.ScanParams, partitions int) ([]Result, error) {
	if partitions < 1 {
		return nil, fmt.Errorf("partitions must be positive, got %d", partitions)
	}

	end := params.EndFile
	if end <= 0 {
		files, err := bitcoin.ListBlockFiles(params.BlocksDir, params.StartFile, 0)
		if err != nil {
			return nil, err
		}
		end = files[len(files)-1].Number + 1
	}
	shards := splitFiles(params.StartFile, end, partitions)
	if len(shards) == 0 {
		return nil, fmt.Errorf("empty file range [%d, %d): %w", params.StartFile, end, bitcoin.ErrMissingFile)
	}

	params.Flags.Raw = true
	params.Flags = params.Flags.Normalize()
	params.StartTx = nil
	params.EndTx = nil
	runID := s.newRunID()

	s.logger.Info("partitioned scan started",
		zap.String("run_id", runID),
		zap.Int("shards", len(shards)),
		zap.Int("start_file", params.StartFile),
		zap.Int("end_file", end),
	)

	results := make([]Result, len(shards))
	err := workerpool.Process(ctx, len(shards), shards, func(ctx context.Context, sh shard) error {
		p := params
		p.StartFile, p.EndFile = sh.start, sh.end

		res, err := s.run(ctx, p, runState{runID: runID, noCheckpoint: true})
		results[sh.n] = res
		if errors.Is(err, bitcoin.ErrMissingFile) {
			s.logger.Info("shard has no block files", zap.Int("start_file", sh.start), zap.Int("end_file", sh.end))
			return nil
		}
		if err != nil {
			return fmt.Errorf("scan shard [%d, %d): %w", sh.start, sh.end, err)
		}
		return nil
	})
	return results, err
}
