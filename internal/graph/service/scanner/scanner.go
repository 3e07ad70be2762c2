// Package scanner replays block files into address-flow edge batches.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/edge"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/utxo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config tunes sink flush retries. Zero values select defaults.
type Config struct {
	FlushAttempts int
	FlushBackoff  time.Duration
}

// Result summarises one scan.
type Result struct {
	RunID string
	State string
	// Stopped is set when the end transaction or the sink ended the scan.
	Stopped bool
	// Interrupted is set when the scan context was cancelled.
	Interrupted     bool
	Files           int
	Blocks          int
	SkippedBlocks   int
	Transactions    int
	Edges           int
	Unresolved      int
	ValueMismatches int
	UtxoEntries     int
	Checkpoint      model.Checkpoint
}

type Service struct {
	logger        *zap.Logger
	sink          Sink
	checkpoints   CheckpointStore
	metrics       Metrics
	sleep         func(context.Context, time.Duration) error
	now           func() time.Time
	newRunID      func() string
	flushAttempts int
	flushBackoff  time.Duration
}

// NewService wires a scan service. checkpoints may be nil, in which case scans are not
// resumable.
func NewService(
	sink Sink,
	checkpoints CheckpointStore,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) (*Service, error) {
	if sink == nil {
		return nil, errors.New("scanner sink is required")
	}
	if metrics == nil {
		return nil, errors.New("scanner metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FlushAttempts <= 0 {
		cfg.FlushAttempts = defaultFlushAttempts
	}
	if cfg.FlushBackoff <= 0 {
		cfg.FlushBackoff = defaultFlushBackoff
	}

	return &Service{
		logger:        logger,
		sink:          sink,
		checkpoints:   checkpoints,
		metrics:       metrics,
		sleep:         clock.SleepWithContext,
		now:           time.Now,
		newRunID:      uuid.NewString,
		flushAttempts: cfg.FlushAttempts,
		flushBackoff:  cfg.FlushBackoff,
	}, nil
}

type runState struct {
	runID        string
	index        *utxo.Index
	resumeAfter  *chainhash.Hash
	noCheckpoint bool
}

// Scan runs a fresh scan over params under a new run identifier.
func (s *Service) Scan(ctx context.Context, params model.ScanParams) (Result, error) {
	params.Flags = params.Flags.Normalize()
	return s.run(ctx, params, runState{runID: s.newRunID()})
}

// Resume continues the latest persisted scan. Without a checkpoint it starts a fresh scan.
// The checkpoint's run identifier and enrichment flags take precedence over params.
func (s *Service) Resume(ctx context.Context, params model.ScanParams) (Result, error) {
	if s.checkpoints == nil {
		return Result{}, errors.New("resume requires a checkpoint store")
	}

	cp, err := s.checkpoints.LatestCheckpoint(ctx)
	if errors.Is(err, model.ErrCheckpointNotFound) {
		s.logger.Info("no checkpoint found; starting a fresh scan")
		return s.Scan(ctx, params)
	}
	if err != nil {
		return Result{}, fmt.Errorf("load checkpoint: %w", err)
	}

	params, st := resumeParams(params, cp)
	if !params.Flags.Raw {
		st.index = utxo.NewIndex(defaultUtxoCapacity)
		if err := s.checkpoints.LoadUtxoIndex(ctx, st.index); err != nil {
			return Result{}, fmt.Errorf("load utxo index for run %s: %w", cp.RunID, err)
		}
	}

	s.logger.Info("resuming scan",
		zap.String("run_id", cp.RunID),
		zap.Int("start_file", params.StartFile),
		zap.Bool("file_complete", cp.FileComplete),
		zap.Stringer("last_txid", cp.LastTxID),
		zap.Int("utxo_entries", indexLen(st.index)),
	)
	return s.run(ctx, params, st)
}

func resumeParams(params model.ScanParams, cp model.Checkpoint) (model.ScanParams, runState) {
	params.Flags = cp.Flags.Normalize()
	st := runState{runID: cp.RunID}

	switch {
	case cp.FileComplete:
		params.StartFile = cp.LastFileNumber + 1
		if cp.Started {
			params.StartTx = nil
		}
	case cp.Started:
		params.StartFile = cp.LastFileNumber
		params.StartTx = nil
		after := cp.LastTxID
		st.resumeAfter = &after
	default:
		params.StartFile = cp.LastFileNumber
	}
	return params, st
}

func (s *Service) run(ctx context.Context, params model.ScanParams, st runState) (Result, error) {
	chainParams, err := bitcoin.ChainParams(params.Network)
	if err != nil {
		return Result{}, err
	}
	classifier, err := bitcoin.NewScriptClassifier(params.Network)
	if err != nil {
		return Result{}, err
	}

	files, err := bitcoin.NewBlockFileScanner(params.BlocksDir, bitcoin.Magic(chainParams), params.StartFile, params.EndFile)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if closeErr := files.Close(); closeErr != nil {
			s.logger.Warn("close block file", zap.Error(closeErr))
		}
	}()

	if st.index == nil && !params.Flags.Raw {
		st.index = utxo.NewIndex(defaultUtxoCapacity)
	}
	checkpoints := s.checkpoints
	if st.noCheckpoint {
		checkpoints = nil
	}

	logger := s.logger.With(
		zap.String("run_id", st.runID),
		zap.String("network", string(params.Network)),
	)
	sc := &scan{
		service:     s,
		logger:      logger,
		checkpoints: checkpoints,
		params:      params,
		runID:       st.runID,
		classifier:  classifier,
		emitter:     edge.NewEmitter(params.Flags, logger.Named("emitter")),
		index:       st.index,
		resumeAfter: st.resumeAfter,
		cursor:      NewCursor(params.StartFile),
	}
	sc.cursor.Started = params.StartTx == nil && st.resumeAfter == nil

	logger.Info("scan started",
		zap.Int("start_file", params.StartFile),
		zap.Int("end_file", params.EndFile),
		zap.Int("files", len(files.Files())),
		zap.Bool("raw", params.Flags.Raw),
	)
	return sc.run(ctx, files)
}

func indexLen(idx *utxo.Index) int {
	if idx == nil {
		return 0
	}
	return idx.Len()
}
