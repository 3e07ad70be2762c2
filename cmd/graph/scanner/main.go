package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	badgerdb "github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/repository/badger"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/service/scanner"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/sink/csvfile"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/safe"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type sinkKind string

const (
	sinkFile       sinkKind = "file"
	sinkClickhouse sinkKind = "clickhouse"
)

type config struct {
	BlocksDir      string        `long:"blocks-dir" env:"GRAPH_SCANNER_BLOCKS_DIR" description:"directory holding blkNNNNN.dat files" required:"true"`
	Network        model.Network `long:"network" env:"GRAPH_SCANNER_NETWORK" description:"network name" choice:"mainnet" choice:"testnet" choice:"regtest" choice:"signet" default:"mainnet"`
	StartFile      uint          `long:"start-file" env:"GRAPH_SCANNER_START_FILE" description:"first block file number"`
	EndFile        uint          `long:"end-file" env:"GRAPH_SCANNER_END_FILE" description:"block file number to stop before; 0 scans to the last file"`
	StartTx        string        `long:"start-tx" env:"GRAPH_SCANNER_START_TX" description:"txid of the first transaction to emit edges for"`
	EndTx          string        `long:"end-tx" env:"GRAPH_SCANNER_END_TX" description:"txid of the transaction to stop before"`
	EndTimestamp   int64         `long:"end-timestamp" env:"GRAPH_SCANNER_END_TIMESTAMP" description:"skip blocks with a header timestamp after this unix time; 0 disables"`
	WithTimestamp  bool          `long:"with-timestamp" env:"GRAPH_SCANNER_WITH_TIMESTAMP" description:"add block timestamps to edges"`
	WithValue      bool          `long:"with-value" env:"GRAPH_SCANNER_WITH_VALUE" description:"add output values to edges"`
	WithFileNumber bool          `long:"with-file-number" env:"GRAPH_SCANNER_WITH_FILE_NUMBER" description:"add block file numbers to edges"`
	Raw            bool          `long:"raw" env:"GRAPH_SCANNER_RAW" description:"emit unresolved outpoints instead of source addresses"`
	Sink           sinkKind      `long:"sink" env:"GRAPH_SCANNER_SINK" description:"edge sink" choice:"file" choice:"clickhouse" default:"file"`
	OutputDir      string        `long:"output-dir" env:"GRAPH_SCANNER_OUTPUT_DIR" description:"root directory of the file sink" default:"output"`
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"GRAPH_SCANNER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	ClickhouseRPS  int           `long:"clickhouse-rps" env:"GRAPH_SCANNER_CLICKHOUSE_RPS" description:"insert chunks per second; 0 disables limiting" default:"10"`
	CheckpointDir  string        `long:"checkpoint-dir" env:"GRAPH_SCANNER_CHECKPOINT_DIR" description:"checkpoint store directory; empty disables checkpoints"`
	Resume         bool          `long:"resume" env:"GRAPH_SCANNER_RESUME" description:"continue from the latest checkpoint"`
	Partitions     int           `long:"partitions" env:"GRAPH_SCANNER_PARTITIONS" description:"split the file range into concurrent raw scans" default:"1"`
	FlushAttempts  int           `long:"flush-attempts" env:"GRAPH_SCANNER_FLUSH_ATTEMPTS" description:"sink flush attempts per batch" default:"5"`
	FlushBackoff   time.Duration `long:"flush-backoff" env:"GRAPH_SCANNER_FLUSH_BACKOFF" description:"base delay between flush attempts" default:"2s"`
	MetricsAddr    string        `long:"metrics-addr" env:"GRAPH_SCANNER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("graph scanner failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	params, err := scanParams(cfg)
	if err != nil {
		return err
	}
	if cfg.Resume && cfg.CheckpointDir == "" {
		return errors.New("resume requires --checkpoint-dir")
	}
	if cfg.Resume && cfg.Partitions > 1 {
		return errors.New("partitioned scans are not resumable")
	}

	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	sink, closeSink, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	var checkpoints scanner.CheckpointStore
	if cfg.CheckpointDir != "" {
		store, err := badgerdb.NewStore(cfg.CheckpointDir, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("close checkpoint store", zap.Error(err))
			}
		}()
		checkpoints = store
	}

	svc, err := scanner.NewService(
		sink,
		checkpoints,
		metrics.NewScanner(cfg.Network),
		scanner.Config{FlushAttempts: cfg.FlushAttempts, FlushBackoff: cfg.FlushBackoff},
		logger.Named("scanner"),
	)
	if err != nil {
		return err
	}

	switch {
	case cfg.Partitions > 1:
		results, err := svc.ScanPartitioned(ctx, params, cfg.Partitions)
		for _, res := range results {
			logResult(logger, res)
		}
		return err
	case cfg.Resume:
		res, err := svc.Resume(ctx, params)
		logResult(logger, res)
		return err
	default:
		res, err := svc.Scan(ctx, params)
		logResult(logger, res)
		return err
	}
}

func scanParams(cfg config) (model.ScanParams, error) {
	startFile, err := safe.Int(cfg.StartFile)
	if err != nil {
		return model.ScanParams{}, fmt.Errorf("start file: %w", err)
	}
	endFile, err := safe.Int(cfg.EndFile)
	if err != nil {
		return model.ScanParams{}, fmt.Errorf("end file: %w", err)
	}
	if endFile != 0 && endFile <= startFile {
		return model.ScanParams{}, fmt.Errorf("end file %d must be after start file %d", endFile, startFile)
	}

	params := model.ScanParams{
		BlocksDir: cfg.BlocksDir,
		Network:   cfg.Network,
		StartFile: startFile,
		EndFile:   endFile,
		Flags: model.EnrichmentFlags{
			WithTimestamp:  cfg.WithTimestamp,
			WithValue:      cfg.WithValue,
			WithFileNumber: cfg.WithFileNumber,
			Raw:            cfg.Raw,
		},
	}
	if params.StartTx, err = parseTxID(cfg.StartTx); err != nil {
		return model.ScanParams{}, fmt.Errorf("start tx: %w", err)
	}
	if params.EndTx, err = parseTxID(cfg.EndTx); err != nil {
		return model.ScanParams{}, fmt.Errorf("end tx: %w", err)
	}
	if cfg.EndTimestamp > 0 {
		end := time.Unix(cfg.EndTimestamp, 0).UTC()
		params.EndTimestamp = &end
	}
	return params, nil
}

func parseTxID(s string) (*chainhash.Hash, error) {
	if s == "" {
		return nil, nil
	}
	return chainhash.NewHashFromStr(s)
}

func newSink(cfg config, logger *zap.Logger) (scanner.Sink, func(), error) {
	switch cfg.Sink {
	case sinkClickhouse:
		if cfg.ClickhouseDSN == "" {
			return nil, nil, errors.New("ClickHouse DSN is required")
		}
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, 0, cfg.ClickhouseRPS, metrics.NewClickhouseRepository(cfg.Network), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init repository: %w", err)
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Error("close clickhouse connection", zap.Error(err))
			}
		}, nil
	case sinkFile, "":
		s, err := csvfile.New(cfg.OutputDir, metrics.NewFileSink(), logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}

func logResult(logger *zap.Logger, res scanner.Result) {
	if res.RunID == "" {
		return
	}
	logger.Info("scan finished",
		zap.String("run_id", res.RunID),
		zap.String("state", res.State),
		zap.Bool("stopped", res.Stopped),
		zap.Bool("interrupted", res.Interrupted),
		zap.Int("files", res.Files),
		zap.Int("blocks", res.Blocks),
		zap.Int("skipped_blocks", res.SkippedBlocks),
		zap.Int("transactions", res.Transactions),
		zap.Int("edges", res.Edges),
		zap.Int("unresolved_inputs", res.Unresolved),
		zap.Int("value_mismatches", res.ValueMismatches),
		zap.Int("utxo_entries", res.UtxoEntries),
	)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
