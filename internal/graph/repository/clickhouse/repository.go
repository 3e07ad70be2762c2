// Package clickhouse stores address-flow edges in ClickHouse.
package clickhouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/batcher"
	"go.uber.org/zap"
)

const defaultChunkSize = 50_000

// Repository is an edge sink backed by the address_flow_edges table.
type Repository struct {
	conn    Conn
	metrics Metrics
	chunks  *batcher.Batcher[model.Edge]
	logger  *zap.Logger
}

// NewRepository opens a ClickHouse connection from dsn. Inserts are split into chunks
// of chunkSize rows (zero selects the default) and limited to rps chunks per second.
func NewRepository(dsn string, chunkSize, rps int, metrics Metrics, logger *zap.Logger) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	repo, err := newRepository(driverConn{conn: conn}, chunkSize, rps, metrics, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return repo, nil
}

func newRepository(conn Conn, chunkSize, rps int, metrics Metrics, logger *zap.Logger) (*Repository, error) {
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}
	logger = logger.Named("clickhouse_repository")

	chunks, err := batcher.New[model.Edge](logger, chunkSize, rps)
	if err != nil {
		return nil, err
	}
	return &Repository{conn: conn, metrics: metrics, chunks: chunks, logger: logger}, nil
}

// Close releases the underlying connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}

type driverConn struct {
	conn clickhouse.Conn
}

func (c driverConn) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	b, err := c.conn.PrepareBatch(ctx, query)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c driverConn) Close() error {
	return c.conn.Close()
}
