//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE
package clickhouse

import (
	"context"
	"time"
)

type (
	// Metrics records repository operations.
	Metrics interface {
		Observe(operation string, rows int, err error, started time.Time)
	}

	// Conn is the part of a ClickHouse connection the repository uses.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Close() error
	}

	// Batch is a prepared insert.
	Batch interface {
		Append(v ...any) error
		Send() error
		Abort() error
	}
)
