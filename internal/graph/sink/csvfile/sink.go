// Package csvfile writes edge batches as CSV files, one file per block file.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/edge"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"go.uber.org/zap"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
	edgesDir = "rawedges"
)

// Sink appends edge batches to <dir>/<run_id>/rawedges/raw_blk_<file>[_raw].csv.
// Files are opened in append mode so a resumed file keeps what an interrupted run wrote;
// the header is written only to an empty file.
type Sink struct {
	dir     string
	metrics Metrics
	logger  *zap.Logger
}

// New constructs a Sink rooted at dir.
func New(dir string, metrics Metrics, logger *zap.Logger) (*Sink, error) {
	if dir == "" {
		return nil, errors.New("output dir is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{dir: dir, metrics: metrics, logger: logger.Named("csvfile_sink")}, nil
}

// Path returns the file that receives edges of a block file.
func (s *Sink) Path(runID string, fileNumber int, raw bool) string {
	name := fmt.Sprintf("raw_blk_%d", fileNumber)
	if raw {
		name += "_raw"
	}
	return filepath.Join(s.dir, runID, edgesDir, name+".csv")
}

// Flush appends batch to its block file's CSV.
func (s *Sink) Flush(ctx context.Context, batch model.Batch) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if batch.RunID == "" {
		return errors.New("batch run id is required")
	}

	started := time.Now()
	var written int64
	defer func() { s.metrics.ObserveWrite(err, written, started) }()

	path := s.Path(batch.RunID, batch.FileNumber, batch.Flags.Raw)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create edges dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	cw := &countingWriter{w: f}
	w := gocsv.DefaultCSVWriter(cw)
	if info.Size() == 0 {
		if err := w.Write(edge.Columns(batch.Flags)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, e := range batch.Edges {
		if err := w.Write(edge.Row(e, batch.Flags)); err != nil {
			return fmt.Errorf("write edge row: %w", err)
		}
	}
	w.Flush()
	written = cw.n
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	s.logger.Debug("edges written",
		zap.Int("file", batch.FileNumber),
		zap.Int("edges", len(batch.Edges)),
		zap.String("path", path))
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
