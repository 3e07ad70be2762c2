package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fileSinkWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "file_sink",
		Name:      "writes_total",
		Help:      "Count of edge file writes.",
	}, []string{"status"})
	fileSinkWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "file_sink",
		Name:      "write_duration_seconds",
		Help:      "Duration of edge file writes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	fileSinkBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "file_sink",
		Name:      "bytes_total",
		Help:      "Bytes appended to edge files.",
	})
)

// FileSink tracks metrics for the local edge file sink.
type FileSink struct{}

// NewFileSink creates a FileSink metrics collector.
func NewFileSink() *FileSink {
	return &FileSink{}
}

// ObserveWrite records one batch write to disk.
func (FileSink) ObserveWrite(err error, bytes int64, started time.Time) {
	status := statusOf(err)
	fileSinkWritesTotal.WithLabelValues(status).Inc()
	fileSinkWriteDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		fileSinkBytes.Add(float64(bytes))
	}
}
