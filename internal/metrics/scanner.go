// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scannerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "blocks_total",
		Help:      "Count of decoded blocks, by whether the end timestamp skipped them.",
	}, []string{"network", "status"})

	scannerTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "transactions_total",
		Help:      "Count of transactions admitted by the scan gate.",
	}, []string{"network"})

	scannerEdgesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "edges_total",
		Help:      "Count of emitted edges.",
	}, []string{"network"})

	scannerUnresolvedInputsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "unresolved_inputs_total",
		Help:      "Count of inputs whose funding output was not in the utxo index.",
	}, []string{"network"})

	scannerValueMismatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "value_mismatches_total",
		Help:      "Count of edges emitted without a value.",
	}, []string{"network"})

	scannerFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "flush_total",
		Help:      "Count of batch flush attempts.",
	}, []string{"network", "status"})

	scannerFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "flush_duration_seconds",
		Help:      "Duration of batch flush attempts.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"network", "status"})

	scannerFlushSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "flush_edges",
		Help:      "Number of edges per flushed batch.",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 10), // 16..4M
	}, []string{"network"})

	scannerFileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "file_duration_seconds",
		Help:      "Duration of scanning one block file.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"network", "status"})

	scannerLastFile = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "last_file_number",
		Help:      "Number of the last block file completed.",
	}, []string{"network"})

	scannerUtxoEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "utxo_entries",
		Help:      "Transactions with unspent outputs held by the utxo index.",
	}, []string{"network"})

	scannerUtxoOutputs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "graph_scanner",
		Name:      "utxo_outputs",
		Help:      "Unspent outputs held by the utxo index.",
	}, []string{"network"})
)

// Scanner tracks metrics for the block file scan.
type Scanner struct {
	network string
}

// NewScanner constructs a Scanner collector labelled with network.
func NewScanner(network model.Network) *Scanner {
	if network == "" {
		network = "unknown"
	}
	return &Scanner{network: string(network)}
}

// ObserveBlock counts a decoded block.
func (m Scanner) ObserveBlock(skipped bool) {
	status := "processed"
	if skipped {
		status = "skipped"
	}
	scannerBlocksTotal.WithLabelValues(m.network, status).Inc()
}

// ObserveTransactions counts transactions admitted in one block.
func (m Scanner) ObserveTransactions(count int) {
	scannerTransactionsTotal.WithLabelValues(m.network).Add(float64(count))
}

// ObserveEdges counts emitted edges.
func (m Scanner) ObserveEdges(count int) {
	scannerEdgesTotal.WithLabelValues(m.network).Add(float64(count))
}

// ObserveUnresolvedInput counts an input that missed the utxo index.
func (m Scanner) ObserveUnresolvedInput() {
	scannerUnresolvedInputsTotal.WithLabelValues(m.network).Inc()
}

// ObserveValueMismatch counts edges emitted without their value.
func (m Scanner) ObserveValueMismatch(count int) {
	scannerValueMismatchesTotal.WithLabelValues(m.network).Add(float64(count))
}

// ObserveFlush records one flush attempt.
func (m Scanner) ObserveFlush(err error, edges int, started time.Time) {
	status := statusOf(err)
	scannerFlushTotal.WithLabelValues(m.network, status).Inc()
	scannerFlushDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	if err == nil {
		scannerFlushSize.WithLabelValues(m.network).Observe(float64(edges))
	}
}

// ObserveFile records the completion of a block file.
func (m Scanner) ObserveFile(err error, file int, started time.Time) {
	status := statusOf(err)
	scannerFileDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	if err == nil {
		scannerLastFile.WithLabelValues(m.network).Set(float64(file))
	}
}

// SetUtxoSize publishes the utxo index size.
func (m Scanner) SetUtxoSize(entries, outputs int) {
	scannerUtxoEntries.WithLabelValues(m.network).Set(float64(entries))
	scannerUtxoOutputs.WithLabelValues(m.network).Set(float64(outputs))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
