package scanner

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/bitcoin/bitcointest"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/edge"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/utxo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var mainnetMagic = bitcoin.Magic(&chaincfg.MainNetParams)

func addr(t *testing.T, seed byte) string {
	return bitcointest.PubKeyHashAddress(t, seed).EncodeAddress()
}

func ts(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func newTestService(t *testing.T, ctrl *gomock.Controller, sink Sink, store CheckpointStore, cfg Config) *Service {
	t.Helper()
	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveBlock(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveTransactions(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveEdges(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveUnresolvedInput().AnyTimes()
	metrics.EXPECT().ObserveValueMismatch(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveFlush(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveFile(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().SetUtxoSize(gomock.Any(), gomock.Any()).AnyTimes()
	return newServiceWithMetrics(t, sink, store, metrics, cfg)
}

func newServiceWithMetrics(t *testing.T, sink Sink, store CheckpointStore, metrics Metrics, cfg Config) *Service {
	t.Helper()
	svc, err := NewService(sink, store, metrics, cfg, zap.NewNop())
	require.NoError(t, err)
	svc.sleep = func(context.Context, time.Duration) error { return nil }
	svc.newRunID = func() string { return "run-1" }
	return svc
}

// batchRecorder collects flushed batches; it is safe for concurrent sinks.
type batchRecorder struct {
	mu      sync.Mutex
	batches []model.Batch
}

func (r *batchRecorder) flush(_ context.Context, b model.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Edges = append([]model.Edge(nil), b.Edges...)
	r.batches = append(r.batches, b)
	return nil
}

func (r *batchRecorder) edges() []model.Edge {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Edge
	for _, b := range r.batches {
		out = append(out, b.Edges...)
	}
	return out
}

func recordingSink(ctrl *gomock.Controller) (*MockSink, *batchRecorder) {
	rec := &batchRecorder{}
	sink := NewMockSink(ctrl)
	sink.EXPECT().Flush(gomock.Any(), gomock.Any()).DoAndReturn(rec.flush).AnyTimes()
	return sink, rec
}

// edgeKeys renders edges in a comparable, order-independent form.
func edgeKeys(edges []model.Edge, flags model.EnrichmentFlags) []string {
	keys := make([]string, 0, len(edges))
	for _, e := range edges {
		row := edge.Row(e, flags)
		key := ""
		for i, col := range row {
			if i > 0 {
				key += "|"
			}
			key += col
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// memStore keeps checkpoints and the latest utxo snapshot in memory.
type memStore struct {
	checkpoints []model.Checkpoint
	snapshot    map[chainhash.Hash][]byte
}

func (m *memStore) SaveCheckpoint(_ context.Context, cp model.Checkpoint, idx *utxo.Index) error {
	m.checkpoints = append(m.checkpoints, cp)
	if idx == nil {
		return nil
	}
	m.snapshot = make(map[chainhash.Hash][]byte, idx.Len())
	idx.Each(func(txid chainhash.Hash, outputs []utxo.Output) bool {
		m.snapshot[txid] = utxo.EncodeOutputs(outputs)
		return true
	})
	return nil
}

func (m *memStore) LatestCheckpoint(context.Context) (model.Checkpoint, error) {
	if len(m.checkpoints) == 0 {
		return model.Checkpoint{}, model.ErrCheckpointNotFound
	}
	return m.checkpoints[len(m.checkpoints)-1], nil
}

func (m *memStore) LoadUtxoIndex(_ context.Context, idx *utxo.Index) error {
	for txid, b := range m.snapshot {
		outputs, err := utxo.DecodeOutputs(b)
		if err != nil {
			return err
		}
		idx.RecordOutputs(txid, outputs)
	}
	return nil
}
