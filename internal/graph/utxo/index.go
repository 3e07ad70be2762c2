// Package utxo tracks the live set of unspent outputs seen during a ledger replay.
package utxo

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/dolthub/swiss"
)

// ErrNotFound is returned when an input references an output that was never recorded
// or has already been consumed.
var ErrNotFound = errors.New("utxo not found")

const defaultCapacity = 1024 * 1024

// Output is an unspent output index with the vertex identities derived from its script.
type Output struct {
	Index     uint32
	Addresses []string
}

// Index maps a txid to its still-unspent outputs. A txid is present only while at least
// one of its outputs is unspent. Index is not safe for concurrent use.
type Index struct {
	m       *swiss.Map[chainhash.Hash, []Output]
	outputs int
}

// NewIndex creates an index sized for capacity transactions; zero selects a default.
func NewIndex(capacity uint32) *Index {
	if capacity == 0 {
		capacity = defaultCapacity
	}
	return &Index{m: swiss.NewMap[chainhash.Hash, []Output](capacity)}
}

// RecordOutputs stores the outputs of txid, replacing any previous entry.
func (x *Index) RecordOutputs(txid chainhash.Hash, outputs []Output) {
	if prev, ok := x.m.Get(txid); ok {
		x.outputs -= len(prev)
		x.m.Delete(txid)
	}
	if len(outputs) == 0 {
		return
	}
	stored := make([]Output, len(outputs))
	copy(stored, outputs)
	x.m.Put(txid, stored)
	x.outputs += len(stored)
}

// ResolveAndConsume returns the addresses recorded for (txid, index) and removes the
// output. The txid entry is dropped together with its last output.
func (x *Index) ResolveAndConsume(txid chainhash.Hash, index uint32) ([]string, error) {
	outputs, ok := x.m.Get(txid)
	if !ok {
		return nil, ErrNotFound
	}
	for i, out := range outputs {
		if out.Index != index {
			continue
		}
		if len(outputs) == 1 {
			x.m.Delete(txid)
		} else {
			last := len(outputs) - 1
			outputs[i] = outputs[last]
			outputs[last] = Output{}
			x.m.Put(txid, outputs[:last])
		}
		x.outputs--
		return out.Addresses, nil
	}
	return nil, ErrNotFound
}

// Len returns the number of transactions with unspent outputs.
func (x *Index) Len() int {
	return x.m.Count()
}

// Outputs returns the number of unspent outputs.
func (x *Index) Outputs() int {
	return x.outputs
}

// Each calls fn for every entry until fn returns false. The slice passed to fn must not
// be retained or modified.
func (x *Index) Each(fn func(txid chainhash.Hash, outputs []Output) bool) {
	x.m.Iter(func(txid chainhash.Hash, outputs []Output) bool {
		return !fn(txid, outputs)
	})
}
