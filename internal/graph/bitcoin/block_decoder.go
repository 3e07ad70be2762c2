package bitcoin

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
)

// DecodeBlock decodes a raw block body into its header fields and transactions.
// Segregated-witness serialisation is accepted; witness data is skipped.
func DecodeBlock(raw model.RawBlock) (model.Block, error) {
	var msg wire.MsgBlock
	if err := msg.Deserialize(bytes.NewReader(raw.Bytes)); err != nil {
		return model.Block{}, fmt.Errorf("file %d offset %d: %v: %w", raw.FileNumber, raw.Offset, err, ErrMalformedBlock)
	}

	txs := make([]model.Transaction, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		txs = append(txs, convertTx(tx))
	}

	return model.Block{
		Hash:         msg.BlockHash(),
		Timestamp:    msg.Header.Timestamp.UTC(),
		Transactions: txs,
	}, nil
}

func convertTx(tx *wire.MsgTx) model.Transaction {
	inputs := make([]model.Input, 0, len(tx.TxIn))
	for _, in := range tx.TxIn {
		inputs = append(inputs, model.Input{
			PrevTxID:  in.PreviousOutPoint.Hash,
			PrevIndex: in.PreviousOutPoint.Index,
		})
	}

	outputs := make([]model.Output, 0, len(tx.TxOut))
	for _, out := range tx.TxOut {
		outputs = append(outputs, model.Output{
			Value:  out.Value,
			Script: out.PkScript,
		})
	}

	return model.Transaction{
		TxID:    tx.TxHash(),
		Inputs:  inputs,
		Outputs: outputs,
	}
}
