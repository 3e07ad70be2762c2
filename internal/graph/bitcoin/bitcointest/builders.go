// Package bitcointest builds synthetic transactions, blocks and block files for tests.
package bitcointest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// PubKeyHashScript returns a P2PKH script paying to a deterministic key hash derived from seed.
func PubKeyHashScript(t testing.TB, seed byte) []byte {
	t.Helper()
	addr := PubKeyHashAddress(t, seed)
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("build p2pkh script: %v", err)
	}
	return script
}

// PubKeyHashAddress returns the mainnet P2PKH address used by PubKeyHashScript.
func PubKeyHashAddress(t testing.TB, seed byte) btcutil.Address {
	t.Helper()
	hash := bytes.Repeat([]byte{seed}, 20)
	addr, err := btcutil.NewAddressPubKeyHash(hash, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("build p2pkh address: %v", err)
	}
	return addr
}

// CoinbaseTx returns a coinbase transaction paying value to each script. extra makes
// coinbase txids unique across blocks.
func CoinbaseTx(extra uint32, value int64, scripts ...[]byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	sigScript := make([]byte, 4)
	binary.LittleEndian.PutUint32(sigScript, extra)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), sigScript, nil))
	for _, script := range scripts {
		tx.AddTxOut(wire.NewTxOut(value, script))
	}
	return tx
}

// Spend identifies an output consumed by SpendTx.
type Spend struct {
	TxID  chainhash.Hash
	Index uint32
}

// SpendTx returns a transaction consuming spends and paying value to each script.
func SpendTx(spends []Spend, value int64, scripts ...[]byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, s := range spends {
		txid := s.TxID
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&txid, s.Index), []byte{0x51}, nil))
	}
	for _, script := range scripts {
		tx.AddTxOut(wire.NewTxOut(value, script))
	}
	return tx
}

// Block assembles txs under a header stamped with ts.
func Block(ts time.Time, nonce uint32, txs ...*wire.MsgTx) *wire.MsgBlock {
	header := wire.NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{}, 0x1d00ffff, nonce)
	header.Timestamp = time.Unix(ts.Unix(), 0)
	block := wire.NewMsgBlock(header)
	for _, tx := range txs {
		if err := block.AddTransaction(tx); err != nil {
			panic(fmt.Sprintf("add transaction: %v", err))
		}
	}
	return block
}

// Serialize returns the block in storage (witness-aware) encoding.
func Serialize(t testing.TB, block *wire.MsgBlock) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("serialize block: %v", err)
	}
	return buf.Bytes()
}

// Frame wraps body in the on-disk frame: magic, little-endian length, body.
func Frame(magic [4]byte, body []byte) []byte {
	out := make([]byte, 0, len(body)+8)
	out = append(out, magic[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

// WriteBlockFile writes blocks as blkNNNNN.dat into dir and returns its path.
func WriteBlockFile(t testing.TB, dir string, number int, magic [4]byte, blocks ...*wire.MsgBlock) string {
	t.Helper()
	var data []byte
	for _, block := range blocks {
		data = append(data, Frame(magic, Serialize(t, block))...)
	}
	path := filepath.Join(dir, fmt.Sprintf("blk%05d.dat", number))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write block file: %v", err)
	}
	return path
}
