package utxo

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/bitcoin"
)

// ErrCorruptSnapshot is returned when a snapshot record cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt utxo snapshot")

// EncodeOutputs serialises one entry as a compact-size prefixed list of
// (index, address count, addresses).
func EncodeOutputs(outputs []Output) []byte {
	buf := bitcoin.EncodeVarint(uint64(len(outputs)))
	for _, out := range outputs {
		buf = bitcoin.AppendVarint(buf, uint64(out.Index))
		buf = bitcoin.AppendVarint(buf, uint64(len(out.Addresses)))
		for _, addr := range out.Addresses {
			buf = bitcoin.AppendVarint(buf, uint64(len(addr)))
			buf = append(buf, addr...)
		}
	}
	return buf
}

// DecodeOutputs parses a record produced by EncodeOutputs.
func DecodeOutputs(b []byte) ([]Output, error) {
	r := reader{buf: b}
	count, err := r.varint()
	if err != nil {
		return nil, err
	}
	if count > uint64(len(b)) {
		return nil, fmt.Errorf("output count %d exceeds record size: %w", count, ErrCorruptSnapshot)
	}

	outputs := make([]Output, 0, count)
	for i := uint64(0); i < count; i++ {
		index, err := r.varint()
		if err != nil {
			return nil, err
		}
		if index > uint64(^uint32(0)) {
			return nil, fmt.Errorf("output index %d out of range: %w", index, ErrCorruptSnapshot)
		}
		n, err := r.varint()
		if err != nil {
			return nil, err
		}
		if n > uint64(r.remaining()) {
			return nil, fmt.Errorf("address count %d exceeds record size: %w", n, ErrCorruptSnapshot)
		}
		addrs := make([]string, 0, n)
		for j := uint64(0); j < n; j++ {
			addr, err := r.bytes()
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, string(addr))
		}
		outputs = append(outputs, Output{Index: uint32(index), Addresses: addrs})
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", r.remaining(), ErrCorruptSnapshot)
	}
	return outputs, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) varint() (uint64, error) {
	v, n, err := bitcoin.DecodeVarint(r.buf[r.pos:])
	if err != nil {
		return 0, fmt.Errorf("read varint at %d: %w: %w", r.pos, err, ErrCorruptSnapshot)
	}
	r.pos += n
	return v, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.varint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.remaining()) {
		return nil, fmt.Errorf("string of %d bytes at %d: %w", n, r.pos, ErrCorruptSnapshot)
	}
	out := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return out, nil
}
