package bitcoin

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

// DecodeVarint decodes a compact-size integer from the start of b and returns the
// value together with the number of bytes consumed.
// Only canonical (shortest) encodings are accepted; a value that fits a smaller
// form is rejected with an error that does not wrap ErrTruncatedData.
func DecodeVarint(b []byte) (uint64, int, error) {
	v, err := wire.ReadVarInt(bytes.NewReader(b), 0)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, 0, fmt.Errorf("decode varint from %d bytes: %w", len(b), ErrTruncatedData)
		}
		return 0, 0, fmt.Errorf("decode varint: %w", err)
	}
	return v, wire.VarIntSerializeSize(v), nil
}

// AppendVarint appends the compact-size encoding of v to dst.
func AppendVarint(dst []byte, v uint64) []byte {
	buf := bytes.NewBuffer(dst)
	// bytes.Buffer writes never fail.
	_ = wire.WriteVarInt(buf, 0, v)
	return buf.Bytes()
}

// EncodeVarint returns the compact-size encoding of v.
func EncodeVarint(v uint64) []byte {
	return AppendVarint(make([]byte, 0, wire.VarIntSerializeSize(v)), v)
}
