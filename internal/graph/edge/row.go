package edge

import (
	"strconv"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
)

// Columns returns the column names of edge rows for flags, in row order:
// [timestamp] txid source... destination [output_index] [value] [file_number].
func Columns(flags model.EnrichmentFlags) []string {
	flags = flags.Normalize()
	cols := make([]string, 0, 8)
	if flags.WithTimestamp {
		cols = append(cols, "timestamp")
	}
	cols = append(cols, "txid")
	if flags.Raw {
		cols = append(cols, "prev_txid", "prev_output_index")
	} else {
		cols = append(cols, "source")
	}
	cols = append(cols, "destination")
	if flags.WithOutputIndex {
		cols = append(cols, "output_index")
	}
	if flags.WithValue {
		cols = append(cols, "value")
	}
	if flags.WithFileNumber {
		cols = append(cols, "file_number")
	}
	return cols
}

// Row renders e with the columns of Columns(flags). A missing value renders empty.
func Row(e model.Edge, flags model.EnrichmentFlags) []string {
	flags = flags.Normalize()
	row := make([]string, 0, 8)
	if flags.WithTimestamp {
		row = append(row, strconv.FormatInt(e.Timestamp, 10))
	}
	row = append(row, e.TxID.String())
	if flags.Raw {
		row = append(row, SourceTxID(e.Source), strconv.FormatUint(uint64(e.Source.PrevIndex), 10))
	} else {
		row = append(row, e.Source.Address)
	}
	row = append(row, e.Destination.Address)
	if flags.WithOutputIndex {
		row = append(row, strconv.FormatUint(uint64(e.Destination.Index), 10))
	}
	if flags.WithValue {
		if e.HasValue {
			row = append(row, strconv.FormatInt(e.Value, 10))
		} else {
			row = append(row, "")
		}
	}
	if flags.WithFileNumber {
		row = append(row, strconv.Itoa(e.FileNumber))
	}
	return row
}

// SourceTxID renders the previous txid of an unresolved source; coinbase sources render
// as the coinbase sentinel.
func SourceTxID(src model.Source) string {
	if src.Address == model.CoinbaseSource {
		return model.CoinbaseSource
	}
	return src.PrevTxID.String()
}
