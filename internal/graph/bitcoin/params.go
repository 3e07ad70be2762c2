// Package bitcoin implements ledger-level decoding: block-file framing, block and
// transaction decoding and output script classification.
package bitcoin

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
)

// ChainParams resolves network aliases to chain parameters.
func ChainParams(network model.Network) (*chaincfg.Params, error) {
	switch strings.ToLower(string(network)) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}

// Magic returns the frame separator used in block files of the given network,
// in on-disk byte order.
func Magic(params *chaincfg.Params) [4]byte {
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], uint32(params.Net))
	return magic
}
