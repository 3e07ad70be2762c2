// Package model defines domain models for address-flow graph extraction.
package model

// Network names the chain whose block files are scanned.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)
