// Package sink holds the flush contract shared by edge batch sinks.
package sink

import "errors"

var (
	// ErrStop is returned by a sink that wants the scan to end gracefully.
	ErrStop = errors.New("sink requested stop")
	// ErrRetry marks a transient sink failure; the same batch should be offered again.
	// Errors that do not wrap it are treated as permanent.
	ErrRetry = errors.New("sink requested retry")
)
