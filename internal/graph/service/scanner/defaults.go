package scanner

import "time"

const (
	defaultFlushAttempts  = 5
	defaultFlushBackoff   = 2 * time.Second
	maxFlushBackoff       = 30 * time.Second
	defaultUtxoCapacity   = 1 << 20
	initialBatchCapacity  = 4096
	interruptFlushTimeout = 30 * time.Second
)
