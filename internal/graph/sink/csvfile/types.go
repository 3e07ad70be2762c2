//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE
package csvfile

import "time"

// Metrics records edge file writes.
type Metrics interface {
	ObserveWrite(err error, bytes int64, started time.Time)
}
