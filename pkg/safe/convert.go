// Package safe provides numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Uint32 converts v to uint32, failing when v is negative or exceeds math.MaxUint32.
func Uint32[T constraints.Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Int converts v to int, failing when it does not fit.
func Int[T constraints.Integer](v T) (int, error) {
	if v < 0 {
		if int64(v) < math.MinInt {
			return 0, fmt.Errorf("value %d out of int range", v)
		}
		return int(v), nil
	}
	if uint64(v) > math.MaxInt {
		return 0, fmt.Errorf("value %d out of int range", v)
	}
	return int(v), nil
}
