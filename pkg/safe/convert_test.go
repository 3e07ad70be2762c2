package safe

import (
	"math"
	"testing"

	"golang.org/x/exp/constraints"
)

type convertCase[T constraints.Integer, R any] struct {
	name    string
	v       T
	want    R
	wantErr bool
}

func runUint32[T constraints.Integer](t *testing.T, cases ...convertCase[T, uint32]) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Uint32(tc.v)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Uint32() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("Uint32() = %v, want %v", got, tc.want)
			}
		})
	}
}

func runInt[T constraints.Integer](t *testing.T, cases ...convertCase[T, int]) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Int(tc.v)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Int() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("Int() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUint32(t *testing.T) {
	runUint32(t,
		convertCase[int, uint32]{name: "int within range", v: 42, want: 42},
		convertCase[int, uint32]{name: "int negative", v: -1, wantErr: true},
	)
	runUint32(t,
		convertCase[int64, uint32]{name: "int64 boundary", v: math.MaxUint32, want: math.MaxUint32},
		convertCase[int64, uint32]{name: "int64 overflow", v: math.MaxUint32 + 1, wantErr: true},
	)
	runUint32(t,
		convertCase[uint64, uint32]{name: "uint64 overflow", v: math.MaxUint32 + 1, wantErr: true},
		convertCase[uint64, uint32]{name: "uint64 small", v: 7, want: 7},
	)
	runUint32(t, convertCase[int8, uint32]{name: "int8 negative", v: -5, wantErr: true})
	runUint32(t, convertCase[uint16, uint32]{name: "uint16 max", v: math.MaxUint16, want: math.MaxUint16})
}

func TestInt(t *testing.T) {
	runInt(t,
		convertCase[uint64, int]{name: "uint64 small", v: 12, want: 12},
		convertCase[uint64, int]{name: "uint64 overflow", v: math.MaxUint64, wantErr: true},
	)
	runInt(t,
		convertCase[int64, int]{name: "int64 negative", v: -12, want: -12},
		convertCase[int64, int]{name: "int64 min", v: math.MinInt64, want: math.MinInt64},
	)
	runInt(t, convertCase[uint32, int]{name: "uint32 max", v: math.MaxUint32, want: math.MaxUint32})
}
