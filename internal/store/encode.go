package store

import (
	"fmt"
	"strconv"
)

// EncodeRecordSelector renders a Go value into the canonical index-key byte
// encoding. Only a small closed set of shapes crosses this boundary:
// strings are used verbatim (player/event/time-control/mode natural keys,
// already normalised by the caller), dates are expected to already be in
// "YYYY.MM.DD" form (10 bytes, so lexicographic order is calendar order),
// and integer identity codes are zero-padded to a fixed width so
// lexicographic and numeric order coincide, exactly as spec.md's identity
// allocator requires ("codes are treated lexicographically" downstream).
func EncodeRecordSelector(key any) []byte {
	switch v := key.(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	case int:
		return encodeIdentityCode(int64(v))
	case int64:
		return encodeIdentityCode(v)
	case uint64:
		return encodeIdentityCode(int64(v))
	default:
		return []byte(fmt.Sprint(v))
	}
}

// identityCodeWidth is wide enough for any allocator count this application
// will ever reach while keeping encoded keys fixed-width.
const identityCodeWidth = 20

func encodeIdentityCode(v int64) []byte {
	return []byte(fmt.Sprintf("%0*d", identityCodeWidth, v))
}

// ParseIdentityCode reverses encodeIdentityCode's zero-padding for display.
func ParseIdentityCode(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
