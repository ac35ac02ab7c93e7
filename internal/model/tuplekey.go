package model

import "strings"

// encodeTuple renders a tuple of optional strings into a single injective
// index term. performancerecord.py uses Python's repr() of the tuple for
// this, which is injective because repr() quotes and escapes strings; Go
// has no equivalent built-in, so each field is tagged present/absent before
// joining so that ("", "x") and (nil, "x") never collide, and the
// separator byte (unit separator, 0x1f) cannot appear in a PGN tag value.
func encodeTuple(fields ...*string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f == nil {
			parts[i] = "\x00"
		} else {
			parts[i] = "\x01" + *f
		}
	}
	return strings.Join(parts, "\x1f")
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
