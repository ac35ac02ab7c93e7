package model

import "strings"

// NormalizeDate parses a permissively-formatted date ('.', '-', or '/'
// separated, month/day not necessarily zero-padded) into the canonical
// "YYYY.MM.DD" form the date index is keyed in, so lexicographic order on
// the index term coincides with calendar order regardless of how a PGN
// file or a selector rule happened to spell the date. PGN's own "??"
// unknown-component placeholder passes through unchanged. A raw value that
// doesn't split into exactly three components is returned unchanged with
// ok=false, so callers can fall back to indexing/querying it verbatim.
func NormalizeDate(raw string) (normalized string, ok bool) {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '.' || r == '-' || r == '/'
	})
	if len(parts) != 3 {
		return raw, false
	}

	year := parts[0]
	for len(year) < 4 {
		year = "0" + year
	}
	month := normalizeDateComponent(parts[1])
	day := normalizeDateComponent(parts[2])

	return year + "." + month + "." + day, true
}

func normalizeDateComponent(p string) string {
	if strings.Trim(p, "?") == "" {
		return "??"
	}
	for len(p) < 2 {
		p = "0" + p
	}
	return p
}
