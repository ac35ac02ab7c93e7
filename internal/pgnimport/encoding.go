package pgnimport

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decodeSource returns raw decoded as UTF-8 text. The PGN specification
// assumes ISO-8859-1 but real-world files are frequently saved as UTF-8;
// utf-8 is tried first since an ISO-8859-1 decode never fails (every byte
// is a valid code point) and so can't be used to detect which encoding was
// actually used.
func decodeSource(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
