// Package storeerr holds the sentinel errors chessperf's domain packages
// return for invariant violations: duplicate identity allocation, missing
// records, and alias-consistency failures. Grounded on the teacher's
// database package, which exports sentinel errors the same way (e.g.
// ErrServerNotFound) rather than ad hoc string matching.
package storeerr
