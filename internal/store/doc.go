// Package store is the abstract key-value/record+index layer chessperf is
// built on: ordered primary records plus secondary indexes exposed as
// set-algebraic record lists (union, intersection, difference, cardinality,
// cursor).
//
// It is backed by github.com/dgraph-io/badger/v4, the same embedded KV
// engine the teacher application uses for its session and state stores
// (see DESIGN.md for the grounding). Record lists are
// github.com/RoaringBitmap/roaring/v2 bitmaps of primary keys rather than a
// hand-rolled set, giving real O(log n) union/intersection/difference and a
// cardinality call that doesn't require a full scan.
//
// Within a transaction, reads observe prior writes from the same
// transaction; Backout restores pre-transaction state. There is at most one
// active write transaction per Store handle (enforced by writeMu), matching
// Badger's own single-writer model.
package store
