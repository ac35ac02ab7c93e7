package identity

import (
	"fmt"

	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
	"github.com/rmarsh/chessperf/internal/storeerr"
)

// File is the store file name identity counters are kept under.
const File = "identity"

// TypeIndex is the secondary index counter records are looked up by kind
// through, equivalent to IDENTITY_TYPE_FIELD_DEF.
const TypeIndex = "type"

type counterRecord struct {
	Code int64  `json:"code"`
	Type string `json:"type"`
}

// EnsureKind creates kind's counter record (starting at 0) if it does not
// already exist. Safe to call repeatedly; a no-op once the record exists.
// Mirrors _create_identity_record_if_not_exists.
func EnsureKind(txn *store.Txn, kind model.Kind) error {
	term := store.EncodeRecordSelector(string(kind))
	rl, err := txn.RecordListKey(File, TypeIndex, term)
	if err != nil {
		return fmt.Errorf("identity: ensure kind %s: %w", kind, err)
	}
	if !rl.IsEmpty() {
		return nil
	}
	pk, err := txn.PutRecord(File, counterRecord{Code: 0, Type: string(kind)})
	if err != nil {
		return fmt.Errorf("identity: ensure kind %s: %w", kind, err)
	}
	if err := txn.AddIndexEntry(File, TypeIndex, term, pk); err != nil {
		return fmt.Errorf("identity: ensure kind %s: %w", kind, err)
	}
	return nil
}

// Next allocates and returns the next identity code for kind. txn must be
// a write transaction on a Store where EnsureKind(kind) has already run
// (typically once at Store setup, or lazily by the importer's first
// touch of that kind). Returns storeerr.ErrNoIdentity if the counter
// record is missing, and storeerr.ErrDuplicateIdentity if more than one
// counter record is found for kind, the same two failure modes
// _get_next_identity_value_after_allocation guards against.
func Next(txn *store.Txn, kind model.Kind) (int64, error) {
	term := store.EncodeRecordSelector(string(kind))
	rl, err := txn.RecordListKey(File, TypeIndex, term)
	if err != nil {
		return 0, fmt.Errorf("identity: next %s: %w", kind, err)
	}
	switch rl.Count() {
	case 0:
		return 0, fmt.Errorf("identity: next %s: %w", kind, storeerr.ErrNoIdentity)
	case 1:
	default:
		return 0, fmt.Errorf("identity: next %s: %w", kind, storeerr.ErrDuplicateIdentity)
	}
	pk := rl.Keys()[0]

	var rec counterRecord
	if err := txn.GetPrimaryRecord(File, pk, &rec); err != nil {
		return 0, fmt.Errorf("identity: next %s: %w", kind, err)
	}
	if rec.Type != string(kind) {
		return 0, fmt.Errorf("identity: next %s: %w", kind, storeerr.ErrNoIdentity)
	}
	rec.Code++
	if err := txn.EditRecord(File, pk, rec); err != nil {
		return 0, fmt.Errorf("identity: next %s: %w", kind, err)
	}
	return rec.Code, nil
}
