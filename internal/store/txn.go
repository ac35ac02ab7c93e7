package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/rmarsh/chessperf/internal/metrics"
)

// ErrNotFound is returned when a primary record lookup misses.
var ErrNotFound = errors.New("store: record not found")

// Txn wraps a Badger transaction with the primary-record / secondary-index
// operations the rest of chessperf is built from. A Txn is either
// read-write (from Store.StartTransaction) or read-only (from
// Store.StartReadOnlyTransaction); calling a write method on a read-only Txn
// returns an error rather than panicking, since importer and selector code
// share the same Txn type across both modes.
type Txn struct {
	store    *Store
	btxn     *badger.Txn
	writable bool
	done     bool
}

// StartTransaction begins a read-write transaction. Only one may be active
// at a time per Store; concurrent callers block on Store.writeMu exactly as
// Badger itself would serialize writers, so the lock just makes the
// contract explicit instead of relying on Badger returning ErrConflict.
func (s *Store) StartTransaction() *Txn {
	s.writeMu.Lock()
	return &Txn{store: s, btxn: s.db.NewTransaction(true), writable: true}
}

// StartReadOnlyTransaction begins a read-only transaction. Multiple
// read-only transactions may run concurrently with each other and with a
// single writer, per Badger's MVCC model.
func (s *Store) StartReadOnlyTransaction() *Txn {
	return &Txn{store: s, btxn: s.db.NewTransaction(false), writable: false}
}

// Commit applies all writes made within the transaction. After Commit, the
// Txn must not be used again.
func (t *Txn) Commit() error {
	if t.done {
		return fmt.Errorf("store: transaction already closed")
	}
	t.done = true
	err := t.btxn.Commit()
	t.btxn.Discard()
	if t.writable {
		t.store.writeMu.Unlock()
	}
	if err != nil {
		metrics.StoreTransactions.WithLabelValues("commit_error").Inc()
		return fmt.Errorf("store: commit: %w", err)
	}
	if t.writable {
		metrics.StoreTransactions.WithLabelValues("commit").Inc()
	}
	return nil
}

// Backout discards all writes made within the transaction, restoring the
// pre-transaction state. Mirrors the database_cursor backout step the
// identity and alias operations take on any failure partway through a
// multi-record edit.
func (t *Txn) Backout() {
	if t.done {
		return
	}
	t.done = true
	t.btxn.Discard()
	if t.writable {
		t.store.writeMu.Unlock()
		metrics.StoreTransactions.WithLabelValues("backout").Inc()
	}
}

// EndReadOnlyTransaction releases a read-only transaction's resources.
func (t *Txn) EndReadOnlyTransaction() {
	t.Backout()
}

func (t *Txn) requireWritable() error {
	if !t.writable {
		return fmt.Errorf("store: write attempted on read-only transaction")
	}
	if t.done {
		return fmt.Errorf("store: transaction already closed")
	}
	return nil
}

// PutRecord inserts a new primary record under file, allocating the next
// primary key from the file's sequence counter, and returns it.
func (t *Txn) PutRecord(file string, value any) (PrimaryKey, error) {
	if err := t.requireWritable(); err != nil {
		return 0, err
	}
	pk, err := t.nextPrimaryKey(file)
	if err != nil {
		return 0, err
	}
	if err := t.writeRecord(file, pk, value); err != nil {
		return 0, err
	}
	return pk, nil
}

// PutRecordAt inserts a primary record at a caller-chosen key rather than
// a sequence-allocated one. No chessperf package calls it; the importer
// and every other writer use PutRecord.
func (t *Txn) PutRecordAt(file string, pk PrimaryKey, value any) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	return t.writeRecord(file, pk, value)
}

// EditRecord overwrites an existing primary record in place. The caller is
// responsible for updating any secondary indexes whose terms changed as a
// result (DeleteIndexEntry the stale terms, AddIndexEntry the new ones)
// before committing, exactly as identify_person.py's edit_record callers do
// around their own index maintenance.
func (t *Txn) EditRecord(file string, pk PrimaryKey, value any) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	return t.writeRecord(file, pk, value)
}

// DeleteRecord removes a primary record. Index entries are not touched;
// callers must DeleteIndexEntry each term first.
func (t *Txn) DeleteRecord(file string, pk PrimaryKey) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	if err := t.btxn.Delete(recordKey(file, pk)); err != nil {
		return fmt.Errorf("store: delete record %s/%d: %w", file, pk, err)
	}
	return nil
}

func (t *Txn) writeRecord(file string, pk PrimaryKey, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal record %s/%d: %w", file, pk, err)
	}
	if err := t.btxn.Set(recordKey(file, pk), data); err != nil {
		return fmt.Errorf("store: set record %s/%d: %w", file, pk, err)
	}
	return nil
}

// GetPrimaryRecord reads a primary record into dest, which must be a
// pointer. Returns ErrNotFound if no record exists at pk.
func (t *Txn) GetPrimaryRecord(file string, pk PrimaryKey, dest any) error {
	item, err := t.btxn.Get(recordKey(file, pk))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: get record %s/%d: %w", file, pk, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, dest); err != nil {
			return fmt.Errorf("store: unmarshal record %s/%d: %w", file, pk, err)
		}
		return nil
	})
}

func (t *Txn) nextPrimaryKey(file string) (PrimaryKey, error) {
	key := seqKey(file)
	var next uint32
	item, err := t.btxn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		next = 1
	case err != nil:
		return 0, fmt.Errorf("store: read sequence %s: %w", file, err)
	default:
		if err := item.Value(func(val []byte) error {
			next = primaryKeyFromBytes(val).add1()
			return nil
		}); err != nil {
			return 0, fmt.Errorf("store: read sequence %s: %w", file, err)
		}
	}
	pk := PrimaryKey(next)
	b := pk.bytes()
	if err := t.btxn.Set(key, b[:]); err != nil {
		return 0, fmt.Errorf("store: write sequence %s: %w", file, err)
	}
	return pk, nil
}

// AddIndexEntry records that pk carries term under index on file.
func (t *Txn) AddIndexEntry(file, index string, term []byte, pk PrimaryKey) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	if err := t.btxn.Set(indexEntryKey(file, index, term, pk), nil); err != nil {
		return fmt.Errorf("store: add index entry %s/%s: %w", file, index, err)
	}
	return nil
}

// DeleteIndexEntry removes a previously added index entry.
func (t *Txn) DeleteIndexEntry(file, index string, term []byte, pk PrimaryKey) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	if err := t.btxn.Delete(indexEntryKey(file, index, term, pk)); err != nil {
		return fmt.Errorf("store: delete index entry %s/%s: %w", file, index, err)
	}
	return nil
}

// RecordListKey returns every primary key carrying exactly term under index
// on file, equivalent to the Python layer's database records-for-key
// lookup.
func (t *Txn) RecordListKey(file, index string, term []byte) (*RecordList, error) {
	rl := NewRecordList()
	prefix := indexKeyPrefix(file, index, term)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := t.btxn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		pk, ok := pkFromIndexKey(it.Item().Key(), prefix)
		if ok {
			rl.Add(pk)
		}
	}
	return rl, nil
}

// RecordListKeyRange returns every primary key carrying a term within
// [from, to] (inclusive) under index on file. from and to must be the same
// width as every stored term for this index (dates, zero-padded identity
// codes); EncodeRecordSelector guarantees this for the shapes chessperf
// uses.
func (t *Txn) RecordListKeyRange(file, index string, from, to []byte) (*RecordList, error) {
	rl := NewRecordList()
	scanPrefix := indexEntryPrefix(file, index)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = scanPrefix
	it := t.btxn.NewIterator(opts)
	defer it.Close()
	for it.Seek(scanPrefix); it.ValidForPrefix(scanPrefix); it.Next() {
		term, pk, ok := termAndPKFromIndexKey(it.Item().Key(), scanPrefix)
		if !ok {
			continue
		}
		if bytesGE(term, from) && bytesLE(term, to) {
			rl.Add(pk)
		}
	}
	return rl, nil
}

// RecordListEBM returns the "everything but missing" list: every primary
// key that has at least one entry under index on file, regardless of term.
// Mirrors the Python layer's existence-bitmap record list.
func (t *Txn) RecordListEBM(file, index string) (*RecordList, error) {
	rl := NewRecordList()
	scanPrefix := indexEntryPrefix(file, index)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = scanPrefix
	it := t.btxn.NewIterator(opts)
	defer it.Close()
	for it.Seek(scanPrefix); it.ValidForPrefix(scanPrefix); it.Next() {
		_, pk, ok := termAndPKFromIndexKey(it.Item().Key(), scanPrefix)
		if ok {
			rl.Add(pk)
		}
	}
	return rl, nil
}

// RecordListNil returns an empty record list, the neutral element for a
// selector rule that matched nothing.
func RecordListNil() *RecordList {
	return NewRecordList()
}

// AllPrimaryKeys returns every primary key stored under file, used by
// full-table passes such as entity derivation after import, identity
// export, and game selection without a date range.
func (t *Txn) AllPrimaryKeys(file string) (*RecordList, error) {
	rl := NewRecordList()
	prefix := recordKeyPrefix(file)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := t.btxn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().Key()
		if len(key) < 4 {
			continue
		}
		rl.Add(primaryKeyFromBytes(key[len(key)-4:]))
	}
	return rl, nil
}

func (pk PrimaryKey) add1() uint32 {
	return uint32(pk) + 1
}

func pkFromIndexKey(key, prefix []byte) (PrimaryKey, bool) {
	if len(key) < len(prefix)+4 {
		return 0, false
	}
	tail := key[len(prefix):]
	if len(tail) < 4 {
		return 0, false
	}
	return primaryKeyFromBytes(tail[len(tail)-4:]), true
}

// termAndPKFromIndexKey splits an indexEntryKey's bytes (after scanPrefix)
// into its length-prefixed term and trailing primary key.
func termAndPKFromIndexKey(key, scanPrefix []byte) (term []byte, pk PrimaryKey, ok bool) {
	if len(key) < len(scanPrefix)+4 {
		return nil, 0, false
	}
	rest := key[len(scanPrefix):]
	if len(rest) < 4 {
		return nil, 0, false
	}
	termLen := int(binary.BigEndian.Uint32(rest[:4]))
	if len(rest) < 4+termLen+4 {
		return nil, 0, false
	}
	term = rest[4 : 4+termLen]
	pk = primaryKeyFromBytes(rest[4+termLen : 4+termLen+4])
	return term, pk, true
}

func bytesGE(a, b []byte) bool {
	return bytes.Compare(a, b) >= 0
}

func bytesLE(a, b []byte) bool {
	return bytes.Compare(a, b) <= 0
}
