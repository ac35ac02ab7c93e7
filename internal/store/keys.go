package store

import (
	"encoding/binary"
	"fmt"
)

// PrimaryKey is the opaque integer primary key type used across all files.
// It is capped at 32 bits so it fits directly in a roaring.Bitmap, which is
// ample headroom for the record counts this application deals with.
type PrimaryKey uint32

func (pk PrimaryKey) bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(pk))
	return b
}

func primaryKeyFromBytes(b []byte) PrimaryKey {
	return PrimaryKey(binary.BigEndian.Uint32(b))
}

const (
	seqPrefix = "seq:"
	recPrefix = "rec:"
	idxPrefix = "idx:"
)

func seqKey(file string) []byte {
	return []byte(seqPrefix + file)
}

func recordKey(file string, pk PrimaryKey) []byte {
	b := pk.bytes()
	return []byte(fmt.Sprintf("%s%s:%s", recPrefix, file, string(b[:])))
}

func recordKeyPrefix(file string) []byte {
	return []byte(fmt.Sprintf("%s%s:", recPrefix, file))
}

// indexEntryKey builds the key for one (file, index, key, primary key) index
// entry. The encoded key is length-prefixed so that range scans over
// indexEntryPrefix(file, index) never confuse a key boundary with a primary
// key suffix, even when encoded keys contain the ':' separator byte.
func indexEntryKey(file, index string, encodedKey []byte, pk PrimaryKey) []byte {
	prefix := indexEntryPrefix(file, index)
	out := make([]byte, 0, len(prefix)+4+len(encodedKey)+4)
	out = append(out, prefix...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(encodedKey)))
	out = append(out, lenBuf[:]...)
	out = append(out, encodedKey...)
	pkBytes := pk.bytes()
	out = append(out, pkBytes[:]...)
	return out
}

func indexEntryPrefix(file, index string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:", idxPrefix, file, index))
}

// indexKeyPrefix builds the prefix matching every entry whose encoded key
// equals encodedKey exactly (used by RecordListKey).
func indexKeyPrefix(file, index string, encodedKey []byte) []byte {
	prefix := indexEntryPrefix(file, index)
	out := make([]byte, 0, len(prefix)+4+len(encodedKey))
	out = append(out, prefix...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(encodedKey)))
	out = append(out, lenBuf[:]...)
	out = append(out, encodedKey...)
	return out
}
