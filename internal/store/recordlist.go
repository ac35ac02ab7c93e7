package store

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// RecordList is a set of primary keys supporting the set-algebraic
// operations the selector and alias manager compose rules with: union for
// "these events OR those events", intersection for "games in this
// population AND played by this player", and difference for "all games
// minus this player's games" when splitting an identity apart.
type RecordList struct {
	bm *roaring.Bitmap
}

// NewRecordList returns an empty record list.
func NewRecordList() *RecordList {
	return &RecordList{bm: roaring.New()}
}

func recordListFromBitmap(bm *roaring.Bitmap) *RecordList {
	if bm == nil {
		bm = roaring.New()
	}
	return &RecordList{bm: bm}
}

// Add places pk in the list.
func (rl *RecordList) Add(pk PrimaryKey) {
	rl.bm.Add(uint32(pk))
}

// Remove takes pk out of the list, a no-op if it was not present.
func (rl *RecordList) Remove(pk PrimaryKey) {
	rl.bm.Remove(uint32(pk))
}

// Contains reports whether pk is a member.
func (rl *RecordList) Contains(pk PrimaryKey) bool {
	return rl.bm.Contains(uint32(pk))
}

// Count returns the number of members, without requiring a full scan.
func (rl *RecordList) Count() int {
	return int(rl.bm.GetCardinality())
}

// IsEmpty reports whether the list has no members.
func (rl *RecordList) IsEmpty() bool {
	return rl.bm.IsEmpty()
}

// Clone returns an independent copy.
func (rl *RecordList) Clone() *RecordList {
	return &RecordList{bm: rl.bm.Clone()}
}

// Union adds every member of other into rl (in place).
func (rl *RecordList) Union(other *RecordList) {
	if other == nil {
		return
	}
	rl.bm.Or(other.bm)
}

// UnionOf returns a new list containing the union of lists, leaving all
// inputs unmodified.
func UnionOf(lists ...*RecordList) *RecordList {
	bms := make([]*roaring.Bitmap, 0, len(lists))
	for _, l := range lists {
		if l != nil {
			bms = append(bms, l.bm)
		}
	}
	return recordListFromBitmap(roaring.FastOr(bms...))
}

// Intersect removes from rl every member not also present in other.
func (rl *RecordList) Intersect(other *RecordList) {
	if other == nil {
		rl.bm.Clear()
		return
	}
	rl.bm.And(other.bm)
}

// IntersectionOf returns a new list containing members common to all lists.
func IntersectionOf(lists ...*RecordList) *RecordList {
	if len(lists) == 0 {
		return NewRecordList()
	}
	result := lists[0].Clone()
	for _, l := range lists[1:] {
		result.Intersect(l)
	}
	return result
}

// Difference removes from rl every member also present in other.
func (rl *RecordList) Difference(other *RecordList) {
	if other == nil {
		return
	}
	rl.bm.AndNot(other.bm)
}

// DifferenceOf returns a new list containing a's members with b's removed.
func DifferenceOf(a, b *RecordList) *RecordList {
	result := a.Clone()
	result.Difference(b)
	return result
}

// Keys returns the members in ascending order. Intended for small result
// sets (cursor iteration, test assertions); large scans should use Cursor.
func (rl *RecordList) Keys() []PrimaryKey {
	card := rl.bm.GetCardinality()
	out := make([]PrimaryKey, 0, card)
	it := rl.bm.Iterator()
	for it.HasNext() {
		out = append(out, PrimaryKey(it.Next()))
	}
	return out
}

// Cursor returns a forward iterator over the list's members in ascending
// order, mirroring the database_cursor step-forward pattern the selector
// and population builder walk record lists with.
func (rl *RecordList) Cursor() *RecordListCursor {
	return &RecordListCursor{it: rl.bm.Iterator()}
}

// RecordListCursor walks a RecordList's members in ascending order.
type RecordListCursor struct {
	it roaring.IntPeekable
}

// Next advances the cursor and returns the next member, or ok=false once
// exhausted.
func (c *RecordListCursor) Next() (pk PrimaryKey, ok bool) {
	if !c.it.HasNext() {
		return 0, false
	}
	return PrimaryKey(c.it.Next()), true
}
