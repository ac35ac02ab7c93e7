package alias

import (
	"fmt"

	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
	"github.com/rmarsh/chessperf/internal/storeerr"
)

// Record is the capability every identity-bearing entity struct exposes so
// this package can read and rewrite its alias field without a type switch
// on the concrete struct.
type Record interface {
	GetAlias() int64
	SetAlias(int64)
	GetIdentity() int64
	AliasIndexKey() string
}

type kindSpec struct {
	file                string
	identityIndex       string
	uniqueIdentityIndex string
	new                 func() Record
}

var specs = map[model.Kind]kindSpec{
	model.KindPlayer: {
		file: model.PlayerFile, identityIndex: model.PlayerIndexIdentity,
		uniqueIdentityIndex: model.PlayerIndexUniqueIdentity,
		new:                 func() Record { return &model.Player{} },
	},
	model.KindEvent: {
		file: model.EventFile, identityIndex: model.EventIndexIdentity,
		uniqueIdentityIndex: model.EventIndexUniqueIdentity,
		new:                 func() Record { return &model.Event{} },
	},
	model.KindTimeControl: {
		file: model.TimeControlFile, identityIndex: model.TimeControlIndexIdentity,
		uniqueIdentityIndex: model.TimeControlIndexUniqueIdentity,
		new:                 func() Record { return &model.TimeControl{} },
	},
	model.KindMode: {
		file: model.ModeFile, identityIndex: model.ModeIndexIdentity,
		uniqueIdentityIndex: model.ModeIndexUniqueIdentity,
		new:                 func() Record { return &model.Mode{} },
	},
	model.KindPlayerType: {
		file: model.PlayerTypeFile, identityIndex: model.PlayerTypeIndexIdentity,
		uniqueIdentityIndex: model.PlayerTypeIndexUniqueIdentity,
		new:                 func() Record { return &model.PlayerType{} },
	},
}

func spec(kind model.Kind) (kindSpec, error) {
	s, ok := specs[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("alias: unknown kind %q", kind)
	}
	return s, nil
}

func load(txn *store.Txn, kind model.Kind, pk store.PrimaryKey) (Record, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}
	rec := s.new()
	if err := txn.GetPrimaryRecord(s.file, pk, rec); err != nil {
		return nil, fmt.Errorf("alias: load %s %d: %w", kind, pk, err)
	}
	return rec, nil
}

// save persists rec and, if its alias value changed from oldAlias, moves
// its entry in the kind's group-membership index (keyed by current alias
// value, not by the record's own permanent identity code) from the old
// bucket to the new one. Mirrors the index maintenance performancerecord.py
// does inline inside each *DBvalue.pack when alias is edited.
func save(txn *store.Txn, kind model.Kind, pk store.PrimaryKey, rec Record, oldAlias int64) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}
	if err := txn.EditRecord(s.file, pk, rec); err != nil {
		return fmt.Errorf("alias: save %s %d: %w", kind, pk, err)
	}
	newAlias := rec.GetAlias()
	if newAlias != oldAlias {
		if err := txn.DeleteIndexEntry(s.file, s.identityIndex, store.EncodeRecordSelector(oldAlias), pk); err != nil {
			return fmt.Errorf("alias: save %s %d: %w", kind, pk, err)
		}
		if err := txn.AddIndexEntry(s.file, s.identityIndex, store.EncodeRecordSelector(newAlias), pk); err != nil {
			return fmt.Errorf("alias: save %s %d: %w", kind, pk, err)
		}
	}

	if newAlias != oldAlias {
		wasIdentity := oldAlias == rec.GetIdentity()
		isIdentity := newAlias == rec.GetIdentity()
		if wasIdentity != isIdentity {
			codeKey := store.EncodeRecordSelector(rec.GetIdentity())
			if isIdentity {
				if err := txn.AddIndexEntry(s.file, s.uniqueIdentityIndex, codeKey, pk); err != nil {
					return fmt.Errorf("alias: save %s %d: %w", kind, pk, err)
				}
			} else {
				if err := txn.DeleteIndexEntry(s.file, s.uniqueIdentityIndex, codeKey, pk); err != nil {
					return fmt.Errorf("alias: save %s %d: %w", kind, pk, err)
				}
			}

			// Player carries an additional index, restricted to records
			// that are currently their own identity ("person" records in
			// the original's terms), so a name lookup can tell whether it
			// is already an identified person without also matching its
			// aliases.
			if kind == model.KindPlayer {
				p := rec.(*model.Player)
				nameKey := store.EncodeRecordSelector(p.AliasIndexKey())
				if isIdentity {
					if err := txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexPersonAlias, nameKey, pk); err != nil {
						return fmt.Errorf("alias: save player %d: %w", pk, err)
					}
				} else {
					if err := txn.DeleteIndexEntry(model.PlayerFile, model.PlayerIndexPersonAlias, nameKey, pk); err != nil {
						return fmt.Errorf("alias: save player %d: %w", pk, err)
					}
				}
			}
		}
	}
	return nil
}

// MembersOfIdentity is membersOfIdentity exported for the selector and
// population builder, which need the same "every record currently aliased
// to this code" lookup when walking the opponent graph.
func MembersOfIdentity(txn *store.Txn, kind model.Kind, identity int64) (*store.RecordList, error) {
	return membersOfIdentity(txn, kind, identity)
}

// CanonicalByIdentity returns the record currently canonical for identity
// (the one record of kind where Identity == Alias == identity), via the
// kind's uniqueIdentityIndex. Used by the selector to turn a rule's
// time-control/mode/event identity codes into the natural key the game
// index was built against.
func CanonicalByIdentity(txn *store.Txn, kind model.Kind, identity int64) (store.PrimaryKey, Record, error) {
	s, err := spec(kind)
	if err != nil {
		return 0, nil, err
	}
	rl, err := txn.RecordListKey(s.file, s.uniqueIdentityIndex, store.EncodeRecordSelector(identity))
	if err != nil {
		return 0, nil, fmt.Errorf("alias: canonical %s %d: %w", kind, identity, err)
	}
	if rl.IsEmpty() {
		return 0, nil, fmt.Errorf("alias: canonical %s %d: %w", kind, identity, storeerr.ErrRecordNotFound)
	}
	pk := rl.Keys()[0]
	rec, err := load(txn, kind, pk)
	if err != nil {
		return 0, nil, err
	}
	return pk, rec, nil
}

// ResolvePlayerByKey looks a game's black/white player key up in
// PlayerIndexAlias and follows it to its canonical record, combining the
// permanent natural-key lookup with CanonicalPlayer. found is false when
// no player record carries key at all (the importer should always have
// created one for every key a stored game carries, so this only happens
// against a store the importer never populated).
func ResolvePlayerByKey(txn *store.Txn, key string) (pk store.PrimaryKey, canonical *model.Player, found bool, err error) {
	rl, err := txn.RecordListKey(model.PlayerFile, model.PlayerIndexAlias, store.EncodeRecordSelector(key))
	if err != nil {
		return 0, nil, false, fmt.Errorf("alias: resolve player key: %w", err)
	}
	if rl.IsEmpty() {
		return 0, nil, false, nil
	}
	canonPK, canon, err := CanonicalPlayer(txn, rl.Keys()[0])
	if err != nil {
		return 0, nil, false, err
	}
	return canonPK, canon, true, nil
}

// CanonicalPlayer resolves any player primary key to the primary key and
// record of the canonical (IsIdentity) record for its identity group,
// following alias once through PlayerIndexUniqueIdentity when pk is not
// already canonical itself. Mirrors the PERSON_ALIAS_FIELD_DEF /
// PLAYER_UNIQUE_FIELD_DEF two-step lookup identify_person.py and
// population.py both perform when resolving a game's raw player key to a
// person.
func CanonicalPlayer(txn *store.Txn, pk store.PrimaryKey) (store.PrimaryKey, *model.Player, error) {
	var p model.Player
	if err := txn.GetPrimaryRecord(model.PlayerFile, pk, &p); err != nil {
		return 0, nil, fmt.Errorf("alias: canonical player %d: %w", pk, err)
	}
	if p.IsIdentity() {
		return pk, &p, nil
	}
	rl, err := txn.RecordListKey(model.PlayerFile, model.PlayerIndexUniqueIdentity, store.EncodeRecordSelector(p.Alias))
	if err != nil {
		return 0, nil, fmt.Errorf("alias: canonical player %d: %w", pk, err)
	}
	if rl.IsEmpty() {
		return 0, nil, fmt.Errorf("alias: canonical player %d: %w", pk, storeerr.ErrRecordNotFound)
	}
	canonPK := rl.Keys()[0]
	var canon model.Player
	if err := txn.GetPrimaryRecord(model.PlayerFile, canonPK, &canon); err != nil {
		return 0, nil, fmt.Errorf("alias: canonical player %d: %w", pk, err)
	}
	return canonPK, &canon, nil
}

// membersOfIdentity returns every primary key whose record's alias field
// currently equals identity: the live membership of that identity group,
// not the (unique, permanent) record whose own identity code is identity.
func membersOfIdentity(txn *store.Txn, kind model.Kind, identity int64) (*store.RecordList, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}
	rl, err := txn.RecordListKey(s.file, s.identityIndex, store.EncodeRecordSelector(identity))
	if err != nil {
		return nil, fmt.Errorf("alias: members of identity %d: %w", identity, err)
	}
	return rl, nil
}

// Identify merges every record in aliases into the identity that person
// currently resolves to, mirroring identify_players_as_person /
// identify_event.py's identify. person itself is left unchanged: its own
// current alias value (not necessarily its own identity, though normally
// is) becomes every merged record's new alias.
//
// Records already bookmarked are refused unless the caller has already
// cleared the bookmark (see Bookmark with on=false), matching the original's refusal
// to silently fold a pinned player into someone else's identity.
func Identify(txn *store.Txn, kind model.Kind, aliases []store.PrimaryKey, person store.PrimaryKey) error {
	if len(aliases) == 0 {
		return storeerr.ErrEmptySelection
	}
	personRec, err := load(txn, kind, person)
	if err != nil {
		return err
	}
	target := personRec.GetAlias()

	for _, pk := range aliases {
		rec, err := load(txn, kind, pk)
		if err != nil {
			return err
		}
		if p, ok := rec.(*model.Player); ok && p.Bookmarked {
			return fmt.Errorf("alias: identify player %d: %w", pk, storeerr.ErrBookmarked)
		}
		oldAlias := rec.GetAlias()
		rec.SetAlias(target)
		if err := save(txn, kind, pk, rec, oldAlias); err != nil {
			return err
		}
	}
	return nil
}

// SplitAll turns every alias of identity's identified record back into its
// own separate identity, mirroring split_person_into_all_players.
// identity must name the identity record itself (Alias == Identity); an
// alias record cannot be split.
func SplitAll(txn *store.Txn, kind model.Kind, identity store.PrimaryKey) error {
	idRec, err := load(txn, kind, identity)
	if err != nil {
		return err
	}
	if idRec.GetAlias() != idRec.GetIdentity() {
		return fmt.Errorf("alias: split %s %d: %w", kind, identity, storeerr.ErrNotAnAlias)
	}
	code := idRec.GetIdentity()

	members, err := membersOfIdentity(txn, kind, code)
	if err != nil {
		return err
	}
	cur := members.Cursor()
	for {
		pk, ok := cur.Next()
		if !ok {
			break
		}
		rec, err := load(txn, kind, pk)
		if err != nil {
			return err
		}
		oldAlias := rec.GetAlias()
		rec.SetAlias(rec.GetIdentity())
		if err := save(txn, kind, pk, rec, oldAlias); err != nil {
			return err
		}
	}
	return nil
}

// Break turns the named aliases of identity's identified record back into
// their own separate identities, leaving the remaining aliases merged,
// mirroring break_person_into_picked_players. Every alias in aliases must
// currently resolve to identity; identity itself must be its own identity.
func Break(txn *store.Txn, kind model.Kind, identity store.PrimaryKey, aliases []store.PrimaryKey) error {
	if len(aliases) == 0 {
		return storeerr.ErrEmptySelection
	}
	idRec, err := load(txn, kind, identity)
	if err != nil {
		return err
	}
	if idRec.GetAlias() != idRec.GetIdentity() {
		return fmt.Errorf("alias: break %s %d: %w", kind, identity, storeerr.ErrNotAnAlias)
	}
	code := idRec.GetIdentity()

	for _, pk := range aliases {
		rec, err := load(txn, kind, pk)
		if err != nil {
			return err
		}
		if rec.GetAlias() != code {
			return fmt.Errorf("alias: break %s %d: alias does not belong to identity %d: %w", kind, pk, code, storeerr.ErrCrossKindMerge)
		}
		oldAlias := rec.GetAlias()
		rec.SetAlias(rec.GetIdentity())
		if err := save(txn, kind, pk, rec, oldAlias); err != nil {
			return err
		}
	}
	return nil
}

// ChangeIdentity makes newIdentity the canonical identity for the whole
// group it is currently an alias of, repointing every other member's
// alias from the old identity code to newIdentity's own identity code.
// Mirrors change_identified_person. A no-op (returns nil) if newIdentity
// is already the group's identity.
func ChangeIdentity(txn *store.Txn, kind model.Kind, newIdentity store.PrimaryKey) error {
	selected, err := load(txn, kind, newIdentity)
	if err != nil {
		return err
	}
	if selected.GetAlias() == selected.GetIdentity() {
		return nil
	}
	oldAlias := selected.GetAlias()
	newAlias := selected.GetIdentity()

	members, err := membersOfIdentity(txn, kind, oldAlias)
	if err != nil {
		return err
	}
	if members.IsEmpty() {
		return fmt.Errorf("alias: change identity %s %d: %w", kind, newIdentity, storeerr.ErrRecordNotFound)
	}
	cur := members.Cursor()
	for {
		pk, ok := cur.Next()
		if !ok {
			break
		}
		rec, err := load(txn, kind, pk)
		if err != nil {
			return err
		}
		if rec.GetAlias() != oldAlias {
			return fmt.Errorf("alias: change identity %s %d: %w", kind, pk, storeerr.ErrNotAnAlias)
		}
		memberOldAlias := rec.GetAlias()
		rec.SetAlias(newAlias)
		if err := save(txn, kind, pk, rec, memberOldAlias); err != nil {
			return err
		}
	}
	return nil
}

// Bookmark pins (on=true) or unpins (on=false) a player record against
// automatic folding by Identify. Only players carry a Bookmarked flag; other kinds
// have no analogous "don't merge me" marker in the original program.
func Bookmark(txn *store.Txn, pk store.PrimaryKey, on bool) error {
	var p model.Player
	if err := txn.GetPrimaryRecord(model.PlayerFile, pk, &p); err != nil {
		return fmt.Errorf("alias: bookmark player %d: %w", pk, err)
	}
	p.Bookmarked = on
	if err := txn.EditRecord(model.PlayerFile, pk, p); err != nil {
		return fmt.Errorf("alias: bookmark player %d: %w", pk, err)
	}
	return nil
}
