package export

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rmarsh/chessperf/internal/alias"
	"github.com/rmarsh/chessperf/internal/identity"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
	"github.com/rmarsh/chessperf/internal/storeerr"
)

// Group is one identified person and all its aliases, canonical record
// first.
type Group []Tuple

// Export renders every identified player and its aliases as UTF-8 JSON
// text, one Group per identity.
func Export(txn *store.Txn) ([]byte, error) {
	groups, err := exportGroups(txn)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(groups)
	if err != nil {
		return nil, fmt.Errorf("export: marshal identities: %w", err)
	}
	return out, nil
}

// ExportIdentityOnly renders just the canonical tuple of every identified
// player, with no alias information, as UTF-8 JSON text.
func ExportIdentityOnly(txn *store.Txn) ([]byte, error) {
	groups, err := exportGroups(txn)
	if err != nil {
		return nil, err
	}
	tuples := make([]Tuple, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			tuples = append(tuples, g[0])
		}
	}
	out, err := json.Marshal(tuples)
	if err != nil {
		return nil, fmt.Errorf("export: marshal identities: %w", err)
	}
	return out, nil
}

func exportGroups(txn *store.Txn) ([]Group, error) {
	all, err := txn.AllPrimaryKeys(model.PlayerFile)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	var groups []Group
	cur := all.Cursor()
	for {
		pk, ok := cur.Next()
		if !ok {
			break
		}
		var p model.Player
		if err := txn.GetPrimaryRecord(model.PlayerFile, pk, &p); err != nil {
			return nil, fmt.Errorf("export: load player %d: %w", pk, err)
		}
		if !p.IsIdentity() {
			continue
		}

		members, err := alias.MembersOfIdentity(txn, model.KindPlayer, p.Identity)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		group := make(Group, 0, members.Count())
		group = append(group, playerTuple(p))

		mcur := members.Cursor()
		for {
			mpk, ok := mcur.Next()
			if !ok {
				break
			}
			if mpk == pk {
				continue
			}
			var m model.Player
			if err := txn.GetPrimaryRecord(model.PlayerFile, mpk, &m); err != nil {
				return nil, fmt.Errorf("export: load player %d: %w", mpk, err)
			}
			group = append(group, playerTuple(m))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func playerTuple(p model.Player) Tuple {
	return Tuple{
		Name:      fromField(p.Name),
		Event:     fromField(p.Event),
		EventDate: fromField(p.EventDate),
		Section:   fromField(p.Section),
		Stage:     fromField(p.Stage),
		Team:      fromField(p.Team),
		FideID:    fromField(p.FideID),
	}
}

// ParseGroups strictly validates data against the identity export format:
// a top-level list whose elements are each a list of 7-tuples. Any other
// shape returns storeerr.ErrInvalidExportFormat.
func ParseGroups(data []byte) ([]Group, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("export: top level is not a list: %w: %w", err, storeerr.ErrInvalidExportFormat)
	}
	groups := make([]Group, 0, len(raw))
	for i, elem := range raw {
		var tuples []json.RawMessage
		if err := json.Unmarshal(elem, &tuples); err != nil {
			return nil, fmt.Errorf("export: element %d is not a list: %w: %w", i, err, storeerr.ErrInvalidExportFormat)
		}
		group := make(Group, 0, len(tuples))
		for j, t := range tuples {
			var tuple Tuple
			if err := json.Unmarshal(t, &tuple); err != nil {
				return nil, fmt.Errorf("export: element %d tuple %d: %w", i, j, err)
			}
			group = append(group, tuple)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// Operation selects how Import reconciles incoming groups with the store.
type Operation int

const (
	// Apply creates a fresh identity for any tuple not already on file,
	// then merges every tuple in a group onto the group's first member,
	// the same outcome a fresh identify() of those players would produce.
	Apply Operation = iota

	// Mirror only merges tuples that already exist as player records,
	// skipping any tuple in a group with no matching record instead of
	// creating one; it maps an imported identity structure onto whatever
	// subset of it the local store already knows about.
	Mirror
)

// Import applies groups to txn per op, returning the number of groups
// that produced at least one merge.
func Import(txn *store.Txn, groups []Group, op Operation) (int, error) {
	applied := 0
	for _, group := range groups {
		did, err := importGroup(txn, group, op)
		if err != nil {
			return applied, err
		}
		if did {
			applied++
		}
	}
	return applied, nil
}

func importGroup(txn *store.Txn, group Group, op Operation) (bool, error) {
	var memberPKs []store.PrimaryKey
	for _, t := range group {
		pk, found, err := findOrCreatePlayer(txn, t, op == Apply)
		if err != nil {
			return false, err
		}
		if !found {
			continue
		}
		memberPKs = append(memberPKs, pk)
	}
	if len(memberPKs) < 2 {
		return false, nil
	}
	if err := alias.Identify(txn, model.KindPlayer, memberPKs[1:], memberPKs[0]); err != nil {
		return false, fmt.Errorf("export: import group: %w", err)
	}
	return true, nil
}

func findOrCreatePlayer(txn *store.Txn, t Tuple, create bool) (store.PrimaryKey, bool, error) {
	p := model.Player{
		Name: toField(t.Name), Event: toField(t.Event), EventDate: toField(t.EventDate),
		Section: toField(t.Section), Stage: toField(t.Stage), Team: toField(t.Team), FideID: toField(t.FideID),
	}
	rl, err := txn.RecordListKey(model.PlayerFile, model.PlayerIndexAlias, store.EncodeRecordSelector(p.AliasIndexKey()))
	if err != nil {
		return 0, false, fmt.Errorf("export: find player: %w", err)
	}
	if !rl.IsEmpty() {
		return rl.Keys()[0], true, nil
	}
	if !create {
		return 0, false, nil
	}

	code, err := identity.Next(txn, model.KindPlayer)
	if err != nil {
		return 0, false, fmt.Errorf("export: create player for %q: %w", p.AliasIndexKey(), err)
	}
	p.Alias, p.Identity = code, code
	pk, err := txn.PutRecord(model.PlayerFile, p)
	if err != nil {
		return 0, false, fmt.Errorf("export: create player for %q: %w", p.AliasIndexKey(), err)
	}
	if err := txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexAlias, store.EncodeRecordSelector(p.AliasIndexKey()), pk); err != nil {
		return 0, false, err
	}
	if err := txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return 0, false, err
	}
	if err := txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexPersonAlias, store.EncodeRecordSelector(p.AliasIndexKey()), pk); err != nil {
		return 0, false, err
	}
	if err := txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return 0, false, err
	}
	return pk, true, nil
}
