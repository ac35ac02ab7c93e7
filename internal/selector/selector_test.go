package selector

import (
	"testing"

	"github.com/rmarsh/chessperf/internal/alias"
	"github.com/rmarsh/chessperf/internal/identity"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

type fixture struct {
	t   *testing.T
	txn *store.Txn
}

func newFixture(t *testing.T) (*store.Store, *fixture) {
	t.Helper()
	s := openTestStore(t)
	txn := s.StartTransaction()
	for _, kind := range model.AllIdentityKinds {
		if err := identity.EnsureKind(txn, kind); err != nil {
			t.Fatalf("EnsureKind %s: %v", kind, err)
		}
	}
	return s, &fixture{t: t, txn: txn}
}

func (f *fixture) player(name, event string) int64 {
	f.t.Helper()
	code, err := identity.Next(f.txn, model.KindPlayer)
	if err != nil {
		f.t.Fatalf("identity.Next player: %v", err)
	}
	p := model.Player{Name: name, Event: event, Alias: code, Identity: code}
	pk, err := f.txn.PutRecord(model.PlayerFile, p)
	if err != nil {
		f.t.Fatalf("PutRecord player: %v", err)
	}
	for _, idx := range [...]string{model.PlayerIndexAlias, model.PlayerIndexPersonAlias} {
		if err := f.txn.AddIndexEntry(model.PlayerFile, idx, store.EncodeRecordSelector(p.AliasIndexKey()), pk); err != nil {
			f.t.Fatalf("AddIndexEntry %s: %v", idx, err)
		}
	}
	if err := f.txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		f.t.Fatalf("AddIndexEntry identity: %v", err)
	}
	if err := f.txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		f.t.Fatalf("AddIndexEntry unique identity: %v", err)
	}
	return code
}

func (f *fixture) event(name string) int64 {
	f.t.Helper()
	code, err := identity.Next(f.txn, model.KindEvent)
	if err != nil {
		f.t.Fatalf("identity.Next event: %v", err)
	}
	e := model.Event{Name: name, Alias: code, Identity: code}
	pk, err := f.txn.PutRecord(model.EventFile, e)
	if err != nil {
		f.t.Fatalf("PutRecord event: %v", err)
	}
	if err := f.txn.AddIndexEntry(model.EventFile, model.EventIndexAlias, store.EncodeRecordSelector(e.AliasIndexKey()), pk); err != nil {
		f.t.Fatalf("AddIndexEntry event alias: %v", err)
	}
	if err := f.txn.AddIndexEntry(model.EventFile, model.EventIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		f.t.Fatalf("AddIndexEntry event identity: %v", err)
	}
	if err := f.txn.AddIndexEntry(model.EventFile, model.EventIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		f.t.Fatalf("AddIndexEntry event unique identity: %v", err)
	}
	return code
}

// game inserts one game between the named players (names of players
// already created for eventName, so the game's BlackPlayerKey/WhitePlayerKey
// match the player fixtures' AliasIndexKey) in eventName, on date, with
// result.
func (f *fixture) game(white, black, eventName, date, result string) store.PrimaryKey {
	f.t.Helper()
	g := model.Game{
		Reference: model.Reference{File: "fixture.pgn", Number: 1},
		Headers: map[string]string{
			model.TagWhite:  white,
			model.TagBlack:  black,
			model.TagEvent:  eventName,
			model.TagDate:   date,
			model.TagResult: result,
		},
	}
	pk, err := f.txn.PutRecord(model.GameFile, g)
	if err != nil {
		f.t.Fatalf("PutRecord game: %v", err)
	}
	if err := f.txn.AddIndexEntry(model.GameFile, model.GameIndexPlayer, store.EncodeRecordSelector(g.BlackPlayerKey()), pk); err != nil {
		f.t.Fatalf("AddIndexEntry game player (black): %v", err)
	}
	if err := f.txn.AddIndexEntry(model.GameFile, model.GameIndexPlayer, store.EncodeRecordSelector(g.WhitePlayerKey()), pk); err != nil {
		f.t.Fatalf("AddIndexEntry game player (white): %v", err)
	}
	if err := f.txn.AddIndexEntry(model.GameFile, model.GameIndexEvent, store.EncodeRecordSelector(g.EventKey()), pk); err != nil {
		f.t.Fatalf("AddIndexEntry game event: %v", err)
	}
	indexedDate := date
	if normalized, ok := model.NormalizeDate(date); ok {
		indexedDate = normalized
	}
	if err := f.txn.AddIndexEntry(model.GameFile, model.GameIndexDate, store.EncodeRecordSelector(indexedDate), pk); err != nil {
		f.t.Fatalf("AddIndexEntry game date: %v", err)
	}
	return pk
}

func TestSelectDateRangeBoundary(t *testing.T) {
	_, f := newFixture(t)
	f.player("Alice", "Open")
	f.player("Bob", "Open")
	eventCode := f.event("Open")
	f.game("Alice", "Bob", "Open", "2024.01.01", model.ResultWhiteWin)
	f.game("Alice", "Bob", "Open", "2024.06.15", model.ResultBlackWin)
	f.game("Alice", "Bob", "Open", "2024.12.31", model.ResultDraw)

	result, err := Select(f.txn, Rule{Name: "mid", Events: []int64{eventCode}, FromDate: "2024.06.15", ToDate: "2024.06.15"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := result.Games.Count(); got != 1 {
		t.Fatalf("mid-range games = %d, want 1", got)
	}

	full, err := Select(f.txn, Rule{Name: "full", Events: []int64{eventCode}, FromDate: "2024.01.01", ToDate: "2024.12.31"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := full.Games.Count(); got != 3 {
		t.Fatalf("full-range games = %d, want 3", got)
	}

	unbounded, err := Select(f.txn, Rule{Name: "unbounded", Events: []int64{eventCode}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := unbounded.Games.Count(); got != 3 {
		t.Fatalf("unbounded games = %d, want 3", got)
	}
}

func TestSelectDateRangeNormalizesNonPaddedRuleDates(t *testing.T) {
	_, f := newFixture(t)
	f.player("Alice", "Open")
	f.player("Bob", "Open")
	eventCode := f.event("Open")
	f.game("Alice", "Bob", "Open", "2024.06.05", model.ResultWhiteWin)

	result, err := Select(f.txn, Rule{Name: "dash", Events: []int64{eventCode}, FromDate: "2024-6-5", ToDate: "2024-6-5"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := result.Games.Count(); got != 1 {
		t.Fatalf("non-padded dash-separated rule dates = %d games, want 1", got)
	}
}

func TestSelectDisjointEventsProduceSeparateComponents(t *testing.T) {
	_, f := newFixture(t)
	f.player("Alice", "Event One")
	f.player("Bob", "Event One")
	f.player("Carol", "Event Two")
	f.player("Dave", "Event Two")
	e1 := f.event("Event One")
	e2 := f.event("Event Two")
	f.game("Alice", "Bob", "Event One", "2024.01.01", model.ResultWhiteWin)
	f.game("Carol", "Dave", "Event Two", "2024.01.02", model.ResultDraw)

	result, err := Select(f.txn, Rule{Name: "both", Events: []int64{e1, e2}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := len(result.Components); got != 2 {
		t.Fatalf("components = %d, want 2 (disjoint events)", got)
	}
	for _, c := range result.Components {
		if len(c.Players) != 2 {
			t.Fatalf("component players = %d, want 2", len(c.Players))
		}
	}
}

func TestSelectEventsCoupleComponentsThroughSharedPlayer(t *testing.T) {
	_, f := newFixture(t)
	f.player("Alice", "Event One")
	bobOne := f.player("Bob", "Event One")
	bobTwo := f.player("Bob", "Event Two")
	f.player("Carol", "Event Two")
	// Bob's two event records are one person: fold the Event Two record
	// into the Event One record's identity.
	bobOnePK, _, err := alias.CanonicalByIdentity(f.txn, model.KindPlayer, bobOne)
	if err != nil {
		t.Fatalf("CanonicalByIdentity: %v", err)
	}
	bobTwoPK, _, err := alias.CanonicalByIdentity(f.txn, model.KindPlayer, bobTwo)
	if err != nil {
		t.Fatalf("CanonicalByIdentity: %v", err)
	}
	if err := alias.Identify(f.txn, model.KindPlayer, []store.PrimaryKey{bobTwoPK}, bobOnePK); err != nil {
		t.Fatalf("Identify: %v", err)
	}
	e1 := f.event("Event One")
	e2 := f.event("Event Two")
	f.game("Alice", "Bob", "Event One", "2024.01.01", model.ResultWhiteWin)
	f.game("Bob", "Carol", "Event Two", "2024.01.02", model.ResultDraw)

	result, err := Select(f.txn, Rule{Name: "both", Events: []int64{e1, e2}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := len(result.Components); got != 1 {
		t.Fatalf("components = %d, want 1 (Bob couples the two events)", got)
	}
	if got := len(result.Components[0].Players); got != 3 {
		t.Fatalf("coupled component players = %d, want 3", got)
	}
}

func TestSelectPlayerPathExpandsThroughOpponents(t *testing.T) {
	_, f := newFixture(t)
	alice := f.player("Alice", "Open")
	f.player("Bob", "Open")
	f.player("Carol", "Open")
	f.player("Dave", "Other")
	f.event("Open")
	f.game("Alice", "Bob", "Open", "2024.01.01", model.ResultWhiteWin)
	f.game("Bob", "Carol", "Open", "2024.01.02", model.ResultDraw)
	// Dave never plays anyone reachable from Alice.
	f.event("Other")
	f.game("Dave", "Dave", "Other", "2024.01.03", model.ResultDraw)

	result, err := Select(f.txn, Rule{Name: "alice", PlayerIdentity: &alice})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := len(result.Components); got != 1 {
		t.Fatalf("components = %d, want 1", got)
	}
	if got := len(result.Components[0].Players); got != 3 {
		t.Fatalf("reachable players = %d, want 3 (Alice, Bob, Carol)", got)
	}
}

func TestRuleValidationRejectsBothOrNeitherPlayerSelectors(t *testing.T) {
	_, f := newFixture(t)
	player := f.player("Alice", "Open")

	_, err := Select(f.txn, Rule{Name: "neither"})
	if err == nil {
		t.Fatalf("expected error selecting neither player nor events")
	}

	_, err = Select(f.txn, Rule{Name: "both", PlayerIdentity: &player, Events: []int64{1}})
	if err == nil {
		t.Fatalf("expected error selecting both player and events")
	}
}
