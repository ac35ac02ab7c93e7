package pgnimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

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

const threeGamePGN = `[Event "Town Championship"]
[EventDate "2024.01.01"]
[Date "2024.01.02"]
[Round "1"]
[White "Alpha, A"]
[Black "Beta, B"]
[Result "1-0"]
[TimeControl "90+30"]
[Mode "OTB"]

1. e4 e5 1-0

[Event "Town Championship"]
[EventDate "2024.01.01"]
[Date "2024.01.03"]
[Round "2"]
[White "Beta, B"]
[Black "Gamma, C"]
[Result "0-1"]
[TimeControl "90+30"]
[Mode "OTB"]

1. d4 d5 0-1

[Event "Town Championship"]
[EventDate "2024.01.01"]
[Date "2024.01.04"]
[Round "3"]
[White "Gamma, C"]
[Black "Alpha, A"]
[Result "*"]
[TimeControl "90+30"]
[Mode "OTB"]

1. c4 *
`

func writeFixture(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestImportDirectorySkipsMissingRoot(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s, DefaultConfig())

	stats, err := imp.ImportDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), NopReporter{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if stats.FilesProcessed != 0 {
		t.Fatalf("FilesProcessed = %d, want 0", stats.FilesProcessed)
	}
}

func TestImportDirectoryLoadsHeadersAndSkipsBadResult(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	writeFixture(t, dir, "round1.pgn", threeGamePGN)

	imp := NewImporter(s, DefaultConfig())
	stats, err := imp.ImportDirectory(context.Background(), dir, NopReporter{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Fatalf("FilesProcessed = %d, want 1", stats.FilesProcessed)
	}
	if stats.GamesRead != 3 {
		t.Fatalf("GamesRead = %d, want 3", stats.GamesRead)
	}
	if stats.GamesImported != 2 {
		t.Fatalf("GamesImported = %d, want 2", stats.GamesImported)
	}
	if stats.GamesBadResult != 1 {
		t.Fatalf("GamesBadResult = %d, want 1", stats.GamesBadResult)
	}

	// Three distinct players plus one event, one time control, one mode.
	if stats.PlayersCreated != 3 {
		t.Fatalf("PlayersCreated = %d, want 3", stats.PlayersCreated)
	}
	if stats.EventsCreated != 1 {
		t.Fatalf("EventsCreated = %d, want 1", stats.EventsCreated)
	}
	if stats.TimeControlsCreated != 1 {
		t.Fatalf("TimeControlsCreated = %d, want 1", stats.TimeControlsCreated)
	}
	if stats.ModesCreated != 1 {
		t.Fatalf("ModesCreated = %d, want 1", stats.ModesCreated)
	}

	txn := s.StartReadOnlyTransaction()
	defer txn.EndReadOnlyTransaction()

	games, err := txn.AllPrimaryKeys(model.GameFile)
	if err != nil {
		t.Fatalf("AllPrimaryKeys: %v", err)
	}
	if games.Count() != 2 {
		t.Fatalf("stored games = %d, want 2", games.Count())
	}

	players, err := txn.AllPrimaryKeys(model.PlayerFile)
	if err != nil {
		t.Fatalf("AllPrimaryKeys players: %v", err)
	}
	if players.Count() != 3 {
		t.Fatalf("stored players = %d, want 3", players.Count())
	}
}

func TestImportDirectoryIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	writeFixture(t, dir, "round1.pgn", threeGamePGN)

	imp := NewImporter(s, DefaultConfig())
	if _, err := imp.ImportDirectory(context.Background(), dir, NopReporter{}); err != nil {
		t.Fatalf("first ImportDirectory: %v", err)
	}
	stats, err := imp.ImportDirectory(context.Background(), dir, NopReporter{})
	if err != nil {
		t.Fatalf("second ImportDirectory: %v", err)
	}
	if stats.GamesImported != 0 {
		t.Fatalf("GamesImported on re-import = %d, want 0", stats.GamesImported)
	}
	if stats.GamesDuplicate != 2 {
		t.Fatalf("GamesDuplicate on re-import = %d, want 2", stats.GamesDuplicate)
	}
	if stats.PlayersCreated != 0 || stats.EventsCreated != 0 {
		t.Fatalf("re-import should derive no new entities, got players=%d events=%d", stats.PlayersCreated, stats.EventsCreated)
	}
}

func TestImportDirectoryDecodesISO8859_1(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	// "Müller" encoded as ISO-8859-1 (0xFC for ü), invalid as UTF-8 on its own.
	raw := []byte("[Event \"Club Ch\"]\n[EventDate \"2024.02.01\"]\n[Date \"2024.02.01\"]\n" +
		"[White \"M\xfcller, A\"]\n[Black \"Otherperson, B\"]\n[Result \"1-0\"]\n\n1. e4 e5 1-0\n")
	path := filepath.Join(dir, "latin1.pgn")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	imp := NewImporter(s, DefaultConfig())
	stats, err := imp.ImportDirectory(context.Background(), dir, NopReporter{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if stats.GamesImported != 1 {
		t.Fatalf("GamesImported = %d, want 1", stats.GamesImported)
	}

	txn := s.StartReadOnlyTransaction()
	defer txn.EndReadOnlyTransaction()
	games, err := txn.AllPrimaryKeys(model.GameFile)
	if err != nil {
		t.Fatalf("AllPrimaryKeys: %v", err)
	}
	keys := games.Keys()
	if len(keys) != 1 {
		t.Fatalf("stored games = %d, want 1", len(keys))
	}
	var g model.Game
	if err := txn.GetPrimaryRecord(model.GameFile, keys[0], &g); err != nil {
		t.Fatalf("GetPrimaryRecord: %v", err)
	}
	if got, want := g.Headers[model.TagWhite], "Müller, A"; got != want {
		t.Fatalf("White header = %q, want %q", got, want)
	}
}

func TestImportDirectorySegmentCommitsAcrossLowSegmentSize(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	writeFixture(t, dir, "round1.pgn", threeGamePGN)

	imp := NewImporter(s, Config{SegmentSize: 1})
	stats, err := imp.ImportDirectory(context.Background(), dir, NopReporter{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if stats.GamesImported != 2 {
		t.Fatalf("GamesImported = %d, want 2", stats.GamesImported)
	}
}

func TestImportDirectoryRejectsConcurrentRuns(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s, DefaultConfig())
	imp.running = true

	_, err := imp.ImportDirectory(context.Background(), t.TempDir(), NopReporter{})
	if err == nil {
		t.Fatal("expected error for concurrent import, got nil")
	}
}
