package pgnimport

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rmarsh/chessperf/internal/metrics"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/pgn"
	"github.com/rmarsh/chessperf/internal/store"
)

// Config controls an Importer's batching behaviour.
type Config struct {
	// SegmentSize is the number of new records (games on the header pass,
	// entities on the derive pass) written before the importer commits and
	// starts a fresh transaction, bounding write-set size the way
	// db_segment_size bounds it in the original program.
	SegmentSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{SegmentSize: 4000}
}

// Stats summarizes one Import call.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time

	FilesProcessed int
	FilesSkipped   int

	GamesRead      int
	GamesImported  int
	GamesDuplicate int
	GamesBadResult int

	PlayersCreated      int
	EventsCreated       int
	TimeControlsCreated int
	ModesCreated        int
}

// Importer loads PGN game headers from a directory tree into a Store and
// derives Player/Event/TimeControl/Mode records from them.
type Importer struct {
	store *store.Store
	cfg   Config

	mu      sync.Mutex
	running bool
}

// NewImporter returns an Importer writing into s.
func NewImporter(s *store.Store, cfg Config) *Importer {
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = DefaultConfig().SegmentSize
	}
	return &Importer{store: s, cfg: cfg}
}

// ImportDirectory walks root for *.pgn files and loads their game headers,
// then runs DeriveEntities. Returns Stats with nothing imported and a nil
// error if root does not exist or is not a directory, matching
// import_pgn_headers's tolerant contract; any other failure is returned as
// an error.
func (imp *Importer) ImportDirectory(ctx context.Context, root string, reporter Reporter) (Stats, error) {
	imp.mu.Lock()
	if imp.running {
		imp.mu.Unlock()
		return Stats{}, fmt.Errorf("pgnimport: import already in progress")
	}
	imp.running = true
	imp.mu.Unlock()
	defer func() {
		imp.mu.Lock()
		imp.running = false
		imp.mu.Unlock()
	}()

	if reporter == nil {
		reporter = NopReporter{}
	}
	stats := Stats{StartTime: time.Now()}

	info, err := os.Stat(root)
	if err != nil {
		reporter.AppendText(root + " does not exist")
		return stats, nil
	}
	if !info.IsDir() {
		reporter.AppendText(root + " is not a directory")
		return stats, nil
	}

	reporter.AppendText("Processing files in " + root)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !strings.EqualFold(filepath.Ext(path), ".pgn") {
			return nil
		}
		if err := imp.importFile(ctx, path, reporter, &stats); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		stats.EndTime = time.Now()
		return stats, fmt.Errorf("pgnimport: %w", err)
	}

	if err := imp.DeriveEntities(ctx, reporter, &stats); err != nil {
		stats.EndTime = time.Now()
		return stats, fmt.Errorf("pgnimport: %w", err)
	}

	stats.EndTime = time.Now()
	reporter.AppendTextOnly("")
	return stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string, reporter Reporter, stats *Stats) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		stats.FilesSkipped++
		metrics.ImportFilesSkipped.WithLabelValues("read_error").Inc()
		reporter.AppendText(fmt.Sprintf("Unable to read %s: %v", path, err))
		return nil
	}
	text, err := decodeSource(raw)
	if err != nil {
		stats.FilesSkipped++
		metrics.ImportFilesSkipped.WithLabelValues("decode_error").Inc()
		reporter.AppendText("Unable to read " + filepath.Base(path) + " as utf-8 or iso-8859-1 encoding.")
		return nil
	}

	fileName := filepath.Base(path)
	reporter.AppendText("Extracting game headers from " + fileName)

	txn := imp.store.StartTransaction()
	committed := false
	defer func() {
		if !committed {
			txn.Backout()
		}
	}()

	existing, err := txn.RecordListKey(model.GameFile, model.GameIndexPGNFile, store.EncodeRecordSelector(fileName))
	if err != nil {
		return fmt.Errorf("check existing games for %s: %w", fileName, err)
	}
	if existing.Count() > 0 {
		reporter.AppendText(fmt.Sprintf("%d games from file %s already on database: only missing game numbers will be copied.", existing.Count(), fileName))
	}

	sc := pgn.NewScanner(strings.NewReader(text))
	gameNumber := 0
	copied := 0
	duplicates := 0
	sinceCommit := 0
	var lastOffset int64

	for {
		g, scanErr := sc.Next()
		if scanErr != nil {
			break
		}
		lastOffset = g.Offset
		gameNumber++
		stats.GamesRead++

		numberTerm := store.EncodeRecordSelector(strconv.Itoa(gameNumber))
		alreadyHave, err := imp.gameAlreadyOnFile(txn, fileName, numberTerm, existing)
		if err != nil {
			return err
		}
		if alreadyHave {
			stats.GamesDuplicate++
			duplicates++
			metrics.GamesImportedTotal.WithLabelValues("duplicate").Inc()
			continue
		}

		result := g.Tags[model.TagResult]
		if !model.IsDecisiveOrDrawnResult(result) {
			stats.GamesBadResult++
			metrics.GamesImportedTotal.WithLabelValues("bad_result").Inc()
			if result == "" {
				reporter.AppendTextOnly(fmt.Sprintf("No result tag in game %d in %s", gameNumber, fileName))
			} else {
				reporter.AppendTextOnly(fmt.Sprintf("%s is result of game %d in %s", result, gameNumber, fileName))
			}
			continue
		}

		game := model.Game{
			Reference: model.Reference{File: fileName, Number: gameNumber},
			Headers:   g.Tags,
		}
		pk, err := txn.PutRecord(model.GameFile, game)
		if err != nil {
			return fmt.Errorf("put game %d in %s: %w", gameNumber, fileName, err)
		}
		if err := imp.indexGame(txn, pk, fileName, gameNumber, &game); err != nil {
			return fmt.Errorf("index game %d in %s: %w", gameNumber, fileName, err)
		}
		existing.Add(pk)
		copied++
		stats.GamesImported++
		metrics.GamesImportedTotal.WithLabelValues("inserted").Inc()
		sinceCommit++

		if sinceCommit >= imp.cfg.SegmentSize {
			if err := txn.Commit(); err != nil {
				return fmt.Errorf("commit segment: %w", err)
			}
			metrics.ImportSegmentCommits.Inc()
			txn = imp.store.StartTransaction()
			sinceCommit = 0
			reporter.AppendText(fmt.Sprintf("Record %d is from game %d in %s", pk, gameNumber, fileName))
		}

		if ctx.Err() != nil {
			if err := txn.Commit(); err != nil {
				return fmt.Errorf("commit on cancellation: %w", err)
			}
			committed = true
			return ctx.Err()
		}
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit final segment: %w", err)
	}
	committed = true
	stats.FilesProcessed++

	if gameNumber > 0 {
		reporter.AppendTextOnly(fmt.Sprintf("%d games read from %s to character %d", gameNumber, fileName, lastOffset))
		reporter.AppendTextOnly(fmt.Sprintf("%d games added to database.", copied))
		reporter.AppendTextOnly(fmt.Sprintf("%d games had errors and were not copied.", gameNumber-copied-duplicates))
	}
	return nil
}

// gameAlreadyOnFile reports whether fileName's gameNumber is already
// present, restricting the lookup to games known to belong to fileName
// (existing) the way the Python importer intersects the pgnfile and
// gamenumber record lists before checking cardinality.
func (imp *Importer) gameAlreadyOnFile(txn *store.Txn, fileName string, numberTerm []byte, existing *store.RecordList) (bool, error) {
	if existing.IsEmpty() {
		return false, nil
	}
	withNumber, err := txn.RecordListKey(model.GameFile, model.GameIndexGameNumber, numberTerm)
	if err != nil {
		return false, fmt.Errorf("lookup game number for %s: %w", fileName, err)
	}
	present := store.IntersectionOf(withNumber, existing)
	return present.Count() > 0, nil
}

func (imp *Importer) indexGame(txn *store.Txn, pk store.PrimaryKey, fileName string, gameNumber int, g *model.Game) error {
	type entry struct {
		index string
		term  string
	}
	entries := []entry{
		{model.GameIndexPGNFile, fileName},
		{model.GameIndexGameNumber, strconv.Itoa(gameNumber)},
		{model.GameIndexPlayer, g.BlackPlayerKey()},
		{model.GameIndexPlayer, g.WhitePlayerKey()},
		{model.GameIndexEvent, g.EventKey()},
	}
	if d := g.Date(); d != "" {
		if normalized, ok := model.NormalizeDate(d); ok {
			d = normalized
		}
		entries = append(entries, entry{model.GameIndexDate, d})
	}
	if tc := g.TimeControl(); tc != "" {
		entries = append(entries, entry{model.GameIndexTimeControl, tc})
	}
	if m := g.Mode(); m != "" {
		entries = append(entries, entry{model.GameIndexMode, m})
	}
	for _, e := range entries {
		if err := txn.AddIndexEntry(model.GameFile, e.index, store.EncodeRecordSelector(e.term), pk); err != nil {
			return err
		}
	}
	return nil
}
