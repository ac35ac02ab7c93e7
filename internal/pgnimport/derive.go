package pgnimport

import (
	"context"
	"fmt"

	"github.com/rmarsh/chessperf/internal/identity"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
)

// DeriveEntities scans every imported game and creates the Player, Event,
// TimeControl, Mode, and (when a BlackType/WhiteType tag is present)
// PlayerType records implied by games not already represented, allocating
// a fresh identity code for each new record. Mirrors
// copy_player_names_from_games/copy_event_names_from_games/
// copy_time_control_names_from_games/copy_mode_names_from_games, generalised
// into one pass instead of four (one walk over every game record replaces
// four index walks).
//
// Unlike the original, which relies on a cursor over a sorted index and
// skips consecutive duplicate keys as a scan-time optimisation, this pass
// tracks every key it has handled in memory for the whole run: simpler,
// and correct regardless of scan order, at the cost of memory proportional
// to the number of distinct players/events/time-controls/modes, which is
// always far smaller than the game count it is derived from.
func (imp *Importer) DeriveEntities(ctx context.Context, reporter Reporter, stats *Stats) error {
	txn := imp.store.StartTransaction()
	committed := false
	defer func() {
		if !committed {
			txn.Backout()
		}
	}()

	for _, kind := range model.AllIdentityKinds {
		if err := identity.EnsureKind(txn, kind); err != nil {
			return fmt.Errorf("derive entities: %w", err)
		}
	}

	games, err := txn.AllPrimaryKeys(model.GameFile)
	if err != nil {
		return fmt.Errorf("derive entities: %w", err)
	}

	d := &deriver{imp: imp, txn: txn, reporter: reporter, stats: stats, sinceCommit: 0}

	cur := games.Cursor()
	for {
		pk, ok := cur.Next()
		if !ok {
			break
		}
		var g model.Game
		if err := txn.GetPrimaryRecord(model.GameFile, pk, &g); err != nil {
			return fmt.Errorf("derive entities: load game %d: %w", pk, err)
		}
		if err := d.observeGame(&g); err != nil {
			return fmt.Errorf("derive entities: %w", err)
		}
		if err := d.maybeCommit(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			if err := d.commit(); err != nil {
				return err
			}
			committed = true
			return ctx.Err()
		}
	}

	if err := d.commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// deriver threads a single transaction and a dedup set through a game scan.
type deriver struct {
	imp      *Importer
	txn      *store.Txn
	reporter Reporter
	stats    *Stats

	seen        map[string]bool
	sinceCommit int
}

func (d *deriver) markSeen(key string) bool {
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[key] {
		return true
	}
	d.seen[key] = true
	return false
}

func (d *deriver) observeGame(g *model.Game) error {
	if err := d.ensurePlayer(g.BlackPlayerKey(), g); err != nil {
		return err
	}
	if err := d.ensurePlayer(g.WhitePlayerKey(), g); err != nil {
		return err
	}
	if err := d.ensureEvent(g); err != nil {
		return err
	}
	if tc := g.TimeControl(); tc != "" {
		if err := d.ensureTimeControl(tc); err != nil {
			return err
		}
	}
	if m := g.Mode(); m != "" {
		if err := d.ensureMode(m); err != nil {
			return err
		}
	}
	if pt := g.BlackType(); pt != "" {
		if err := d.ensurePlayerType(pt); err != nil {
			return err
		}
	}
	if pt := g.WhiteType(); pt != "" {
		if err := d.ensurePlayerType(pt); err != nil {
			return err
		}
	}
	return nil
}

func (d *deriver) ensurePlayer(aliasKey string, g *model.Game) error {
	if d.markSeen("player:" + aliasKey) {
		return nil
	}
	on, err := d.onFile(model.PlayerFile, model.PlayerIndexAlias, aliasKey)
	if err != nil {
		return err
	}
	if on {
		return nil
	}
	isBlack := g.BlackPlayerKey() == aliasKey
	p := model.Player{}
	if isBlack {
		p = model.Player{
			Name: g.Headers[model.TagBlack], Event: g.Headers[model.TagEvent], EventDate: g.Headers[model.TagEventDate],
			Section: g.Headers[model.TagSection], Stage: g.Headers[model.TagStage],
			Team: g.Headers[model.TagBlackTeam], FideID: g.Headers[model.TagBlackFideID],
		}
	} else {
		p = model.Player{
			Name: g.Headers[model.TagWhite], Event: g.Headers[model.TagEvent], EventDate: g.Headers[model.TagEventDate],
			Section: g.Headers[model.TagSection], Stage: g.Headers[model.TagStage],
			Team: g.Headers[model.TagWhiteTeam], FideID: g.Headers[model.TagWhiteFideID],
		}
	}
	code, err := identity.Next(d.txn, model.KindPlayer)
	if err != nil {
		return err
	}
	p.Alias, p.Identity = code, code
	pk, err := d.txn.PutRecord(model.PlayerFile, p)
	if err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexAlias, store.EncodeRecordSelector(aliasKey), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexPersonAlias, store.EncodeRecordSelector(p.AliasIndexKey()), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerFile, model.PlayerIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	d.stats.PlayersCreated++
	d.sinceCommit++
	d.report("Player " + p.Name)
	return nil
}

func (d *deriver) ensureEvent(g *model.Game) error {
	key := g.EventKey()
	if d.markSeen("event:" + key) {
		return nil
	}
	on, err := d.onFile(model.EventFile, model.EventIndexAlias, key)
	if err != nil {
		return err
	}
	if on {
		return nil
	}
	e := model.Event{
		Name: g.Headers[model.TagEvent], EventDate: g.Headers[model.TagEventDate],
		Section: g.Headers[model.TagSection], Stage: g.Headers[model.TagStage],
	}
	code, err := identity.Next(d.txn, model.KindEvent)
	if err != nil {
		return err
	}
	e.Alias, e.Identity = code, code
	pk, err := d.txn.PutRecord(model.EventFile, e)
	if err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.EventFile, model.EventIndexAlias, store.EncodeRecordSelector(key), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.EventFile, model.EventIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.EventFile, model.EventIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	d.stats.EventsCreated++
	d.sinceCommit++
	d.report("Event " + e.Name)
	return nil
}

func (d *deriver) ensureTimeControl(value string) error {
	if d.markSeen("timecontrol:" + value) {
		return nil
	}
	on, err := d.onFile(model.TimeControlFile, model.TimeControlIndexAlias, value)
	if err != nil {
		return err
	}
	if on {
		return nil
	}
	code, err := identity.Next(d.txn, model.KindTimeControl)
	if err != nil {
		return err
	}
	tc := model.TimeControl{Value: value, Alias: code, Identity: code}
	pk, err := d.txn.PutRecord(model.TimeControlFile, tc)
	if err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.TimeControlFile, model.TimeControlIndexAlias, store.EncodeRecordSelector(value), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.TimeControlFile, model.TimeControlIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.TimeControlFile, model.TimeControlIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	d.stats.TimeControlsCreated++
	d.sinceCommit++
	d.report("Time control " + value)
	return nil
}

func (d *deriver) ensureMode(value string) error {
	if d.markSeen("mode:" + value) {
		return nil
	}
	on, err := d.onFile(model.ModeFile, model.ModeIndexAlias, value)
	if err != nil {
		return err
	}
	if on {
		return nil
	}
	code, err := identity.Next(d.txn, model.KindMode)
	if err != nil {
		return err
	}
	m := model.Mode{Value: value, Alias: code, Identity: code}
	pk, err := d.txn.PutRecord(model.ModeFile, m)
	if err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.ModeFile, model.ModeIndexAlias, store.EncodeRecordSelector(value), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.ModeFile, model.ModeIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.ModeFile, model.ModeIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	d.stats.ModesCreated++
	d.sinceCommit++
	d.report("Mode " + value)
	return nil
}

func (d *deriver) ensurePlayerType(value string) error {
	if d.markSeen("playertype:" + value) {
		return nil
	}
	on, err := d.onFile(model.PlayerTypeFile, model.PlayerTypeIndexAlias, value)
	if err != nil {
		return err
	}
	if on {
		return nil
	}
	code, err := identity.Next(d.txn, model.KindPlayerType)
	if err != nil {
		return err
	}
	pt := model.PlayerType{Value: value, Alias: code, Identity: code}
	pk, err := d.txn.PutRecord(model.PlayerTypeFile, pt)
	if err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerTypeFile, model.PlayerTypeIndexAlias, store.EncodeRecordSelector(value), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerTypeFile, model.PlayerTypeIndexIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	if err := d.txn.AddIndexEntry(model.PlayerTypeFile, model.PlayerTypeIndexUniqueIdentity, store.EncodeRecordSelector(code), pk); err != nil {
		return err
	}
	d.sinceCommit++
	return nil
}

func (d *deriver) onFile(file, index, key string) (bool, error) {
	rl, err := d.txn.RecordListKey(file, index, store.EncodeRecordSelector(key))
	if err != nil {
		return false, err
	}
	return rl.Count() > 0, nil
}

func (d *deriver) report(line string) {
	if d.reporter != nil {
		d.reporter.AppendText(line)
	}
}

func (d *deriver) maybeCommit() error {
	if d.sinceCommit < d.imp.cfg.SegmentSize {
		return nil
	}
	return d.commit()
}

func (d *deriver) commit() error {
	if err := d.txn.Commit(); err != nil {
		return fmt.Errorf("commit derived entities: %w", err)
	}
	d.sinceCommit = 0
	d.txn = d.imp.store.StartTransaction()
	return nil
}
