package selector

import (
	"fmt"
	"sort"
	"time"

	"github.com/rmarsh/chessperf/internal/alias"
	"github.com/rmarsh/chessperf/internal/metrics"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
)

// Component is one connected set of canonical player identities reachable
// from each other via opponent edges restricted to a rule's selected
// games. Players is sorted ascending for deterministic output, matching
// spec.md's "Selector determinism" testable property.
type Component struct {
	Players []int64
}

// Result is a rule's evaluation: the exact games it selects, and the
// player component(s) implicated in them.
type Result struct {
	Games      *store.RecordList
	Components []Component
}

// Select evaluates rule against txn, mirroring calculate.py's Calculate
// class: intersecting date/time-control/mode/event filters down to
// selected_games, then expanding player selection along either Path A
// (single player identity, breadth-first opponent traversal) or Path B
// (event list, connected components over every player appearing in a
// selected game).
func Select(txn *store.Txn, rule Rule) (Result, error) {
	if err := rule.validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	defer func() { metrics.SelectorDuration.Observe(time.Since(start).Seconds()) }()

	games, err := selectedGames(txn, rule)
	if err != nil {
		return Result{}, err
	}
	metrics.SelectorGamesSelected.Observe(float64(games.Count()))

	var components []Component
	if rule.PlayerIdentity != nil {
		players, err := expandFromPlayer(txn, games, *rule.PlayerIdentity)
		if err != nil {
			return Result{}, err
		}
		components = []Component{{Players: players}}
	} else {
		components, err = expandFromGames(txn, games)
		if err != nil {
			return Result{}, err
		}
	}

	metrics.PopulationsFound.Observe(float64(len(components)))

	return Result{Games: games, Components: components}, nil
}

func selectedGames(txn *store.Txn, rule Rule) (*store.RecordList, error) {
	games, err := dateFilteredGames(txn, rule)
	if err != nil {
		return nil, err
	}

	if rule.TimeControlIdentity != nil {
		tcGames, err := gamesForCanonicalKey(txn, model.KindTimeControl, *rule.TimeControlIdentity, model.GameIndexTimeControl)
		if err != nil {
			return nil, err
		}
		games.Intersect(tcGames)
	}

	if rule.ModeIdentity != nil {
		modeGames, err := gamesForCanonicalKey(txn, model.KindMode, *rule.ModeIdentity, model.GameIndexMode)
		if err != nil {
			return nil, err
		}
		games.Intersect(modeGames)
	}

	if len(rule.Events) > 0 {
		eventGames := store.NewRecordList()
		for _, eventID := range rule.Events {
			g, err := gamesForCanonicalKey(txn, model.KindEvent, eventID, model.GameIndexEvent)
			if err != nil {
				return nil, err
			}
			eventGames.Union(g)
		}
		games.Intersect(eventGames)
	}

	return games, nil
}

func dateFilteredGames(txn *store.Txn, rule Rule) (*store.RecordList, error) {
	if rule.FromDate == "" {
		return txn.AllPrimaryKeys(model.GameFile)
	}
	from, _ := model.NormalizeDate(rule.FromDate)
	to, _ := model.NormalizeDate(rule.ToDate)
	return txn.RecordListKeyRange(
		model.GameFile, model.GameIndexDate,
		store.EncodeRecordSelector(from),
		store.EncodeRecordSelector(to),
	)
}

// gamesForCanonicalKey resolves identity to its canonical record's
// natural key within kind, then looks up every game carrying that key
// under gameIndex, mirroring the selector's "resolve the identity to its
// canonical natural key" step for time-control, mode, and event filters.
func gamesForCanonicalKey(txn *store.Txn, kind model.Kind, identity int64, gameIndex string) (*store.RecordList, error) {
	_, rec, err := alias.CanonicalByIdentity(txn, kind, identity)
	if err != nil {
		return nil, fmt.Errorf("selector: %w", err)
	}
	return txn.RecordListKey(model.GameFile, gameIndex, store.EncodeRecordSelector(rec.AliasIndexKey()))
}

// GamesForPlayerIdentity returns every game carrying the natural key of any
// player record currently aliased to identity: the union, over every name
// spelling merged into that identity, of the games carrying that
// spelling's own key. This is the same definition of "this identity's
// games" the population builder uses, so Path A's BFS and the eventual
// reward accumulation never disagree about which games belong to a player.
func GamesForPlayerIdentity(txn *store.Txn, identity int64) (*store.RecordList, error) {
	members, err := alias.MembersOfIdentity(txn, model.KindPlayer, identity)
	if err != nil {
		return nil, fmt.Errorf("selector: games for identity %d: %w", identity, err)
	}
	games := store.NewRecordList()
	cur := members.Cursor()
	for {
		pk, ok := cur.Next()
		if !ok {
			break
		}
		var p model.Player
		if err := txn.GetPrimaryRecord(model.PlayerFile, pk, &p); err != nil {
			return nil, fmt.Errorf("selector: games for identity %d: %w", identity, err)
		}
		g, err := txn.RecordListKey(model.GameFile, model.GameIndexPlayer, store.EncodeRecordSelector(p.AliasIndexKey()))
		if err != nil {
			return nil, fmt.Errorf("selector: games for identity %d: %w", identity, err)
		}
		games.Union(g)
	}
	return games, nil
}

// expandFromPlayer implements Path A: starting from identity, repeatedly
// find every selected game involving the current frontier's games (across
// every alias spelling merged into each identity, via
// GamesForPlayerIdentity, so this agrees with what the population builder
// later sees), resolve both sides of each to their canonical identity, and
// grow the frontier with any identity not already seen. Stops when a round
// adds nothing new.
func expandFromPlayer(txn *store.Txn, games *store.RecordList, identity int64) ([]int64, error) {
	visited := map[int64]bool{identity: true}
	frontier := []int64{identity}

	for len(frontier) > 0 {
		var next []int64
		for _, id := range frontier {
			playerGames, err := GamesForPlayerIdentity(txn, id)
			if err != nil {
				return nil, fmt.Errorf("selector: expand player population: %w", err)
			}
			playerGames.Intersect(games)

			cur := playerGames.Cursor()
			for {
				gpk, ok := cur.Next()
				if !ok {
					break
				}
				var g model.Game
				if err := txn.GetPrimaryRecord(model.GameFile, gpk, &g); err != nil {
					return nil, fmt.Errorf("selector: expand player population: load game %d: %w", gpk, err)
				}
				for _, sideKey := range [2]string{g.BlackPlayerKey(), g.WhitePlayerKey()} {
					_, opponent, found, err := alias.ResolvePlayerByKey(txn, sideKey)
					if err != nil {
						return nil, fmt.Errorf("selector: expand player population: %w", err)
					}
					if !found {
						continue
					}
					if !visited[opponent.Identity] {
						visited[opponent.Identity] = true
						next = append(next, opponent.Identity)
					}
				}
			}
		}
		frontier = next
	}

	return sortedKeys(visited), nil
}

// expandFromGames implements Path B: every player appearing in a selected
// game is unioned with its opponents into connected components via
// union-find, the idiomatic equivalent of the original's manual
// list-of-recordlists merge over one-hop player sets.
func expandFromGames(txn *store.Txn, games *store.RecordList) ([]Component, error) {
	parent := map[int64]int64{}
	var find func(int64) int64
	find = func(x int64) int64 {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}
	ensure := func(x int64) {
		if _, ok := parent[x]; !ok {
			parent[x] = x
		}
	}
	union := func(a, b int64) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	cur := games.Cursor()
	for {
		gpk, ok := cur.Next()
		if !ok {
			break
		}
		var g model.Game
		if err := txn.GetPrimaryRecord(model.GameFile, gpk, &g); err != nil {
			return nil, fmt.Errorf("selector: expand event population: load game %d: %w", gpk, err)
		}
		_, black, foundB, err := alias.ResolvePlayerByKey(txn, g.BlackPlayerKey())
		if err != nil {
			return nil, fmt.Errorf("selector: expand event population: %w", err)
		}
		_, white, foundW, err := alias.ResolvePlayerByKey(txn, g.WhitePlayerKey())
		if err != nil {
			return nil, fmt.Errorf("selector: expand event population: %w", err)
		}
		if foundB {
			ensure(black.Identity)
		}
		if foundW {
			ensure(white.Identity)
		}
		if foundB && foundW {
			union(black.Identity, white.Identity)
		}
	}

	groups := map[int64][]int64{}
	for id := range parent {
		root := find(id)
		groups[root] = append(groups[root], id)
	}

	components := make([]Component, 0, len(groups))
	for _, ids := range groups {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		components = append(components, Component{Players: ids})
	}
	sort.Slice(components, func(i, j int) bool { return components[i].Players[0] < components[j].Players[0] })
	return components, nil
}

func sortedKeys(m map[int64]bool) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
