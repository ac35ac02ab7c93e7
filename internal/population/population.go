// Package population builds the opponent graph for one connected
// component produced by the selector and determines whether iterating it
// will converge, grounded on population.py's Population class and
// calculate.py's check_convergent_calculation_possible.
package population

import (
	"fmt"

	"github.com/rmarsh/chessperf/internal/alias"
	"github.com/rmarsh/chessperf/internal/calc"
	"github.com/rmarsh/chessperf/internal/metrics"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/selector"
	"github.com/rmarsh/chessperf/internal/store"
)

// Population is one component's Person data, ready for calc.Run.
type Population struct {
	Persons    map[int64]*calc.Person
	Convergent bool
}

// Build accumulates reward, game count, and opponents for every player
// identity in component from the games in selectedGames, then runs the
// 3-cycle convergence check. A person's games are the union, over every
// alias currently merged into that identity, of the games carrying that
// alias's natural key, restricted to selectedGames — the same "coupling"
// selected_games performs in the original: an opponent outside the
// rule's own player set is still added to the component if their games
// together are in selectedGames, because the selector already grew the
// component out to include them.
func Build(txn *store.Txn, selectedGames *store.RecordList, component selector.Component, measure float64) (*Population, error) {
	persons := make(map[int64]*calc.Person, len(component.Players))
	for _, id := range component.Players {
		_, rec, err := alias.CanonicalByIdentity(txn, model.KindPlayer, id)
		if err != nil {
			return nil, fmt.Errorf("population: build: %w", err)
		}
		p, ok := rec.(*model.Player)
		if !ok {
			return nil, fmt.Errorf("population: build: identity %d resolved to non-player record", id)
		}
		persons[id] = calc.NewPerson(id, p.Name)
	}

	for _, id := range component.Players {
		games, err := selector.GamesForPlayerIdentity(txn, id)
		if err != nil {
			return nil, err
		}
		games.Intersect(selectedGames)

		cur := games.Cursor()
		for {
			gpk, ok := cur.Next()
			if !ok {
				break
			}
			var g model.Game
			if err := txn.GetPrimaryRecord(model.GameFile, gpk, &g); err != nil {
				return nil, fmt.Errorf("population: build: load game %d: %w", gpk, err)
			}

			_, blackCanon, foundB, err := alias.ResolvePlayerByKey(txn, g.BlackPlayerKey())
			if err != nil {
				return nil, fmt.Errorf("population: build: %w", err)
			}
			_, whiteCanon, foundW, err := alias.ResolvePlayerByKey(txn, g.WhitePlayerKey())
			if err != nil {
				return nil, fmt.Errorf("population: build: %w", err)
			}

			var isBlack bool
			var opponent int64
			switch {
			case foundB && blackCanon.Identity == id && foundW:
				isBlack, opponent = true, whiteCanon.Identity
			case foundW && whiteCanon.Identity == id && foundB:
				isBlack, opponent = false, blackCanon.Identity
			default:
				continue
			}

			persons[id].AddReward(opponent, rewardFor(g.Result(), isBlack), measure)
		}
	}

	convergent := checkConvergence(persons)
	if !convergent {
		metrics.PopulationsNonConvergent.Inc()
	}
	return &Population{Persons: persons, Convergent: convergent}, nil
}

func rewardFor(result string, isBlack bool) float64 {
	switch result {
	case model.ResultWhiteWin:
		if isBlack {
			return -1
		}
		return 1
	case model.ResultBlackWin:
		if isBlack {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// checkConvergence implements spec.md §4.6's tractable sufficient
// condition: the opponent graph converges if it contains any 3-cycle,
// detected by checking, for every edge (P, Q), whether P and Q's
// neighbour sets intersect.
func checkConvergence(persons map[int64]*calc.Person) bool {
	neighbors := make(map[int64]map[int64]bool, len(persons))
	for id, p := range persons {
		set := make(map[int64]bool, len(p.Opponents))
		for _, o := range p.Opponents {
			if o != id {
				set[o] = true
			}
		}
		neighbors[id] = set
	}
	for id, nset := range neighbors {
		for q := range nset {
			for r := range neighbors[q] {
				if r != id && nset[r] {
					return true
				}
			}
		}
	}
	return false
}
