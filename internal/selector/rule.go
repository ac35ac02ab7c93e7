// Package selector evaluates a user-defined rule into the exact set of
// games it selects and the connected player component(s) implicated in
// them, grounded on calculate.py's Calculate class (calculate() entry
// point and check_convergent_calculation_possible's neighbour walk is
// left to the population package, which consumes this package's output).
package selector

import (
	"fmt"

	"github.com/rmarsh/chessperf/internal/storeerr"
)

// Rule mirrors spec.md's Selector rule entity. Exactly one of
// PlayerIdentity or Events drives player selection; FromDate and ToDate
// are either both set or both empty.
type Rule struct {
	Name string

	// PlayerIdentity, when set, selects Path A: breadth-first opponent
	// expansion starting from this player's canonical identity.
	PlayerIdentity *int64

	// Events, when non-empty, selects Path B: every player appearing in a
	// selected game, partitioned into connected components.
	Events []int64

	// FromDate and ToDate are inclusive "YYYY.MM.DD" bounds; both empty
	// means no date filter.
	FromDate string
	ToDate   string

	TimeControlIdentity *int64
	ModeIdentity        *int64
}

// validate checks the rule's shape invariants, returning storeerr.ErrInvalidRule
// wrapped with a description on violation.
func (r Rule) validate() error {
	hasPlayer := r.PlayerIdentity != nil
	hasEvents := len(r.Events) > 0
	if hasPlayer == hasEvents {
		return fmt.Errorf("selector: rule %q must name exactly one of player identity or event list: %w", r.Name, storeerr.ErrInvalidRule)
	}
	if (r.FromDate == "") != (r.ToDate == "") {
		return fmt.Errorf("selector: rule %q: from/to dates must both be present or both absent: %w", r.Name, storeerr.ErrInvalidRule)
	}
	return nil
}
