// Package export implements the identity export/import interchange
// format described for the original program's identity transfer
// operation: a plain-text list of sets of 7-tuples, one set per
// identified person plus its aliases. Go has no native set-of-tuples
// literal, so this package renders the same information as JSON — arrays
// of arrays of 7-element arrays — which is both human-readable UTF-8 text
// and unambiguous to parse back, the same two properties the original
// format relies on.
package export

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rmarsh/chessperf/internal/storeerr"
)

// Tuple is one player occurrence's natural key: (name, event, event_date,
// section, stage, team, fide_id). A nil field marshals to JSON null.
type Tuple struct {
	Name      *string
	Event     *string
	EventDate *string
	Section   *string
	Stage     *string
	Team      *string
	FideID    *string
}

// tupleLen is the fixed arity every exported/imported tuple must have.
const tupleLen = 7

func (t Tuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([tupleLen]*string{
		t.Name, t.Event, t.EventDate, t.Section, t.Stage, t.Team, t.FideID,
	})
}

func (t *Tuple) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("export: tuple is not a list: %w: %w", err, storeerr.ErrInvalidExportFormat)
	}
	if len(raw) != tupleLen {
		return fmt.Errorf("export: tuple has %d elements, want %d: %w", len(raw), tupleLen, storeerr.ErrInvalidExportFormat)
	}
	fields := make([]*string, tupleLen)
	for i, elem := range raw {
		v, err := decodeComponent(elem)
		if err != nil {
			return err
		}
		fields[i] = v
	}
	t.Name, t.Event, t.EventDate = fields[0], fields[1], fields[2]
	t.Section, t.Stage, t.Team, t.FideID = fields[3], fields[4], fields[5], fields[6]
	return nil
}

// decodeComponent accepts only JSON null or a JSON string, rejecting
// numbers, booleans, objects, and arrays, matching the strict "neither
// null nor a string" rejection rule.
func decodeComponent(raw json.RawMessage) (*string, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("export: tuple component %s is neither null nor a string: %w", raw, storeerr.ErrInvalidExportFormat)
	}
	return &s, nil
}

func fromField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toField(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
