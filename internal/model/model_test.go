package model

import "testing"

func TestGameAliasKeysMatchPlayerAndEventShapes(t *testing.T) {
	g := &Game{Headers: map[string]string{
		TagBlack:     "Smith, John",
		TagWhite:     "Doe, Jane",
		TagEvent:     "Candidates",
		TagEventDate: "2024.01.01",
		TagSection:   "",
		TagStage:     "",
		TagBlackTeam: "",
		TagWhiteTeam: "",
	}}

	black := &Player{Name: "Smith, John", Event: "Candidates", EventDate: "2024.01.01"}
	white := &Player{Name: "Doe, Jane", Event: "Candidates", EventDate: "2024.01.01"}

	if g.BlackPlayerKey() != black.AliasIndexKey() {
		t.Fatalf("BlackPlayerKey() = %q, want %q", g.BlackPlayerKey(), black.AliasIndexKey())
	}
	if g.WhitePlayerKey() != white.AliasIndexKey() {
		t.Fatalf("WhitePlayerKey() = %q, want %q", g.WhitePlayerKey(), white.AliasIndexKey())
	}

	ev := &Event{Name: "Candidates", EventDate: "2024.01.01"}
	if g.EventKey() != ev.AliasIndexKey() {
		t.Fatalf("EventKey() = %q, want %q", g.EventKey(), ev.AliasIndexKey())
	}
}

func TestEncodeTupleDistinguishesMissingFromEmpty(t *testing.T) {
	missing := encodeTuple(nil, opt("x"))
	blank := ""
	empty := encodeTuple(&blank, opt("x"))
	if missing == empty {
		t.Fatal("missing and empty-string fields must not collide")
	}
}

func TestIsIdentityHelpers(t *testing.T) {
	p := &Player{Alias: 5, Identity: 5}
	if !p.IsIdentity() {
		t.Fatal("expected player with alias == identity to be its own identity")
	}
	p.Alias = 7
	if p.IsIdentity() {
		t.Fatal("expected player with alias != identity to not be its own identity")
	}
}

func TestIsDecisiveOrDrawnResult(t *testing.T) {
	cases := map[string]bool{
		ResultWhiteWin: true,
		ResultBlackWin: true,
		ResultDraw:     true,
		"*":            false,
		"":              false,
	}
	for result, want := range cases {
		if got := IsDecisiveOrDrawnResult(result); got != want {
			t.Errorf("IsDecisiveOrDrawnResult(%q) = %v, want %v", result, got, want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2024.06.15", "2024.06.15", true},
		{"2024-6-15", "2024.06.15", true},
		{"2024/6/5", "2024.06.05", true},
		{"2024.??.??", "2024.??.??", true},
		{"not a date", "not a date", false},
	}
	for _, c := range cases {
		got, ok := NormalizeDate(c.raw)
		if got != c.want || ok != c.ok {
			t.Errorf("NormalizeDate(%q) = (%q, %v), want (%q, %v)", c.raw, got, ok, c.want, c.ok)
		}
	}
}
