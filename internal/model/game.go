package model

// PGN tag names the importer and selector care about. Only these cross
// into index terms; every other tag in a game's header section is kept in
// Headers for display but never indexed.
const (
	TagEvent       = "Event"
	TagEventDate   = "EventDate"
	TagSection     = "Section"
	TagStage       = "Stage"
	TagDate        = "Date"
	TagRound       = "Round"
	TagResult      = "Result"
	TagWhite       = "White"
	TagBlack       = "Black"
	TagWhiteTeam   = "WhiteTeam"
	TagBlackTeam   = "BlackTeam"
	TagWhiteFideID = "WhiteFideId"
	TagBlackFideID = "BlackFideId"
	TagTimeControl = "TimeControl"
	TagMode        = "Mode"
	TagBlackType   = "BlackType"
	TagWhiteType   = "WhiteType"
)

// ResultWhiteWin, ResultBlackWin and ResultDraw are the only Result tag values the
// importer accepts; any other value (or a missing Result tag) causes the
// game to be skipped, mirroring constants.WIN_DRAW_LOSS.
const (
	ResultWhiteWin = "1-0"
	ResultBlackWin = "0-1"
	ResultDraw     = "1/2-1/2"
)

// IsDecisiveOrDrawnResult reports whether result is one of the three
// values the performance calculation understands.
func IsDecisiveOrDrawnResult(result string) bool {
	switch result {
	case ResultWhiteWin, ResultBlackWin, ResultDraw:
		return true
	default:
		return false
	}
}

// GameFile is the store file name games are kept under.
const GameFile = "game"

const (
	GameIndexPGNFile     = "pgnfile"
	GameIndexGameNumber  = "gamenumber"
	GameIndexDate        = "date"
	GameIndexTimeControl = "timecontrol"
	GameIndexMode        = "mode"
	GameIndexPlayer      = "player"
	GameIndexEvent       = "event"
)

// Reference identifies where a game came from: the PGN file it was read
// from, and its ordinal position within that file.
type Reference struct {
	File   string `json:"file"`
	Number int    `json:"number"`
}

// Game is one imported PGN game header. Movetext is never stored: the
// importer only needs the tag pairs to select games and build the
// opponent graph.
type Game struct {
	Reference Reference         `json:"reference"`
	Headers   map[string]string `json:"headers"`
}

func (g *Game) header(tag string) string {
	return g.Headers[tag]
}

// Date returns the game's Date tag value, in whatever form the PGN file
// carried it (typically "YYYY.MM.DD", with "??" wildcards for unknown
// components).
func (g *Game) Date() string { return g.header(TagDate) }

// TimeControl returns the game's TimeControl tag value.
func (g *Game) TimeControl() string { return g.header(TagTimeControl) }

// Mode returns the game's Mode tag value.
func (g *Game) Mode() string { return g.header(TagMode) }

// Result returns the game's Result tag value.
func (g *Game) Result() string { return g.header(TagResult) }

// BlackType returns the game's BlackType tag value, if present.
func (g *Game) BlackType() string { return g.header(TagBlackType) }

// WhiteType returns the game's WhiteType tag value, if present.
func (g *Game) WhiteType() string { return g.header(TagWhiteType) }

// BlackPlayerKey returns the alias-index term identifying the black
// player's name-and-context tuple, the same shape a Player record's
// AliasIndexKey produces so the two can be compared directly.
func (g *Game) BlackPlayerKey() string {
	return encodeTuple(
		opt(g.header(TagBlack)),
		opt(g.header(TagEvent)),
		opt(g.header(TagEventDate)),
		opt(g.header(TagSection)),
		opt(g.header(TagStage)),
		opt(g.header(TagBlackTeam)),
		opt(g.header(TagBlackFideID)),
	)
}

// WhitePlayerKey is BlackPlayerKey's counterpart for the white side.
func (g *Game) WhitePlayerKey() string {
	return encodeTuple(
		opt(g.header(TagWhite)),
		opt(g.header(TagEvent)),
		opt(g.header(TagEventDate)),
		opt(g.header(TagSection)),
		opt(g.header(TagStage)),
		opt(g.header(TagWhiteTeam)),
		opt(g.header(TagWhiteFideID)),
	)
}

// EventKey returns the alias-index term identifying the game's event,
// matching Event.AliasIndexKey's shape.
func (g *Game) EventKey() string {
	return encodeTuple(
		opt(g.header(TagEvent)),
		opt(g.header(TagEventDate)),
		opt(g.header(TagSection)),
		opt(g.header(TagStage)),
	)
}
