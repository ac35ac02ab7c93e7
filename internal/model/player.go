package model

// PlayerFile is the store file name players are kept under.
const PlayerFile = "player"

const (
	PlayerIndexAlias       = "playeralias"
	PlayerIndexIdentity    = "playeridentity"
	PlayerIndexPersonAlias = "personalias"

	// PlayerIndexUniqueIdentity is keyed by a record's own (permanent)
	// identity code and holds exactly one member: the record currently
	// canonical for that code. Lets a resolver go from "an alias pointing
	// at code X" straight to X's canonical record without scanning
	// PlayerIndexIdentity's whole membership, mirroring
	// PLAYER_UNIQUE_FIELD_DEF.
	PlayerIndexUniqueIdentity = "playeruniqueidentity"
)

// Player is one name-and-context combination seen in imported games: the
// same person playing under the same name at the same event is one
// Player record; a different event, or a name spelling variant, produces
// another Player record that may later be identified as the same person.
//
// Alias and Identity both hold identity codes (see package identity), not
// PrimaryKeys: Alias is the identity code of the record this one currently
// resolves to (itself, if unidentified or if it is the chosen name
// record); Identity is the code allocated to this record when it was
// first created, and never changes thereafter even if the record is later
// folded into another person.
type Player struct {
	Name       string `json:"name"`
	Event      string `json:"event"`
	EventDate  string `json:"event_date"`
	Section    string `json:"section"`
	Stage      string `json:"stage"`
	Team       string `json:"team"`
	FideID     string `json:"fide_id"`
	Alias      int64  `json:"alias"`
	Identity   int64  `json:"identity"`
	Bookmarked bool   `json:"bookmarked"`
	PlayerType string `json:"player_type,omitempty"`
}

// AliasIndexKey returns the term used to detect that two Player records
// describe the same name-and-context combination, so an import never
// creates a duplicate for a player already on file.
func (p *Player) AliasIndexKey() string {
	return encodeTuple(
		opt(p.Name),
		opt(p.Event),
		opt(p.EventDate),
		opt(p.Section),
		opt(p.Stage),
		opt(p.Team),
		opt(p.FideID),
	)
}

// IsIdentity reports whether this record is its own identity (a "person"
// record, in the original's terms) rather than an alias of another.
func (p *Player) IsIdentity() bool {
	return p.Alias == p.Identity
}

// GetAlias, SetAlias, and GetIdentity let the alias package manipulate any
// identity-bearing record kind without a type switch on the concrete
// struct.
func (p *Player) GetAlias() int64     { return p.Alias }
func (p *Player) SetAlias(v int64)    { p.Alias = v }
func (p *Player) GetIdentity() int64  { return p.Identity }
