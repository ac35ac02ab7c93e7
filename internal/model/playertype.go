package model

// PlayerTypeFile is the store file name player-type classifications are
// kept under. Supplements the distilled specification: the original
// program carries a BlackType/WhiteType tag pair (used for things like
// marking a side as played by an engine) through the same identity/alias
// machinery as Player, Event, TimeControl, and Mode, but it is never
// consulted by selection or calculation.
const PlayerTypeFile = "playertype"

const (
	PlayerTypeIndexAlias    = "playertypealias"
	PlayerTypeIndexIdentity = "playertypeidentity"

	// PlayerTypeIndexUniqueIdentity is keyed by a record's own identity
	// code and holds exactly one member: the record currently canonical
	// for that code.
	PlayerTypeIndexUniqueIdentity = "playertypeuniqueidentity"
)

// PlayerType is one distinct BlackType/WhiteType tag value seen in
// imported games, with the same alias/identity pair semantics as Mode.
type PlayerType struct {
	Value    string `json:"player_type"`
	Alias    int64  `json:"alias"`
	Identity int64  `json:"identity"`
}

// AliasIndexKey returns the term used to detect that two PlayerType
// records describe the same classification.
func (pt *PlayerType) AliasIndexKey() string {
	return pt.Value
}

// IsIdentity reports whether this record is its own identity.
func (pt *PlayerType) IsIdentity() bool {
	return pt.Alias == pt.Identity
}

func (pt *PlayerType) GetAlias() int64    { return pt.Alias }
func (pt *PlayerType) SetAlias(v int64)   { pt.Alias = v }
func (pt *PlayerType) GetIdentity() int64 { return pt.Identity }
