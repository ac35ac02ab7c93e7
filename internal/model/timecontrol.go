package model

// TimeControlFile is the store file name time controls are kept under.
const TimeControlFile = "timecontrol"

const (
	TimeControlIndexAlias    = "timealias"
	TimeControlIndexIdentity = "timeidentity"

	// TimeControlIndexUniqueIdentity is keyed by a record's own identity
	// code and holds exactly one member: the record currently canonical
	// for that code.
	TimeControlIndexUniqueIdentity = "timeuniqueidentity"
)

// TimeControl is one distinct TimeControl tag value seen in imported
// games, with the same alias/identity pair semantics as Player.
type TimeControl struct {
	Value    string `json:"time_control"`
	Alias    int64  `json:"alias"`
	Identity int64  `json:"identity"`
}

// AliasIndexKey returns the term used to detect that two TimeControl
// records describe the same time control.
func (tc *TimeControl) AliasIndexKey() string {
	return encodeTuple(opt(tc.Value))
}

// IsIdentity reports whether this record is its own identity.
func (tc *TimeControl) IsIdentity() bool {
	return tc.Alias == tc.Identity
}

func (tc *TimeControl) GetAlias() int64    { return tc.Alias }
func (tc *TimeControl) SetAlias(v int64)   { tc.Alias = v }
func (tc *TimeControl) GetIdentity() int64 { return tc.Identity }
