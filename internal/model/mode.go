package model

// ModeFile is the store file name playing modes are kept under.
const ModeFile = "mode"

const (
	ModeIndexAlias    = "modealias"
	ModeIndexIdentity = "modeidentity"

	// ModeIndexUniqueIdentity is keyed by a record's own identity code and
	// holds exactly one member: the record currently canonical for that
	// code.
	ModeIndexUniqueIdentity = "modeuniqueidentity"
)

// Mode is one distinct Mode tag value seen in imported games ("OTB",
// "ICS", "correspondence", and so on), with the same alias/identity pair
// semantics as Player.
type Mode struct {
	Value    string `json:"mode"`
	Alias    int64  `json:"alias"`
	Identity int64  `json:"identity"`
}

// AliasIndexKey returns the term used to detect that two Mode records
// describe the same playing mode.
func (m *Mode) AliasIndexKey() string {
	return encodeTuple(opt(m.Value))
}

// IsIdentity reports whether this record is its own identity.
func (m *Mode) IsIdentity() bool {
	return m.Alias == m.Identity
}

func (m *Mode) GetAlias() int64    { return m.Alias }
func (m *Mode) SetAlias(v int64)   { m.Alias = v }
func (m *Mode) GetIdentity() int64 { return m.Identity }
