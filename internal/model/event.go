package model

// EventFile is the store file name events are kept under.
const EventFile = "event"

const (
	EventIndexAlias    = "eventalias"
	EventIndexIdentity = "eventidentity"

	// EventIndexUniqueIdentity is keyed by a record's own identity code and
	// holds exactly one member: the record currently canonical for that
	// code. Lets the selector resolve an event identity straight to its
	// canonical natural key.
	EventIndexUniqueIdentity = "eventuniqueidentity"
)

// Event is one event-and-context combination, identified the same way a
// Player is, with the same alias/identity pair semantics.
type Event struct {
	Name      string `json:"event"`
	EventDate string `json:"event_date"`
	Section   string `json:"section"`
	Stage     string `json:"stage"`
	Alias     int64  `json:"alias"`
	Identity  int64  `json:"identity"`
}

// AliasIndexKey returns the term used to detect that two Event records
// describe the same event.
func (e *Event) AliasIndexKey() string {
	return encodeTuple(opt(e.Name), opt(e.EventDate), opt(e.Section), opt(e.Stage))
}

// IsIdentity reports whether this record is its own identity.
func (e *Event) IsIdentity() bool {
	return e.Alias == e.Identity
}

func (e *Event) GetAlias() int64    { return e.Alias }
func (e *Event) SetAlias(v int64)   { e.Alias = v }
func (e *Event) GetIdentity() int64 { return e.Identity }
