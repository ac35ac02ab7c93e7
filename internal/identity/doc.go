// Package identity allocates the monotonically increasing identity codes
// assigned to new Player, Event, TimeControl, Mode, and PlayerType
// records. Grounded on identity.py: one counter record per kind, read
// inside the caller's transaction, checked for the duplicate-counter
// condition identity.py guards against, incremented, and written back in
// place.
package identity
