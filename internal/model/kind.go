package model

// Kind identifies one of the five entity types carried as PGN tag values
// that the alias/identity machinery treats identically: a record of any
// Kind can be a name-record (its own identity) or an alias of another
// record of the same Kind, merge and split operate the same way regardless
// of which.
type Kind string

const (
	KindPlayer      Kind = "player"
	KindEvent       Kind = "event"
	KindTimeControl Kind = "timecontrol"
	KindMode        Kind = "mode"
	KindPlayerType  Kind = "playertype"
)

// AllIdentityKinds lists every kind the identity allocator tracks a counter
// for, including PlayerType: the original program gives it its own
// identity/alias pair the same as the other four. PlayerType is still
// never consulted by the selector, population builder, or performance
// calculator, which is the sense in which it is optional.
var AllIdentityKinds = []Kind{KindPlayer, KindEvent, KindTimeControl, KindMode, KindPlayerType}
