package storeerr

import "errors"

var (
	// ErrNoIdentity is returned by the identity allocator when a kind has
	// no counter record (EnsureKind was never run for it) or the record
	// found holds another kind's counter (mirrors identity.py's
	// NoPlayerIdentity, NoEventIdentity, NoTimeIdentity, and NoModeIdentity
	// exceptions, collapsed into one sentinel since the allocator is now
	// generic over kind).
	ErrNoIdentity = errors.New("storeerr: no identity counter record for this kind")

	// ErrDuplicateIdentity is returned by the identity allocator when more
	// than one counter record exists for the same kind, so the next value
	// cannot be taken from a single counter.
	ErrDuplicateIdentity = errors.New("storeerr: more than one identity counter record for this kind")

	// ErrRecordNotFound is returned when an operation names a primary key
	// that does not exist in the relevant file.
	ErrRecordNotFound = errors.New("storeerr: record not found")

	// ErrNotAnAlias is returned when an operation that requires an alias
	// record (one whose identity field points at a different record) is
	// given a record that is already its own identity, or vice versa.
	ErrNotAnAlias = errors.New("storeerr: record is not an alias")

	// ErrAlreadyIdentity describes a record that is already its own
	// identity where an alias candidate was expected. No chessperf
	// operation returns it: Identify folds identity records and aliases
	// alike.
	ErrAlreadyIdentity = errors.New("storeerr: record is already an identity, not an alias candidate")

	// ErrBookmarked is returned when Identify tries to merge a record the
	// user has pinned (bookmarked), mirroring
	// identify_person.py's refusal to silently fold bookmarked players
	// into another identity.
	ErrBookmarked = errors.New("storeerr: record is bookmarked and cannot be merged automatically")

	// ErrEmptySelection is returned when Identify or Break is given an
	// empty set of alias references to act on.
	ErrEmptySelection = errors.New("storeerr: selection is empty")

	// ErrCrossKindMerge describes an alias operation between records that
	// do not belong together, such as records of different entity kinds.
	// Its one use is Break, which returns it when a named alias belongs to
	// a different identity than the one being broken.
	ErrCrossKindMerge = errors.New("storeerr: cannot merge records of different kinds")

	// ErrImportNotSeekable describes a PGN source that cannot be re-read
	// after an encoding-detection pass. The importer does not return it:
	// it reads each file whole into memory before decoding.
	ErrImportNotSeekable = errors.New("storeerr: import source does not support re-reading")

	// ErrMalformedGameTags describes a game whose PGN tag section lacks a
	// required tag. The importer does not return it: a game with a
	// missing or unrecognised Result tag is counted as a bad result and
	// skipped.
	ErrMalformedGameTags = errors.New("storeerr: game is missing a required tag")

	// ErrNonConvergent describes a population whose opponent graph has no
	// 3-cycle, so iteration is not known to settle. No chessperf function
	// returns it: population.Build reports this case through
	// Population.Convergent.
	ErrNonConvergent = errors.New("storeerr: population's opponent graph cannot converge")

	// ErrIterationCapExceeded describes a calculation that used its maximum
	// iteration count without reaching the stability tolerance. No
	// chessperf function returns it: calc.Run reports this case through
	// its converged result.
	ErrIterationCapExceeded = errors.New("storeerr: iteration cap exceeded before reaching stability")

	// ErrInvalidExportFormat is returned by the identity import reader when
	// the input does not match the documented list-of-record shape.
	ErrInvalidExportFormat = errors.New("storeerr: malformed identity export data")

	// ErrInvalidRule is returned when a selector rule does not name
	// exactly one of {player identity, event list} or has only one of its
	// from/to dates set.
	ErrInvalidRule = errors.New("storeerr: selector rule is malformed")
)
