// Package pgn implements a minimal PGN tag-pair scanner: it recognises tag
// pairs ("[Name \"Value\"]") and the blank line separating a game's tag
// section from its movetext, but never parses the movetext itself. This
// mirrors the assumption the distilled specification states explicitly:
// only game headers are needed for selection and performance calculation,
// never the moves. Grounded in spirit on performancerecord.py's use of
// pgn_read's tagpair_parser, reimplemented here against the standard
// library rather than vendoring an external PGN parser for a concern this
// narrow.
package pgn
