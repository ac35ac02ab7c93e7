// Package pgnimport walks a directory tree of *.pgn files and loads game
// headers into the store, then derives Player, Event, TimeControl, and
// Mode records from the games that were added. Grounded on
// performancerecord.py's GameDBImporter/PlayerDBImporter/EventDBImporter/
// TimeControlDBImporter/ModeDBImporter classes and the teacher's
// internal/import/importer.go for the segment-commit/progress-reporter
// shape, generalised from a single entity kind to chessperf's four (plus
// the optional player-type classification).
package pgnimport
