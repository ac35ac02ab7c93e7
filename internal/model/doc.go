// Package model defines the record shapes chessperf stores: games, the
// four identifiable entity kinds derived from game headers (players,
// events, time controls, playing modes), and the optional player-type
// classification. Grounded on performancerecord.py's *DBvalue classes:
// each Go struct corresponds to one Python ValueList subclass, and each
// method deriving an index term corresponds to that class's alias_index_key
// or pack_detail method.
package model
