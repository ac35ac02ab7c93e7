// Package logging provides centralized zerolog-based structured logging
// for chessperf.
//
// The importer, selector, population builder and performance calculator
// all run as long, single-threaded batch passes over a Store handle; this
// package gives them one consistent JSON (or console, for interactive use)
// logging surface instead of each reaching for the standard log package.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("file", path).Msg("importing PGN file")
//	logging.Error().Err(err).Msg("segment commit failed")
//
// # Configuration
//
// The package reads no environment variables itself; Init takes a Config.
// chessperf fills that Config from its layered configuration (package
// config), where these environment variables override the defaults:
//
//	CHESSPERF_LOGGING_LEVEL   - trace, debug, info, warn, error (default: info)
//	CHESSPERF_LOGGING_FORMAT  - json, console (default: json)
//	CHESSPERF_LOGGING_CALLER  - true, false (default: false)
//
// # Best Practices
//
// Always terminate a log chain with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // correct
//	logging.Info().Str("key", "value")                 // wrong - never emitted
package logging
