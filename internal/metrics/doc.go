// Package metrics exposes Prometheus instrumentation for the importer,
// selector, population builder, and performance calculator, following the
// teacher application's promauto-based registration style.
//
// Metrics are registered with the default Prometheus registry at package
// init and are safe for concurrent use. No chessperf command serves them
// over HTTP.
package metrics
