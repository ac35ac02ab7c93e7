package pgnimport

// Reporter receives human-readable progress lines during an import,
// mirroring the append_text/append_text_only calls scattered through
// performancerecord.py's importer methods: AppendText starts a new
// reported line, AppendTextOnly appends a line with no separating blank
// line before it.
type Reporter interface {
	AppendText(line string)
	AppendTextOnly(line string)
}

// NopReporter discards every line. Useful when a caller only wants the
// returned Stats.
type NopReporter struct{}

func (NopReporter) AppendText(string)     {}
func (NopReporter) AppendTextOnly(string) {}

// LogReporter forwards progress lines to the application's structured
// logger at info level, for non-interactive (cron, CI) imports.
type LogReporter struct {
	log logFunc
}

type logFunc func(msg string)

// NewLogReporter returns a Reporter that calls log for every line.
func NewLogReporter(log func(msg string)) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) AppendText(line string) {
	if r.log != nil {
		r.log(line)
	}
}

func (r *LogReporter) AppendTextOnly(line string) {
	if r.log != nil {
		r.log(line)
	}
}
