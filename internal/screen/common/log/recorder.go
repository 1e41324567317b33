package log

import "sync"

// Entry is a single message captured by a Recorder.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]any
}

// Recorder is a Logger that keeps every entry in memory. Tests in other
// packages use it to assert on logged failures.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) record(level string, fields map[string]any, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: fields})
}

func (r *Recorder) Info(fields map[string]any, msg string)  { r.record("info", fields, msg) }
func (r *Recorder) Error(fields map[string]any, msg string) { r.record("error", fields, msg) }
func (r *Recorder) Debug(fields map[string]any, msg string) { r.record("debug", fields, msg) }
func (r *Recorder) Warn(fields map[string]any, msg string)  { r.record("warn", fields, msg) }
func (r *Recorder) Panic(fields map[string]any, msg string) { r.record("panic", fields, msg) }
func (r *Recorder) Fatal(fields map[string]any, msg string) { r.record("fatal", fields, msg) }

// Entries returns a copy of the captured entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Has reports whether an entry with the given level and message was captured.
func (r *Recorder) Has(level, msg string) bool {
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}

var _ Logger = (*Recorder)(nil)
