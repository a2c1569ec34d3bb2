package logging

import "sync"

type Entry struct {
	Level  string
	Logger string
	Msg    string
	Args   []any
}

// Field returns the value logged under key.
func (e Entry) Field(key string) (any, bool) {
	for i := 0; i+1 < len(e.Args); i += 2 {
		if k, ok := e.Args[i].(string); ok && k == key {
			return e.Args[i+1], true
		}
	}
	return nil, false
}

// Recorder keeps every entry in memory. Child loggers share the parent's
// entries.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	name    string
}

func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) Debug(msg string, args ...any) { r.add("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.add("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.add("error", msg, args) }

func (r *Recorder) Named(name string) Logger {
	if r.name != "" {
		name = r.name + "." + name
	}
	return &Recorder{mu: r.mu, entries: r.entries, name: name}
}

func (r *Recorder) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Logger: r.name, Msg: msg, Args: append([]any(nil), args...)})
}

// Entries returns a copy of the entries logged at level, or all entries
// when level is empty.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range *r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
