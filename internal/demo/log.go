package demo

import "time"

// LogKind tags a transcript entry.
type LogKind int

const (
	KindInfo LogKind = iota
	KindSuccess
	KindWarning
	KindError
)

// String returns the lowercase label rendered in the transcript gutter.
func (k LogKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// LogEntry is one transcript line. Entries belong to exactly one run and
// are cleared with it; ordering is insertion order.
type LogEntry struct {
	Message string
	Kind    LogKind
	At      time.Time
}

// transcriptCap bounds the per-run transcript. Narration plus interceptor
// traces stay well under this; the cap only guards against a runaway
// strategy trace.
const transcriptCap = 200
