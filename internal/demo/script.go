package demo

import "time"

// Step is one narration milestone: after the given offset from run start,
// the step counter advances and the message lands in the transcript. The
// offsets are presentation pacing, not protocol timing.
type Step struct {
	After   time.Duration
	Message string
	Kind    LogKind
}

// Script is the fixed narration sequence a page attaches to its controller.
type Script struct {
	Start string // logged immediately when the run begins
	Steps []Step
}

// Duration returns the offset of the last step, i.e. how long the
// narration takes to visually catch up with the real call.
func (s Script) Duration() time.Duration {
	var max time.Duration
	for _, step := range s.Steps {
		if step.After > max {
			max = step.After
		}
	}
	return max
}

// Scaled returns a copy with every offset multiplied by pace. Pace values
// at or below zero leave the script unchanged.
func (s Script) Scaled(pace float64) Script {
	if pace <= 0 || pace == 1 {
		return s
	}
	out := Script{Start: s.Start, Steps: make([]Step, len(s.Steps))}
	for i, step := range s.Steps {
		step.After = time.Duration(float64(step.After) * pace)
		out.Steps[i] = step
	}
	return out
}

// StandardScript narrates the conceptual phases of a request using the
// given subject ("the request", "the cached query", ...).
func StandardScript(subject string) Script {
	return Script{
		Start: "run started: sending " + subject,
		Steps: []Step{
			{After: 400 * time.Millisecond, Message: "request serialized and handed to the transport", Kind: KindInfo},
			{After: 900 * time.Millisecond, Message: "awaiting response from the server", Kind: KindInfo},
			{After: 1400 * time.Millisecond, Message: "parsing response body", Kind: KindInfo},
			{After: 1800 * time.Millisecond, Message: "updating the view with the result", Kind: KindInfo},
		},
	}
}
