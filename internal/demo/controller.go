package demo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fetchlab/fetchlab/internal/catapi"
	"github.com/fetchlab/fetchlab/internal/fetch"
)

// Status tracks where a run is in its lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the lowercase label shown in the UI.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Run is one execution of a demo: created on Start, mutated by narration
// steps and by the network resolution, discarded on Reset.
type Run struct {
	ID        string
	Status    Status
	Step      int
	StartedAt time.Time
	Result    *fetch.Result
	Failure   *catapi.Failure
}

// Snapshot is a race-free copy of the controller state for rendering.
type Snapshot struct {
	Run        Run
	Logs       []LogEntry
	TotalSteps int
	Strategy   string
}

// Controller coordinates a single demo run: the real fetch runs
// concurrently with a fixed-duration cosmetic narration so a viewer can
// follow what is conceptually happening during the call's latency.
//
// Pending timers are keyed to a generation counter; Reset and Start bump
// the generation, so a callback from a superseded run can never mutate
// state belonging to a later one. The in-flight HTTP request itself is not
// aborted; its late resolution is discarded by the same check.
type Controller struct {
	mu       sync.Mutex
	strategy fetch.Strategy
	script   Script

	gen    uint64
	timers []*time.Timer

	run  Run
	logs []LogEntry
}

const surfaceGrace = 50 * time.Millisecond

// NewController builds a controller around the given variant and narration.
func NewController(strategy fetch.Strategy, script Script) *Controller {
	return &Controller{strategy: strategy, script: script}
}

// Start begins a new run. It reports false without side effects while a
// run is already loading; the UI additionally renders the trigger as
// disabled, but the guard lives here.
func (c *Controller) Start(ctx context.Context) bool {
	c.mu.Lock()
	if c.run.Status == StatusLoading {
		c.mu.Unlock()
		return false
	}
	c.invalidateLocked()
	gen := c.gen
	strat := c.strategy

	now := time.Now()
	c.run = Run{ID: uuid.NewString(), Status: StatusLoading, StartedAt: now}
	c.logs = nil
	start := c.script.Start
	if start == "" {
		start = "run started: " + strat.Name()
	}
	c.appendLocked(KindInfo, start)

	for i, step := range c.script.Steps {
		i, step := i, step
		t := time.AfterFunc(step.After, func() {
			c.advance(gen, i+1, step)
		})
		c.timers = append(c.timers, t)
	}
	// Small grace so the final narration step lands before the flip to
	// success when both timers share a deadline.
	surfaceAt := now.Add(c.script.Duration() + surfaceGrace)
	c.mu.Unlock()

	go c.doFetch(ctx, gen, strat, surfaceAt)
	return true
}

// Reset returns the controller to idle from any state: step back to zero,
// result and failure cleared, transcript emptied, all pending narration
// timers invalidated.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.run = Run{}
	c.logs = nil
}

// SetStrategy swaps the network variant (scenario pickers use this). It is
// refused mid-flight so a run keeps the variant it started with.
func (c *Controller) SetStrategy(s fetch.Strategy) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run.Status == StatusLoading {
		return false
	}
	c.strategy = s
	return true
}

// Snapshot returns a copy of the current run, transcript, and script
// length. Read-only; safe from any goroutine.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	logs := make([]LogEntry, len(c.logs))
	copy(logs, c.logs)
	return Snapshot{
		Run:        c.run,
		Logs:       logs,
		TotalSteps: len(c.script.Steps),
		Strategy:   c.strategy.Name(),
	}
}

// doFetch runs the real network call and folds its resolution back into
// the run, unless the run was superseded while it was in flight.
func (c *Controller) doFetch(ctx context.Context, gen uint64, strat fetch.Strategy, surfaceAt time.Time) {
	res, err := strat.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Superseded by a Reset or a newer run; drop the resolution.
		return
	}

	if tracer, ok := strat.(fetch.Tracer); ok {
		for _, line := range tracer.Trace() {
			c.appendLocked(KindInfo, line)
		}
	}

	if err != nil {
		failure := catapi.Classify(err)
		c.run.Status = StatusError
		c.run.Failure = failure
		c.appendLocked(KindError, failure.UserMessage())
		return
	}

	c.run.Result = res
	if res.FromCache {
		c.appendLocked(KindSuccess, "image served from cache: "+res.ImageURL)
	} else {
		c.appendLocked(KindSuccess, "image received: "+res.ImageURL)
	}

	// The result is surfaced only once the narration has visually caught
	// up, so the final step never lands after the success banner.
	wait := time.Until(surfaceAt)
	if wait <= 0 {
		c.run.Status = StatusSuccess
		return
	}
	t := time.AfterFunc(wait, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen || c.run.Status != StatusLoading {
			return
		}
		c.run.Status = StatusSuccess
	})
	c.timers = append(c.timers, t)
}

// advance is the narration timer callback for one step.
func (c *Controller) advance(gen uint64, step int, s Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.run.Status != StatusLoading {
		return
	}
	if step > c.run.Step {
		c.run.Step = step
	}
	c.appendLocked(s.Kind, s.Message)
}

func (c *Controller) appendLocked(kind LogKind, message string) {
	if len(c.logs) >= transcriptCap {
		c.logs = c.logs[1:]
	}
	c.logs = append(c.logs, LogEntry{Message: message, Kind: kind, At: time.Now()})
}

// invalidateLocked bumps the generation and stops every pending timer.
func (c *Controller) invalidateLocked() {
	c.gen++
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}
