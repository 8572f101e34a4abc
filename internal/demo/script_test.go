package demo

import (
	"testing"
	"time"
)

func TestScriptDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script Script
		want   time.Duration
	}{
		{"empty", Script{}, 0},
		{
			"single step",
			Script{Steps: []Step{{After: 250 * time.Millisecond}}},
			250 * time.Millisecond,
		},
		{
			"unordered offsets",
			Script{Steps: []Step{
				{After: 900 * time.Millisecond},
				{After: 400 * time.Millisecond},
				{After: 1400 * time.Millisecond},
			}},
			1400 * time.Millisecond,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.script.Duration(); got != tc.want {
				t.Fatalf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScriptScaled(t *testing.T) {
	t.Parallel()

	base := Script{
		Start: "run started",
		Steps: []Step{
			{After: 100 * time.Millisecond, Message: "a"},
			{After: 200 * time.Millisecond, Message: "b"},
		},
	}

	half := base.Scaled(0.5)
	if got := half.Steps[0].After; got != 50*time.Millisecond {
		t.Fatalf("scaled first offset = %v, want 50ms", got)
	}
	if got := half.Steps[1].After; got != 100*time.Millisecond {
		t.Fatalf("scaled second offset = %v, want 100ms", got)
	}
	if half.Start != base.Start {
		t.Fatalf("Scaled dropped the start message")
	}
	// The original is untouched.
	if base.Steps[0].After != 100*time.Millisecond {
		t.Fatalf("Scaled mutated the receiver")
	}

	if got := base.Scaled(0); got.Steps[0].After != 100*time.Millisecond {
		t.Fatalf("Scaled(0) changed offsets, want passthrough")
	}
	if got := base.Scaled(-2); got.Steps[1].After != 200*time.Millisecond {
		t.Fatalf("Scaled(-2) changed offsets, want passthrough")
	}
}

func TestStandardScript(t *testing.T) {
	t.Parallel()

	script := StandardScript("the request")
	if script.Start == "" {
		t.Fatalf("standard script has no start message")
	}
	if len(script.Steps) == 0 {
		t.Fatalf("standard script has no steps")
	}
	var prev time.Duration
	for i, step := range script.Steps {
		if step.After <= prev {
			t.Fatalf("step %d offset %v not strictly increasing after %v", i, step.After, prev)
		}
		if step.Message == "" {
			t.Fatalf("step %d has an empty message", i)
		}
		prev = step.After
	}
}
