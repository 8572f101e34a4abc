package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"", 10, ""},
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this one is longer", 10, "this one …"},
		{"anything", 0, ""},
		{"ab", 1, "a"},
		{"  padded  ", 10, "padded"},
		{"ünïcödé rünés gälöré", 10, "ünïcödé r…"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"", 10, ""},
		{"short", 10, "short"},
		{"https://cdn.example.test/images/abc123.jpg", 21, "https://cd…abc123.jpg"},
		{"abcdef", 3, "abc"},
		{"anything", 0, ""},
	}
	for _, tc := range tests {
		if got := truncateMiddle(tc.in, tc.max); got != tc.want {
			t.Errorf("truncateMiddle(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{-5 * time.Millisecond, "0ms"},
		{7 * time.Millisecond, "7ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.00s"},
		{2350 * time.Millisecond, "2.35s"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.in); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
