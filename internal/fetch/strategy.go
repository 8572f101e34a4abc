package fetch

import (
	"context"
	"time"
)

// Result is what every strategy resolves with on success.
type Result struct {
	ImageURL    string
	HTTPStatus  int
	ContentType string
	BodyBytes   int
	Elapsed     time.Duration
	FromCache   bool
}

// Strategy performs one HTTP fetch against a fixed endpoint. Implementations
// resolve with a parsed Result or reject with a typed catapi failure; the
// demo controller is agnostic to which variant is plugged in.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context) (*Result, error)
}
