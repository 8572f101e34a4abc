package catapi

import (
	"errors"
	"fmt"
	"net/url"
)

// FailureKind buckets a request failure by where it happened.
type FailureKind int

const (
	// KindUnknown is the catch-all for failures that fit no other bucket.
	KindUnknown FailureKind = iota
	// KindNetwork means the request never produced a usable response
	// (DNS, refused connection, timeout).
	KindNetwork
	// KindHTTP means a response arrived with a non-2xx status.
	KindHTTP
	// KindParsing means the body could not be decoded as expected.
	KindParsing
)

// String returns the lowercase label used in transcripts.
func (k FailureKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindParsing:
		return "parsing"
	default:
		return "unknown"
	}
}

// Failure is the typed error every client and strategy operation returns.
// Err retains the raw technical cause for the details panel; UserMessage
// derives the short message shown in the main view.
type Failure struct {
	Kind   FailureKind
	Status int // HTTP status, set only for KindHTTP
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String() + " failure"
	}
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// UserMessage returns a short, non-technical message. It is always distinct
// from the raw error text.
func (f *Failure) UserMessage() string {
	switch f.Kind {
	case KindNetwork:
		return "Could not reach the image service. Check your connection."
	case KindHTTP:
		return fmt.Sprintf("The image service answered with an error (HTTP %d).", f.Status)
	case KindParsing:
		return "The image service sent a response we could not read."
	default:
		return "Something went wrong while fetching the image."
	}
}

// networkFailure wraps a transport-level error.
func networkFailure(err error) *Failure {
	return &Failure{Kind: KindNetwork, Err: err}
}

// httpFailure records a non-2xx response.
func httpFailure(status int, err error) *Failure {
	return &Failure{Kind: KindHTTP, Status: status, Err: err}
}

// parsingFailure wraps a decode error.
func parsingFailure(err error) *Failure {
	return &Failure{Kind: KindParsing, Err: err}
}

// Classify maps an arbitrary error into a Failure by inspecting it. Typed
// failures pass through unchanged; url.Error marks transport problems;
// anything else is unknown. The caller's scenario label never participates.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return networkFailure(err)
	}
	return &Failure{Kind: KindUnknown, Err: err}
}
