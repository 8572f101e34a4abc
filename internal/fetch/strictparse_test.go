package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fetchlab/fetchlab/internal/catapi"
)

func TestStrictParse_ValidListSucceeds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"abc","url":"https://cdn.example.test/abc.jpg","width":640,"height":480}]`))
	}))
	t.Cleanup(server.Close)

	res, err := NewStrictParse(server.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.ImageURL != "https://cdn.example.test/abc.jpg" {
		t.Fatalf("ImageURL = %q", res.ImageURL)
	}
	if res.ContentType != "application/json" {
		t.Fatalf("ContentType = %q, want application/json", res.ContentType)
	}
}

func TestStrictParse_InvalidJSONIsParsingFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Truncated payload: syntactically invalid JSON.
		_, _ = w.Write([]byte(`[{"id":"abc","url":`))
	}))
	t.Cleanup(server.Close)

	_, err := NewStrictParse(server.URL).Fetch(context.Background())
	var failure *catapi.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error %T is not *catapi.Failure", err)
	}
	if failure.Kind != catapi.KindParsing {
		t.Fatalf("Kind = %v, want parsing (not network)", failure.Kind)
	}
}

func TestStrictParse_BinaryBodyIsParsingFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
	}))
	t.Cleanup(server.Close)

	_, err := NewStrictParse(server.URL).Fetch(context.Background())
	failure := catapi.Classify(err)
	if failure == nil || failure.Kind != catapi.KindParsing {
		t.Fatalf("classified failure = %#v, want parsing", failure)
	}
}

func TestStrictParse_NotFoundIsHTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	_, err := NewStrictParse(server.URL + "/missing").Fetch(context.Background())
	var failure *catapi.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error %T is not *catapi.Failure", err)
	}
	if failure.Kind != catapi.KindHTTP || failure.Status != http.StatusNotFound {
		t.Fatalf("failure = %#v, want http 404", failure)
	}
}
