package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fetchlab/fetchlab/internal/catapi"
)

// StrictParse fetches an arbitrary URL and insists the body decodes as the
// image-list shape. Pointing it at a JPEG (or any non-JSON payload) is how
// the parsing demo manufactures a decode failure against a real response.
type StrictParse struct {
	URL string

	client *http.Client
}

// NewStrictParse targets the given absolute URL.
func NewStrictParse(target string) *StrictParse {
	return &StrictParse{
		URL:    target,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Strategy.
func (s *StrictParse) Name() string { return "strict parse" }

// Fetch implements Strategy.
func (s *StrictParse) Fetch(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindNetwork, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &catapi.Failure{
			Kind:   catapi.KindHTTP,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s returned status %d", s.URL, resp.StatusCode),
		}
	}

	var images []struct {
		ID     string `json:"id"`
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindParsing, Err: fmt.Errorf("decode body as image list: %w", err)}
	}
	if len(images) == 0 || images[0].URL == "" {
		return nil, &catapi.Failure{Kind: catapi.KindParsing, Err: fmt.Errorf("decoded list carried no image url")}
	}
	return &Result{
		ImageURL:    images[0].URL,
		HTTPStatus:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		BodyBytes:   len(body),
		Elapsed:     time.Since(start),
	}, nil
}
