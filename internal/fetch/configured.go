package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fetchlab/fetchlab/internal/catapi"
)

// Configured demonstrates explicit request configuration: the method,
// headers and query parameters are assembled by hand on an http.Request
// instead of being hidden behind a client wrapper.
type Configured struct {
	BaseURL string
	APIKey  string
	Method  string
	Header  http.Header
	Limit   int
	Mime    string
	Size    string

	client *http.Client
}

// NewConfigured builds the variant with sensible demo defaults.
func NewConfigured(baseURL, apiKey string) *Configured {
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("User-Agent", "fetchlab/0.1 (configured)")
	return &Configured{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Method:  http.MethodGet,
		Header:  header,
		Limit:   1,
		Mime:    "jpg,png",
		Size:    "small",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Strategy.
func (c *Configured) Name() string { return "configured request" }

// Fetch implements Strategy.
func (c *Configured) Fetch(ctx context.Context) (*Result, error) {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = catapi.DefaultBaseURL
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(c.Limit))
	if c.Mime != "" {
		values.Set("mime_types", c.Mime)
	}
	if c.Size != "" {
		values.Set("size", c.Size)
	}

	req, err := http.NewRequestWithContext(ctx, c.Method, base+"/v1/images/search?"+values.Encode(), nil)
	if err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}
	for key, vals := range c.Header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
	if key := strings.TrimSpace(c.APIKey); key != "" {
		req.Header.Set("x-api-key", key)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
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
			Err:    fmt.Errorf("images/search returned status %d", resp.StatusCode),
		}
	}

	var images []catapi.Image
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindParsing, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(images) == 0 || images[0].URL == "" {
		return nil, &catapi.Failure{Kind: catapi.KindParsing, Err: fmt.Errorf("response list carried no image url")}
	}
	return &Result{
		ImageURL:    images[0].URL,
		HTTPStatus:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		BodyBytes:   len(body),
		Elapsed:     time.Since(start),
	}, nil
}
