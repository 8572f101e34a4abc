package catapi

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
)

// ImageSearcher defines the operations demo strategies need from the API.
// Implemented by *Client; fakes implement it in tests.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query SearchQuery) ([]Image, error)
	SearchBreeds(ctx context.Context, q string) ([]Breed, error)
}

// Ensure Client implements ImageSearcher at compile time.
var _ ImageSearcher = (*Client)(nil)

// Client talks to TheCatAPI over plain net/http.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
}

const (
	// DefaultBaseURL is the public TheCatAPI endpoint.
	DefaultBaseURL = "https://api.thecatapi.com"

	defaultUserAgent = "fetchlab/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL. An empty base URL uses
// the public endpoint; an empty apiKey omits the x-api-key header.
func NewClient(baseURL, apiKey string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: defaultUserAgent,
	}, nil
}

// SetTimeout overrides the transport timeout. Zero or negative is ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if c == nil || d <= 0 {
		return
	}
	c.http.Timeout = d
}

// BaseURL returns the normalized endpoint the client targets.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// SearchImages retrieves random cat images. The success shape is a list
// whose first element carries the image URL.
func (c *Client) SearchImages(ctx context.Context, query SearchQuery) ([]Image, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if mime := strings.TrimSpace(query.MimeTypes); mime != "" {
		values.Set("mime_types", mime)
	}
	if ids := strings.TrimSpace(query.BreedIDs); ids != "" {
		values.Set("breed_ids", ids)
	}
	if size := strings.TrimSpace(query.Size); size != "" {
		values.Set("size", size)
	}
	rel := &url.URL{Path: "/v1/images/search", RawQuery: values.Encode()}
	var payload []Image
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchBreeds looks up breeds matching q.
func (c *Client) SearchBreeds(ctx context.Context, q string) ([]Breed, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if q = strings.TrimSpace(q); q != "" {
		values.Set("q", q)
	}
	rel := &url.URL{Path: "/v1/breeds/search", RawQuery: values.Encode()}
	var payload []Breed
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetJSON fetches an arbitrary path relative to the base URL and decodes
// the body into dest. Strategies use it for scenario endpoints.
func (c *Client) GetJSON(ctx context.Context, path string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.doURL(ctx, http.MethodGet, &url.URL{Path: path}, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return &Failure{Kind: KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkFailure(fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return httpFailure(resp.StatusCode, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode))
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return parsingFailure(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
