package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fetchlab/fetchlab/internal/catapi"
)

// Tracer is implemented by strategies that record per-request side notes.
// The demo controller surfaces the trace in the transcript after a fetch.
type Tracer interface {
	Trace() []string
}

// Intercepted is the pre-configured-client variant: a resty client built
// once with request and response hooks that only log. The hooks keep a
// trace the transcript can replay, mirroring interceptor chains in
// client libraries.
type Intercepted struct {
	client *resty.Client

	mu    sync.Mutex
	trace []string
}

// NewIntercepted builds the memoized client with its logging hooks wired.
func NewIntercepted(baseURL, apiKey string) *Intercepted {
	it := &Intercepted{}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "fetchlab/0.1 (intercepted)")
	if apiKey != "" {
		client.SetHeader("x-api-key", apiKey)
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		it.record(fmt.Sprintf("request interceptor: %s %s", req.Method, req.URL))
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		it.record(fmt.Sprintf("response interceptor: %d in %s", resp.StatusCode(), resp.Time().Round(time.Millisecond)))
		return nil
	})

	it.client = client
	return it
}

// Name implements Strategy.
func (it *Intercepted) Name() string { return "client with interceptors" }

// Fetch implements Strategy.
func (it *Intercepted) Fetch(ctx context.Context) (*Result, error) {
	it.mu.Lock()
	it.trace = nil
	it.mu.Unlock()

	resp, err := it.client.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get("/v1/images/search")
	if err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindNetwork, Err: fmt.Errorf("execute request: %w", err)}
	}
	if !resp.IsSuccess() {
		return nil, &catapi.Failure{
			Kind:   catapi.KindHTTP,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("images/search returned status %d", resp.StatusCode()),
		}
	}

	var images []catapi.Image
	if err := json.Unmarshal(resp.Body(), &images); err != nil {
		return nil, &catapi.Failure{Kind: catapi.KindParsing, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(images) == 0 || images[0].URL == "" {
		return nil, &catapi.Failure{Kind: catapi.KindParsing, Err: fmt.Errorf("response list carried no image url")}
	}
	return &Result{
		ImageURL:    images[0].URL,
		HTTPStatus:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		BodyBytes:   len(resp.Body()),
		Elapsed:     resp.Time(),
	}, nil
}

// Trace implements Tracer.
func (it *Intercepted) Trace() []string {
	it.mu.Lock()
	defer it.mu.Unlock()
	out := make([]string, len(it.trace))
	copy(out, it.trace)
	return out
}

func (it *Intercepted) record(line string) {
	it.mu.Lock()
	it.trace = append(it.trace, line)
	it.mu.Unlock()
}
