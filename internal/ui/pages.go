package ui

import (
	"github.com/fetchlab/fetchlab/internal/catapi"
	"github.com/fetchlab/fetchlab/internal/config"
	"github.com/fetchlab/fetchlab/internal/demo"
	"github.com/fetchlab/fetchlab/internal/fetch"
)

// parseTargetURL serves a real image body, which is exactly what the
// parsing demos need to manufacture a decode failure.
const parseTargetURL = "https://cataas.com/cat"

// Scenario is one selectable variant on a page, e.g. the error page's
// four failure shapes. The name is a display label only; failure
// classification always comes from the error itself.
type Scenario struct {
	Name     string
	Strategy fetch.Strategy
}

// Page is one self-contained topic demo: a blurb, a code snippet, a
// narration script, and a lifecycle controller wired to the scenario's
// strategy. Each page owns its controller; nothing is shared across tabs.
type Page struct {
	Slug      string
	Title     string
	Tab       string
	Blurb     string
	Snippet   string
	Scenarios []Scenario

	scenario int
	ctrl     *demo.Controller
}

// Controller exposes the page's lifecycle controller.
func (p *Page) Controller() *demo.Controller { return p.ctrl }

// ScenarioName returns the active scenario label.
func (p *Page) ScenarioName() string {
	if len(p.Scenarios) == 0 {
		return ""
	}
	return p.Scenarios[p.scenario].Name
}

// HasScenarios reports whether the page offers a scenario picker.
func (p *Page) HasScenarios() bool { return len(p.Scenarios) > 1 }

// CycleScenario advances to the next scenario. Refused mid-flight.
func (p *Page) CycleScenario() bool {
	if len(p.Scenarios) < 2 {
		return false
	}
	next := (p.scenario + 1) % len(p.Scenarios)
	if !p.ctrl.SetStrategy(p.Scenarios[next].Strategy) {
		return false
	}
	p.scenario = next
	return true
}

// Refetcher reports the page's cache, when it has one.
func (p *Page) Refetcher() *fetch.CachedQuery {
	for _, sc := range p.Scenarios {
		if q, ok := sc.Strategy.(*fetch.CachedQuery); ok {
			return q
		}
	}
	return nil
}

// NewPages builds the topic catalog. Strategies that memoize state (the
// interceptor client, the query cache) are created once here and live for
// the page's lifetime.
func NewPages(client *catapi.Client, cfg config.Config) []*Page {
	base := client.BaseURL()
	pace := cfg.NarrationPace

	pages := []*Page{
		{
			Slug:  "basics",
			Title: "GET Basics",
			Tab:   "Basics",
			Blurb: "The simplest possible fetch: one GET against the image search " +
				"endpoint, decode the JSON list, take the first element's url. " +
				"Everything else in fetchlab is a variation on this call.",
			Snippet: "images, err := client.SearchImages(ctx,\n" +
				"    catapi.SearchQuery{Limit: 1})\n" +
				"if err != nil {\n" +
				"    return err\n" +
				"}\n" +
				"show(images[0].URL)",
			Scenarios: []Scenario{
				{Name: "random image", Strategy: fetch.NewPlain(client)},
			},
		},
		{
			Slug:  "request",
			Title: "Request Configuration",
			Tab:   "Request",
			Blurb: "The same call with every knob turned by hand: method, Accept " +
				"and User-Agent headers, the x-api-key header, and query " +
				"parameters assembled with url.Values. Nothing is hidden " +
				"behind a client wrapper.",
			Snippet: "values := url.Values{}\n" +
				"values.Set(\"limit\", \"1\")\n" +
				"values.Set(\"mime_types\", \"jpg,png\")\n" +
				"req, _ := http.NewRequestWithContext(ctx,\n" +
				"    http.MethodGet, base+path+\"?\"+values.Encode(), nil)\n" +
				"req.Header.Set(\"x-api-key\", key)",
			Scenarios: []Scenario{
				{Name: "configured GET", Strategy: fetch.NewConfigured(base, cfg.APIKey)},
			},
		},
		{
			Slug:  "client",
			Title: "Client & Interceptors",
			Tab:   "Client",
			Blurb: "A pre-configured client built once and reused, with request " +
				"and response hooks that only log. The hooks' trace lands in " +
				"the transcript after the call resolves, showing the " +
				"interceptor chain around a single request.",
			Snippet: "client := resty.New().SetBaseURL(base)\n" +
				"client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {\n" +
				"    trace(\"request interceptor: \" + r.URL)\n" +
				"    return nil\n" +
				"})\n" +
				"resp, err := client.R().Get(\"/v1/images/search\")",
			Scenarios: []Scenario{
				{Name: "intercepted GET", Strategy: fetch.NewIntercepted(base, cfg.APIKey)},
			},
		},
		{
			Slug:  "query",
			Title: "Cached Queries",
			Tab:   "Cache",
			Blurb: "A cache in front of the fetch: the first run goes to the " +
				"network, later runs resolve instantly from the cache, and a " +
				"forced refetch (key f) goes back to the network. " +
				"Stale-while-revalidate would serve the cached value and " +
				"refresh in the background; here the demo keeps the two paths " +
				"explicit instead.",
			Snippet: "if cached, ok := cache.Get(key); ok && !refetch {\n" +
				"    return cached // no network\n" +
				"}\n" +
				"res, err := inner.Fetch(ctx)\n" +
				"cache.Put(key, res)\n" +
				"return res",
			Scenarios: []Scenario{
				{Name: "cached image", Strategy: fetch.NewCachedQuery(fetch.NewPlain(client))},
			},
		},
		{
			Slug:  "parsing",
			Title: "Response Parsing",
			Tab:   "Parsing",
			Blurb: "A response body is just bytes until it survives decoding. " +
				"The valid scenario decodes the image list; the raw-image " +
				"scenario points the same decoder at an actual JPEG and shows " +
				"the parse failure a wrong Content-Type assumption produces.",
			Snippet: "body, _ := io.ReadAll(resp.Body)\n" +
				"var images []Image\n" +
				"if err := json.Unmarshal(body, &images); err != nil {\n" +
				"    // parsing failure: body was not the shape we assumed\n" +
				"    return err\n" +
				"}",
			Scenarios: []Scenario{
				{Name: "valid JSON", Strategy: fetch.NewStrictParse(base + "/v1/images/search")},
				{Name: "raw image body", Strategy: fetch.NewStrictParse(parseTargetURL)},
			},
		},
		{
			Slug:  "errors",
			Title: "Error Handling",
			Tab:   "Errors",
			Blurb: "Four ways the same fetch dies: the transport never connects, " +
				"the server answers with a non-2xx status, the body fails to " +
				"decode, or something else entirely. Each failure is " +
				"classified by inspecting the error, shown as a short message " +
				"with the raw cause kept for the details panel.",
			Snippet: "res, err := strategy.Fetch(ctx)\n" +
				"if err != nil {\n" +
				"    f := catapi.Classify(err)\n" +
				"    log(f.Kind, f.UserMessage()) // raw cause kept aside\n" +
				"    return\n" +
				"}",
			Scenarios: []Scenario{
				{Name: "success", Strategy: fetch.NewPlain(client)},
				{Name: "network failure", Strategy: newUnreachablePlain(cfg.APIKey)},
				{Name: "HTTP 404", Strategy: fetch.NewStrictParse(base + "/v1/no-such-endpoint")},
				{Name: "parse failure", Strategy: fetch.NewStrictParse(parseTargetURL)},
			},
		},
	}

	for _, p := range pages {
		p.ctrl = demo.NewController(p.Scenarios[0].Strategy, demo.StandardScript(p.subject()).Scaled(pace))
	}
	return pages
}

func (p *Page) subject() string {
	switch p.Slug {
	case "query":
		return "the cached query"
	case "client":
		return "the intercepted request"
	default:
		return "the request"
	}
}

// newUnreachablePlain points the plain variant at a host that cannot
// resolve, producing a genuine transport failure.
func newUnreachablePlain(apiKey string) fetch.Strategy {
	client, err := catapi.NewClient("https://unreachable.fetchlab.invalid", apiKey)
	if err != nil {
		panic(err)
	}
	return fetch.NewPlain(client)
}
