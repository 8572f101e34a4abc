package demo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fetchlab/fetchlab/internal/catapi"
	"github.com/fetchlab/fetchlab/internal/fetch"
)

// stubStrategy resolves with a canned result or error, optionally holding
// the response until released.
type stubStrategy struct {
	name    string
	res     fetch.Result
	err     error
	release chan struct{}
	calls   atomic.Int64
}

func (s *stubStrategy) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubStrategy) Fetch(ctx context.Context) (*fetch.Result, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	res := s.res
	return &res, nil
}

func tinyScript() Script {
	return Script{
		Start: "run started",
		Steps: []Step{
			{After: 5 * time.Millisecond, Message: "sending request", Kind: KindInfo},
			{After: 10 * time.Millisecond, Message: "awaiting response", Kind: KindInfo},
		},
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func countKind(logs []LogEntry, kind LogKind) int {
	n := 0
	for _, entry := range logs {
		if entry.Kind == kind {
			n++
		}
	}
	return n
}

func TestController_StartWhileLoadingIsNoOp(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/a.jpg"}, release: make(chan struct{})}
	ctrl := NewController(stub, tinyScript())

	if !ctrl.Start(context.Background()) {
		t.Fatalf("first Start = false, want true")
	}
	if ctrl.Start(context.Background()) {
		t.Fatalf("second Start while loading = true, want false")
	}

	snap := ctrl.Snapshot()
	if snap.Run.Status != StatusLoading {
		t.Fatalf("Status = %v, want loading", snap.Run.Status)
	}
	starts := 0
	for _, entry := range snap.Logs {
		if entry.Message == "run started" {
			starts++
		}
	}
	if starts != 1 {
		t.Fatalf("start log appears %d times, want 1", starts)
	}

	close(stub.release)
	waitFor(t, "terminal state", func() bool {
		return ctrl.Snapshot().Run.Status == StatusSuccess
	})
	if got := stub.calls.Load(); got != 1 {
		t.Fatalf("strategy invoked %d times, want 1", got)
	}
}

func TestController_ResetClearsStateAndInvalidatesTimers(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/a.jpg"}, release: make(chan struct{})}
	script := Script{
		Start: "run started",
		Steps: []Step{{After: 30 * time.Millisecond, Message: "late narration", Kind: KindInfo}},
	}
	ctrl := NewController(stub, script)

	ctrl.Start(context.Background())
	ctrl.Reset()

	snap := ctrl.Snapshot()
	if snap.Run.Status != StatusIdle || snap.Run.Step != 0 || len(snap.Logs) != 0 {
		t.Fatalf("snapshot after reset = %+v with %d logs, want idle/0/empty", snap.Run, len(snap.Logs))
	}

	// Let the (invalidated) narration timer deadline pass, then let the
	// superseded network call resolve.
	time.Sleep(60 * time.Millisecond)
	close(stub.release)
	time.Sleep(30 * time.Millisecond)

	snap = ctrl.Snapshot()
	if snap.Run.Status != StatusIdle || snap.Run.Step != 0 || len(snap.Logs) != 0 {
		t.Fatalf("stale callbacks mutated state: %+v with %d logs", snap.Run, len(snap.Logs))
	}
	if snap.Run.Result != nil {
		t.Fatalf("superseded network result was kept: %+v", snap.Run.Result)
	}
}

func TestController_SuccessfulRun(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/a.jpg", HTTPStatus: 200}}
	ctrl := NewController(stub, tinyScript())

	ctrl.Start(context.Background())
	waitFor(t, "success", func() bool {
		return ctrl.Snapshot().Run.Status == StatusSuccess
	})

	snap := ctrl.Snapshot()
	if snap.Run.Result == nil || snap.Run.Result.ImageURL != "https://cdn.example.test/a.jpg" {
		t.Fatalf("Result = %+v, want the fetched url", snap.Run.Result)
	}
	if countKind(snap.Logs, KindSuccess) == 0 {
		t.Fatalf("no success-kind log entry in %d entries", len(snap.Logs))
	}
	if snap.Run.Step != snap.TotalSteps {
		t.Fatalf("Step = %d, want narration to finish at %d before success surfaces", snap.Run.Step, snap.TotalSteps)
	}
	if snap.Run.Failure != nil {
		t.Fatalf("Failure = %+v, want nil", snap.Run.Failure)
	}
}

func TestController_SuccessWaitsForNarrationWindow(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/a.jpg"}}
	script := Script{
		Start: "run started",
		Steps: []Step{{After: 150 * time.Millisecond, Message: "still narrating", Kind: KindInfo}},
	}
	ctrl := NewController(stub, script)

	ctrl.Start(context.Background())

	// The stub resolves instantly, but success must not surface before
	// the narration window has elapsed.
	time.Sleep(40 * time.Millisecond)
	snap := ctrl.Snapshot()
	if snap.Run.Status != StatusLoading {
		t.Fatalf("Status = %v at 40ms, want loading until narration catches up", snap.Run.Status)
	}
	if snap.Run.Result == nil {
		t.Fatalf("Result not stored while narration runs")
	}

	waitFor(t, "deferred success", func() bool {
		return ctrl.Snapshot().Run.Status == StatusSuccess
	})
}

func TestController_HTTPErrorRun(t *testing.T) {
	t.Parallel()

	rawErr := fmt.Errorf("api /v1/images/search returned status 404")
	stub := &stubStrategy{err: &catapi.Failure{Kind: catapi.KindHTTP, Status: 404, Err: rawErr}}
	ctrl := NewController(stub, tinyScript())

	ctrl.Start(context.Background())
	waitFor(t, "error", func() bool {
		return ctrl.Snapshot().Run.Status == StatusError
	})

	snap := ctrl.Snapshot()
	failure := snap.Run.Failure
	if failure == nil || failure.Kind != catapi.KindHTTP {
		t.Fatalf("Failure = %+v, want http kind", failure)
	}

	var errorLog *LogEntry
	for i := range snap.Logs {
		if snap.Logs[i].Kind == KindError {
			errorLog = &snap.Logs[i]
		}
	}
	if errorLog == nil {
		t.Fatalf("no error-kind log entry")
	}
	if want := "404"; !strings.Contains(errorLog.Message, want) {
		t.Fatalf("error log %q does not mention the status code", errorLog.Message)
	}
	if failure.UserMessage() == failure.Error() {
		t.Fatalf("user-facing message equals the raw technical message")
	}
}

func TestController_ParsingFailureIsClassifiedByInspection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"`)) // syntactically invalid
	}))
	t.Cleanup(server.Close)

	ctrl := NewController(fetch.NewStrictParse(server.URL), tinyScript())
	ctrl.Start(context.Background())
	waitFor(t, "error", func() bool {
		return ctrl.Snapshot().Run.Status == StatusError
	})

	failure := ctrl.Snapshot().Run.Failure
	if failure == nil {
		t.Fatalf("Failure is nil")
	}
	if failure.Kind != catapi.KindParsing {
		t.Fatalf("Kind = %v, want parsing (not network)", failure.Kind)
	}
}

func TestController_RerunsAreIsolated(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/first.jpg"}}
	ctrl := NewController(stub, tinyScript())

	ctrl.Start(context.Background())
	waitFor(t, "first success", func() bool {
		return ctrl.Snapshot().Run.Status == StatusSuccess
	})
	firstID := ctrl.Snapshot().Run.ID

	ctrl.Reset()

	blocking := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/second.jpg"}, release: make(chan struct{})}
	if !ctrl.SetStrategy(blocking) {
		t.Fatalf("SetStrategy refused while idle")
	}
	ctrl.Start(context.Background())

	snap := ctrl.Snapshot()
	if snap.Run.ID == firstID {
		t.Fatalf("second run reused the first run's ID")
	}
	if snap.Run.Result != nil {
		t.Fatalf("stale result %+v visible during second run's loading state", snap.Run.Result)
	}
	if countKind(snap.Logs, KindSuccess) != 0 {
		t.Fatalf("success log from the first run leaked into the second")
	}

	close(blocking.release)
	waitFor(t, "second success", func() bool {
		snap := ctrl.Snapshot()
		return snap.Run.Status == StatusSuccess && snap.Run.Result != nil &&
			snap.Run.Result.ImageURL == "https://cdn.example.test/second.jpg"
	})
}

func TestController_SetStrategyRefusedMidFlight(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/a.jpg"}, release: make(chan struct{})}
	ctrl := NewController(stub, tinyScript())

	ctrl.Start(context.Background())
	if ctrl.SetStrategy(&stubStrategy{}) {
		t.Fatalf("SetStrategy accepted mid-flight, want refusal")
	}
	close(stub.release)
	waitFor(t, "terminal state", func() bool {
		return ctrl.Snapshot().Run.Status == StatusSuccess
	})
}

func TestController_TracerLinesLandInTranscript(t *testing.T) {
	t.Parallel()

	stub := &tracingStub{stubStrategy: stubStrategy{res: fetch.Result{ImageURL: "https://cdn.example.test/a.jpg"}}}
	ctrl := NewController(stub, tinyScript())

	ctrl.Start(context.Background())
	waitFor(t, "success", func() bool {
		return ctrl.Snapshot().Run.Status == StatusSuccess
	})

	found := false
	for _, entry := range ctrl.Snapshot().Logs {
		if entry.Message == "request interceptor: GET /demo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("tracer line missing from transcript")
	}
}

type tracingStub struct {
	stubStrategy
}

func (s *tracingStub) Trace() []string {
	return []string{"request interceptor: GET /demo"}
}

