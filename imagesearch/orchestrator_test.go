package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imagescraper/imagesearch/types"
)

// stubProvider скриптованный дублер провайдера: отдает заранее заданную
// последовательность исходов и записывает параметры вызовов
type stubProvider struct {
	responses []stubResponse
	calls     []map[string]interface{}
	callTimes []time.Time
}

type stubResponse struct {
	results []types.RawResult
	err     error
}

func (s *stubProvider) Images(ctx context.Context, params map[string]interface{}) ([]types.RawResult, error) {
	s.calls = append(s.calls, params)
	s.callTimes = append(s.callTimes, time.Now())
	if len(s.responses) == 0 {
		return nil, errors.New("stub exhausted")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp.results, resp.err
}

func (s *stubProvider) GetName() string             { return "stub" }
func (s *stubProvider) IsAvailable() bool           { return true }
func (s *stubProvider) GetRateLimit() time.Duration { return 0 }

func fakeResults(n int) []types.RawResult {
	results := make([]types.RawResult, n)
	for i := range results {
		results[i] = types.RawResult{
			Title:     fmt.Sprintf("butterfly %d", i+1),
			Image:     fmt.Sprintf("https://img.example.com/%d.jpg", i+1),
			Thumbnail: fmt.Sprintf("https://img.example.com/%d_t.jpg", i+1),
			URL:       fmt.Sprintf("https://site%d.example.com/page", i+1),
			Width:     800,
			Height:    600,
		}
	}
	return results
}

func newTestOrchestrator(provider types.ImageProviderInterface) *Orchestrator {
	return NewOrchestrator(provider, nil, OrchestratorConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
	})
}

func TestOrchestrator_SuccessFirstAttempt(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{{results: fakeResults(5)}}}
	o := newTestOrchestrator(provider)

	images, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly", MaxResults: 5})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(images) != 5 {
		t.Fatalf("got %d images, want 5", len(images))
	}
	for i, img := range images {
		if img.Position != i+1 {
			t.Errorf("images[%d].Position = %d, want %d", i, img.Position, i+1)
		}
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(provider.calls))
	}
}

func TestOrchestrator_RetriesTransientThenSucceeds(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: errors.New("429 Too Many Requests")},
		{err: errors.New("429 Too Many Requests")},
		{results: fakeResults(3)},
	}}
	o := newTestOrchestrator(provider)

	start := time.Now()
	images, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly"})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(images) != 3 {
		t.Errorf("got %d images, want 3", len(images))
	}
	if len(provider.calls) != 3 {
		t.Errorf("provider called %d times, want 3", len(provider.calls))
	}
	// Две паузы: base*1 + base*2 = 30ms
	if elapsed < 30*time.Millisecond {
		t.Errorf("elapsed %v, want at least 30ms of backoff", elapsed)
	}
}

func TestOrchestrator_RateLimitExhaustsRetries(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: errors.New("403 Forbidden")},
		{err: errors.New("403 Forbidden")},
		{err: errors.New("403 Forbidden")},
	}}
	o := newTestOrchestrator(provider)

	_, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly"})
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("want *SearchError, got %T: %v", err, err)
	}
	if searchErr.Kind != ErrKindRateLimited {
		t.Errorf("Kind = %v, want %v", searchErr.Kind, ErrKindRateLimited)
	}
	if searchErr.Message != "Rate limit exceeded. Please wait a few minutes before trying again." {
		t.Errorf("unexpected message: %q", searchErr.Message)
	}
	if len(provider.calls) != 3 {
		t.Errorf("provider called %d times, want 3", len(provider.calls))
	}

	// Линейная задержка между попытками: delay*1, затем delay*2
	if len(provider.callTimes) == 3 {
		first := provider.callTimes[1].Sub(provider.callTimes[0])
		second := provider.callTimes[2].Sub(provider.callTimes[1])
		if first < 10*time.Millisecond {
			t.Errorf("first backoff %v, want >= 10ms", first)
		}
		if second < 20*time.Millisecond {
			t.Errorf("second backoff %v, want >= 20ms", second)
		}
	}
}

func TestOrchestrator_TransientExhaustsRetries(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: errors.New("503 Service Unavailable")},
		{err: errors.New("502 Bad Gateway")},
		{err: errors.New("503 Service Unavailable")},
	}}
	o := newTestOrchestrator(provider)

	_, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly"})
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("want *SearchError, got %T: %v", err, err)
	}
	if searchErr.Kind != ErrKindUnavailable {
		t.Errorf("Kind = %v, want %v", searchErr.Kind, ErrKindUnavailable)
	}
	if searchErr.Message != "Service temporarily unavailable. Please try again later." {
		t.Errorf("unexpected message: %q", searchErr.Message)
	}
}

func TestOrchestrator_NonRetryableFailsImmediately(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: errors.New("404 Not Found")},
	}}
	o := newTestOrchestrator(provider)

	_, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly"})

	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("want *SearchError, got %T: %v", err, err)
	}
	if searchErr.Kind != ErrKindFailed {
		t.Errorf("Kind = %v, want %v", searchErr.Kind, ErrKindFailed)
	}
	if searchErr.Message != "Search error: 404 Not Found" {
		t.Errorf("unexpected message: %q", searchErr.Message)
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times, want 1 (no retries)", len(provider.calls))
	}
}

func TestOrchestrator_EmptyResultsIsNotAnError(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{{results: nil}}}
	o := newTestOrchestrator(provider)

	images, err := o.Search(context.Background(), &types.SearchRequest{Query: "xyzzy"})
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images, want 0", len(images))
	}
}

func TestOrchestrator_InvalidRequestRejectedBeforeProvider(t *testing.T) {
	provider := &stubProvider{}
	o := newTestOrchestrator(provider)

	_, err := o.Search(context.Background(), &types.SearchRequest{Query: ""})
	if err == nil {
		t.Fatal("empty query must fail validation")
	}
	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		t.Error("validation failure must not be a *SearchError")
	}
	if len(provider.calls) != 0 {
		t.Errorf("provider must not be called for invalid request, got %d calls", len(provider.calls))
	}
}

func TestOrchestrator_ValidationFiltersResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer server.Close()

	results := []types.RawResult{
		{Title: "alive", Image: server.URL + "/alive.jpg", URL: "https://a.example.com"},
		{Title: "dead", Image: server.URL + "/dead.jpg", URL: "https://b.example.com"},
	}
	provider := &stubProvider{responses: []stubResponse{{results: results}}}
	o := NewOrchestrator(provider, NewURLValidator(time.Second), OrchestratorConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
	})

	images, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly", ValidateImages: true})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images after validation, want 1", len(images))
	}
	if images[0].Title != "alive" {
		t.Errorf("surviving image = %q, want alive", images[0].Title)
	}
}

func TestOrchestrator_ValidationMayLeaveNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	results := []types.RawResult{{Image: server.URL + "/dead.jpg"}}
	provider := &stubProvider{responses: []stubResponse{{results: results}}}
	o := NewOrchestrator(provider, NewURLValidator(time.Second), OrchestratorConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
	})

	images, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly", ValidateImages: true})
	if err != nil {
		t.Fatalf("fully filtered result must still be a success, got %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images, want 0", len(images))
	}
}

func TestOrchestrator_CacheServesRepeatedQuery(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{{results: fakeResults(2)}}}
	o := NewOrchestrator(provider, nil, OrchestratorConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
		Cache:      &CacheConfig{Enabled: true, TTL: time.Minute, MaxSize: 10},
	})

	for i := 0; i < 3; i++ {
		images, err := o.Search(context.Background(), &types.SearchRequest{Query: "butterfly"})
		if err != nil {
			t.Fatalf("Search %d failed: %v", i, err)
		}
		if len(images) != 2 {
			t.Fatalf("Search %d: got %d images, want 2", i, len(images))
		}
	}

	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times, want 1 (cache must serve repeats)", len(provider.calls))
	}
}
