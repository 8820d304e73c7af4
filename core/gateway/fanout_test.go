package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/llmgate/llmgate/providers/ai"
)

func TestBatch_PreservesPromptOrder(t *testing.T) {
	g := New(WithConcurrency(3)).Register(echoProvider("p"), "m-")

	prompts := []string{"1+1?", "2+2?", "3+3?", "4+4?", "5+5?"}
	items := g.Batch(context.Background(), prompts, "m-small")

	if len(items) != len(prompts) {
		t.Fatalf("items = %d, want %d", len(items), len(prompts))
	}
	for i, item := range items {
		if item.Index != i || item.Prompt != prompts[i] {
			t.Errorf("item %d out of order: %+v", i, item)
		}
		if item.Err != nil {
			t.Errorf("item %d failed: %v", i, item.Err)
		}
		if item.Response == nil || item.Response.Content != "echo: "+prompts[i] {
			t.Errorf("item %d response = %+v", i, item.Response)
		}
	}
}

func TestBatch_PartialFailure(t *testing.T) {
	flaky := &fakeProvider{name: "flaky", reply: func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		content := request.Messages[0].Content
		if strings.Contains(content, "boom") {
			return nil, &ai.ProviderError{Provider: "flaky", StatusCode: 500, Body: "internal"}
		}
		return &ai.ChatResponse{Content: "ok"}, nil
	}}

	g := New().Register(flaky, "f-")

	items := g.Batch(context.Background(), []string{"fine", "boom", "fine"}, "f-1")

	if items[0].Err != nil || items[2].Err != nil {
		t.Errorf("sibling items must not be affected: %+v", items)
	}
	if items[1].Err == nil {
		t.Error("failing item must record its error")
	}
}

func TestBatch_ConcurrencyBound(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	counting := &fakeProvider{name: "counting", reply: func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return &ai.ChatResponse{Content: "ok"}, nil
	}}

	g := New(WithConcurrency(2)).Register(counting, "c-")

	prompts := make([]string, 10)
	for i := range prompts {
		prompts[i] = fmt.Sprintf("prompt %d", i)
	}
	g.Batch(context.Background(), prompts, "c-1")

	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak in-flight = %d, want <= 2", peak)
	}
}

func TestBatch_Warmup(t *testing.T) {
	warm := &warmableProvider{fakeProvider: *echoProvider("warm")}
	g := New().Register(warm, "w-")

	items := g.Batch(context.Background(), []string{"hi"}, "w-1", WithWarmup())

	if warm.warmups.Load() != 1 {
		t.Errorf("warmups = %d, want 1", warm.warmups.Load())
	}
	if items[0].Err != nil {
		t.Errorf("batch item failed: %v", items[0].Err)
	}
}

func TestBatch_WarmupSkippedForPlainProviders(t *testing.T) {
	g := New().Register(echoProvider("plain"), "p-")

	items := g.Batch(context.Background(), []string{"hi"}, "p-1", WithWarmup())
	if items[0].Err != nil {
		t.Errorf("batch must proceed without a warmup hook: %v", items[0].Err)
	}
}

type warmableProvider struct {
	fakeProvider
	warmups atomic.Int32
}

func (w *warmableProvider) Warmup(ctx context.Context, model string) error {
	w.warmups.Add(1)
	return nil
}

func TestCompare_PartialFailure(t *testing.T) {
	good := echoProvider("good")
	bad := &fakeProvider{name: "bad", reply: func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, &ai.ProviderError{Provider: "bad", StatusCode: 404, Body: "model not found"}
	}}

	g := New().
		Register(good, "good-").
		Register(bad, "bad-")

	responses, failures := g.Compare(context.Background(), "what is 2+2?", []string{"good-a", "bad-x", "good-b"})

	if len(responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(responses))
	}
	if _, ok := responses["good-a"]; !ok {
		t.Error("good-a missing from results")
	}
	if _, ok := responses["good-b"]; !ok {
		t.Error("good-b missing from results")
	}
	if _, present := responses["bad-x"]; present {
		t.Error("failed model must not appear in results")
	}
	if len(failures) != 1 || failures["bad-x"] == nil {
		t.Errorf("failures = %v", failures)
	}
}

func TestCompare_EmptyModels(t *testing.T) {
	g := New().Register(echoProvider("p"), "m-")

	responses, failures := g.Compare(context.Background(), "hi", nil)
	if len(responses) != 0 || len(failures) != 0 {
		t.Errorf("responses = %v, failures = %v", responses, failures)
	}
}

func TestBatch_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New().Register(&blockingCancelProvider{}, "b-")
	items := g.Batch(ctx, []string{"a", "b"}, "b-1")

	for _, item := range items {
		if item.Err == nil {
			t.Errorf("item %d should carry the cancellation error", item.Index)
		}
	}
}

func TestBatch_RateLimitedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(WithRateLimit(1, 1)).Register(echoProvider("r"), "r-")
	items := g.Batch(ctx, []string{"a", "b", "c"}, "r-1")

	for _, item := range items {
		if item.Err == nil {
			t.Errorf("item %d should carry the limiter wait error", item.Index)
		}
		if item.Response != nil {
			t.Errorf("item %d should not carry a response: %+v", item.Index, item.Response)
		}
	}
}

func TestCompare_RateLimitedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(WithRateLimit(1, 1)).Register(echoProvider("r"), "r-")
	models := []string{"r-a", "r-b"}
	responses, failures := g.Compare(ctx, "hi", models)

	if len(responses) != 0 {
		t.Errorf("responses = %v, want none", responses)
	}
	for _, model := range models {
		if failures[model] == nil {
			t.Errorf("model %s should carry the limiter wait error", model)
		}
	}
}

// blockingCancelProvider returns the context error immediately, modeling a
// transport that honors cancellation.
type blockingCancelProvider struct{}

func (b *blockingCancelProvider) Name() string                  { return "blocking" }
func (b *blockingCancelProvider) Capabilities() ai.Capabilities { return ai.Capabilities{} }

func (b *blockingCancelProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ai.ChatResponse{}, nil
}

func (b *blockingCancelProvider) WithAPIKey(string) ai.Provider           { return b }
func (b *blockingCancelProvider) WithBaseURL(string) ai.Provider          { return b }
func (b *blockingCancelProvider) WithHttpClient(*http.Client) ai.Provider { return b }
