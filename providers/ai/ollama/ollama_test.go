package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/llmgate/llmgate/providers/ai"
)

func TestSendMessage_Success(t *testing.T) {
	var captured ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		json.NewEncoder(w).Encode(ollamaResponse{
			Model:              "llama3.2",
			CreatedAt:          time.Now(),
			Message:            ollamaMessage{Role: "assistant", Content: "Hello from the llama"},
			Done:               true,
			DoneReason:         "stop",
			TotalDuration:      5_000_000_000,
			LoadDuration:       1_000_000_000,
			PromptEvalCount:    8,
			PromptEvalDuration: 500_000_000,
			EvalCount:          20,
			EvalDuration:       2_000_000_000,
		})
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL)

	resp, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Model != DefaultModel {
		t.Errorf("wire model = %q", captured.Model)
	}
	if captured.Stream {
		t.Error("stream must be explicitly false for synchronous requests")
	}
	if resp.Content != "Hello from the llama" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.PromptTokens != 8 || resp.Usage.CompletionTokens != 20 || resp.Usage.TotalTokens != 28 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.Timings == nil || resp.Timings.EvalDuration != 2*time.Second {
		t.Errorf("timings = %+v", resp.Timings)
	}
	if resp.Id == "" {
		t.Error("expected generated id")
	}

	// 20 tokens over 2s of eval time = 10 tokens/sec.
	tps, ok := resp.TokensPerSecond()
	if !ok || tps < 9.9 || tps > 10.1 {
		t.Errorf("tokens/sec = %f ok=%v", tps, ok)
	}
}

func TestSendMessage_HardwareExtras(t *testing.T) {
	var captured ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(ollamaResponse{
			Message: ollamaMessage{Content: "ok"},
			Done:    true,
		})
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL)

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{
			MaxTokens: 64,
			TopK:      50,
			Seed:      42,
		},
		Extras: map[string]any{
			ExtraNumCtx:        8192,
			ExtraNumGPU:        33,
			ExtraNumThread:     8,
			ExtraUseMMap:       true,
			ExtraUseMLock:      false,
			ExtraNUMA:          true,
			ExtraNumBatch:      512,
			ExtraRepeatPenalty: 1.1,
			ExtraKeepAlive:     "10m",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := captured.Options
	if opts == nil {
		t.Fatal("options not set on wire")
	}
	if opts.NumPredict != 64 {
		t.Errorf("num_predict = %d", opts.NumPredict)
	}
	if opts.TopK == nil || *opts.TopK != 50 {
		t.Errorf("top_k = %v", opts.TopK)
	}
	if opts.Seed == nil || *opts.Seed != 42 {
		t.Errorf("seed = %v", opts.Seed)
	}
	if opts.NumCtx == nil || *opts.NumCtx != 8192 {
		t.Errorf("num_ctx = %v", opts.NumCtx)
	}
	if opts.NumGPU == nil || *opts.NumGPU != 33 {
		t.Errorf("num_gpu = %v", opts.NumGPU)
	}
	if opts.UseMMap == nil || !*opts.UseMMap {
		t.Errorf("use_mmap = %v", opts.UseMMap)
	}
	if opts.UseMLock == nil || *opts.UseMLock {
		t.Errorf("use_mlock = %v", opts.UseMLock)
	}
	if opts.RepeatPenalty == nil || *opts.RepeatPenalty != 1.1 {
		t.Errorf("repeat_penalty = %v", opts.RepeatPenalty)
	}
	if captured.KeepAlive != "10m" {
		t.Errorf("keep_alive = %q", captured.KeepAlive)
	}
}

func TestSendMessage_UndeclaredExtraRejected(t *testing.T) {
	provider := New()

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		Extras:   map[string]any{"logit_bias": map[string]int{"1": 1}},
	})
	var unsupported *ai.UnsupportedOptionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOptionError, got %v", err)
	}
}

func TestSendMessage_ExtraTypeMismatch(t *testing.T) {
	provider := New()

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		Extras:   map[string]any{ExtraNumCtx: "not-a-number"},
	})
	var invalid *ai.InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
}

func TestWarmup(t *testing.T) {
	var captured ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(ollamaResponse{
			Message: ollamaMessage{Content: "."},
			Done:    true,
		})
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL).(*OllamaProvider)

	if err := provider.Warmup(context.Background(), "mistral"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Model != "mistral" {
		t.Errorf("warmup model = %q", captured.Model)
	}
	if captured.Options == nil || captured.Options.NumPredict != 1 {
		t.Errorf("warmup should request a single token, got %+v", captured.Options)
	}
}
