package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/llmgate/llmgate/providers/ai"
)

func chatRequest() ai.ChatRequest {
	return ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Tell me a joke"}},
	}
}

func TestSendMessage_Success(t *testing.T) {
	var captured openaiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openaiResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1700000000,
			Model:   "gpt-4o-mini-2024-07-18",
			Choices: []openaiChoice{{
				Message:      openaiMessage{Role: "assistant", Content: "Why did the gopher cross the road?"},
				FinishReason: "stop",
			}},
			Usage: &openaiUsage{PromptTokens: 9, CompletionTokens: 12, TotalTokens: 21},
		})
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	resp, err := provider.SendMessage(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Model != DefaultModel {
		t.Errorf("wire model = %q, want default %q", captured.Model, DefaultModel)
	}
	if resp.Id != "chatcmpl-123" {
		t.Errorf("id = %q", resp.Id)
	}
	if resp.Content != "Why did the gopher cross the road?" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.FinishReason != ai.FinishStop {
		t.Errorf("finish reason = %q", resp.FinishReason)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("model = %q, want the served model", resp.Model)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 21 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if len(resp.Raw) == 0 {
		t.Error("raw body not retained")
	}
	if resp.Transport == nil || resp.Transport.StatusCode != http.StatusOK {
		t.Errorf("transport = %+v", resp.Transport)
	}
	if resp.Transport.Duration <= 0 {
		t.Error("transport duration not measured")
	}
}

func TestSendMessage_GenerationConfigOnWire(t *testing.T) {
	var captured openaiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Content: "ok"}, FinishReason: "stop"}},
		})
	}))
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL)

	req := ai.ChatRequest{
		Model:        ModelGPT4o,
		SystemPrompt: "You are terse.",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{
			MaxTokens:        128,
			Temperature:      0.4,
			TopP:             0.9,
			StopSequences:    []string{"END"},
			Seed:             7,
			FrequencyPenalty: 0.5,
			PresencePenalty:  -0.2,
			LogitBias:        map[string]int{"50256": -100},
		},
	}
	if _, err := provider.SendMessage(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Model != ModelGPT4o {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("system prompt not prepended: %+v", captured.Messages)
	}
	if captured.MaxTokens != 128 {
		t.Errorf("max_tokens = %d", captured.MaxTokens)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.4 {
		t.Errorf("temperature = %v", captured.Temperature)
	}
	if len(captured.Stop) != 1 || captured.Stop[0] != "END" {
		t.Errorf("stop = %v", captured.Stop)
	}
	if captured.Seed == nil || *captured.Seed != 7 {
		t.Errorf("seed = %v", captured.Seed)
	}
	if captured.LogitBias["50256"] != -100 {
		t.Errorf("logit_bias = %v", captured.LogitBias)
	}
	if captured.FrequencyPenalty == nil || captured.PresencePenalty == nil {
		t.Error("penalties not set on wire")
	}
}

func TestSendMessage_TopKRejected(t *testing.T) {
	provider := New().WithAPIKey("k")

	req := chatRequest()
	req.GenerationConfig = &ai.GenerationConfig{TopK: 40}

	_, err := provider.SendMessage(context.Background(), req)
	var unsupported *ai.UnsupportedOptionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOptionError, got %v", err)
	}
	if unsupported.Option != "top_k" {
		t.Errorf("option = %q", unsupported.Option)
	}
}

func TestSendMessage_MissingAPIKey(t *testing.T) {
	provider := New().WithAPIKey("")
	if _, err := provider.SendMessage(context.Background(), chatRequest()); err == nil {
		t.Fatal("expected error when API key is unset")
	}
}

func TestSendMessage_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit"}}`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL)

	_, err := provider.SendMessage(context.Background(), chatRequest())
	var provErr *ai.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests || provErr.Provider != "openai" {
		t.Errorf("provider error = %+v", provErr)
	}
}

func TestSendMessage_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL)

	_, err := provider.SendMessage(context.Background(), chatRequest())
	var decodeErr *ai.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestConversion_IDFallback(t *testing.T) {
	resp := openaiToGeneric(openaiResponse{
		Choices: []openaiChoice{{Message: openaiMessage{Content: "x"}, FinishReason: "length"}},
	})
	if resp.Id == "" {
		t.Error("expected generated fallback id")
	}
	if resp.FinishReason != ai.FinishLength {
		t.Errorf("finish reason = %q", resp.FinishReason)
	}
}
