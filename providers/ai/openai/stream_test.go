package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/llmgate/llmgate/providers/ai"
)

func sseServer(t *testing.T, chunks ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestStreamMessage_DeltasAndUsage(t *testing.T) {
	server := sseServer(t,
		`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"}}]}`,
		`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"lo"}}]}`,
		`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`,
	)
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := stream.Collect()
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if resp.Content != "Hello" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 7 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.FinishReason != ai.FinishStop {
		t.Errorf("finish reason = %q", resp.FinishReason)
	}
}

func TestStreamMessage_EventOrder(t *testing.T) {
	server := sseServer(t,
		`{"choices":[{"index":0,"delta":{"content":"a"}}]}`,
		`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`{"choices":[],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`,
	)
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var types []ai.StreamEventType
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		types = append(types, event.Type)
	}

	want := []ai.StreamEventType{ai.StreamEventContent, ai.StreamEventUsage, ai.StreamEventDone}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestStreamMessage_PreStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("bad").WithBaseURL(server.URL).(*OpenAIProvider)

	_, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	var provErr *ai.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError before streaming, got %v", err)
	}
}

func TestStreamMessage_MalformedChunk(t *testing.T) {
	server := sseServer(t, `{not json`)
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected pre-stream error: %v", err)
	}

	_, err = stream.Collect()
	var decodeErr *ai.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError mid-stream, got %v", err)
	}
}
