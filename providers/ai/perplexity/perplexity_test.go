package perplexity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/llmgate/llmgate/providers/ai"
)

func TestSendMessage_Success(t *testing.T) {
	var captured perplexityRequest
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

		json.NewEncoder(w).Encode(perplexityResponse{
			ID:    "pplx-42",
			Model: "sonar",
			Choices: []perplexityChoice{{
				Message:      perplexityMessage{Role: "assistant", Content: "Go 1.25 was released in August 2025 [1]."},
				FinishReason: "stop",
			}},
			Usage:     &perplexityUsage{PromptTokens: 10, CompletionTokens: 15, TotalTokens: 25},
			Citations: []string{"https://go.dev/blog/go1.25"},
			SearchResults: []SearchResult{{
				Title: "Go 1.25 is released",
				URL:   "https://go.dev/blog/go1.25",
				Date:  "2025-08-12",
			}},
		})
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL).WithAPIKey("test-key")

	resp, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "when was go 1.25 released?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Model != DefaultModel {
		t.Errorf("wire model = %q", captured.Model)
	}
	if resp.Id != "pplx-42" {
		t.Errorf("id = %q", resp.Id)
	}
	if len(resp.Citations) != 1 || resp.Citations[0] != "https://go.dev/blog/go1.25" {
		t.Errorf("citations = %v", resp.Citations)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 25 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	results, err := SearchResultsFromResponse(resp)
	if err != nil {
		t.Fatalf("parsing search results: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Go 1.25 is released" {
		t.Errorf("search results = %+v", results)
	}
}

func TestSendMessage_SearchFilters(t *testing.T) {
	var captured perplexityRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(perplexityResponse{
			Choices: []perplexityChoice{{Message: perplexityMessage{Content: "ok"}, FinishReason: "stop"}},
		})
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL).WithAPIKey("test-key")

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "latest kernel release"}},
		Extras: map[string]any{
			ExtraSearchRecencyFilter: "week",
			ExtraSearchDomainFilter:  []string{"kernel.org", "-reddit.com"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.SearchRecencyFilter != "week" {
		t.Errorf("search_recency_filter = %q", captured.SearchRecencyFilter)
	}
	if len(captured.SearchDomainFilter) != 2 || captured.SearchDomainFilter[1] != "-reddit.com" {
		t.Errorf("search_domain_filter = %v", captured.SearchDomainFilter)
	}
}

func TestSendMessage_DomainFilterFromDecodedJSON(t *testing.T) {
	// Extras decoded from JSON config arrive as []any, not []string.
	req, err := requestToPerplexity(ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		Extras:   map[string]any{ExtraSearchDomainFilter: []any{"go.dev"}},
	}, DefaultModel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.SearchDomainFilter) != 1 || req.SearchDomainFilter[0] != "go.dev" {
		t.Errorf("search_domain_filter = %v", req.SearchDomainFilter)
	}
}

func TestSendMessage_StopSequencesRejected(t *testing.T) {
	provider := New().WithAPIKey("test-key")

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{StopSequences: []string{"\n"}},
	})
	var unsupported *ai.UnsupportedOptionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOptionError, got %v", err)
	}
	if unsupported.Provider != providerName || unsupported.Option != "stop_sequences" {
		t.Errorf("error = %+v", unsupported)
	}
}

func TestSendMessage_SeedRejected(t *testing.T) {
	provider := New().WithAPIKey("test-key")

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{Seed: 7},
	})
	var unsupported *ai.UnsupportedOptionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOptionError, got %v", err)
	}
}

func TestSendMessage_TopKAccepted(t *testing.T) {
	var captured perplexityRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(perplexityResponse{
			Choices: []perplexityChoice{{Message: perplexityMessage{Content: "ok"}, FinishReason: "stop"}},
		})
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL).WithAPIKey("test-key")

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{TopK: 30},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.TopK != 30 {
		t.Errorf("top_k = %d", captured.TopK)
	}
}

func TestRenderSnippetMarkdown(t *testing.T) {
	plain, err := RenderSnippetMarkdown("no markup here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain != "no markup here" {
		t.Errorf("plain snippet changed: %q", plain)
	}

	markdown, err := RenderSnippetMarkdown(`Go <b>1.25</b> adds <a href="https://go.dev">new features</a>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(markdown, "**1.25**") {
		t.Errorf("bold not converted: %q", markdown)
	}
	if !strings.Contains(markdown, "[new features](https://go.dev)") {
		t.Errorf("link not converted: %q", markdown)
	}
}

func TestRenderSources(t *testing.T) {
	out := RenderSources([]SearchResult{
		{Title: "Go 1.25 is released", URL: "https://go.dev/blog/go1.25", Date: "2025-08-12"},
		{URL: "https://example.com/untitled"},
	})

	if !strings.Contains(out, "- [Go 1.25 is released](https://go.dev/blog/go1.25) (2025-08-12)") {
		t.Errorf("missing titled entry:\n%s", out)
	}
	if !strings.Contains(out, "- [https://example.com/untitled](https://example.com/untitled)") {
		t.Errorf("untitled entry should fall back to URL:\n%s", out)
	}
	if RenderSources(nil) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestSearchResultsFromResponse_NonPerplexityRaw(t *testing.T) {
	results, err := SearchResultsFromResponse(&ai.ChatResponse{Raw: []byte(`{"choices":[]}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("results = %+v", results)
	}
}
