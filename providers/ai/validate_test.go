package ai

import (
	"errors"
	"testing"
)

var permissiveCaps = Capabilities{
	SupportsStreaming:     true,
	SupportsStopSequences: true,
	SupportsTopK:          true,
	SupportsLogitBias:     true,
	SupportsSeed:          true,
	SupportsPenalties:     true,
	SupportedExtras:       []string{"num_ctx"},
}

func TestValidateRequestEmptyMessages(t *testing.T) {
	err := ValidateRequest("test", permissiveCaps, ChatRequest{})
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
}

func TestValidateRequestSystemPromptAloneRejected(t *testing.T) {
	// A system prompt with no conversation messages is still an empty request.
	err := ValidateRequest("test", permissiveCaps, ChatRequest{SystemPrompt: "be brief"})
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
}

func TestValidateRequestSystemPromptField(t *testing.T) {
	req := ChatRequest{SystemPrompt: "be brief", Messages: []Message{{Role: RoleUser, Content: "hi"}}}
	if err := ValidateRequest("test", permissiveCaps, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequestSystemMessageNotFirst(t *testing.T) {
	req := ChatRequest{Messages: []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleSystem, Content: "be brief"},
	}}
	err := ValidateRequest("test", permissiveCaps, req)
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError for misplaced system message, got %v", err)
	}
}

func TestValidateRequestDuplicateSystemPrompt(t *testing.T) {
	req := ChatRequest{
		SystemPrompt: "be brief",
		Messages: []Message{
			{Role: RoleSystem, Content: "be verbose"},
			{Role: RoleUser, Content: "hi"},
		},
	}
	err := ValidateRequest("test", permissiveCaps, req)
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError for duplicate system prompt, got %v", err)
	}
}

func TestValidateRequestUnknownRole(t *testing.T) {
	req := ChatRequest{Messages: []Message{{Role: "tool", Content: "x"}}}
	err := ValidateRequest("test", permissiveCaps, req)
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError for unknown role, got %v", err)
	}
}

func TestValidateRequestUnsupportedOptions(t *testing.T) {
	tests := []struct {
		name   string
		cfg    GenerationConfig
		option string
	}{
		{"stop sequences", GenerationConfig{StopSequences: []string{"END"}}, "stop_sequences"},
		{"top_k", GenerationConfig{TopK: 40}, "top_k"},
		{"logit bias", GenerationConfig{LogitBias: map[string]int{"1234": -100}}, "logit_bias"},
		{"seed", GenerationConfig{Seed: 42}, "seed"},
		{"frequency penalty", GenerationConfig{FrequencyPenalty: 0.5}, "penalties"},
		{"presence penalty", GenerationConfig{PresencePenalty: -0.5}, "penalties"},
	}

	none := Capabilities{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ChatRequest{
				Messages:         []Message{{Role: RoleUser, Content: "hi"}},
				GenerationConfig: &tt.cfg,
			}
			err := ValidateRequest("bare", none, req)
			var unsupported *UnsupportedOptionError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected UnsupportedOptionError, got %v", err)
			}
			if unsupported.Option != tt.option {
				t.Errorf("option = %q, want %q", unsupported.Option, tt.option)
			}
			if unsupported.Provider != "bare" {
				t.Errorf("provider = %q, want %q", unsupported.Provider, "bare")
			}
		})
	}
}

func TestValidateRequestExtras(t *testing.T) {
	req := ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Extras:   map[string]any{"num_ctx": 4096},
	}
	if err := ValidateRequest("test", permissiveCaps, req); err != nil {
		t.Fatalf("declared extra rejected: %v", err)
	}

	req.Extras = map[string]any{"search_recency_filter": "week"}
	err := ValidateRequest("test", permissiveCaps, req)
	var unsupported *UnsupportedOptionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOptionError for undeclared extra, got %v", err)
	}
	if unsupported.Option != "search_recency_filter" {
		t.Errorf("option = %q", unsupported.Option)
	}
}

func TestSplitSystemMessage(t *testing.T) {
	system, rest := SplitSystemMessage(ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
	})
	if system != "be brief" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 || rest[0].Role != RoleUser || rest[1].Role != RoleAssistant {
		t.Errorf("rest order disturbed: %+v", rest)
	}
}

func TestSplitSystemMessageFromField(t *testing.T) {
	system, rest := SplitSystemMessage(ChatRequest{
		SystemPrompt: "be brief",
		Messages:     []Message{{Role: RoleUser, Content: "hi"}},
	})
	if system != "be brief" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 1 {
		t.Errorf("rest = %+v", rest)
	}
}
