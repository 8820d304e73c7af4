package ai

import (
	"encoding/json"
	"net/http"
	"time"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier; falls back to the provider default when empty
	Messages         []Message         `json:"messages"`                    // Contains all messages in the conversation except system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
	Extras           map[string]any    `json:"extras,omitempty"`            // Provider-specific extras (e.g. Ollama hardware knobs); rejected by providers that do not declare them
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Media is an optional media reference attached to the message.
	// Providers without multimodal support ignore it.
	Media *MediaRef `json:"media,omitempty"`
}

// MediaRef points at a media attachment, either by URI or as inline
// base64-encoded data with its MIME type.
type MediaRef struct {
	URI      string `json:"uri,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Data     string `json:"data,omitempty"` // Base64-encoded payload
}

// GenerationConfig carries the sampling and length controls for a request.
// Every field is optional; zero values mean "use the provider default" and
// are omitted from the wire payload. Requesting a field the selected
// provider cannot honor fails validation with [UnsupportedOptionError]
// rather than being silently dropped.
type GenerationConfig struct {
	MaxTokens        int            `json:"max_tokens,omitempty"`        // Max tokens for the response
	Temperature      float32        `json:"temperature,omitempty"`       // Sampling temperature [0..2]. Higher => more random; lower => more deterministic.
	TopP             float32        `json:"top_p,omitempty"`             // Nucleus (top-p) sampling [0..1]
	TopK             int            `json:"top_k,omitempty"`             // Top-k sampling (Anthropic, Ollama, Perplexity)
	StopSequences    []string       `json:"stop_sequences,omitempty"`    // Generation stops when any of these sequences is produced
	Seed             int            `json:"seed,omitempty"`              // Sampling seed for reproducible output (0 = provider default)
	FrequencyPenalty float32        `json:"frequency_penalty,omitempty"` // Penalty [-2..2]. Positive values reduce repetition by penalizing frequent tokens.
	PresencePenalty  float32        `json:"presence_penalty,omitempty"`  // Penalty [-2..2]. Positive values encourage new topics.
	LogitBias        map[string]int `json:"logit_bias,omitempty"`        // Token-id to bias map (OpenAI only)
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports token consumption for a single request. Counts are always
// non-negative; a provider that reports nothing yields a nil Usage, never
// negative values.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Timings carries provider-reported wall-clock measurements, currently only
// populated by local inference servers that expose nanosecond evaluation
// durations. All fields are optional.
type Timings struct {
	TotalDuration      time.Duration `json:"total_duration,omitempty"`
	LoadDuration       time.Duration `json:"load_duration,omitempty"`
	PromptEvalDuration time.Duration `json:"prompt_eval_duration,omitempty"`
	EvalDuration       time.Duration `json:"eval_duration,omitempty"`
}

// TransportInfo exposes HTTP-level details of the call that produced a
// response, for callers that need transport introspection (e.g. billing
// integrations reading rate-limit headers).
type TransportInfo struct {
	StatusCode int           `json:"status_code"`
	Headers    http.Header   `json:"headers,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"` // Model actually served; may differ from the requested alias
	Object       string `json:"object"`
	Created      int64  `json:"created"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	// Citations lists source URLs for providers that ground answers in web
	// search results (Perplexity). Empty for everyone else.
	Citations []string `json:"citations,omitempty"`

	// Raw retains the undecoded provider response body for debugging.
	Raw json.RawMessage `json:"raw,omitempty"`

	// Transport carries HTTP status, headers and timing for the call.
	Transport *TransportInfo `json:"transport,omitempty"`

	// Timings carries provider-reported evaluation durations when available
	// (local inference only).
	Timings *Timings `json:"timings,omitempty"`
}

// TokensPerSecond derives generation throughput from the response timings.
// It prefers the provider-reported evaluation duration and falls back to the
// transport round-trip time. Returns (0, false) when no usable duration or
// token count is available, never Inf.
func (r *ChatResponse) TokensPerSecond() (float64, bool) {
	if r == nil || r.Usage == nil || r.Usage.CompletionTokens <= 0 {
		return 0, false
	}

	var d time.Duration
	if r.Timings != nil && r.Timings.EvalDuration > 0 {
		d = r.Timings.EvalDuration
	} else if r.Transport != nil && r.Transport.Duration > 0 {
		d = r.Transport.Duration
	}
	if d <= 0 {
		return 0, false
	}

	return float64(r.Usage.CompletionTokens) / (float64(d.Nanoseconds()) * 1e-9), true
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Prior model response
)

// Canonical finish reasons. Providers map their own stop-reason vocabulary
// onto these values during normalization.
const (
	FinishStop          = "stop"
	FinishLength        = "length"
	FinishContentFilter = "content_filter"
)
