package ai

import (
	"context"
	"net/http"
)

// StreamProvider is an optional interface that providers can implement to
// support streaming responses. Callers detect streaming support via type
// assertion: provider.(StreamProvider). If the provider does not implement
// this interface, callers should fall back to the synchronous SendMessage
// method (see [NewSingleEventStream]).
type StreamProvider interface {
	Provider
	// StreamMessage sends a chat request and returns a ChatStream that yields
	// incremental deltas as they arrive from the API. Pre-stream errors
	// (auth, bad request, network) are returned as a normal error. Mid-stream
	// errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}

// Provider is the core interface that every LLM provider implementation must
// satisfy. It covers the full lifecycle of a single request: authentication,
// endpoint configuration, message dispatch, and response interpretation.
// Use [StreamProvider] in addition when the provider supports streaming.
type Provider interface {
	// Name returns the provider identifier used in errors, logs, and
	// rate-table lookups (e.g. "openai", "anthropic", "ollama").
	Name() string

	// Capabilities returns the feature set this provider declares. Request
	// validation is driven entirely by these flags; there is no ad-hoc
	// field-presence sniffing at call time.
	Capabilities() Capabilities

	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}

// Capabilities declares, per provider variant, which request features the
// wire schema can express. Flags are fixed at construction; they replace
// runtime type inspection when validating a [ChatRequest].
type Capabilities struct {
	SupportsStreaming     bool // Incremental delivery (SSE or NDJSON)
	SupportsStopSequences bool // Custom stop sequences
	SupportsTopK          bool // Top-k sampling parameter
	SupportsLogitBias     bool // Token-id bias map
	SupportsSeed          bool // Reproducible sampling seed
	SupportsPenalties     bool // Frequency/presence penalties

	// RequiresSeparateSystemPrompt is set when the wire schema carries the
	// system message in a dedicated top-level field instead of the message
	// list (Anthropic). The request builder splits a leading system message
	// out without reordering the remainder.
	RequiresSeparateSystemPrompt bool

	// SupportedExtras lists the provider-specific extra keys the conversion
	// layer understands (e.g. Ollama's hardware-affinity knobs). Extras
	// outside this list fail validation with [UnsupportedOptionError].
	SupportedExtras []string
}

// SupportsExtra reports whether the given extras key is declared by this
// provider.
func (c Capabilities) SupportsExtra(key string) bool {
	for _, k := range c.SupportedExtras {
		if k == key {
			return true
		}
	}
	return false
}
