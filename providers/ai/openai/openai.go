package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

const (
	// defaultBaseURL is the canonical base URL for OpenAI's API.
	defaultBaseURL = "https://api.openai.com/v1"

	// chatCompletionsEndpoint is the path for the Chat Completions endpoint.
	chatCompletionsEndpoint = "/chat/completions"

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "gpt-4o-mini"

	// providerName identifies this provider in errors, logs, and rate tables.
	providerName = "openai"
)

// OpenAIProvider implements [ai.Provider] and [ai.StreamProvider] for OpenAI's
// Chat Completions API. Use [New] to construct a ready-to-use instance.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns an [OpenAIProvider] initialized from environment variables.
// It reads OPENAI_API_KEY for authentication and OPENAI_API_BASE_URL for the
// endpoint base (defaulting to https://api.openai.com/v1 when unset).
// Use [OpenAIProvider.WithAPIKey] and [OpenAIProvider.WithBaseURL] to override
// these values after construction.
func New() *OpenAIProvider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements [ai.Provider].
func (p *OpenAIProvider) Name() string {
	return providerName
}

// Capabilities implements [ai.Provider]. OpenAI speaks SSE streaming and the
// full token-level control surface except top-k sampling, which the Chat
// Completions API does not expose.
func (p *OpenAIProvider) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsStreaming:     true,
		SupportsStopSequences: true,
		SupportsLogitBias:     true,
		SupportsSeed:          true,
		SupportsPenalties:     true,
	}
}

// WithAPIKey sets the API key used for authenticating requests and returns the
// provider so calls can be chained. It overrides the value read from OPENAI_API_KEY.
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the provider so calls can
// be chained. Use this when targeting a proxy or local testing endpoint.
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls and
// returns the provider so calls can be chained. Useful for injecting custom
// timeouts, transport layers, or test doubles.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements [ai.Provider] by sending a synchronous chat request
// to OpenAI's Chat Completions API and returning the full response mapped to
// the generic [ai.ChatResponse] format.
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	// Enrich span if observability is wired into the context.
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	if observer != nil {
		observer.Trace(ctx, "OpenAI provider preparing request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if err := ai.ValidateRequest(providerName, p.Capabilities(), request); err != nil {
		return nil, err
	}

	// Guard against missing credentials before making a network call.
	if p.apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	url := p.baseURL + chatCompletionsEndpoint
	openaiReq := requestToOpenAI(request, model)

	timer := utils.NewTimer()
	httpResponse, rawBody, resp, err := utils.DoPostSync[openaiResponse](
		ctx, p.client, providerName, url, p.apiKey, openaiReq)
	timer.Stop()
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result := openaiToGeneric(*resp)
	result.Raw = rawBody
	result.Transport = &ai.TransportInfo{
		StatusCode: httpResponse.StatusCode,
		Headers:    httpResponse.Header,
		Duration:   timer.GetDuration(),
	}
	if result.Model == "" {
		result.Model = model
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
			observability.Int(observability.AttrHTTPStatusCode, httpResponse.StatusCode),
		)
		if result.Usage != nil {
			span.AddEvent(observability.EventTokensReceived,
				observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
			)
		}
	}

	return result, nil
}
