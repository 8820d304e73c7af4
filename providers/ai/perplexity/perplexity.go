package perplexity

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
	// defaultBaseURL is the canonical base URL for Perplexity's API.
	defaultBaseURL = "https://api.perplexity.ai"

	// chatCompletionsEndpoint is the path for the Chat Completions endpoint.
	chatCompletionsEndpoint = "/chat/completions"

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "sonar"

	// providerName identifies this provider in errors, logs, and rate tables.
	providerName = "perplexity"
)

// PerplexityProvider implements [ai.Provider] and [ai.StreamProvider] for
// Perplexity's search-grounded chat API. Use [New] to construct a
// ready-to-use instance.
type PerplexityProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns a [PerplexityProvider] initialized from environment variables.
// It reads PERPLEXITY_API_KEY for authentication and PERPLEXITY_API_BASE_URL
// for the endpoint base (defaulting to https://api.perplexity.ai when unset).
func New() *PerplexityProvider {
	apiKey := os.Getenv("PERPLEXITY_API_KEY")
	baseURL := os.Getenv("PERPLEXITY_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &PerplexityProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements [ai.Provider].
func (p *PerplexityProvider) Name() string {
	return providerName
}

// Capabilities implements [ai.Provider]. Perplexity accepts top-k sampling
// and repetition penalties but rejects stop sequences, logit bias and seeds.
// Search filtering rides through the declared extras.
func (p *PerplexityProvider) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsStreaming: true,
		SupportsTopK:      true,
		SupportsPenalties: true,
		SupportedExtras:   supportedExtras,
	}
}

// WithAPIKey sets the API key used for authenticating requests and returns
// the provider so calls can be chained. It overrides the value read from
// PERPLEXITY_API_KEY.
func (p *PerplexityProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the provider so calls
// can be chained.
func (p *PerplexityProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls and
// returns the provider so calls can be chained.
func (p *PerplexityProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements [ai.Provider] by sending a synchronous chat request
// to Perplexity and returning the full response mapped to the generic
// [ai.ChatResponse] format. Citation URLs land in [ai.ChatResponse.Citations];
// the consulted search results can be recovered from the raw body with
// [SearchResultsFromResponse].
func (p *PerplexityProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
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
		observer.Trace(ctx, "Perplexity provider preparing request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if err := ai.ValidateRequest(providerName, p.Capabilities(), request); err != nil {
		return nil, err
	}

	if p.apiKey == "" {
		return nil, fmt.Errorf("PERPLEXITY_API_KEY is not set")
	}

	perplexityReq, err := requestToPerplexity(request, model)
	if err != nil {
		return nil, err
	}

	url := p.baseURL + chatCompletionsEndpoint

	timer := utils.NewTimer()
	httpResponse, rawBody, resp, err := utils.DoPostSync[perplexityResponse](
		ctx, p.client, providerName, url, p.apiKey, perplexityReq)
	timer.Stop()
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result := perplexityToGeneric(*resp)
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
