package mistral

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
	// defaultBaseURL is the canonical base URL for Mistral's API.
	defaultBaseURL = "https://api.mistral.ai/v1"

	// chatCompletionsEndpoint is the path for the Chat Completions endpoint.
	chatCompletionsEndpoint = "/chat/completions"

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "mistral-small-latest"

	// providerName identifies this provider in errors, logs, and rate tables.
	providerName = "mistral"
)

// MistralProvider implements [ai.Provider] and [ai.StreamProvider] for
// Mistral's Chat Completions API. Use [New] to construct a ready-to-use
// instance.
type MistralProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns a [MistralProvider] initialized from environment variables.
// It reads MISTRAL_API_KEY for authentication and MISTRAL_API_BASE_URL for
// the endpoint base (defaulting to https://api.mistral.ai/v1 when unset).
func New() *MistralProvider {
	apiKey := os.Getenv("MISTRAL_API_KEY")
	baseURL := os.Getenv("MISTRAL_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &MistralProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements [ai.Provider].
func (p *MistralProvider) Name() string {
	return providerName
}

// Capabilities implements [ai.Provider]. Mistral's Chat Completions API
// accepts stop sequences, a deterministic seed (random_seed on the wire),
// and repetition penalties, but exposes neither top-k sampling nor logit
// bias. The safe_prompt moderation flag rides through extras.
func (p *MistralProvider) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsStreaming:     true,
		SupportsStopSequences: true,
		SupportsSeed:          true,
		SupportsPenalties:     true,
		SupportedExtras:       supportedExtras,
	}
}

// WithAPIKey sets the API key used for authenticating requests and returns
// the provider so calls can be chained. It overrides the value read from
// MISTRAL_API_KEY.
func (p *MistralProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the provider so calls
// can be chained.
func (p *MistralProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls and
// returns the provider so calls can be chained.
func (p *MistralProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements [ai.Provider] by sending a synchronous chat request
// to Mistral's Chat Completions API and returning the full response mapped to
// the generic [ai.ChatResponse] format.
func (p *MistralProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
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
		observer.Trace(ctx, "Mistral provider preparing request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if err := ai.ValidateRequest(providerName, p.Capabilities(), request); err != nil {
		return nil, err
	}

	if p.apiKey == "" {
		return nil, fmt.Errorf("MISTRAL_API_KEY is not set")
	}

	mistralReq, err := requestToMistral(request, model)
	if err != nil {
		return nil, err
	}

	url := p.baseURL + chatCompletionsEndpoint

	timer := utils.NewTimer()
	httpResponse, rawBody, resp, err := utils.DoPostSync[mistralResponse](
		ctx, p.client, providerName, url, p.apiKey, mistralReq)
	timer.Stop()
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result := mistralToGeneric(*resp)
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
