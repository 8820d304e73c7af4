package ollama

import (
	"context"
	"net/http"
	"os"

	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

const (
	// defaultBaseURL targets a local Ollama daemon on its default port.
	defaultBaseURL = "http://localhost:11434"

	// chatEndpoint is the path for the chat endpoint.
	chatEndpoint = "/api/chat"

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "llama3.2"

	// providerName identifies this provider in errors and logs.
	providerName = "ollama"
)

// OllamaProvider implements [ai.Provider] and [ai.StreamProvider] for a local
// Ollama inference server. There is no API key; the daemon is trusted by
// virtue of being reachable. Use [New] to construct a ready-to-use instance.
type OllamaProvider struct {
	baseURL string
	client  *http.Client
}

// New returns an [OllamaProvider] initialized from environment variables.
// It reads OLLAMA_API_BASE_URL for the endpoint base (defaulting to
// http://localhost:11434 when unset).
func New() *OllamaProvider {
	baseURL := os.Getenv("OLLAMA_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OllamaProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements [ai.Provider].
func (p *OllamaProvider) Name() string {
	return providerName
}

// Capabilities implements [ai.Provider]. Ollama exposes the widest sampling
// surface of all providers plus hardware-affinity extras, but streams NDJSON
// instead of SSE.
func (p *OllamaProvider) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsStreaming:     true,
		SupportsStopSequences: true,
		SupportsTopK:          true,
		SupportsSeed:          true,
		SupportsPenalties:     true,
		SupportedExtras:       supportedExtras,
	}
}

// WithAPIKey implements [ai.Provider]. Ollama has no authentication; the key
// is accepted and ignored so the provider satisfies the common interface.
func (p *OllamaProvider) WithAPIKey(string) ai.Provider {
	return p
}

// WithBaseURL overrides the daemon base URL and returns the provider so calls
// can be chained.
func (p *OllamaProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls and
// returns the provider so calls can be chained.
func (p *OllamaProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements [ai.Provider] by sending a synchronous chat request
// to the local Ollama daemon and returning the full response mapped to the
// generic [ai.ChatResponse] format, including evaluation timings for
// throughput derivation.
func (p *OllamaProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
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
		observer.Trace(ctx, "Ollama provider preparing request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if err := ai.ValidateRequest(providerName, p.Capabilities(), request); err != nil {
		return nil, err
	}

	url := p.baseURL + chatEndpoint
	ollamaReq, err := requestToOllama(request, model)
	if err != nil {
		return nil, err
	}

	// No API key: the daemon does not authenticate.
	timer := utils.NewTimer()
	httpResponse, rawBody, resp, err := utils.DoPostSync[ollamaResponse](
		ctx, p.client, providerName, url, "", ollamaReq)
	timer.Stop()
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result := ollamaToGeneric(*resp)
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
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
			observability.Int(observability.AttrHTTPStatusCode, httpResponse.StatusCode),
		)
		if result.Usage != nil {
			span.AddEvent(observability.EventTokensReceived,
				observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
			)
			if tps, ok := result.TokensPerSecond(); ok {
				span.SetAttributes(observability.Float64(observability.AttrLLMTokensPerSecond, tps))
			}
		}
	}

	return result, nil
}

// Warmup issues a minimal single-token request so the daemon loads the model
// into memory before latency-sensitive work begins. Batch runs call this once
// per model to keep load time out of the measured results. Errors are
// returned so the caller can decide whether to proceed cold.
func (p *OllamaProvider) Warmup(ctx context.Context, model string) error {
	if model == "" {
		model = DefaultModel
	}

	warmupReq := ai.ChatRequest{
		Model:            model,
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{MaxTokens: 1},
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventGatewayWarmup,
			observability.String(observability.AttrLLMModel, model))
	}

	_, err := p.SendMessage(ctx, warmupReq)
	return err
}
