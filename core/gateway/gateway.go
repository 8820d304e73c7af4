package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/llmgate/llmgate/core/cost"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
	"golang.org/x/time/rate"
)

// Gateway routes chat requests to registered providers and layers batch
// fan-out, model comparison, cost estimation and observability on top of the
// single-call provider contracts.
//
// Configuration is fixed at construction; [Gateway.Register] calls must all
// happen before the gateway is shared across goroutines.
type Gateway struct {
	mu       sync.RWMutex
	routes   []route
	fallback ai.Provider

	pricing     cost.Table
	concurrency int
	limiter     *rate.Limiter
	timeout     time.Duration
	obs         observability.Provider
}

// route binds a model-name prefix to a provider.
type route struct {
	prefix   string
	provider ai.Provider
}

// New constructs a Gateway. Providers are added with [Gateway.Register].
func New(opts ...Option) *Gateway {
	g := &Gateway{
		pricing:     cost.Table{},
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register binds model-name prefixes to a provider, so requests for
// "gpt-4o-mini" can land on the OpenAI provider and "claude-3-5-sonnet" on
// Anthropic without the caller naming providers explicitly. The first
// registered provider also becomes the fallback for models no prefix
// matches and for requests with no model at all.
func (g *Gateway) Register(provider ai.Provider, modelPrefixes ...string) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, prefix := range modelPrefixes {
		g.routes = append(g.routes, route{prefix: prefix, provider: provider})
	}
	// Longest prefix wins, so "sonar-pro" beats "sonar".
	sort.SliceStable(g.routes, func(i, j int) bool {
		return len(g.routes[i].prefix) > len(g.routes[j].prefix)
	})

	if g.fallback == nil {
		g.fallback = provider
	}
	return g
}

// resolve finds the provider responsible for a model name.
func (g *Gateway) resolve(model string) (ai.Provider, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, r := range g.routes {
		if strings.HasPrefix(model, r.prefix) {
			return r.provider, nil
		}
	}
	if g.fallback != nil {
		return g.fallback, nil
	}
	return nil, fmt.Errorf("no provider registered for model %q", model)
}

// callContext applies the gateway's per-call deadline and threads the
// observer through so providers enrich the active trace.
func (g *Gateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.obs != nil {
		ctx = observability.ContextWithObserver(ctx, g.obs)
	}
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return ctx, func() {}
}

// startSpan opens a gateway span when observability is configured. The
// returned span is nil otherwise; callers guard on that.
func (g *Gateway) startSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	if g.obs == nil {
		return ctx, nil
	}
	ctx, span := g.obs.StartSpan(ctx, name, attrs...)
	return observability.ContextWithSpan(ctx, span), span
}

// Complete sends a single synchronous chat request, routed by the request's
// model name. The first error encountered is returned directly; the gateway
// adds no retries.
func (g *Gateway) Complete(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	provider, err := g.resolve(request.Model)
	if err != nil {
		return nil, err
	}

	ctx, span := g.startSpan(ctx, observability.SpanLLMRequest,
		observability.String(observability.AttrLLMProvider, provider.Name()),
		observability.String(observability.AttrLLMModel, request.Model),
	)
	if span != nil {
		defer span.End()
	}

	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	response, err := provider.SendMessage(callCtx, request)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, err.Error())
		}
		g.countRequest(ctx, provider.Name(), request.Model, false)
		return nil, err
	}

	if span != nil {
		span.SetStatus(observability.StatusOK, "")
	}
	g.countRequest(ctx, provider.Name(), request.Model, true)
	g.recordUsage(ctx, provider.Name(), response)
	return response, nil
}

// Stream sends a streaming chat request, routed by model name. When the
// resolved provider does not implement [ai.StreamProvider] (or declares no
// streaming capability) the synchronous response is wrapped as a
// single-event stream, so callers can always consume the same interface.
func (g *Gateway) Stream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	provider, err := g.resolve(request.Model)
	if err != nil {
		return nil, err
	}

	ctx, span := g.startSpan(ctx, observability.SpanLLMStream,
		observability.String(observability.AttrLLMProvider, provider.Name()),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Bool(observability.AttrLLMStreaming, true),
	)
	if span != nil {
		defer span.End()
	}

	// Streams outlive this call, so the per-call timeout is not applied;
	// cancellation still propagates through the caller's context.
	if g.obs != nil {
		ctx = observability.ContextWithObserver(ctx, g.obs)
	}

	if sp, ok := provider.(ai.StreamProvider); ok && provider.Capabilities().SupportsStreaming {
		stream, err := sp.StreamMessage(ctx, request)
		if err != nil {
			if span != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, err.Error())
			}
			return nil, err
		}
		return stream, nil
	}

	response, err := provider.SendMessage(ctx, request)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, err.Error())
		}
		return nil, err
	}
	return ai.NewSingleEventStream(response), nil
}

// Metadata sends the request like [Gateway.Complete] and returns transport
// and accounting details instead of the response body: response id, served
// model, HTTP status and headers, token counts, estimated cost and
// generation throughput. The cost figure is an estimate from the configured
// rate tables; it is omitted entirely for models without a known price.
func (g *Gateway) Metadata(ctx context.Context, request ai.ChatRequest) (map[string]any, error) {
	response, err := g.Complete(ctx, request)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"id":            response.Id,
		"model":         response.Model,
		"finish_reason": response.FinishReason,
	}

	if response.Transport != nil {
		meta["status_code"] = response.Transport.StatusCode
		meta["duration_ms"] = response.Transport.Duration.Milliseconds()
		if len(response.Transport.Headers) > 0 {
			meta["headers"] = response.Transport.Headers
		}
	}

	if response.Usage != nil {
		meta["prompt_tokens"] = response.Usage.PromptTokens
		meta["completion_tokens"] = response.Usage.CompletionTokens
		meta["total_tokens"] = response.Usage.TotalTokens

		if breakdown, ok := g.pricing.Estimate(response.Model, response.Usage.PromptTokens, response.Usage.CompletionTokens); ok {
			meta["estimated_cost_usd"] = breakdown.TotalCost
		}
	}

	if tps, ok := response.TokensPerSecond(); ok {
		meta["tokens_per_second"] = tps
	}

	return meta, nil
}

// countRequest bumps the request counter when metrics are configured.
func (g *Gateway) countRequest(ctx context.Context, provider, model string, success bool) {
	if g.obs == nil {
		return
	}
	g.obs.Counter(observability.MetricGatewayRequestCount).Add(ctx, 1,
		observability.String(observability.AttrLLMProvider, provider),
		observability.String(observability.AttrLLMModel, model),
		observability.Bool("success", success),
	)
}

// recordUsage feeds token and cost metrics from a completed response.
func (g *Gateway) recordUsage(ctx context.Context, provider string, response *ai.ChatResponse) {
	if g.obs == nil || response == nil || response.Usage == nil {
		return
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, provider),
		observability.String(observability.AttrLLMModel, response.Model),
	}
	g.obs.Counter(observability.MetricGatewayTokensPrompt).Add(ctx, int64(response.Usage.PromptTokens), attrs...)
	g.obs.Counter(observability.MetricGatewayTokensCompletion).Add(ctx, int64(response.Usage.CompletionTokens), attrs...)
	g.obs.Counter(observability.MetricGatewayTokensTotal).Add(ctx, int64(response.Usage.TotalTokens), attrs...)

	if breakdown, ok := g.pricing.Estimate(response.Model, response.Usage.PromptTokens, response.Usage.CompletionTokens); ok {
		g.obs.Histogram(observability.MetricGatewayCostUSD).Record(ctx, breakdown.TotalCost, attrs...)
	}
	if response.Transport != nil && response.Transport.Duration > 0 {
		g.obs.Histogram(observability.MetricGatewayRequestDuration).Record(ctx,
			float64(response.Transport.Duration.Milliseconds()), attrs...)
	}
}
