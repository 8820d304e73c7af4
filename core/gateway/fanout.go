package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

// BatchItem is one prompt's outcome within a [Gateway.Batch] run. Exactly one
// of Response and Err is set. Items come back in caller-supplied prompt
// order regardless of completion order.
type BatchItem struct {
	Index    int
	Prompt   string
	Response *ai.ChatResponse
	Err      error
}

// Warmer is implemented by providers that can preload a model before bulk
// work (the local inference provider). Detected by type assertion during
// [Gateway.Batch] when warmup is requested.
type Warmer interface {
	Warmup(ctx context.Context, model string) error
}

// Batch fans the prompts out as independent single-message requests against
// one model, bounded by the configured concurrency and rate limiter. Each
// item succeeds or fails on its own; one prompt's provider error never
// aborts its siblings. A context cancellation stops unstarted work and is
// recorded on the remaining items.
func (g *Gateway) Batch(ctx context.Context, prompts []string, model string, opts ...RunOption) []BatchItem {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}

	runID := uuid.NewString()
	ctx, span := g.startSpan(ctx, observability.SpanGatewayBatch,
		observability.String(observability.AttrGatewayRunID, runID),
		observability.Int(observability.AttrGatewayBatchSize, len(prompts)),
		observability.Int(observability.AttrGatewayConcurrency, g.concurrency),
		observability.Bool(observability.AttrGatewayWarmup, rc.warmup),
		observability.String(observability.AttrLLMModel, model),
	)
	if span != nil {
		defer span.End()
	}

	items := make([]BatchItem, len(prompts))
	for i, prompt := range prompts {
		items[i] = BatchItem{Index: i, Prompt: prompt}
	}
	if len(prompts) == 0 {
		return items
	}

	if rc.warmup {
		g.warmup(ctx, model, span)
	}

	g.fanOut(ctx, len(prompts), func(i int, waitErr error) {
		if waitErr != nil {
			items[i].Err = waitErr
			return
		}
		response, err := g.Complete(ctx, ai.ChatRequest{
			Model:    model,
			Messages: []ai.Message{{Role: ai.RoleUser, Content: prompts[i]}},
		})
		items[i].Response = response
		items[i].Err = err
	})

	return items
}

// Compare sends one prompt to every listed model in parallel and returns the
// successful responses keyed by model, with failures recorded in a separate
// map. A model that errors is logged and skipped; its siblings complete
// normally.
func (g *Gateway) Compare(ctx context.Context, prompt string, models []string) (map[string]*ai.ChatResponse, map[string]error) {
	runID := uuid.NewString()
	ctx, span := g.startSpan(ctx, observability.SpanGatewayCompare,
		observability.String(observability.AttrGatewayRunID, runID),
		observability.Int(observability.AttrGatewayModelsCount, len(models)),
		observability.Int(observability.AttrGatewayConcurrency, g.concurrency),
	)
	if span != nil {
		defer span.End()
	}

	responses := make(map[string]*ai.ChatResponse, len(models))
	failures := make(map[string]error)
	var mu sync.Mutex

	g.fanOut(ctx, len(models), func(i int, waitErr error) {
		model := models[i]
		var response *ai.ChatResponse
		err := waitErr
		if err == nil {
			response, err = g.Complete(ctx, ai.ChatRequest{
				Model:    model,
				Messages: []ai.Message{{Role: ai.RoleUser, Content: prompt}},
			})
		}

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures[model] = err
			if g.obs != nil {
				g.obs.Warn(ctx, "model failed during comparison",
					observability.String(observability.AttrLLMModel, model),
					observability.Error(err),
				)
			}
			return
		}
		responses[model] = response
	})

	return responses, failures
}

// fanOut runs fn(0..n-1) with at most g.concurrency calls in flight,
// waiting on the shared rate limiter before each one. A failed limiter wait
// (cancelled context, expired deadline) is handed to fn as waitErr so every
// index settles with a recorded outcome. Blocks until all calls settle.
func (g *Gateway) fanOut(ctx context.Context, n int, fn func(i int, waitErr error)) {
	sem := make(chan struct{}, g.concurrency)
	var wg sync.WaitGroup

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if g.limiter != nil {
				if err := g.limiter.Wait(ctx); err != nil {
					fn(i, err)
					return
				}
			}
			fn(i, nil)
		}()
	}

	wg.Wait()
}

// warmup issues the discarded preload call when the model's provider
// supports it.
func (g *Gateway) warmup(ctx context.Context, model string, span observability.Span) {
	provider, err := g.resolve(model)
	if err != nil {
		return
	}
	warmer, ok := provider.(Warmer)
	if !ok {
		return
	}

	if span != nil {
		span.AddEvent(observability.EventGatewayWarmup,
			observability.String(observability.AttrLLMModel, model))
	}

	callCtx, cancel := g.callContext(ctx)
	defer cancel()
	if err := warmer.Warmup(callCtx, model); err != nil && g.obs != nil {
		// Warmup is best effort; the batch proceeds cold.
		g.obs.Warn(ctx, "warmup failed",
			observability.String(observability.AttrLLMModel, model),
			observability.Error(err),
		)
	}
}
