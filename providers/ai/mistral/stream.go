package mistral

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

// StreamMessage implements [ai.StreamProvider] for Mistral's Chat Completions
// API. The stream is SSE with the same chunk shape as the synchronous
// response deltas and a [DONE] sentinel at the end. Mistral puts the usage
// block on the final content chunk, so it is held back and emitted as a
// StreamEventUsage just before the done event.
func (p *MistralProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
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
			observability.Bool(observability.AttrLLMStreaming, true),
		)
	}

	if observer != nil {
		observer.Trace(ctx, "Mistral provider preparing streaming request",
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
	mistralReq.Stream = true

	streamURL := p.baseURL + chatCompletionsEndpoint

	httpResponse, err := utils.DoPostStream(ctx, p.client, providerName, streamURL, p.apiKey, mistralReq)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		finishReason := ""
		var finalUsage *mistralUsage

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				if finalUsage != nil {
					if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usageToGeneric(*finalUsage)}, nil) {
						return
					}
				}
				yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: mapFinishReason(finishReason)}, nil)
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("SSE read error: %w", sseErr))
				return
			}

			var chunk mistralStreamChunk
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				yield(ai.StreamEvent{}, &ai.DecodeError{
					Provider: providerName,
					Preview:  utils.TruncateStringDefault(payload),
					Err:      parseErr,
				})
				return
			}

			if chunk.Usage != nil {
				finalUsage = chunk.Usage
			}

			for _, choice := range chunk.Choices {
				if choice.FinishReason != "" {
					finishReason = choice.FinishReason
				}
				if choice.Delta.Content != "" {
					if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: choice.Delta.Content}, nil) {
						return
					}
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}
