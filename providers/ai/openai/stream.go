package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

// StreamMessage implements [ai.StreamProvider] for OpenAI's Chat Completions
// API. It sends a streaming request (stream=true) and returns a [ai.ChatStream]
// that yields incremental deltas as SSE events arrive.
//
// Pre-stream errors (missing API key, non-2xx HTTP response, network failure)
// are returned immediately as a non-nil error. Mid-stream errors (SSE parse
// failure, context cancellation) are yielded through the iterator.
//
// stream_options.include_usage is always requested so the final chunk carries
// the authoritative token counts; it is emitted as a StreamEventUsage before
// the done event.
func (p *OpenAIProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
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
		observer.Trace(ctx, "OpenAI provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if err := ai.ValidateRequest(providerName, p.Capabilities(), request); err != nil {
		return nil, err
	}

	if p.apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	streamURL := p.baseURL + chatCompletionsEndpoint

	openaiReq := requestToOpenAI(request, model)
	openaiReq.Stream = true
	openaiReq.StreamOptions = &streamOptions{IncludeUsage: true}

	// Send the streaming request — body is left open for SSE reading.
	httpResponse, err := utils.DoPostStream(ctx, p.client, providerName, streamURL, p.apiKey, openaiReq)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		// Ensure the response body is closed when the iterator is exhausted or
		// the caller breaks out of the loop early.
		defer utils.CloseWithLog(httpResponse.Body)

		// finishReason is captured from the chunk that carries it and used
		// when the stream terminates.
		finishReason := ""
		var finalUsage *openaiUsage

		for {
			// Respect context cancellation between SSE reads.
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				// [DONE] sentinel or natural end of stream. Emit the usage
				// chunk (if seen) followed by the done event.
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

			var chunk openaiStreamChunk
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				yield(ai.StreamEvent{}, &ai.DecodeError{
					Provider: providerName,
					Preview:  utils.TruncateStringDefault(payload),
					Err:      parseErr,
				})
				return
			}

			// The usage-only chunk has an empty choices array; hold on to it
			// until the stream ends so usage is emitted exactly once.
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
