package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

// StreamMessage implements [ai.StreamProvider] for the Ollama daemon.
// Unlike the hosted vendors, Ollama streams newline-delimited JSON rather
// than SSE: each line is a complete response object carrying a message
// fragment, and the final line has done=true with the evaluation counters.
//
// Pre-stream errors (non-2xx HTTP response, network failure) are returned
// immediately as a non-nil error. Mid-stream errors are yielded through the
// iterator.
func (p *OllamaProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
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
		observer.Trace(ctx, "Ollama provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if err := ai.ValidateRequest(providerName, p.Capabilities(), request); err != nil {
		return nil, err
	}

	streamURL := p.baseURL + chatEndpoint

	ollamaReq, err := requestToOllama(request, model)
	if err != nil {
		return nil, err
	}
	ollamaReq.Stream = true

	// NDJSON, not SSE: override the Accept header set by DoPostStream.
	httpResponse, err := utils.DoPostStream(ctx, p.client, providerName, streamURL, "", ollamaReq,
		utils.Header("Accept", "application/x-ndjson"))
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	ndjsonScanner := utils.NewNDJSONScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		// Ensure the response body is closed when the iterator is exhausted or
		// the caller breaks out of the loop early.
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			// Respect context cancellation between reads.
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			line, scanErr := ndjsonScanner.Next()
			if scanErr == io.EOF {
				// Stream ended without a done line; treat as a normal stop.
				yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: ai.FinishStop}, nil)
				return
			}
			if scanErr != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("NDJSON read error: %w", scanErr))
				return
			}

			var chunk ollamaResponse
			if parseErr := json.Unmarshal([]byte(line), &chunk); parseErr != nil {
				yield(ai.StreamEvent{}, &ai.DecodeError{
					Provider: providerName,
					Preview:  utils.TruncateStringDefault(line),
					Err:      parseErr,
				})
				return
			}

			if chunk.Message.Content != "" {
				if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: chunk.Message.Content}, nil) {
					return
				}
			}

			if chunk.Done {
				// The done line carries the evaluation counters; emit usage
				// (with timings) before the done event.
				if chunk.PromptEvalCount > 0 || chunk.EvalCount > 0 {
					usageEvent := ai.StreamEvent{
						Type:    ai.StreamEventUsage,
						Usage:   usageFromCounters(chunk),
						Timings: timingsFromResponse(chunk),
					}
					if !yield(usageEvent, nil) {
						return
					}
				}
				yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: mapDoneReason(chunk.DoneReason)}, nil)
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}
