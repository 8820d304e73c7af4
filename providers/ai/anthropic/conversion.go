package anthropic

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
)

// defaultMaxTokens is applied when the caller does not set one.
// Anthropic rejects requests without max_tokens.
const defaultMaxTokens = 4096

// requestToAnthropic converts an ai.ChatRequest into an anthropicRequest ready
// to POST to Anthropic's Messages API.
//
// Anthropic carries the system prompt in a dedicated top-level field rather
// than the message list, so a leading system message (or the SystemPrompt
// field) is split out; the remaining messages keep their original order.
func requestToAnthropic(request ai.ChatRequest, model string) anthropicRequest {
	system, messages := ai.SplitSystemMessage(request)

	req := anthropicRequest{
		Model:     model,
		System:    system,
		Messages:  buildMessages(messages),
		MaxTokens: defaultMaxTokens,
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.MaxTokens > 0 {
			req.MaxTokens = cfg.MaxTokens
		}
		if cfg.Temperature > 0 {
			req.Temperature = utils.Ptr(float64(cfg.Temperature))
		}
		if cfg.TopP > 0 {
			req.TopP = utils.Ptr(float64(cfg.TopP))
		}
		if cfg.TopK > 0 {
			req.TopK = utils.Ptr(cfg.TopK)
		}
		if len(cfg.StopSequences) > 0 {
			req.StopSequences = cfg.StopSequences
		}
	}

	return req
}

// buildMessages converts generic messages into Anthropic message objects.
// The input is already free of system messages.
func buildMessages(messages []ai.Message) []anthropicMessage {
	result := make([]anthropicMessage, 0, len(messages))
	for _, msg := range messages {
		result = append(result, anthropicMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return result
}

// anthropicToGeneric converts an anthropicResponse to the provider-agnostic
// format. Text blocks are joined with newlines; unknown block types are
// ignored.
func anthropicToGeneric(response anthropicResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:      responseIDOrFallback(response.ID),
		Model:   response.Model,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
	}

	var textParts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}
	result.Content = strings.Join(textParts, "\n")
	result.FinishReason = mapStopReason(response.StopReason)

	result.Usage = &ai.Usage{
		PromptTokens:     response.Usage.InputTokens,
		CompletionTokens: response.Usage.OutputTokens,
		TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
	}

	return result
}

// mapStopReason maps Anthropic stop reasons onto the canonical vocabulary.
func mapStopReason(stopReason string) string {
	switch stopReason {
	case "end_turn", "stop_sequence":
		return ai.FinishStop
	case "max_tokens":
		return ai.FinishLength
	case "refusal":
		return ai.FinishContentFilter
	default:
		return ai.FinishStop
	}
}

// responseIDOrFallback returns the vendor-supplied response id, or generates
// one so downstream correlation always has a non-empty key.
func responseIDOrFallback(id string) string {
	if id != "" {
		return id
	}
	return "msg_" + uuid.NewString()
}
