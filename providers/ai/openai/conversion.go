package openai

import (
	"time"

	"github.com/google/uuid"
	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
)

// requestToOpenAI converts an ai.ChatRequest into an openaiRequest ready to
// POST to the Chat Completions endpoint. GenerationConfig fields are optional;
// zero values are omitted from the wire payload so the vendor defaults apply.
func requestToOpenAI(request ai.ChatRequest, model string) openaiRequest {
	req := openaiRequest{
		Model:    model,
		Messages: buildMessages(request),
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
		if len(cfg.StopSequences) > 0 {
			req.Stop = cfg.StopSequences
		}
		if cfg.Seed != 0 {
			req.Seed = utils.Ptr(cfg.Seed)
		}
		if cfg.FrequencyPenalty != 0 {
			req.FrequencyPenalty = utils.Ptr(float64(cfg.FrequencyPenalty))
		}
		if cfg.PresencePenalty != 0 {
			req.PresencePenalty = utils.Ptr(float64(cfg.PresencePenalty))
		}
		if len(cfg.LogitBias) > 0 {
			req.LogitBias = cfg.LogitBias
		}
	}

	return req
}

// buildMessages converts the generic conversation into OpenAI message objects.
// A SystemPrompt field is prepended as a system-role message; OpenAI carries
// the system prompt inside the message list.
func buildMessages(request ai.ChatRequest) []openaiMessage {
	messages := make([]openaiMessage, 0, len(request.Messages)+1)

	if request.SystemPrompt != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: request.SystemPrompt})
	}

	for _, msg := range request.Messages {
		messages = append(messages, openaiMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return messages
}

// openaiToGeneric converts an openaiResponse to the provider-agnostic format.
// Only the first choice is considered; the gateway never requests more.
func openaiToGeneric(response openaiResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:      responseIDOrFallback(response.ID),
		Model:   response.Model,
		Object:  response.Object,
		Created: response.Created,
	}
	if result.Object == "" {
		result.Object = "chat.completion"
	}
	if result.Created == 0 {
		result.Created = time.Now().Unix()
	}

	if len(response.Choices) > 0 {
		choice := response.Choices[0]
		result.Content = choice.Message.Content
		result.FinishReason = mapFinishReason(choice.FinishReason)
	}

	if response.Usage != nil {
		result.Usage = usageToGeneric(*response.Usage)
	}

	return result
}

// usageToGeneric maps the OpenAI usage block to the generic one, computing the
// total when the vendor omits it.
func usageToGeneric(usage openaiUsage) *ai.Usage {
	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}
	return &ai.Usage{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      total,
	}
}

// mapFinishReason maps OpenAI finish reasons onto the canonical vocabulary.
// OpenAI already uses the canonical names; unknown values pass through
// unchanged so callers can still inspect them.
func mapFinishReason(reason string) string {
	switch reason {
	case "stop":
		return ai.FinishStop
	case "length":
		return ai.FinishLength
	case "content_filter":
		return ai.FinishContentFilter
	default:
		return reason
	}
}

// responseIDOrFallback returns the vendor-supplied response id, or generates
// one so downstream correlation always has a non-empty key.
func responseIDOrFallback(id string) string {
	if id != "" {
		return id
	}
	return "chatcmpl-" + uuid.NewString()
}
