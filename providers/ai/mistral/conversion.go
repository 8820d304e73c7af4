package mistral

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
)

// ExtraSafePrompt toggles Mistral's guardrail prompt injection. Declared in
// the provider's capabilities so other providers reject it at validation.
const ExtraSafePrompt = "safe_prompt"

// supportedExtras lists every extras key the conversion layer understands.
var supportedExtras = []string{ExtraSafePrompt}

// requestToMistral converts an ai.ChatRequest into a mistralRequest ready to
// POST to the Chat Completions endpoint. The generic seed maps onto Mistral's
// random_seed field.
func requestToMistral(request ai.ChatRequest, model string) (mistralRequest, error) {
	req := mistralRequest{
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
			req.RandomSeed = utils.Ptr(cfg.Seed)
		}
		if cfg.FrequencyPenalty != 0 {
			req.FrequencyPenalty = utils.Ptr(float64(cfg.FrequencyPenalty))
		}
		if cfg.PresencePenalty != 0 {
			req.PresencePenalty = utils.Ptr(float64(cfg.PresencePenalty))
		}
	}

	if value, ok := request.Extras[ExtraSafePrompt]; ok {
		b, ok := value.(bool)
		if !ok {
			return mistralRequest{}, &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be a bool", ExtraSafePrompt)}
		}
		req.SafePrompt = b
	}

	return req, nil
}

// buildMessages converts the generic conversation into Mistral message
// objects. A SystemPrompt field is prepended as a system-role message.
func buildMessages(request ai.ChatRequest) []mistralMessage {
	messages := make([]mistralMessage, 0, len(request.Messages)+1)

	if request.SystemPrompt != "" {
		messages = append(messages, mistralMessage{Role: "system", Content: request.SystemPrompt})
	}

	for _, msg := range request.Messages {
		messages = append(messages, mistralMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return messages
}

// mistralToGeneric converts a mistralResponse to the provider-agnostic format.
func mistralToGeneric(response mistralResponse) *ai.ChatResponse {
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

// usageToGeneric maps the Mistral usage block to the generic one.
func usageToGeneric(usage mistralUsage) *ai.Usage {
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

// mapFinishReason maps Mistral finish reasons onto the canonical vocabulary.
// Mistral uses "model_length" when the context window is exhausted.
func mapFinishReason(reason string) string {
	switch reason {
	case "stop":
		return ai.FinishStop
	case "length", "model_length":
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
	return "cmpl-" + uuid.NewString()
}
