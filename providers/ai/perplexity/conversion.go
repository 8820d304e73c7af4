package perplexity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
)

// Extras keys understood by this provider. Declared in the capability list so
// other providers reject them at validation.
const (
	// ExtraSearchRecencyFilter restricts citations by age. Accepted values
	// are "day", "week", "month" and "year".
	ExtraSearchRecencyFilter = "search_recency_filter"

	// ExtraSearchDomainFilter restricts citations to the listed domains.
	// Prefix a domain with "-" to exclude it instead.
	ExtraSearchDomainFilter = "search_domain_filter"
)

var supportedExtras = []string{ExtraSearchRecencyFilter, ExtraSearchDomainFilter}

// requestToPerplexity converts an ai.ChatRequest into a perplexityRequest
// ready to POST to the API.
func requestToPerplexity(request ai.ChatRequest, model string) (perplexityRequest, error) {
	req := perplexityRequest{
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
		if cfg.TopK > 0 {
			req.TopK = cfg.TopK
		}
		if cfg.FrequencyPenalty != 0 {
			req.FrequencyPenalty = utils.Ptr(float64(cfg.FrequencyPenalty))
		}
		if cfg.PresencePenalty != 0 {
			req.PresencePenalty = utils.Ptr(float64(cfg.PresencePenalty))
		}
	}

	if value, ok := request.Extras[ExtraSearchRecencyFilter]; ok {
		s, ok := value.(string)
		if !ok {
			return perplexityRequest{}, &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be a string", ExtraSearchRecencyFilter)}
		}
		req.SearchRecencyFilter = s
	}

	if value, ok := request.Extras[ExtraSearchDomainFilter]; ok {
		domains, err := toStringSlice(value)
		if err != nil {
			return perplexityRequest{}, &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be a list of strings", ExtraSearchDomainFilter)}
		}
		req.SearchDomainFilter = domains
	}

	return req, nil
}

// toStringSlice accepts either []string or []any of strings, the two shapes
// the extras map can carry depending on whether it was built in Go code or
// decoded from JSON config.
func toStringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}

// buildMessages converts the generic conversation into Perplexity message
// objects. A SystemPrompt field is prepended as a system-role message.
func buildMessages(request ai.ChatRequest) []perplexityMessage {
	messages := make([]perplexityMessage, 0, len(request.Messages)+1)

	if request.SystemPrompt != "" {
		messages = append(messages, perplexityMessage{Role: "system", Content: request.SystemPrompt})
	}

	for _, msg := range request.Messages {
		messages = append(messages, perplexityMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return messages
}

// perplexityToGeneric converts a perplexityResponse to the provider-agnostic
// format. Search results stay in Raw; use [SearchResultsFromResponse] to
// recover them.
func perplexityToGeneric(response perplexityResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:        responseIDOrFallback(response.ID),
		Model:     response.Model,
		Object:    response.Object,
		Created:   response.Created,
		Citations: response.Citations,
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

// usageToGeneric maps the Perplexity usage block to the generic one.
func usageToGeneric(usage perplexityUsage) *ai.Usage {
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

// mapFinishReason maps Perplexity finish reasons onto the canonical
// vocabulary. The API inherits the Chat Completions values.
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
	return "pplx-" + uuid.NewString()
}
