package structured

import (
	"fmt"
	"strings"

	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
)

// FromResponse decodes a completion's text content into T. Models often wrap
// JSON answers in Markdown code fences or emit slightly malformed JSON
// (single quotes, trailing commas, unquoted keys); fences are stripped and
// near-JSON is repaired before decoding, so prompt-engineered extraction
// pipelines do not fail on cosmetic noise.
func FromResponse[T any](response *ai.ChatResponse) (T, error) {
	var zero T
	if response == nil {
		return zero, fmt.Errorf("nil response")
	}
	return FromContent[T](response.Content)
}

// FromContent decodes raw model output into T. See [FromResponse].
func FromContent[T any](content string) (T, error) {
	return utils.ParseStringAs[T](stripCodeFence(content))
}

// stripCodeFence removes a surrounding Markdown code fence, with or without
// a language tag, leaving other content untouched.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return content
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		// Drop the language tag line ("json", "yaml", or empty).
		trimmed = trimmed[newline+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
