package openai

/*
	OPENAI CHAT COMPLETIONS API - REQUEST TYPES
*/

// openaiRequest represents the request body for OpenAI's Chat Completions API.
type openaiRequest struct {
	Model            string          `json:"model"`
	Messages         []openaiMessage `json:"messages"`
	MaxTokens        int             `json:"max_tokens,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	Stop             []string        `json:"stop,omitempty"`
	Seed             *int            `json:"seed,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	LogitBias        map[string]int  `json:"logit_bias,omitempty"` // Token-id to bias [-100..100]
	Stream           bool            `json:"stream,omitempty"`
	StreamOptions    *streamOptions  `json:"stream_options,omitempty"`
}

// streamOptions controls streaming behavior. IncludeUsage requests a final
// chunk carrying the authoritative token counts.
type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// openaiMessage represents a single message in the conversation.
type openaiMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

/*
	OPENAI CHAT COMPLETIONS API - RESPONSE TYPES
*/

// openaiResponse represents the response from OpenAI's Chat Completions API.
type openaiResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"` // "chat.completion"
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   *openaiUsage   `json:"usage,omitempty"`
}

// openaiChoice is one completion alternative. The gateway always requests a
// single choice.
type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// openaiUsage reports token consumption for a single request.
type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	OPENAI SSE STREAMING - WIRE TYPES
*/

// openaiStreamChunk is a single SSE payload from a streaming completion.
// The terminal chunk (after [DONE] handling) may carry only Usage when
// stream_options.include_usage was requested.
type openaiStreamChunk struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"` // "chat.completion.chunk"
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []openaiStreamChoice `json:"choices"`
	Usage   *openaiUsage        `json:"usage,omitempty"`
}

// openaiStreamChoice carries the delta for one choice within a stream chunk.
type openaiStreamChoice struct {
	Index        int         `json:"index"`
	Delta        openaiDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// openaiDelta is the incremental message fragment inside a stream chunk.
type openaiDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}
