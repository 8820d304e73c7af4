package mistral

/*
	MISTRAL CHAT COMPLETIONS API - REQUEST TYPES

	The wire format follows the Chat Completions shape with two Mistral
	specifics: random_seed instead of seed, and the safe_prompt moderation
	flag.
*/

// mistralRequest represents the request body for Mistral's Chat Completions API.
type mistralRequest struct {
	Model            string           `json:"model"`
	Messages         []mistralMessage `json:"messages"`
	MaxTokens        int              `json:"max_tokens,omitempty"`
	Temperature      *float64         `json:"temperature,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	Stop             []string         `json:"stop,omitempty"`
	RandomSeed       *int             `json:"random_seed,omitempty"`
	FrequencyPenalty *float64         `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64         `json:"presence_penalty,omitempty"`
	SafePrompt       bool             `json:"safe_prompt,omitempty"` // Prepend Mistral's moderation prompt
	Stream           bool             `json:"stream,omitempty"`
}

// mistralMessage represents a single message in the conversation.
type mistralMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

/*
	MISTRAL CHAT COMPLETIONS API - RESPONSE TYPES
*/

// mistralResponse represents the response from Mistral's Chat Completions API.
type mistralResponse struct {
	ID      string          `json:"id"`
	Object  string          `json:"object"` // "chat.completion"
	Created int64           `json:"created"`
	Model   string          `json:"model"`
	Choices []mistralChoice `json:"choices"`
	Usage   *mistralUsage   `json:"usage,omitempty"`
}

// mistralChoice is one completion alternative.
type mistralChoice struct {
	Index        int            `json:"index"`
	Message      mistralMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

// mistralUsage reports token consumption for a single request.
type mistralUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	MISTRAL SSE STREAMING - WIRE TYPES
*/

// mistralStreamChunk is a single SSE payload from a streaming completion.
type mistralStreamChunk struct {
	ID      string                `json:"id"`
	Object  string                `json:"object"` // "chat.completion.chunk"
	Created int64                 `json:"created"`
	Model   string                `json:"model"`
	Choices []mistralStreamChoice `json:"choices"`
	Usage   *mistralUsage         `json:"usage,omitempty"` // Present on the final chunk
}

// mistralStreamChoice carries the delta for one choice within a stream chunk.
type mistralStreamChoice struct {
	Index        int          `json:"index"`
	Delta        mistralDelta `json:"delta"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

// mistralDelta is the incremental message fragment inside a stream chunk.
type mistralDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}
