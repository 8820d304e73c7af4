package perplexity

/*
	PERPLEXITY CHAT COMPLETIONS API - REQUEST TYPES

	The request is Chat Completions shaped plus search controls. Perplexity
	models always answer from live web search; the recency and domain filters
	constrain what the search layer may cite.
*/

// perplexityRequest represents the request body for Perplexity's API.
type perplexityRequest struct {
	Model               string              `json:"model"`
	Messages            []perplexityMessage `json:"messages"`
	MaxTokens           int                 `json:"max_tokens,omitempty"`
	Temperature         *float64            `json:"temperature,omitempty"`
	TopP                *float64            `json:"top_p,omitempty"`
	TopK                int                 `json:"top_k,omitempty"`
	FrequencyPenalty    *float64            `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float64            `json:"presence_penalty,omitempty"`
	SearchRecencyFilter string              `json:"search_recency_filter,omitempty"` // "day", "week", "month", "year"
	SearchDomainFilter  []string            `json:"search_domain_filter,omitempty"`
	Stream              bool                `json:"stream,omitempty"`
}

// perplexityMessage represents a single message in the conversation.
type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

/*
	PERPLEXITY CHAT COMPLETIONS API - RESPONSE TYPES
*/

// perplexityResponse represents the response from Perplexity's API. On top of
// the Chat Completions shape it carries the citation URLs and the search
// results the answer was grounded in.
type perplexityResponse struct {
	ID            string             `json:"id"`
	Object        string             `json:"object"`
	Created       int64              `json:"created"`
	Model         string             `json:"model"`
	Choices       []perplexityChoice `json:"choices"`
	Usage         *perplexityUsage   `json:"usage,omitempty"`
	Citations     []string           `json:"citations,omitempty"`
	SearchResults []SearchResult     `json:"search_results,omitempty"`
}

// perplexityChoice is one completion alternative.
type perplexityChoice struct {
	Index        int               `json:"index"`
	Message      perplexityMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// perplexityUsage reports token consumption for a single request.
type perplexityUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// SearchResult is one web source the model consulted while answering.
// Snippets may contain HTML markup; see [RenderSnippetMarkdown].
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Date    string `json:"date,omitempty"`
}

/*
	PERPLEXITY SSE STREAMING - WIRE TYPES
*/

// perplexityStreamChunk is a single SSE payload from a streaming completion.
// Citations arrive on the final chunk together with usage.
type perplexityStreamChunk struct {
	ID        string                   `json:"id"`
	Model     string                   `json:"model"`
	Choices   []perplexityStreamChoice `json:"choices"`
	Usage     *perplexityUsage         `json:"usage,omitempty"`
	Citations []string                 `json:"citations,omitempty"`
}

// perplexityStreamChoice carries the delta for one choice within a chunk.
type perplexityStreamChoice struct {
	Index        int             `json:"index"`
	Delta        perplexityDelta `json:"delta"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// perplexityDelta is the incremental message fragment inside a stream chunk.
type perplexityDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}
