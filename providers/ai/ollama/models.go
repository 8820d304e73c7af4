package ollama

import "time"

/*
	OLLAMA CHAT API - REQUEST TYPES
*/

// ollamaRequest represents the request body for Ollama's /api/chat endpoint.
type ollamaRequest struct {
	Model     string         `json:"model"`
	Messages  []ollamaMessage `json:"messages"`
	Stream    bool           `json:"stream"` // Ollama defaults to streaming; always sent explicitly
	KeepAlive string         `json:"keep_alive,omitempty"`
	Options   *ollamaOptions `json:"options,omitempty"`
}

// ollamaMessage represents a single message in the conversation.
type ollamaMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// ollamaOptions carries sampling controls and hardware-affinity knobs.
// The hardware fields are unique to local inference: they tune how the model
// is loaded and scheduled on the host rather than how tokens are sampled.
type ollamaOptions struct {
	// Sampling controls
	NumPredict       int      `json:"num_predict,omitempty"` // Max tokens to generate
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	TopK             *int     `json:"top_k,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	Seed             *int     `json:"seed,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	RepeatPenalty    *float64 `json:"repeat_penalty,omitempty"`

	// Hardware-affinity knobs
	NumCtx    *int  `json:"num_ctx,omitempty"`    // Context window size
	NumBatch  *int  `json:"num_batch,omitempty"`  // Prompt processing batch size
	NumGPU    *int  `json:"num_gpu,omitempty"`    // Layers to offload to the GPU
	NumThread *int  `json:"num_thread,omitempty"` // CPU threads for inference
	UseMMap   *bool `json:"use_mmap,omitempty"`   // Memory-map the model file
	UseMLock  *bool `json:"use_mlock,omitempty"`  // Lock model memory (prevent swapping)
	NUMA      *bool `json:"numa,omitempty"`       // NUMA-aware allocation
}

/*
	OLLAMA CHAT API - RESPONSE TYPES
*/

// ollamaResponse represents a response from /api/chat. In streaming mode each
// NDJSON line is one of these; the final line has Done=true and carries the
// evaluation counters. In synchronous mode a single object carries everything.
type ollamaResponse struct {
	Model      string        `json:"model"`
	CreatedAt  time.Time     `json:"created_at"`
	Message    ollamaMessage `json:"message"`
	Done       bool          `json:"done"`
	DoneReason string        `json:"done_reason,omitempty"`

	// Evaluation counters, present on the final (done) response.
	// Durations are reported in nanoseconds.
	TotalDuration      int64 `json:"total_duration,omitempty"`
	LoadDuration       int64 `json:"load_duration,omitempty"`
	PromptEvalCount    int   `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64 `json:"prompt_eval_duration,omitempty"`
	EvalCount          int   `json:"eval_count,omitempty"`
	EvalDuration       int64 `json:"eval_duration,omitempty"`
}
