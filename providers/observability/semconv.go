package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "openai", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "gpt-4o-mini", "claude-3-5-sonnet-latest")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMMaxTokens is the maximum tokens allowed
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMStreaming indicates whether the request used streaming delivery
	AttrLLMStreaming = "llm.streaming"
)

// --- Token Usage Attributes ---

const (
	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensPerSecond is the generation throughput derived from
	// provider timings
	AttrLLMTokensPerSecond = "llm.tokens.per_second" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMCostUSD is the estimated request cost in US dollars
	AttrLLMCostUSD = "llm.cost.usd"
)

// --- Gateway Attributes ---

const (
	// AttrGatewayRunID is the unique identifier of a batch or comparison run
	AttrGatewayRunID = "gateway.run.id"

	// AttrGatewayBatchSize is the number of prompts in a batch run
	AttrGatewayBatchSize = "gateway.batch.size"

	// AttrGatewayModelsCount is the number of models in a comparison run
	AttrGatewayModelsCount = "gateway.models.count"

	// AttrGatewayConcurrency is the fan-out bound for a run
	AttrGatewayConcurrency = "gateway.concurrency"

	// AttrGatewayWarmup indicates whether a warmup call preceded the run
	AttrGatewayWarmup = "gateway.warmup"
)

// --- Request Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type/class
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanLLMRequest is the span name for LLM API requests
	SpanLLMRequest = "llm.request"

	// SpanLLMStream is the span name for streaming LLM requests
	SpanLLMStream = "llm.stream"

	// SpanGatewayBatch is the span name for batch runs
	SpanGatewayBatch = "gateway.batch"

	// SpanGatewayCompare is the span name for model comparison runs
	SpanGatewayCompare = "gateway.compare"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of an LLM request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of an LLM request
	EventLLMRequestEnd = "llm.request.end"

	// EventGatewayWarmup marks the warmup call before a batch run
	EventGatewayWarmup = "gateway.warmup"

	// EventTokensReceived marks when tokens are received from LLM
	EventTokensReceived = "llm.tokens.received" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Metric Names ---

const (
	// MetricGatewayRequestCount is the counter for gateway requests
	MetricGatewayRequestCount = "llmgate.request.count"

	// MetricGatewayRequestDuration is the histogram for request duration
	MetricGatewayRequestDuration = "llmgate.request.duration"

	// MetricGatewayTokensTotal is the counter for total tokens
	MetricGatewayTokensTotal = "llmgate.tokens.total"

	// MetricGatewayTokensPrompt is the counter for prompt tokens
	MetricGatewayTokensPrompt = "llmgate.tokens.prompt"

	// MetricGatewayTokensCompletion is the counter for completion tokens
	MetricGatewayTokensCompletion = "llmgate.tokens.completion"

	// MetricGatewayCostUSD is the counter for estimated spend
	MetricGatewayCostUSD = "llmgate.cost.usd"
)
