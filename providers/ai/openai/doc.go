// Package openai implements the [ai.Provider] and [ai.StreamProvider]
// interfaces for OpenAI's Chat Completions API.
//
// It handles request conversion from the generic [ai.ChatRequest] format to
// the Chat Completions wire format (including logit bias, stop sequences,
// seed, and penalty controls), response mapping back to [ai.ChatResponse],
// SSE-based streaming with the include_usage final chunk, and token pricing.
//
// The primary entry point is [New], which reads OPENAI_API_KEY and
// OPENAI_API_BASE_URL from the environment. Use [OpenAIProvider.WithAPIKey],
// [OpenAIProvider.WithBaseURL], or [OpenAIProvider.WithHttpClient] to
// configure the provider programmatically.
package openai
