// Package anthropic implements the [ai.Provider] and [ai.StreamProvider]
// interfaces for Anthropic's Messages API.
//
// It handles request conversion from the generic [ai.ChatRequest] format to
// Anthropic's Messages wire format (splitting the system prompt into the
// dedicated top-level field), response mapping back to [ai.ChatResponse],
// SSE-based streaming across the message_start/message_delta/message_stop
// event lifecycle, and token pricing.
//
// The primary entry point is [New], which reads ANTHROPIC_API_KEY and
// ANTHROPIC_API_BASE_URL from the environment. Use
// [AnthropicProvider.WithAPIKey], [AnthropicProvider.WithBaseURL], or
// [AnthropicProvider.WithHttpClient] to configure the provider
// programmatically.
package anthropic
