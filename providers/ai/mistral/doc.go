// Package mistral implements the [ai.Provider] and [ai.StreamProvider]
// interfaces for Mistral's Chat Completions API.
//
// The wire protocol is Chat Completions compatible with two vendor quirks:
// the deterministic seed is named random_seed, and the safe_prompt extras
// flag asks the API to prepend Mistral's moderation system prompt. Streaming
// uses SSE terminated by a [DONE] sentinel.
//
// The primary entry point is [New], which reads MISTRAL_API_KEY and
// MISTRAL_API_BASE_URL from the environment.
package mistral
