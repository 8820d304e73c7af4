// Package ollama implements the [ai.Provider] and [ai.StreamProvider]
// interfaces for a local Ollama inference server.
//
// It differs from the hosted providers in three ways: there is no API key,
// streaming uses newline-delimited JSON instead of SSE, and responses carry
// nanosecond evaluation timings that feed tokens-per-second throughput
// metrics. Hardware-affinity knobs (context size, GPU layer offload, thread
// count, memory mapping and locking, NUMA) are passed through [ai.ChatRequest]
// extras and validated against the declared capability list.
//
// [OllamaProvider.Warmup] issues a minimal request to load a model into
// memory before latency-sensitive batch work.
//
// The primary entry point is [New], which reads OLLAMA_API_BASE_URL from the
// environment, defaulting to http://localhost:11434.
package ollama
