// Package utils provides shared low-level helpers used throughout the llmgate
// internals. It covers HTTP request helpers for both synchronous and streaming
// communication with LLM provider APIs, stream framing scanners for
// Server-Sent Events and newline-delimited JSON, generic pointer and string
// utilities, and a simple elapsed-time timer.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] together with [SSEScanner] or [NDJSONScanner] for streaming,
// [Ptr] for converting values to pointers, and [Timer] for measuring latency.
package utils
