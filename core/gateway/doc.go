// Package gateway orchestrates chat requests across the registered
// providers. It routes by model-name prefix, exposes single-call Complete
// and Stream operations, fans prompts out for batch processing and model
// comparison with partial-failure isolation, and derives accounting
// metadata (token usage, estimated cost, throughput) from responses.
//
// Fan-out is bounded by a configurable semaphore and an optional shared
// token-bucket rate limiter. Per-call timeouts, pricing tables and
// observability are wired through construction-time options; the resulting
// gateway is safe for concurrent use.
package gateway
