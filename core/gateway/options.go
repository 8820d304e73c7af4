package gateway

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/llmgate/llmgate/core/cost"
	"github.com/llmgate/llmgate/providers/observability"
)

// defaultConcurrency bounds batch and comparison fan-out when the caller
// does not configure one. The upstream behavior was unbounded; a bound is a
// deliberate deviation.
const defaultConcurrency = 4

// Option configures a [Gateway] at construction time. The resulting
// configuration is immutable for the lifetime of the gateway.
type Option func(*Gateway)

// WithConcurrency bounds the number of in-flight provider calls during
// [Gateway.Batch] and [Gateway.Compare]. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(g *Gateway) {
		if n >= 1 {
			g.concurrency = n
		}
	}
}

// WithRateLimit installs a token-bucket limiter shared across all fan-out
// calls. requestsPerSecond is the sustained rate; burst is the bucket size.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(g *Gateway) {
		g.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithTimeout sets a per-call deadline applied to every provider request the
// gateway issues. Zero means no gateway-imposed deadline (the provider's own
// transport settings still apply).
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithObservability attaches an observability provider. The gateway opens a
// span per operation and threads the observer through the context so
// providers enrich the same trace.
func WithObservability(obs observability.Provider) Option {
	return func(g *Gateway) {
		g.obs = obs
	}
}

// WithPricing merges a rate table into the gateway's pricing view, used by
// [Gateway.Metadata] for cost estimates. Call once per provider table; later
// tables win on key conflicts.
func WithPricing(table cost.Table) Option {
	return func(g *Gateway) {
		g.pricing = cost.Merge(g.pricing, table)
	}
}

// RunOption configures a single [Gateway.Batch] run.
type RunOption func(*runConfig)

type runConfig struct {
	warmup bool
}

// WithWarmup issues one throwaway call before bulk execution so that a
// locally hosted model is resident in memory when the timed calls start.
// The warmup result is discarded. Providers that do not expose a warmup
// hook ignore it.
func WithWarmup() RunOption {
	return func(rc *runConfig) {
		rc.warmup = true
	}
}
