// Package cost defines pricing structures used across the llmgate gateway to
// estimate the monetary cost of model inference from reported token usage.
//
// The main types are [ModelCost] for per-token LLM pricing, [Table] for
// model-name to pricing lookups with prefix matching of dated model variants,
// and [Breakdown] for the itemized USD estimate attached to response metadata.
// Each provider package ships its own [Table]; [Merge] combines them for
// cross-provider comparisons.
package cost
