package anthropic

import "github.com/llmgate/llmgate/core/cost"

// Model name constants for Anthropic models.
// Use these constants instead of raw strings for type safety and autocompletion.
const (
	ModelClaude35Sonnet       = "claude-3-5-sonnet"
	ModelClaude35SonnetLatest = "claude-3-5-sonnet-latest"
	ModelClaude35Haiku        = "claude-3-5-haiku"
	ModelClaude35HaikuLatest  = "claude-3-5-haiku-latest"
	ModelClaude3Opus          = "claude-3-opus"
	ModelClaude3Haiku         = "claude-3-haiku"
)

// ModelPricing contains pricing information for supported Anthropic models.
// Prices are in USD per million tokens. Dated snapshots such as
// "claude-3-5-sonnet-20241022" resolve to their family entry via the cost
// table's prefix matching.
// Source: https://www.anthropic.com/pricing
var ModelPricing = cost.Table{
	ModelClaude35Sonnet: {
		InputCostPerMillion:  3.00,
		OutputCostPerMillion: 15.00,
	},
	ModelClaude35Haiku: {
		InputCostPerMillion:  0.80,
		OutputCostPerMillion: 4.00,
	},
	ModelClaude3Opus: {
		InputCostPerMillion:  15.00,
		OutputCostPerMillion: 75.00,
	},
	ModelClaude3Haiku: {
		InputCostPerMillion:  0.25,
		OutputCostPerMillion: 1.25,
	},
}
