package openai

import "github.com/llmgate/llmgate/core/cost"

// Model name constants for OpenAI models.
// Use these constants instead of raw strings for type safety and autocompletion.
const (
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
	ModelGPT41     = "gpt-4.1"
	ModelGPT41Mini = "gpt-4.1-mini"
	ModelGPT41Nano = "gpt-4.1-nano"
	ModelO3Mini    = "o3-mini"
)

// ModelPricing contains pricing information for supported OpenAI models.
// Prices are in USD per million tokens.
// Source: https://platform.openai.com/docs/pricing
var ModelPricing = cost.Table{
	ModelGPT4o: {
		InputCostPerMillion:  2.50,
		OutputCostPerMillion: 10.00,
	},
	ModelGPT4oMini: {
		InputCostPerMillion:  0.15,
		OutputCostPerMillion: 0.60,
	},
	ModelGPT41: {
		InputCostPerMillion:  2.00,
		OutputCostPerMillion: 8.00,
	},
	ModelGPT41Mini: {
		InputCostPerMillion:  0.40,
		OutputCostPerMillion: 1.60,
	},
	ModelGPT41Nano: {
		InputCostPerMillion:  0.10,
		OutputCostPerMillion: 0.40,
	},
	ModelO3Mini: {
		InputCostPerMillion:  1.10,
		OutputCostPerMillion: 4.40,
	},
}
