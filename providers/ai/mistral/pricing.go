package mistral

import "github.com/llmgate/llmgate/core/cost"

// Model name constants for Mistral models.
// Use these constants instead of raw strings for type safety and autocompletion.
const (
	ModelMistralLarge = "mistral-large"
	ModelMistralSmall = "mistral-small"
	ModelOpenMistral  = "open-mistral-nemo"
	ModelCodestral    = "codestral"
	ModelMinistral8B = "ministral-8b"
	ModelMinistral3B = "ministral-3b"
)

// ModelPricing contains pricing information for supported Mistral models.
// Prices are in USD per million tokens. Aliased names such as
// "mistral-small-latest" resolve to their family entry via the cost table's
// prefix matching.
// Source: https://mistral.ai/pricing
var ModelPricing = cost.Table{
	ModelMistralLarge: {
		InputCostPerMillion:  2.00,
		OutputCostPerMillion: 6.00,
	},
	ModelMistralSmall: {
		InputCostPerMillion:  0.20,
		OutputCostPerMillion: 0.60,
	},
	ModelOpenMistral: {
		InputCostPerMillion:  0.15,
		OutputCostPerMillion: 0.15,
	},
	ModelCodestral: {
		InputCostPerMillion:  0.30,
		OutputCostPerMillion: 0.90,
	},
	ModelMinistral8B: {
		InputCostPerMillion:  0.10,
		OutputCostPerMillion: 0.10,
	},
	ModelMinistral3B: {
		InputCostPerMillion:  0.04,
		OutputCostPerMillion: 0.04,
	},
}
