package perplexity

import "github.com/llmgate/llmgate/core/cost"

// Model name constants for Perplexity's sonar family.
// Use these constants instead of raw strings for type safety and autocompletion.
const (
	ModelSonar             = "sonar"
	ModelSonarPro          = "sonar-pro"
	ModelSonarReasoning    = "sonar-reasoning"
	ModelSonarReasoningPro = "sonar-reasoning-pro"
)

// ModelPricing contains pricing information for supported Perplexity models.
// Prices are in USD per million tokens. Search request fees are billed
// separately and are not modeled here.
// Source: https://docs.perplexity.ai/guides/pricing
var ModelPricing = cost.Table{
	ModelSonar: {
		InputCostPerMillion:  1.00,
		OutputCostPerMillion: 1.00,
	},
	ModelSonarPro: {
		InputCostPerMillion:  3.00,
		OutputCostPerMillion: 15.00,
	},
	ModelSonarReasoning: {
		InputCostPerMillion:  1.00,
		OutputCostPerMillion: 5.00,
	},
	ModelSonarReasoningPro: {
		InputCostPerMillion:  2.00,
		OutputCostPerMillion: 8.00,
	},
}
