package cost

import (
	"fmt"
	"strings"
)

// ModelCost represents the pricing structure for a language model.
// Costs are expressed in USD per million tokens.
//
// Example usage:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:  2.50,
//	    OutputCostPerMillion: 10.00,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million input tokens
	InputCostPerMillion float64 `json:"input_cost_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million output tokens
	OutputCostPerMillion float64 `json:"output_cost_per_million"`

	// CachedInputCostPerMillion is the cost in USD per 1 million cached input tokens
	// Some providers offer discounted rates for cached tokens (optional)
	CachedInputCostPerMillion float64 `json:"cached_input_cost_per_million,omitempty"`
}

// CalculateInputCost calculates the cost for the given number of input tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.InputCostPerMillion
}

// CalculateOutputCost calculates the cost for the given number of output tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.OutputCostPerMillion
}

// CalculateTotalCost calculates the total cost for a request.
func (mc ModelCost) CalculateTotalCost(inputTokens, outputTokens int) float64 {
	return mc.CalculateInputCost(inputTokens) + mc.CalculateOutputCost(outputTokens)
}

// String returns a formatted string representation of the model costs.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// Breakdown is the itemized cost estimate for a single request.
// Currency is always USD.
type Breakdown struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
	Currency   string  `json:"currency"`
}

// Table maps model identifiers to their pricing. Each provider package ships
// its own table built from the vendor's published price list; the gateway
// merges them for cross-provider estimates.
type Table map[string]ModelCost

// Lookup finds the pricing for a model. Exact matches win; otherwise the
// longest table key that prefixes the model name is used, so dated variants
// like "claude-3-5-sonnet-20241022" resolve to their family entry. Returns
// false for unknown models, never a zero-cost guess.
func (t Table) Lookup(model string) (ModelCost, bool) {
	if mc, ok := t[model]; ok {
		return mc, true
	}

	bestLen := 0
	var best ModelCost
	found := false
	for key, mc := range t {
		if strings.HasPrefix(model, key) && len(key) > bestLen {
			bestLen = len(key)
			best = mc
			found = true
		}
	}
	return best, found
}

// Estimate computes the cost breakdown for a request against this table.
// The boolean reports whether the model has a known price; callers must treat
// false as "unknown cost", not zero cost.
func (t Table) Estimate(model string, inputTokens, outputTokens int) (Breakdown, bool) {
	mc, ok := t.Lookup(model)
	if !ok {
		return Breakdown{}, false
	}

	input := mc.CalculateInputCost(inputTokens)
	output := mc.CalculateOutputCost(outputTokens)
	return Breakdown{
		InputCost:  input,
		OutputCost: output,
		TotalCost:  input + output,
		Currency:   "USD",
	}, true
}

// Merge combines multiple tables into a new one. Later tables win on key
// conflicts. The inputs are not modified.
func Merge(tables ...Table) Table {
	merged := make(Table)
	for _, t := range tables {
		for key, mc := range t {
			merged[key] = mc
		}
	}
	return merged
}
