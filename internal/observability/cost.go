package observability

import (
	"strconv"

	"github.com/openai/openai-go/responses"
)

const (
	tokensPerMillion    = 1_000_000.0
	costFormatPrecision = 6

	// Fallback for models missing from the table
	defaultPricingModel = "gpt-5-mini"
)

// ModelPricing contains pricing information per 1M tokens in USD
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// PricingTable covers the models the suggestion providers default to
var PricingTable = map[string]ModelPricing{
	"gpt-5":        {InputPerMillion: 1.25, OutputPerMillion: 10},
	"gpt-5-mini":   {InputPerMillion: 0.25, OutputPerMillion: 2},
	"gpt-5-nano":   {InputPerMillion: 0.05, OutputPerMillion: 0.4},
	"gpt-4.1-mini": {InputPerMillion: 0.4, OutputPerMillion: 1.6},
}

// CalculateOpenAICost estimates the USD cost of one Responses API call.
// Reasoning tokens are already part of OutputTokens.
func CalculateOpenAICost(model string, usage responses.ResponseUsage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		pricing = PricingTable[defaultPricingModel]
	}

	inputCost := float64(usage.InputTokens) / tokensPerMillion * pricing.InputPerMillion
	outputCost := float64(usage.OutputTokens) / tokensPerMillion * pricing.OutputPerMillion
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
