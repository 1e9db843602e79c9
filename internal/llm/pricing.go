package llm

import "strings"

// Price is a model's list price in USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost returns the USD cost of a request.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6
}

var prices = map[string]Price{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-sonnet-4":   {3, 15},
	"claude-opus-4-1":   {15, 75},
	"claude-3-5-haiku":  {0.8, 4},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}

// PriceOf looks up a model's price. Dated snapshots ("claude-haiku-4-5-
// 20251001") and vendor prefixes ("google/gemini-2.5-flash") resolve to
// the base model.
func PriceOf(model string) (Price, bool) {
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		model = model[i+1:]
	}
	for m := model; m != ""; {
		if p, ok := prices[m]; ok {
			return p, true
		}
		i := strings.LastIndexByte(m, '-')
		if i < 0 {
			break
		}
		m = m[:i]
	}
	return Price{}, false
}
