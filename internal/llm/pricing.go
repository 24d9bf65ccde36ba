package llm

// Price is the USD cost per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost returns the USD cost of a request.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6
}

// prices covers the default and alias models of each backend.
var prices = map[string]Price{
	"claude-haiku-4-5-20251001":   {1, 5},
	"claude-sonnet-4-5-20250929":  {3, 15},
	"gpt-4o-mini":                 {0.15, 0.6},
	"gpt-4o":                      {2.5, 10},
	"gemini-2.0-flash":            {0.1, 0.4},
	"gemini-2.5-pro":              {1.25, 10},
	"google/gemini-2.0-flash-001": {0.1, 0.4},
}

// PriceOf returns the price of model, and false when it is unknown.
func PriceOf(model string) (Price, bool) {
	p, ok := prices[model]
	return p, ok
}
