package parser

import (
	"math"
	"strings"
)

// DefaultConfidenceKeywords are the document words that raise final confidence
var DefaultConfidenceKeywords = []string{"BL", "B/L", "BILL"}

const (
	baseConfidence     = 0.6
	keywordBoost       = 0.1
	maxKeywordBoost    = 0.3
	verbatimValueBoost = 0.1
)

// FinalConfidence rates an accepted value between 0 and 1. It starts from a
// base, gains a step for each keyword present in the text (bounded), and a
// step when the value appears verbatim. An empty value has zero confidence.
func FinalConfidence(text, value string, keywords []string) float64 {
	if value == "" {
		return 0
	}

	upper := strings.ToUpper(text)
	confidence := baseConfidence

	boost := 0.0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(upper, strings.ToUpper(kw)) {
			boost += keywordBoost
		}
	}
	confidence += math.Min(boost, maxKeywordBoost)

	if strings.Contains(upper, strings.ToUpper(value)) {
		confidence += verbatimValueBoost
	}

	return math.Round(math.Min(confidence, 1.0)*100) / 100
}
