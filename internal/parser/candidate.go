package parser

import "strings"

// Tier identifies which generator produced a candidate
type Tier int

const (
	// TierFallback candidates come from the label-agnostic token scan
	TierFallback Tier = iota
	// TierFormat candidates matched a BL-shaped pattern with no label
	TierFormat
	// TierExplicit candidates followed a recognised BL label
	TierExplicit
)

func (t Tier) String() string {
	switch t {
	case TierExplicit:
		return "explicit"
	case TierFormat:
		return "format"
	default:
		return "fallback"
	}
}

// MarshalText encodes the tier by name
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Candidate is a token lifted from the document text
type Candidate struct {
	Raw      string `json:"raw"`
	Value    string `json:"value"`
	Tier     Tier   `json:"tier"`
	Format   string `json:"format"`
	Position int    `json:"position"`
}

// ScoredCandidate is a candidate with its additive score and the tags of
// every rule that contributed to it.
type ScoredCandidate struct {
	Candidate
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// normalizeToken uppercases s and drops everything that is not A-Z or 0-9.
func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mergeCandidates concatenates the lists, keeping the first candidate seen
// for each normalized value.
func mergeCandidates(lists ...[]Candidate) []Candidate {
	seen := make(map[string]bool)
	var merged []Candidate
	for _, list := range lists {
		for _, c := range list {
			if c.Value == "" || seen[c.Value] {
				continue
			}
			seen[c.Value] = true
			merged = append(merged, c)
		}
	}
	return merged
}
