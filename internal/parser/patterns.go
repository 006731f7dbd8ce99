package parser

import (
	"regexp"
	"strings"
)

// PatternManager holds the ordered BL pattern tiers used for candidate generation
type PatternManager struct {
	explicitPatterns []*PatternEntry
	formatPatterns   []*PatternEntry
	fallbackPattern  *PatternEntry
}

// PatternEntry represents a regex pattern with metadata
type PatternEntry struct {
	Regex       *regexp.Regexp
	Tier        Tier
	Format      string
	Description string
}

// NewPatternManager creates a pattern manager with every tier compiled
func NewPatternManager() *PatternManager {
	pm := &PatternManager{}
	pm.initExplicitPatterns()
	pm.initFormatPatterns()
	pm.initFallbackPattern()
	return pm
}

// blValue is the capture used after every BL label
const blValue = `[:\-\.\s]*([A-Z0-9\-_/]{6,25})`

// initExplicitPatterns sets up patterns that require a BL label before the value.
// Label alternations list longer words first so NUMBER is never read as NO.
func (pm *PatternManager) initExplicitPatterns() {
	pm.explicitPatterns = []*PatternEntry{
		{
			Regex:       regexp.MustCompile(`(?i)B[/\-]?L\s*(?:NUMBER|NUM|NO|REFERENCE|REF)` + blValue),
			Tier:        TierExplicit,
			Format:      "bl_label",
			Description: "B/L, B-L or BL followed by NO, NUMBER or REF",
		},
		{
			Regex:       regexp.MustCompile(`(?i)BILL\s+OF\s+LADING\s*(?:NUMBER|NUM|NO|REFERENCE|REF)` + blValue),
			Tier:        TierExplicit,
			Format:      "bill_of_lading_label",
			Description: "Spelled out bill of lading label",
		},
		{
			Regex:       regexp.MustCompile(`(?i)BILLOFLADING\s*(?:NUMBER|NUM|NO|REFERENCE|REF)` + blValue),
			Tier:        TierExplicit,
			Format:      "bill_of_lading_label",
			Description: "Bill of lading label with the spaces lost by OCR",
		},
		{
			Regex:       regexp.MustCompile(`(?i)(?:OCEAN|HOUSE|MASTER)\s+BILL\s*(?:NUMBER|NUM|NO)` + blValue),
			Tier:        TierExplicit,
			Format:      "ocean_bill_label",
			Description: "Ocean, house or master bill label",
		},
		{
			Regex:       regexp.MustCompile(`(?i)(?:OCEAN|HOUSE|MASTER)BILL\s*(?:NUMBER|NUM|NO)` + blValue),
			Tier:        TierExplicit,
			Format:      "ocean_bill_label",
			Description: "Ocean, house or master bill label without spaces",
		},
		{
			Regex:       regexp.MustCompile(`(?i)BLNO` + blValue),
			Tier:        TierExplicit,
			Format:      "bl_label",
			Description: "Compact BLNO label",
		},
		{
			Regex:       regexp.MustCompile(`(?i)BL\s*NO` + blValue),
			Tier:        TierExplicit,
			Format:      "bl_label",
			Description: "BL NO label",
		},
		{
			Regex:       regexp.MustCompile(`(?i)BL\s+REF(?:ERENCE)?[:\-\.\s]+([A-Z0-9\-_/]{6,25})`),
			Tier:        TierExplicit,
			Format:      "bl_reference",
			Description: "BL REF or BL REFERENCE label",
		},
	}
}

// initFormatPatterns sets up label-free BL shapes, most specific first
func (pm *PatternManager) initFormatPatterns() {
	pm.formatPatterns = []*PatternEntry{
		{
			Regex:       regexp.MustCompile(`(?i)\b[A-Z]{2,4}\d{6,15}\b`),
			Tier:        TierFormat,
			Format:      "prefix_digits",
			Description: "Carrier prefix followed by digits",
		},
		{
			Regex:       regexp.MustCompile(`(?i)\b[A-Z]{3,4}[A-Z0-9]{6,20}\b`),
			Tier:        TierFormat,
			Format:      "prefix_alnum",
			Description: "Carrier prefix followed by mixed alphanumerics",
		},
		{
			Regex:       regexp.MustCompile(`(?i)\b\d{1,2}[A-Z]{2,4}\d{6,15}\b`),
			Tier:        TierFormat,
			Format:      "digit_prefix_digits",
			Description: "Leading digits, prefix and digits",
		},
		{
			Regex:       regexp.MustCompile(`(?i)\b[A-Z]{2,4}[\-/_]\d{6,15}\b`),
			Tier:        TierFormat,
			Format:      "prefix_separator_digits",
			Description: "Prefix and digits split by a separator",
		},
		{
			Regex:       regexp.MustCompile(`(?i)\b\d{1,2}[A-Z]{2,4}[\-/_]\d{6,15}\b`),
			Tier:        TierFormat,
			Format:      "digit_prefix_separator_digits",
			Description: "Leading digits, prefix, separator and digits",
		},
		{
			Regex:       regexp.MustCompile(`\b\d{8,15}\b`),
			Tier:        TierFormat,
			Format:      "numeric",
			Description: "Plain numeric reference",
		},
	}
}

func (pm *PatternManager) initFallbackPattern() {
	pm.fallbackPattern = &PatternEntry{
		Regex:       regexp.MustCompile(`(?i)\b[A-Z0-9\-_/]{6,20}\b`),
		Tier:        TierFallback,
		Format:      "token",
		Description: "Any alphanumeric token",
	}
}

// Patterns returns the generation cascade: explicit patterns, then format
// patterns unless explicitOnly is set.
func (pm *PatternManager) Patterns(explicitOnly bool) []*PatternEntry {
	patterns := make([]*PatternEntry, 0, len(pm.explicitPatterns)+len(pm.formatPatterns))
	patterns = append(patterns, pm.explicitPatterns...)
	if !explicitOnly {
		patterns = append(patterns, pm.formatPatterns...)
	}
	return patterns
}

// GetAllPatterns returns all patterns for debugging/testing
func (pm *PatternManager) GetAllPatterns() map[string][]*PatternEntry {
	return map[string][]*PatternEntry{
		"explicit": pm.explicitPatterns,
		"format":   pm.formatPatterns,
		"fallback": {pm.fallbackPattern},
	}
}

// extractWithPatterns applies patterns in order and returns every raw match.
// Patterns with a capture group contribute the group, others the whole match.
func (pm *PatternManager) extractWithPatterns(text string, patterns []*PatternEntry) []Candidate {
	var candidates []Candidate

	for _, pattern := range patterns {
		for _, loc := range pattern.Regex.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if len(loc) > 2 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}

			raw := strings.TrimSpace(text[start:end])
			if raw == "" {
				continue
			}

			candidates = append(candidates, Candidate{
				Raw:      raw,
				Value:    normalizeToken(raw),
				Tier:     pattern.Tier,
				Format:   pattern.Format,
				Position: start,
			})
		}
	}

	return candidates
}
