package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternManager_ExplicitLabels(t *testing.T) {
	pm := NewPatternManager()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"B/L NO", "B/L NO: MEDU1234567", "MEDU1234567"},
		{"B-L NUMBER", "B-L NUMBER MEDU1234567", "MEDU1234567"},
		{"BL REF", "BL REF: ABC123456", "ABC123456"},
		{"BL REFERENCE", "BL REFERENCE ABC123456", "ABC123456"},
		{"bill of lading number", "BILL OF LADING NUMBER: HLCU123456789", "HLCU123456789"},
		{"compacted bill of lading", "BILLOFLADINGNO.HLCU123456789", "HLCU123456789"},
		{"ocean bill", "OCEAN BILL NO. OOLU2345678901", "OOLU2345678901"},
		{"compacted master bill", "MASTERBILLNO MBL1234567", "MBL1234567"},
		{"BLNO", "BLNO:EGLV123456789", "EGLV123456789"},
		{"lowercase", "b/l no: medu1234567", "medu1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := pm.extractWithPatterns(tt.text, pm.Patterns(true))
			require.NotEmpty(t, candidates)
			assert.Equal(t, tt.expected, candidates[0].Raw)
			assert.Equal(t, TierExplicit, candidates[0].Tier)
		})
	}
}

func TestPatternManager_NoLabelNoExplicitMatch(t *testing.T) {
	pm := NewPatternManager()

	assert.Empty(t, pm.extractWithPatterns("INVOICE MEDU1234567", pm.Patterns(true)))
	assert.NotEmpty(t, pm.extractWithPatterns("INVOICE MEDU1234567", pm.Patterns(false)))
}

func TestPatternManager_FormatShapes(t *testing.T) {
	pm := NewPatternManager()

	tests := []struct {
		text   string
		format string
	}{
		{"CMAU12345678", "prefix_digits"},
		{"MAEU1234A67X", "prefix_alnum"},
		{"00LU2164215810", "digit_prefix_digits"},
		{"MAEU-1234567", "prefix_separator_digits"},
		{"12345678901", "numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			candidates := pm.extractWithPatterns(tt.text, pm.Patterns(false))
			require.NotEmpty(t, candidates)
			assert.Equal(t, tt.format, candidates[0].Format)
		})
	}
}

func TestPatternManager_GetAllPatterns(t *testing.T) {
	all := NewPatternManager().GetAllPatterns()

	assert.Len(t, all["explicit"], 8)
	assert.Len(t, all["format"], 6)
	assert.Len(t, all["fallback"], 1)
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "MAEU1234567", normalizeToken("maeu-1234567"))
	assert.Equal(t, "ABC123", normalizeToken(" A/B_C 1.2.3 "))
	assert.Equal(t, "", normalizeToken("--//"))
}
