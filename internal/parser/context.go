package parser

import (
	"strings"
)

// Document is an uppercased view of the text with the header zone
// precomputed, so proximity checks for many candidates share one copy.
type Document struct {
	upper     string
	headerEnd int
}

// NewDocument prepares text for proximity queries.
func NewDocument(text string, headerFraction float64) *Document {
	upper := strings.ToUpper(text)
	return &Document{
		upper:     upper,
		headerEnd: int(float64(len(upper)) * headerFraction),
	}
}

// Index returns the offset of the first occurrence of token, or -1.
func (d *Document) Index(token string) int {
	if token == "" {
		return -1
	}
	return strings.Index(d.upper, strings.ToUpper(token))
}

// Window returns the text from before bytes ahead of token's first
// occurrence to after bytes past its end.
func (d *Document) Window(token string, before, after int) (string, bool) {
	idx := d.Index(token)
	if idx < 0 {
		return "", false
	}
	start := max(0, idx-before)
	end := min(len(d.upper), idx+len(token)+after)
	return d.upper[start:end], true
}

// NearAny reports whether any phrase occurs within window bytes on either
// side of token.
func (d *Document) NearAny(token string, phrases []string, window int) bool {
	ctx, ok := d.Window(token, window, window)
	if !ok {
		return false
	}
	return containsAny(ctx, phrases)
}

// PrecededByAny reports whether any phrase occurs in the lookback bytes
// before token.
func (d *Document) PrecededByAny(token string, phrases []string, lookback int) bool {
	ctx, ok := d.Window(token, lookback, -len(token))
	if !ok {
		return false
	}
	return containsAny(ctx, phrases)
}

// Count returns how many non-overlapping times token appears.
func (d *Document) Count(token string) int {
	if token == "" {
		return 0
	}
	return strings.Count(d.upper, strings.ToUpper(token))
}

// InHeader reports whether token appears within the header zone.
func (d *Document) InHeader(token string) bool {
	if token == "" {
		return false
	}
	return strings.Contains(d.upper[:d.headerEnd], strings.ToUpper(token))
}

// Anchor picks the string used to locate c in the document: the raw match
// when it can be found, otherwise the normalized value.
func (d *Document) Anchor(c Candidate) string {
	if c.Raw != "" && d.Index(c.Raw) >= 0 {
		return c.Raw
	}
	return c.Value
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(s, strings.ToUpper(p)) {
			return true
		}
	}
	return false
}

// ContextAnalyzer answers the labelled-window questions the scorer asks.
type ContextAnalyzer struct {
	rules Rules
}

// NewContextAnalyzer creates an analyzer over rules.
func NewContextAnalyzer(rules Rules) *ContextAnalyzer {
	return &ContextAnalyzer{rules: rules}
}

// HasExplicitBLLabelNear reports a BL label within the label window.
func (ca *ContextAnalyzer) HasExplicitBLLabelNear(doc *Document, token string) bool {
	return doc.NearAny(token, ca.rules.BLLabels, ca.rules.BLLabelWindow)
}

// NearPhrase reports phrase within window bytes of token.
func (ca *ContextAnalyzer) NearPhrase(doc *Document, token, phrase string, window int) bool {
	return doc.NearAny(token, []string{phrase}, window)
}

// IsNearBillOfLadingNo reports the literal "BILL OF LADING NO" close by.
func (ca *ContextAnalyzer) IsNearBillOfLadingNo(doc *Document, token string) bool {
	return ca.NearPhrase(doc, token, ca.rules.BillOfLadingPhrase, ca.rules.BillOfLadingWindow)
}

// NearBLKeyword reports any loose BL keyword within the keyword window.
func (ca *ContextAnalyzer) NearBLKeyword(doc *Document, token string) bool {
	return doc.NearAny(token, ca.rules.BLKeywords, ca.rules.BLKeywordWindow)
}

// IsInForbiddenContext reports a seal, carrier, container, booking, IMO or
// voyage label shortly before token.
func (ca *ContextAnalyzer) IsInForbiddenContext(doc *Document, token string) bool {
	return doc.PrecededByAny(token, ca.rules.ForbiddenLabels, ca.rules.ForbiddenWindow)
}

// IsSealNumberContext reports seal vocabulary within SealWindow bytes of the
// start of token, on either side.
func (ca *ContextAnalyzer) IsSealNumberContext(doc *Document, token string) bool {
	ctx, ok := doc.Window(token, ca.rules.SealWindow, ca.rules.SealWindow-len(token))
	if !ok {
		return false
	}
	return containsAny(ctx, ca.rules.SealKeywords)
}

// IsWithinContainerSection reports a container heading in the lookback
// before token.
func (ca *ContextAnalyzer) IsWithinContainerSection(doc *Document, token string) bool {
	return doc.PrecededByAny(token, ca.rules.ContainerIndicators, ca.rules.ContainerLookback)
}

// IsBookingNumber reports a booking label on either side of token.
func (ca *ContextAnalyzer) IsBookingNumber(doc *Document, token string) bool {
	return doc.NearAny(token, ca.rules.BookingLabels, ca.rules.BookingWindow)
}

// IsDraftContext reports draft wording close to token.
func (ca *ContextAnalyzer) IsDraftContext(doc *Document, token string) bool {
	return doc.NearAny(token, ca.rules.DraftPhrases, ca.rules.DraftWindow)
}

// HasExplicitBLLabelNear checks text for a BL label near token using the
// default windows.
func HasExplicitBLLabelNear(text, token string) bool {
	return NewContextAnalyzer(defaultRules).HasExplicitBLLabelNear(NewDocument(text, defaultRules.HeaderFraction), token)
}

// IsSealNumberContext checks text for seal vocabulary around token using the
// default window.
func IsSealNumberContext(text, token string) bool {
	return NewContextAnalyzer(defaultRules).IsSealNumberContext(NewDocument(text, defaultRules.HeaderFraction), token)
}
