package parser

import (
	"regexp"
	"strings"
)

var (
	strongBLFormat    = regexp.MustCompile(`^[A-Z]{2,4}\d{6,15}$`)
	separatedBLFormat = regexp.MustCompile(`^[A-Z]{2,4}[-_/]\d{6,15}$`)
	looseBLFormat     = regexp.MustCompile(`^[A-Z]{2,6}\d{5,15}$`)
)

// Reason tags attached to scored candidates
const (
	ReasonBlacklisted      = "blacklisted"
	ReasonNoDigits         = "no_digits"
	ReasonISOContainer     = "iso_container"
	ReasonExplicitMatch    = "explicit_match"
	ReasonExplicitLabel    = "explicit_label_near"
	ReasonBillOfLadingNo   = "bill_of_lading_no_near"
	ReasonBLKeyword        = "bl_keyword_near"
	ReasonStrongFormat     = "strong_format"
	ReasonSeparatedFormat  = "separated_format"
	ReasonLooseFormat      = "loose_format"
	ReasonAlphaDigits      = "letters_and_digits"
	ReasonCarrierPrefix    = "carrier_prefix"
	ReasonGoodLength       = "good_length"
	ReasonHeaderZone       = "header_zone"
	ReasonRepeated         = "repeated"
	ReasonBookingNear      = "booking_near"
	ReasonSealContext      = "seal_context"
	ReasonContainerSection = "container_section"
	ReasonForbiddenContext = "forbidden_context"
	ReasonDraftContext     = "draft_context"
)

// Scorer assigns the additive confidence score to a candidate
type Scorer struct {
	rules   Rules
	context *ContextAnalyzer
}

// NewScorer creates a scorer over rules
func NewScorer(rules Rules) *Scorer {
	return &Scorer{rules: rules, context: NewContextAnalyzer(rules)}
}

// Score evaluates c against doc. Blacklisted, digit-free and container
// tokens come back with the rejection score and nothing else.
func (s *Scorer) Score(doc *Document, c Candidate) ScoredCandidate {
	w := s.rules.Weights
	token := c.Value
	sc := ScoredCandidate{Candidate: c}

	reject := func(reason string) ScoredCandidate {
		sc.Score = w.Rejected
		sc.Reasons = []string{reason}
		return sc
	}

	if token == "" || s.isBlacklisted(token) {
		return reject(ReasonBlacklisted)
	}
	if !hasDigit(token) {
		return reject(ReasonNoDigits)
	}
	if IsISO6346(token) {
		return reject(ReasonISOContainer)
	}

	add := func(delta int, reason string) {
		sc.Score += delta
		sc.Reasons = append(sc.Reasons, reason)
	}

	anchor := doc.Anchor(c)

	if c.Tier == TierExplicit {
		add(w.ExplicitMatch, ReasonExplicitMatch)
	}

	hasLabel := s.context.HasExplicitBLLabelNear(doc, anchor)
	if hasLabel {
		add(w.ExplicitLabel, ReasonExplicitLabel)
	}
	if s.context.IsNearBillOfLadingNo(doc, anchor) {
		add(w.BillOfLadingNo, ReasonBillOfLadingNo)
	}
	if s.context.NearBLKeyword(doc, anchor) {
		add(w.NearKeyword, ReasonBLKeyword)
	}

	switch {
	case strongBLFormat.MatchString(token):
		add(w.StrongFormat, ReasonStrongFormat)
	// Unreachable for candidates built by normalizeToken: a separated raw
	// token always normalizes to a strong format value. Kept for callers that
	// score hand-built candidates.
	case separatedBLFormat.MatchString(strings.ToUpper(c.Raw)):
		add(w.FormatWithSeparator, ReasonSeparatedFormat)
	case looseBLFormat.MatchString(token):
		add(w.LooseFormat, ReasonLooseFormat)
	}

	if hasLetter(token) {
		add(w.AlphaDigits, ReasonAlphaDigits)
	}
	for _, prefix := range s.rules.CarrierPrefixes {
		if strings.HasPrefix(token, prefix) {
			add(w.CarrierPrefix, ReasonCarrierPrefix)
			break
		}
	}
	if len(token) >= 8 && len(token) <= 20 {
		add(w.GoodLength, ReasonGoodLength)
	}
	if doc.InHeader(anchor) {
		add(w.HeaderZone, ReasonHeaderZone)
	}
	if freq := doc.Count(anchor); freq > 1 {
		add(min(w.MaxFrequency, freq), ReasonRepeated)
	}

	if !hasLabel {
		if s.context.IsBookingNumber(doc, anchor) {
			add(w.BookingPenalty, ReasonBookingNear)
		}
		if s.context.IsSealNumberContext(doc, anchor) {
			add(w.SealPenalty, ReasonSealContext)
		}
		if s.context.IsWithinContainerSection(doc, anchor) {
			add(w.ContainerSectionPenalty, ReasonContainerSection)
		}
		if s.context.IsInForbiddenContext(doc, anchor) {
			add(w.ForbiddenPenalty, ReasonForbiddenContext)
		}
	}

	if s.context.IsDraftContext(doc, anchor) {
		add(w.DraftContext, ReasonDraftContext)
	}

	return sc
}

func (s *Scorer) isBlacklisted(token string) bool {
	for _, word := range s.rules.ScoreBlacklist {
		if token == word {
			return true
		}
	}
	return false
}
