package parser

import (
	"io"
	"log/slog"
	"sort"
	"strings"
)

// Decision outcomes
const (
	DecisionAccepted     = "accepted"
	DecisionNoCandidates = "no_candidates"
	DecisionBelowFloor   = "below_floor"
	DecisionAmbiguous    = "insufficient_margin"
)

// Decision is the full outcome of ranking a document's candidates. Best is
// set whenever at least one candidate scored non-negative, even if it was
// not accepted.
type Decision struct {
	Accepted bool              `json:"accepted"`
	Best     *ScoredCandidate  `json:"best,omitempty"`
	Ranked   []ScoredCandidate `json:"ranked"`
	Rejected []ScoredCandidate `json:"rejected,omitempty"`
	Margin   int               `json:"margin"`
	Reason   string            `json:"reason"`
}

// BLNumber returns the accepted BL number, if any
func (d Decision) BLNumber() (string, bool) {
	if !d.Accepted || d.Best == nil {
		return "", false
	}
	return d.Best.Value, true
}

// Extractor finds the BL number in document text
type Extractor struct {
	rules    Rules
	patterns *PatternManager
	scorer   *Scorer
	logger   *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithRules replaces the default rule table
func WithRules(rules Rules) Option {
	return func(e *Extractor) {
		e.rules = rules
	}
}

// WithLogger sets the logger used for stage-level debug events
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates a new BL number extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		rules:    DefaultRules(),
		patterns: NewPatternManager(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scorer = NewScorer(e.rules)
	return e
}

// Rules returns the rule table the extractor was built with
func (e *Extractor) Rules() Rules {
	return e.rules
}

// Generate runs the labelled patterns, followed by the format patterns
// unless explicitOnly is set. Results are gated, normalized and deduplicated
// in discovery order.
func (e *Extractor) Generate(text string, explicitOnly bool) []Candidate {
	if text == "" {
		return nil
	}
	return e.collect(text, e.patterns.Patterns(explicitOnly))
}

// GenerateFallback returns every gated alphanumeric token in text
func (e *Extractor) GenerateFallback(text string) []Candidate {
	if text == "" {
		return nil
	}
	return e.collect(text, []*PatternEntry{e.patterns.fallbackPattern})
}

func (e *Extractor) collect(text string, patterns []*PatternEntry) []Candidate {
	matches := e.patterns.extractWithPatterns(text, patterns)
	return mergeCandidates(e.applyGates(matches))
}

// applyGates drops every candidate any absolute gate rejects
func (e *Extractor) applyGates(candidates []Candidate) []Candidate {
	gates := e.rules.gates()
	filtered := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		rejected := false
		for _, g := range gates {
			if g.reject(c.Value) {
				e.logger.Debug("Candidate rejected", "token", c.Value, "gate", g.name, "tier", c.Tier.String())
				rejected = true
				break
			}
		}
		if !rejected {
			filtered = append(filtered, c)
		}
	}

	return filtered
}

// Rank scores every candidate in text and applies the acceptance rule
func (e *Extractor) Rank(text string) Decision {
	if strings.TrimSpace(text) == "" {
		return Decision{Reason: DecisionNoCandidates}
	}

	// Stage 1: candidate generation (labelled first, then any token)
	explicit := e.Generate(text, true)
	fallback := e.GenerateFallback(text)
	pool := mergeCandidates(explicit, fallback)
	e.logger.Debug("Candidates generated", "explicit", len(explicit), "fallback", len(fallback), "merged", len(pool))

	// Stage 2: gates again on the merged pool
	pool = e.applyGates(pool)

	// Stage 3: scoring
	doc := NewDocument(text, e.rules.HeaderFraction)
	scored := make([]ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		sc := e.scorer.Score(doc, c)
		e.logger.Debug("Candidate scored", "token", sc.Value, "score", sc.Score, "reasons", sc.Reasons)
		scored = append(scored, sc)
	}

	// Stage 4: decision
	d := Decide(scored, e.rules)
	if d.Best != nil {
		e.logger.Debug("BL decision", "reason", d.Reason, "best", d.Best.Value, "score", d.Best.Score, "margin", d.Margin)
	} else {
		e.logger.Debug("BL decision", "reason", d.Reason)
	}
	return d
}

// PickBest returns the BL number in text, if one is accepted
func (e *Extractor) PickBest(text string) (string, bool) {
	return e.Rank(text).BLNumber()
}

// Decide drops negative scores, orders the rest by score then length, and
// accepts the leader only when it clears both the floor and the margin.
func Decide(scored []ScoredCandidate, rules Rules) Decision {
	var d Decision
	for _, sc := range scored {
		if sc.Score >= 0 {
			d.Ranked = append(d.Ranked, sc)
		} else {
			d.Rejected = append(d.Rejected, sc)
		}
	}

	if len(d.Ranked) == 0 {
		d.Reason = DecisionNoCandidates
		return d
	}

	sort.SliceStable(d.Ranked, func(i, j int) bool {
		if d.Ranked[i].Score != d.Ranked[j].Score {
			return d.Ranked[i].Score > d.Ranked[j].Score
		}
		return len(d.Ranked[i].Value) > len(d.Ranked[j].Value)
	})

	best := d.Ranked[0]
	d.Best = &best

	second := rules.Weights.Rejected
	if len(d.Ranked) > 1 {
		second = d.Ranked[1].Score
	}
	d.Margin = best.Score - second

	switch {
	case best.Score < rules.MinScore:
		d.Reason = DecisionBelowFloor
	case d.Margin < rules.MinMargin:
		d.Reason = DecisionAmbiguous
	default:
		d.Accepted = true
		d.Reason = DecisionAccepted
	}
	return d
}

var defaultExtractor = NewExtractor()

// PickBestBL returns the BL number in text using the default rules
func PickBestBL(text string) (string, bool) {
	return defaultExtractor.PickBest(text)
}

// GenerateCandidates runs the pattern cascade with the default rules
func GenerateCandidates(text string, explicitOnly bool) []Candidate {
	return defaultExtractor.Generate(text, explicitOnly)
}
