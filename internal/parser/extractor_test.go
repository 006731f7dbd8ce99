package parser

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBL = "SHIPPER: ACME TRADING\n" +
	"CONSIGNEE: GLOBAL IMPORTS\n" +
	"BILL OF LADING\n" +
	"B/L NO: HLCU123456789\n" +
	"VESSEL: MSC ANNA\n" +
	"VOYAGE NO: 123W\n" +
	"PORT OF LOADING: SHANGHAI\n" +
	"PORT OF DISCHARGE: ROTTERDAM\n" +
	"CONTAINER NO: CMAU1234564 SEAL: SL998877\n" +
	"SHIPPED ON BOARD 2023-05-10\n" +
	"GROSS WEIGHT 18,500.000 KGS"

func TestPickBestBL(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{
			name:  "booking number only",
			text:  "BOOKING NO: ABCD123456",
			found: false,
		},
		{
			name:     "explicit BL label",
			text:     "B/L NO: MEDU1234567",
			expected: "MEDU1234567",
			found:    true,
		},
		{
			name:  "lone valid container",
			text:  "CMAU1234564",
			found: false,
		},
		{
			name:  "container heading",
			text:  "CONTAINER CMAU1234564",
			found: false,
		},
		{
			name:     "bill of lading next to booking",
			text:     "BILL OF LADING NO: MEDU7654321 BOOKING NO: 123456789",
			expected: "MEDU7654321",
			found:    true,
		},
		{
			name:     "separator inside value",
			text:     "BL NO. ABC-12345678",
			expected: "ABC12345678",
			found:    true,
		},
		{
			name:     "full document",
			text:     sampleBL,
			expected: "HLCU123456789",
			found:    true,
		},
		{
			name:  "two equally plausible tokens",
			text:  "REF ABCD123456 AND ABCE123457",
			found: false,
		},
		{
			name:  "numeric value after label",
			text:  "OCEAN BILL NO 1234567890",
			found: false,
		},
		{
			name:  "seal only",
			text:  "SEAL NO: ZZ123456",
			found: false,
		},
		{
			name:  "empty text",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickBestBL(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractor_RankReasons(t *testing.T) {
	e := NewExtractor()

	t.Run("ambiguous", func(t *testing.T) {
		d := e.Rank("REF ABCD123456 AND ABCE123457")
		assert.False(t, d.Accepted)
		assert.Equal(t, DecisionAmbiguous, d.Reason)
		require.Len(t, d.Ranked, 2)
		assert.Equal(t, 0, d.Margin)
	})

	t.Run("container rejected with absolute score", func(t *testing.T) {
		d := e.Rank("CMAU1234564")
		assert.Equal(t, DecisionNoCandidates, d.Reason)
		require.Len(t, d.Rejected, 1)
		assert.Equal(t, -999, d.Rejected[0].Score)
		assert.Equal(t, []string{ReasonISOContainer}, d.Rejected[0].Reasons)
	})

	t.Run("explicit candidate reasons", func(t *testing.T) {
		d := e.Rank("B/L NO: MEDU1234567")
		require.True(t, d.Accepted)
		assert.Equal(t, TierExplicit, d.Best.Tier)
		assert.Contains(t, d.Best.Reasons, ReasonExplicitMatch)
		assert.Contains(t, d.Best.Reasons, ReasonExplicitLabel)
		assert.Contains(t, d.Best.Reasons, ReasonCarrierPrefix)
	})

	t.Run("booking candidate is penalised below zero", func(t *testing.T) {
		d := e.Rank("BOOKING NO: ABCD123456")
		assert.Empty(t, d.Ranked)
		require.Len(t, d.Rejected, 1)
		assert.Contains(t, d.Rejected[0].Reasons, ReasonBookingNear)
		assert.Contains(t, d.Rejected[0].Reasons, ReasonForbiddenContext)
	})
}

func TestExtractor_GatesRunBeforeScoring(t *testing.T) {
	e := NewExtractor()

	// A date-shaped numeric after a BL label would collect label bonuses if
	// it ever reached the scorer.
	d := e.Rank("B/L NO: 20230510")
	assert.False(t, d.Accepted)
	assert.Empty(t, d.Ranked)
	assert.Empty(t, d.Rejected)
}

func TestExtractor_Deterministic(t *testing.T) {
	e := NewExtractor()

	first := e.Rank(sampleBL)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Rank(sampleBL))
	}
}

func TestExtractor_DraftWeight(t *testing.T) {
	text := "DRAFT B/L NO: EGLV123456789012"

	d := NewExtractor().Rank(text)
	require.True(t, d.Accepted)
	assert.Equal(t, "EGLV123456789012", d.Best.Value)
	assert.Contains(t, d.Best.Reasons, ReasonDraftContext)

	rules := DefaultRules()
	rules.Weights.DraftContext = -200
	d = NewExtractor(WithRules(rules)).Rank(text)
	assert.False(t, d.Accepted)
}

func TestExtractor_Generate(t *testing.T) {
	text := "B/L NO: MEDU1234567 REF ABCD123456 20230510 2023"

	explicit := GenerateCandidates(text, true)
	require.Len(t, explicit, 1)
	assert.Equal(t, "MEDU1234567", explicit[0].Value)
	assert.Equal(t, TierExplicit, explicit[0].Tier)

	all := GenerateCandidates(text, false)
	values := make([]string, 0, len(all))
	for _, c := range all {
		values = append(values, c.Value)
	}
	assert.Equal(t, []string{"MEDU1234567", "ABCD123456"}, values)
	assert.Equal(t, TierFormat, all[1].Tier)

	assert.Empty(t, GenerateCandidates("", false))
}

func TestExtractor_GenerateFallback(t *testing.T) {
	e := NewExtractor()

	got := e.GenerateFallback("COPY ORIGINAL MAEU-1234567 MAEU1234567 2023 123456")
	require.Len(t, got, 1)
	assert.Equal(t, "MAEU-1234567", got[0].Raw)
	assert.Equal(t, "MAEU1234567", got[0].Value)
	assert.Equal(t, TierFallback, got[0].Tier)
}

func TestExtractor_Thresholds(t *testing.T) {
	strict := NewExtractor(WithRules(DefaultRules().WithThresholds(500, 10)))

	_, ok := strict.PickBest("B/L NO: MEDU1234567")
	assert.False(t, ok)
	assert.Equal(t, DecisionBelowFloor, strict.Rank("B/L NO: MEDU1234567").Reason)
}

func TestExtractor_LogsDecision(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewExtractor(WithLogger(logger)).Rank("B/L NO: MEDU1234567")

	assert.Contains(t, buf.String(), "BL decision")
	assert.Contains(t, buf.String(), "best=MEDU1234567")
}

func TestDecide(t *testing.T) {
	rules := DefaultRules()
	sc := func(value string, score int) ScoredCandidate {
		return ScoredCandidate{Candidate: Candidate{Value: value}, Score: score}
	}

	tests := []struct {
		name     string
		scored   []ScoredCandidate
		accepted bool
		reason   string
		best     string
	}{
		{"margin too small", []ScoredCandidate{sc("AAA111111", 50), sc("BBB222222", 45)}, false, DecisionAmbiguous, "AAA111111"},
		{"margin large enough", []ScoredCandidate{sc("AAA111111", 50), sc("BBB222222", 30)}, true, DecisionAccepted, "AAA111111"},
		{"below floor", []ScoredCandidate{sc("AAA111111", 40)}, false, DecisionBelowFloor, "AAA111111"},
		{"single candidate at floor", []ScoredCandidate{sc("AAA111111", 45)}, true, DecisionAccepted, "AAA111111"},
		{"negatives dropped", []ScoredCandidate{sc("AAA111111", 60), sc("BBB222222", -5)}, true, DecisionAccepted, "AAA111111"},
		{"ranked by score", []ScoredCandidate{sc("AAA111111", 30), sc("BBB222222", 90)}, true, DecisionAccepted, "BBB222222"},
		{"tie broken by length", []ScoredCandidate{sc("AAA111111", 70), sc("BBB2222222", 70)}, false, DecisionAmbiguous, "BBB2222222"},
		{"nothing", nil, false, DecisionNoCandidates, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.scored, rules)
			assert.Equal(t, tt.accepted, d.Accepted)
			assert.Equal(t, tt.reason, d.Reason)
			if tt.best == "" {
				assert.Nil(t, d.Best)
				return
			}
			require.NotNil(t, d.Best)
			assert.Equal(t, tt.best, d.Best.Value)
		})
	}
}

func TestDecide_StableOnFullTie(t *testing.T) {
	scored := []ScoredCandidate{
		{Candidate: Candidate{Value: "FIRST12345"}, Score: 70},
		{Candidate: Candidate{Value: "SECND12345"}, Score: 70},
	}

	d := Decide(scored, DefaultRules())
	assert.Equal(t, "FIRST12345", d.Ranked[0].Value)
	assert.Equal(t, "SECND12345", d.Ranked[1].Value)
}

func TestExtractor_Extract(t *testing.T) {
	result := NewExtractor().Extract(sampleBL)

	assert.Equal(t, "HLCU123456789", result.BLNumber)
	assert.True(t, result.Found())
	assert.Greater(t, result.Confidence, 0.5)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	require.Len(t, result.Fields, 1)
	assert.Equal(t, "bl_number", result.Fields[0].Key)

	assert.Equal(t, []string{"CMAU1234564"}, result.Containers)
	assert.Equal(t, []string{"SL998877"}, result.Seals)
	assert.Equal(t, "18,500.000 KGS", result.Weight)
	assert.Equal(t, "2023-05-10", result.ShippedOnBoardDate)
	assert.Equal(t, "MSC ANNA", result.Vessel)
	assert.Equal(t, "123W", result.Voyage)
	assert.Equal(t, "ACME TRADING", result.Shipper)
	assert.Equal(t, "GLOBAL IMPORTS", result.Consignee)
	assert.Equal(t, "SHANGHAI", result.PortOfLoading)
	assert.Equal(t, "ROTTERDAM", result.PortOfDischarge)
}

func TestExtractor_ExtractEmpty(t *testing.T) {
	result := NewExtractor().Extract("")

	assert.False(t, result.Found())
	assert.Empty(t, result.Containers)
	assert.Empty(t, result.Seals)
	assert.Empty(t, result.Weight)
	assert.Empty(t, result.Fields)
	assert.Zero(t, result.Confidence)
}

func TestExtractor_ExtractLoneContainer(t *testing.T) {
	result := NewExtractor().Extract("CMAU1234564")

	assert.False(t, result.Found())
	assert.Equal(t, []string{"CMAU1234564"}, result.Containers)
}
