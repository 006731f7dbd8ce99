package parser

// Weights are the additive score contributions applied to every candidate
// that survives the gates.
type Weights struct {
	Rejected                int
	ExplicitMatch           int
	ExplicitLabel           int
	BillOfLadingNo          int
	NearKeyword             int
	StrongFormat            int
	FormatWithSeparator     int
	LooseFormat             int
	AlphaDigits             int
	CarrierPrefix           int
	GoodLength              int
	HeaderZone              int
	MaxFrequency            int
	BookingPenalty          int
	SealPenalty             int
	ContainerSectionPenalty int
	ForbiddenPenalty        int
	DraftContext            int
}

// Rules holds every table, window and threshold the engine reads. A Rules
// value is treated as read-only once handed to NewExtractor; use the With*
// helpers to derive a modified copy.
type Rules struct {
	// Token length bounds after normalization
	MinLength int
	MaxLength int

	// Structural blacklist (absolute gate) and scoring blacklist
	NonBLWords     []string
	ScoreBlacklist []string

	BLLabels      []string
	BLLabelWindow int

	BLKeywords      []string
	BLKeywordWindow int

	BillOfLadingPhrase string
	BillOfLadingWindow int

	BookingLabels []string
	BookingWindow int

	SealKeywords []string
	SealWindow   int

	ContainerIndicators []string
	ContainerLookback   int

	ForbiddenLabels []string
	ForbiddenWindow int

	DraftPhrases []string
	DraftWindow  int

	CarrierPrefixes []string

	// HeaderFraction is the leading share of the document treated as header
	HeaderFraction float64

	Weights Weights

	MinScore  int
	MinMargin int
}

// DefaultRules returns a fresh copy of the production rule table.
func DefaultRules() Rules {
	return Rules{
		MinLength: 6,
		MaxLength: 20,

		NonBLWords:     []string{"RECEIVED", "COPY", "DRAFT", "ORIGINAL", "NONNEGOTIABLE", "BL"},
		ScoreBlacklist: []string{"RECEIVED", "COPY", "DRAFT", "ORIGINAL", "SIGNED", "PAGE", "PAGES"},

		BLLabels:      []string{"BILL OF LADING NUMBER", "BILL OF LADING NO", "B/L NO", "BL NO"},
		BLLabelWindow: 120,

		BLKeywords: []string{
			"BILL OF LADING", "BILLOFLADING", "B/L", "BL NO", "BLNO", "B L",
			"OCEAN BILL", "HOUSE BILL", "MASTER BILL",
		},
		BLKeywordWindow: 150,

		BillOfLadingPhrase: "BILL OF LADING NO",
		BillOfLadingWindow: 30,

		BookingLabels: []string{"BOOKING NO", "BOOKING NUMBER"},
		BookingWindow: 100,

		SealKeywords: []string{"SEAL", "SEAL NUMBER", "CARRIER", "CONTAINER NUMBERS"},
		SealWindow:   80,

		ContainerIndicators: []string{"CONTAINER", "CONTAINER NO", "CONTAINER NUMBERS", "CONTAINER NOS", "CONTAINERS"},
		ContainerLookback:   200,

		ForbiddenLabels: []string{"SEAL", "SEAL NO", "CARRIER", "CARRIER SEAL", "CONTAINER", "BOOKING", "IMO", "VOYAGE"},
		ForbiddenWindow: 80,

		DraftPhrases: []string{"DRAFT BILL", "DRAFT B/L", "FINAL BL WILL BE READY"},
		DraftWindow:  50,

		CarrierPrefixes: []string{"MEDU", "MSCU"},

		HeaderFraction: 0.25,

		Weights: Weights{
			Rejected:                -999,
			ExplicitMatch:           60,
			ExplicitLabel:           40,
			BillOfLadingNo:          80,
			NearKeyword:             25,
			StrongFormat:            35,
			FormatWithSeparator:     25,
			LooseFormat:             15,
			AlphaDigits:             5,
			CarrierPrefix:           20,
			GoodLength:              5,
			HeaderZone:              20,
			MaxFrequency:            5,
			BookingPenalty:          -30,
			SealPenalty:             -40,
			ContainerSectionPenalty: -40,
			ForbiddenPenalty:        -30,
			DraftContext:            0,
		},

		MinScore:  45,
		MinMargin: 10,
	}
}

// WithThresholds returns a copy of r using the given acceptance floor and margin.
func (r Rules) WithThresholds(minScore, minMargin int) Rules {
	r.MinScore = minScore
	r.MinMargin = minMargin
	return r
}

// WithWeights returns a copy of r using w.
func (r Rules) WithWeights(w Weights) Rules {
	r.Weights = w
	return r
}

// WithHeaderFraction returns a copy of r with a different header zone size.
func (r Rules) WithHeaderFraction(fraction float64) Rules {
	if fraction > 0 && fraction <= 1 {
		r.HeaderFraction = fraction
	}
	return r
}

var defaultRules = DefaultRules()
