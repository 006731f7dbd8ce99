package parser

import "slices"

// Field is one extracted key/value pair with its confidence
type Field struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ExtractionResult is everything the engine reads out of one document
type ExtractionResult struct {
	BLNumber           string   `json:"bl_number,omitempty"`
	Confidence         float64  `json:"confidence"`
	Score              int      `json:"score,omitempty"`
	Fields             []Field  `json:"fields"`
	Containers         []string `json:"containers"`
	Seals              []string `json:"seals"`
	Weight             string   `json:"weight,omitempty"`
	Vessel             string   `json:"vessel,omitempty"`
	Voyage             string   `json:"voyage,omitempty"`
	Shipper            string   `json:"shipper,omitempty"`
	Consignee          string   `json:"consignee,omitempty"`
	PortOfLoading      string   `json:"port_of_loading,omitempty"`
	PortOfDischarge    string   `json:"port_of_discharge,omitempty"`
	ShippedOnBoardDate string   `json:"shipped_on_board_date,omitempty"`
}

// Found reports whether a BL number was accepted
func (r ExtractionResult) Found() bool {
	return r.BLNumber != ""
}

// labelledField maps a result key to the labels tried, in order
type labelledField struct {
	key    string
	labels []string
}

var labelledFields = []labelledField{
	{key: "vessel", labels: []string{"VESSEL"}},
	// VOYAGE NO goes first so "VOYAGE NO: 123W" reads as 123W, not "NO: 123W"
	{key: "voyage", labels: []string{"VOYAGE NO", "VOYAGE"}},
	{key: "shipper", labels: []string{"SHIPPER"}},
	{key: "consignee", labels: []string{"CONSIGNEE"}},
	{key: "port_of_loading", labels: []string{"PORT OF LOADING"}},
	{key: "port_of_discharge", labels: []string{"PORT OF DISCHARGE"}},
}

// ExtractLabelledFields runs every labelled field chain over text
func ExtractLabelledFields(text string) map[string]string {
	out := make(map[string]string, len(labelledFields))
	for _, f := range labelledFields {
		if value, ok := ExtractLabelledFieldChain(text, f.labels...); ok {
			out[f.key] = value
		}
	}
	return out
}

// Extract runs the BL decision and every secondary extractor over text
func (e *Extractor) Extract(text string) ExtractionResult {
	result, _ := e.Analyze(text)
	return result
}

// Analyze is Extract that also hands back the ranking behind the BL decision
func (e *Extractor) Analyze(text string) (ExtractionResult, Decision) {
	result := ExtractionResult{
		Fields:     []Field{},
		Containers: []string{},
		Seals:      []string{},
	}
	if text == "" {
		return result, Decision{Reason: DecisionNoCandidates}
	}

	d := e.Rank(text)
	if bl, ok := d.BLNumber(); ok {
		result.BLNumber = bl
		result.Score = d.Best.Score
		result.Confidence = FinalConfidence(text, bl, DefaultConfidenceKeywords)
		result.Fields = append(result.Fields, Field{Key: "bl_number", Value: bl, Confidence: result.Confidence})
	}

	result.Containers = ExtractContainers(text)
	result.Seals = slices.DeleteFunc(ExtractSeals(text), func(seal string) bool {
		return seal == result.BLNumber
	})
	result.Weight, _ = ExtractWeight(text)
	result.ShippedOnBoardDate, _ = ExtractShippedOnBoardDate(text)

	fields := ExtractLabelledFields(text)
	result.Vessel = fields["vessel"]
	result.Voyage = fields["voyage"]
	result.Shipper = fields["shipper"]
	result.Consignee = fields["consignee"]
	result.PortOfLoading = fields["port_of_loading"]
	result.PortOfDischarge = fields["port_of_discharge"]

	e.logger.Debug("Extraction complete",
		"bl_number", result.BLNumber,
		"containers", len(result.Containers),
		"seals", len(result.Seals),
		"weight", result.Weight)

	return result, d
}
