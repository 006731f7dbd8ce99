package document

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"bl-extractor/internal/classifier"
	"bl-extractor/internal/parser"
)

const (
	// MaxTextSize caps the OCR text accepted by ParseText
	MaxTextSize = 1024 * 1024
	// MaxDocumentIDLength caps caller supplied document identifiers
	MaxDocumentIDLength = 128
	// SnippetLength is how many characters of OCR text a response echoes back
	SnippetLength = 800
)

// ErrInvalidInput marks requests rejected before any work is done
var ErrInvalidInput = errors.New("invalid input")

// DocumentInput asks for a stored document to be OCR'd and parsed
type DocumentInput struct {
	DocumentID string `json:"document_id"`
	FileURL    string `json:"file_url"`
	Hint       string `json:"hint"`
}

// Validate checks the identifier and that the URL is absolute http(s)
func (in DocumentInput) Validate() error {
	if err := validateDocumentID(in.DocumentID); err != nil {
		return err
	}
	if strings.TrimSpace(in.FileURL) == "" {
		return fmt.Errorf("%w: file_url is required", ErrInvalidInput)
	}
	u, err := url.Parse(in.FileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: file_url must be an absolute http(s) URL", ErrInvalidInput)
	}
	return nil
}

// TextInput carries text that has already been through OCR
type TextInput struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Hint       string `json:"hint"`
}

// Validate checks the identifier, size and encoding of the text
func (in TextInput) Validate() error {
	if err := validateDocumentID(in.DocumentID); err != nil {
		return err
	}
	if len(in.Text) > MaxTextSize {
		return fmt.Errorf("%w: text exceeds %d bytes", ErrInvalidInput, MaxTextSize)
	}
	if !utf8.ValidString(in.Text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	return nil
}

func validateDocumentID(id string) error {
	if len(id) > MaxDocumentIDLength {
		return fmt.Errorf("%w: document_id exceeds %d characters", ErrInvalidInput, MaxDocumentIDLength)
	}
	return nil
}

// Extraction statuses and reasons
const (
	StatusParsed         = "parsed"
	ReasonHintNotMatched = "BL_HINT_BUT_NOT_DETECTED"
)

// Extraction is the detailed block attached to BL responses
type Extraction struct {
	Status             string   `json:"status"`
	BLDetected         bool     `json:"bl_detected"`
	Reason             string   `json:"reason,omitempty"`
	BLNumber           string   `json:"bl_number,omitempty"`
	BLScore            float64  `json:"bl_score,omitempty"`
	Vessel             string   `json:"vessel,omitempty"`
	Voyage             string   `json:"voyage,omitempty"`
	Shipper            string   `json:"shipper,omitempty"`
	Consignee          string   `json:"consignee,omitempty"`
	PortOfLoading      string   `json:"port_of_loading,omitempty"`
	PortOfDischarge    string   `json:"port_of_discharge,omitempty"`
	Containers         []string `json:"containers,omitempty"`
	Seals              []string `json:"seals,omitempty"`
	Weight             string   `json:"weight,omitempty"`
	ShippedOnBoardDate string   `json:"shipped_on_board_date,omitempty"`
}

// ExtractionResponse is the result of parsing one document
type ExtractionResponse struct {
	ExtractionID   int64                   `json:"extraction_id,omitempty"`
	DocumentID     string                  `json:"document_id,omitempty"`
	DocumentType   classifier.DocumentType `json:"document_type"`
	Fields         []parser.Field          `json:"fields"`
	Confidence     float64                 `json:"confidence"`
	RawTextHash    string                  `json:"raw_text_hash"`
	RawTextSnippet string                  `json:"raw_text_snippet"`
	Extraction     *Extraction             `json:"extraction"`
	Cached         bool                    `json:"cached"`
}

// BLNumber returns the accepted BL number, if any
func (r *ExtractionResponse) BLNumber() string {
	for _, f := range r.Fields {
		if f.Key == "bl_number" {
			return f.Value
		}
	}
	return ""
}
