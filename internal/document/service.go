// Package document turns uploaded shipping documents into extraction responses.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"bl-extractor/internal/classifier"
	"bl-extractor/internal/database"
	"bl-extractor/internal/metrics"
	"bl-extractor/internal/normalize"
	"bl-extractor/internal/ocr"
	"bl-extractor/internal/parser"
)

// Response sources, recorded on audit rows and metrics
const (
	SourceDocument = "document"
	SourceText     = "text"
)

// AuditStore persists parse results
type AuditStore interface {
	Create(e *database.Extraction) error
}

// ResponseCache stores encoded responses by key. Get returns nil on a miss.
type ResponseCache interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
}

// Service runs OCR, classification and BL extraction for one document at a time.
// It is safe for concurrent use.
type Service struct {
	extractor *parser.Extractor
	ocr       ocr.Client
	audit     AuditStore
	cache     ResponseCache
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithAuditStore records every response
func WithAuditStore(store AuditStore) Option {
	return func(s *Service) { s.audit = store }
}

// WithCache reuses responses for identical text and hint
func WithCache(c ResponseCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics reports outcomes and timings
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a document service. A nil OCR client behaves like ocr.NoOpClient.
func NewService(extractor *parser.Extractor, client ocr.Client, opts ...Option) *Service {
	if extractor == nil {
		extractor = parser.NewExtractor()
	}
	if client == nil {
		client = ocr.NewNoOpClient()
	}
	s := &Service{
		extractor: extractor,
		ocr:       client,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse OCRs the document at in.FileURL and extracts its BL details. OCR is
// only attempted for bill of lading hints; other hints get a classification
// without text. OCR failures degrade to empty text.
func (s *Service) Parse(ctx context.Context, in DocumentInput) (*ExtractionResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	defer s.metrics.ObserveParse(SourceDocument, time.Now())

	if !classifier.IsBLHint(in.Hint) {
		inferred := classifier.Classify(in.Hint, "")
		s.logger.Info("Skipping OCR for non-BL document",
			"document_id", in.DocumentID,
			"hint", in.Hint,
			"inferred_type", inferred)
		s.metrics.ObserveExtraction(metrics.OutcomeSkipped, 0)

		resp := &ExtractionResponse{
			DocumentID:   in.DocumentID,
			DocumentType: inferred,
			Fields:       []parser.Field{},
		}
		s.record(resp, SourceDocument)
		return resp, nil
	}

	text, err := s.ocr.TextFromURL(ctx, in.FileURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("ocr cancelled: %w", ctxErr)
		}
		s.logger.Error("Failed to fetch or OCR document",
			"document_id", in.DocumentID,
			"file_url", ocr.RedactSecrets(in.FileURL),
			"error", err)
		text = ""
	}

	s.logger.Info("OCR result",
		"document_id", in.DocumentID,
		"text_length", len(text))

	return s.analyze(in.DocumentID, in.Hint, text, SourceDocument)
}

// ParseText runs classification and extraction over text that was OCR'd elsewhere
func (s *Service) ParseText(ctx context.Context, in TextInput) (*ExtractionResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer s.metrics.ObserveParse(SourceText, time.Now())

	return s.analyze(in.DocumentID, in.Hint, in.Text, SourceText)
}

func (s *Service) analyze(documentID, hint, text, source string) (*ExtractionResponse, error) {
	hash := HashText(text)
	key := cacheKey(hash, hint)

	if resp, ok := s.cached(key); ok {
		resp.DocumentID = documentID
		s.record(resp, source)
		return resp, nil
	}

	resp := s.build(hint, text)
	resp.RawTextHash = hash

	if s.cache != nil {
		if data, err := json.Marshal(resp); err != nil {
			s.logger.Warn("Failed to encode response for cache", "error", err)
		} else if err := s.cache.Set(key, data); err != nil {
			s.logger.Warn("Failed to cache parse response", "error", err)
		}
	}

	resp.DocumentID = documentID
	s.record(resp, source)

	s.logger.Info("Parse response",
		"document_id", documentID,
		"document_type", resp.DocumentType,
		"bl_number", resp.BLNumber(),
		"confidence", resp.Confidence)

	return resp, nil
}

// build is the uncached pipeline: normalize, type, decide, then fill in details
func (s *Service) build(hint, text string) *ExtractionResponse {
	norm := normalize.Normalize(text)

	docType := classifier.TypeBL
	if !classifier.IsDirectBLHint(hint) {
		docType = classifier.Classify(hint, norm)
	}

	result, decision := s.extractor.Analyze(norm)
	s.metrics.ObserveExtraction(outcome(result, decision), len(decision.Ranked)+len(decision.Rejected))

	resp := &ExtractionResponse{
		Fields:         []parser.Field{},
		RawTextSnippet: snippet(text, SnippetLength),
	}

	if result.Found() {
		docType = classifier.TypeBL
		conf := parser.FinalConfidence(text, result.BLNumber, parser.DefaultConfidenceKeywords)
		resp.Fields = append(resp.Fields, parser.Field{Key: "bl_number", Value: result.BLNumber, Confidence: conf})
		resp.Extraction = &Extraction{
			Status:             StatusParsed,
			BLDetected:         true,
			BLNumber:           result.BLNumber,
			BLScore:            conf,
			Vessel:             result.Vessel,
			Voyage:             result.Voyage,
			Shipper:            result.Shipper,
			Consignee:          result.Consignee,
			PortOfLoading:      result.PortOfLoading,
			PortOfDischarge:    result.PortOfDischarge,
			Containers:         result.Containers,
			Seals:              result.Seals,
			Weight:             result.Weight,
			ShippedOnBoardDate: result.ShippedOnBoardDate,
		}
	} else if docType == classifier.TypeBL {
		resp.Extraction = &Extraction{
			Status:     StatusParsed,
			BLDetected: false,
			Reason:     ReasonHintNotMatched,
		}
	} else if docType == classifier.TypeIM8 {
		resp.Fields = append(resp.Fields, parser.Field{Key: "im8_ref", Value: "IM8_PENDING", Confidence: 0.5})
	}

	resp.DocumentType = docType
	for _, f := range resp.Fields {
		if f.Confidence > resp.Confidence {
			resp.Confidence = f.Confidence
		}
	}

	return resp
}

func (s *Service) cached(key string) (*ExtractionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(key)
	if err != nil {
		s.logger.Warn("Failed to read parse cache", "error", err)
	}
	if data == nil {
		s.metrics.CacheLookup(false)
		return nil, false
	}

	var resp ExtractionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		s.metrics.CacheLookup(false)
		return nil, false
	}

	s.metrics.CacheLookup(true)
	resp.Cached = true
	return &resp, true
}

// record writes the audit row and stamps its ID on resp. Failures are logged only.
func (s *Service) record(resp *ExtractionResponse, source string) {
	if s.audit == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("Failed to encode response for audit", "error", err)
		return
	}

	row := &database.Extraction{
		DocumentID:   resp.DocumentID,
		DocumentType: string(resp.DocumentType),
		BLNumber:     resp.BLNumber(),
		Confidence:   resp.Confidence,
		RawTextHash:  resp.RawTextHash,
		Source:       source,
		ResponseData: string(data),
	}
	if err := s.audit.Create(row); err != nil {
		s.logger.Warn("Failed to record extraction", "document_id", resp.DocumentID, "error", err)
		return
	}
	resp.ExtractionID = row.ID
}

func outcome(result parser.ExtractionResult, d parser.Decision) string {
	switch {
	case result.Found():
		return metrics.OutcomeResolved
	case d.Reason == parser.DecisionAmbiguous:
		return metrics.OutcomeAmbiguous
	default:
		return metrics.OutcomeEmpty
	}
}

// HashText returns the hex SHA-256 of text
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cacheKey(hash, hint string) string {
	return hash + ":" + strings.ToLower(strings.TrimSpace(hint))
}

func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
