package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bl-extractor/internal/database"
	"bl-extractor/internal/document"
)

// Client is an HTTP client for the extraction API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 30*time.Second)
}

// NewClientWithTimeout creates a new API client with a request timeout
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError represents an error from the API
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// ExtractionList is one page of the audit log
type ExtractionList struct {
	Extractions []database.Extraction `json:"extractions"`
	Total       int                   `json:"total"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
}

// ExtractionDetail is one audit row with the response it recorded
type ExtractionDetail struct {
	database.Extraction
	Response document.ExtractionResponse `json:"response"`
}

// doRequest performs an HTTP request and decodes a JSON response into out
func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			apiErr = APIError{
				Code:    resp.StatusCode,
				Message: resp.Status,
			}
		}
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HealthCheck checks if the API server is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/api/health", nil, nil)
}

// ParseDocument asks the server to OCR and parse a stored document
func (c *Client) ParseDocument(ctx context.Context, in document.DocumentInput) (*document.ExtractionResponse, error) {
	var resp document.ExtractionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/parse/document", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseText asks the server to parse text that is already OCR'd
func (c *Client) ParseText(ctx context.Context, in document.TextInput) (*document.ExtractionResponse, error) {
	var resp document.ExtractionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/parse/text", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListExtractions returns a page of the audit log, newest first
func (c *Client) ListExtractions(ctx context.Context, filter database.ExtractionFilter) (*ExtractionList, error) {
	q := url.Values{}
	if filter.DocumentID != "" {
		q.Set("document_id", filter.DocumentID)
	}
	if filter.BLNumber != "" {
		q.Set("bl_number", filter.BLNumber)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "/api/v1/extractions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list ExtractionList
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetExtraction returns one audit row by ID
func (c *Client) GetExtraction(ctx context.Context, id int64) (*ExtractionDetail, error) {
	var detail ExtractionDetail
	path := "/api/v1/extractions/" + strconv.FormatInt(id, 10)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
