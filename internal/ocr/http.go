package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxTextBytes bounds how much of a remote text document is read
const maxTextBytes = 5 << 20

// HTTPTextClient downloads documents that are already plain text
type HTTPTextClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPTextClient creates a client with the given request timeout
func NewHTTPTextClient(timeout time.Duration, logger *slog.Logger) *HTTPTextClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTextClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// TextFromURL returns the body of url
func (c *HTTPTextClient) TextFromURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch document: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	c.logger.Debug("Fetched text document", "url", url, "bytes", len(body))
	return string(body), nil
}
