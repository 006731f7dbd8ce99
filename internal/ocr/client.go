// Package ocr turns a document URL into plain text.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrUnsupportedProvider is returned for an unknown provider name
var ErrUnsupportedProvider = errors.New("unsupported OCR provider")

// Client fetches the text content of the document at url
type Client interface {
	TextFromURL(ctx context.Context, url string) (string, error)
}

// Config selects and configures an OCR provider
type Config struct {
	Provider     string
	APIKey       string
	AccessToken  string
	ClientID     string
	ClientSecret string
	RefreshToken string
	Endpoint     string
	Timeout      time.Duration
}

// NewClient builds the client named by cfg.Provider: "vision", "http" or "none".
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "vision", "google", "google_vision":
		return NewVisionClient(ctx, cfg, logger)
	case "http", "text":
		return NewHTTPTextClient(cfg.Timeout, logger), nil
	case "", "none", "noop":
		return NewNoOpClient(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// NoOpClient returns empty text for every document
type NoOpClient struct{}

// NewNoOpClient creates a client that never reads anything
func NewNoOpClient() *NoOpClient {
	return &NoOpClient{}
}

// TextFromURL always returns ""
func (n *NoOpClient) TextFromURL(ctx context.Context, url string) (string, error) {
	return "", nil
}
