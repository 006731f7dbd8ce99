package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

const documentTextDetection = "DOCUMENT_TEXT_DETECTION"

// visionScope is the OAuth scope needed for images:annotate
const visionScope = "https://www.googleapis.com/auth/cloud-vision"

// VisionClient reads documents through the Google Cloud Vision API
type VisionClient struct {
	service *vision.Service
	logger  *slog.Logger
}

// NewVisionClient creates a Vision client. Credentials are taken from, in
// order: an API key, a static access token, an OAuth refresh token, or the
// application default credentials.
func NewVisionClient(ctx context.Context, cfg Config, logger *slog.Logger) (*VisionClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{}
	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		opts = append(opts, option.WithTokenSource(ts))
	case cfg.RefreshToken != "":
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{visionScope},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{RefreshToken: cfg.RefreshToken, TokenType: "Bearer"}
		opts = append(opts, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, SafeError("failed to create Vision service", err)
	}

	logger.Info("Vision OCR client ready", "api_key", MaskKey(cfg.APIKey), "endpoint", cfg.Endpoint)
	return &VisionClient{service: service, logger: logger}, nil
}

// TextFromURL runs document text detection on the image at url
func (v *VisionClient) TextFromURL(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("document URL is empty")
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Source: &vision.ImageSource{ImageUri: url}},
				Features: []*vision.Feature{{Type: documentTextDetection}},
			},
		},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", SafeError("vision annotate failed", err)
	}
	if len(resp.Responses) == 0 {
		return "", nil
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return "", fmt.Errorf("vision annotate failed: %s", RedactSecrets(r.Error.Message))
	}

	text := ""
	switch {
	case r.FullTextAnnotation != nil:
		text = r.FullTextAnnotation.Text
	case len(r.TextAnnotations) > 0:
		text = r.TextAnnotations[0].Description
	}

	v.logger.Debug("Vision OCR complete", "url", url, "text_length", len(text))
	return text, nil
}
