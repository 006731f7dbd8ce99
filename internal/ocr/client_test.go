package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, Config{Provider: "none"}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &NoOpClient{}, c)

	c, err = NewClient(ctx, Config{Provider: "HTTP"}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &HTTPTextClient{}, c)

	c, err = NewClient(ctx, Config{Provider: "vision", APIKey: "test-key-123456"}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &VisionClient{}, c)

	_, err = NewClient(ctx, Config{Provider: "tesseract"}, testLogger())
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))
}

func TestNoOpClient(t *testing.T) {
	text, err := NewNoOpClient().TextFromURL(context.Background(), "https://example.com/doc.pdf")
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestHTTPTextClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bl.txt":
			assert.Equal(t, "text/plain", r.Header.Get("Accept"))
			fmt.Fprint(w, "B/L NO: MEDU1234567")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewHTTPTextClient(5*time.Second, testLogger())

	text, err := client.TextFromURL(context.Background(), server.URL+"/bl.txt")
	require.NoError(t, err)
	assert.Equal(t, "B/L NO: MEDU1234567", text)

	_, err = client.TextFromURL(context.Background(), server.URL+"/missing.txt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestVisionClient_TextFromURL(t *testing.T) {
	var gotURI, gotFeature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/images:annotate"), r.URL.Path)

		var body struct {
			Requests []struct {
				Image struct {
					Source struct {
						ImageURI string `json:"imageUri"`
					} `json:"source"`
				} `json:"image"`
				Features []struct {
					Type string `json:"type"`
				} `json:"features"`
			} `json:"requests"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Requests, 1)
		gotURI = body.Requests[0].Image.Source.ImageURI
		gotFeature = body.Requests[0].Features[0].Type

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"responses":[{"fullTextAnnotation":{"text":"BILL OF LADING\nB/L NO: MEDU1234567"}}]}`)
	}))
	defer server.Close()

	client, err := NewVisionClient(context.Background(), Config{APIKey: "test-key-123456", Endpoint: server.URL + "/"}, testLogger())
	require.NoError(t, err)

	text, err := client.TextFromURL(context.Background(), "https://files.example.com/bl.png")
	require.NoError(t, err)
	assert.Equal(t, "BILL OF LADING\nB/L NO: MEDU1234567", text)
	assert.Equal(t, "https://files.example.com/bl.png", gotURI)
	assert.Equal(t, documentTextDetection, gotFeature)
}

func TestVisionClient_ResponseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`)
	}))
	defer server.Close()

	client, err := NewVisionClient(context.Background(), Config{APIKey: "test-key-123456", Endpoint: server.URL + "/"}, testLogger())
	require.NoError(t, err)

	_, err = client.TextFromURL(context.Background(), "https://files.example.com/bl.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad image data.")

	_, err = client.TextFromURL(context.Background(), " ")
	assert.Error(t, err)
}
