// Package provider wraps the upstream skin-analysis API that turns a selfie
// into the structured metric set.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/your-org/facewell/internal/config"
	"github.com/your-org/facewell/internal/models"
)

// Analyzer produces a metric set from JPEG bytes. The HTTP client below is
// the production implementation; tests substitute fakes.
type Analyzer interface {
	Analyze(ctx context.Context, imageData []byte) (models.AnalysisResult, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Analyze submits the image to the provider's skin-analysis endpoint. Fields
// the provider does not support are simply absent from the result; callers
// treat absence as "not measured".
func (c *Client) Analyze(ctx context.Context, imageData []byte) (models.AnalysisResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image_file", "photo.jpg")
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/skin-analyze", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &errBody)
		if errBody.Error != "" {
			return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, errBody.Error)
		}
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var body struct {
		Result models.AnalysisResult `json:"result"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if body.Result == nil {
		return nil, fmt.Errorf("provider returned no result")
	}
	return body.Result, nil
}
