// Package client is the SDK the capture side uses to talk to the FaceWell
// API: Google sign-in, profile, face analysis upload, insights, history, and
// habit logging. All calls honor the caller's context for timeout and abort.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/pkg/dto"
)

const sessionTokenHeader = "session-token"

// Client talks to one FaceWell API deployment.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests use this).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the session token sent on authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for the given base URL. The URL is normalized: spaces
// and any trailing slash are trimmed, and a schemeless host gets https.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeBaseURL trims whitespace and trailing slashes and prepends
// https:// when the URL carries no explicit scheme.
func NormalizeBaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	url = strings.TrimRight(url, "/")
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

// SetToken replaces the session token after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// AuthGoogle exchanges a Google sign-in credential for a session token and
// stores the token on the client.
func (c *Client) AuthGoogle(ctx context.Context, credential string) (*models.User, error) {
	body, _ := json.Marshal(dto.GoogleAuthRequest{Credential: credential})

	var resp dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/google", bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}

	c.token = resp.SessionToken
	return resp.User, nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp dto.ProfileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/profile", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// AnalyzeFace uploads a captured JPEG for analysis. The image bytes are not
// consumed on failure; callers retry the upload without re-shooting.
func (c *Client) AnalyzeFace(ctx context.Context, imageData []byte) (*dto.AnalyzeResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "face-photo.jpg")
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	var resp dto.AnalyzeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/analyze-face", &buf, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Insights fetches the user's current insights.
func (c *Client) Insights(ctx context.Context) (*dto.InsightsResponse, error) {
	var resp dto.InsightsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/insights", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History fetches the user's recent analyses, newest first.
func (c *Client) History(ctx context.Context) (*dto.HistoryResponse, error) {
	var resp dto.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/analysis/history", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimilarDays fetches past analyses most similar to the latest one.
func (c *Client) SimilarDays(ctx context.Context) (*dto.SimilarResponse, error) {
	var resp dto.SimilarResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/analysis/similar", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogHabits saves today's habit log, overwriting any earlier save for the
// same day.
func (c *Client) LogHabits(ctx context.Context, log *dto.HabitLogRequest) error {
	body, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshal habit log: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, "/api/habits/log", bytes.NewReader(body), "application/json", nil)
}

// APIError is a non-2xx response from the service, carrying the
// server-provided message when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set(sessionTokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error body,
// checking the field names the API and its upstream use.
func serverMessage(data []byte) string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Detail
}
