package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/facewell/pkg/dto"
)

const testBase = "https://facewell.example.com"

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	return New(testBase, append([]Option{WithHTTPClient(hc)}, opts...)...)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://api.facewell.io", "https://api.facewell.io"},
		{"https://api.facewell.io/", "https://api.facewell.io"},
		{"  https://api.facewell.io//  ", "https://api.facewell.io"},
		{"api.facewell.io", "https://api.facewell.io"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"localhost:8080", "https://localhost:8080"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseURL(tt.in), "input %q", tt.in)
	}
}

func TestAuthGoogleStoresToken(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBase+"/api/auth/google",
		httpmock.NewStringResponder(http.StatusOK,
			`{"session_token":"tok-123","user":{"id":"a2180e85-54c9-4b32-9b15-4bd6cf85b3d1","email":"a@b.c","name":"Ada"}}`))

	httpmock.RegisterResponder(http.MethodGet, testBase+"/api/user/profile",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("session-token") != "tok-123" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"error":"missing session token"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK,
				`{"user":{"id":"a2180e85-54c9-4b32-9b15-4bd6cf85b3d1","email":"a@b.c","name":"Ada","total_photos":3}}`), nil
		})

	user, err := c.AuthGoogle(context.Background(), "google-credential")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	// The minted token is attached to subsequent calls.
	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, profile.TotalPhotos)
}

func TestAnalyzeFaceMultipart(t *testing.T) {
	c := newTestClient(t, WithToken("tok-123"))
	payload := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

	httpmock.RegisterResponder(http.MethodPost, testBase+"/api/analyze-face",
		func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "tok-123", req.Header.Get("session-token"))

			file, header, err := req.FormFile("image")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "face-photo.jpg", header.Filename)

			buf := make([]byte, len(payload)+1)
			n, _ := file.Read(buf)
			assert.Equal(t, payload, buf[:n])

			return httpmock.NewStringResponse(http.StatusOK,
				`{"id":"7b9c8a44-2c3f-42f2-9d71-07d1dd1b60d5","results":{"eye_pouch":{"value":1}},"wellness_score":90}`), nil
		})

	resp, err := c.AnalyzeFace(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 90, resp.WellnessScore)
	assert.Equal(t, 1, resp.Results.Value("eye_pouch"))
}

func TestServerErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"image file is required"}`, "image file is required"},
		{"detail field", http.StatusBadGateway, `{"detail":"provider timeout"}`, "provider timeout"},
		{"error wins over detail", http.StatusBadRequest, `{"error":"a","detail":"b"}`, "a"},
		{"unparseable body", http.StatusInternalServerError, `<html>boom</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, WithToken("tok"))
			httpmock.RegisterResponder(http.MethodGet, testBase+"/api/insights",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := c.Insights(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestAnalyzeFaceFailureLeavesImageReusable(t *testing.T) {
	c := newTestClient(t, WithToken("tok"))
	payload := []byte{0xFF, 0xD8, 0xAA, 0xFF, 0xD9}

	calls := 0
	httpmock.RegisterResponder(http.MethodPost, testBase+"/api/analyze-face",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset")
			}
			file, _, err := req.FormFile("image")
			require.NoError(t, err)
			defer file.Close()
			buf := make([]byte, len(payload)+1)
			n, _ := file.Read(buf)
			assert.Equal(t, payload, buf[:n], "retry must carry the same bytes")
			return httpmock.NewStringResponse(http.StatusOK,
				`{"id":"7b9c8a44-2c3f-42f2-9d71-07d1dd1b60d5","results":{},"wellness_score":100}`), nil
		})

	_, err := c.AnalyzeFace(context.Background(), payload)
	require.Error(t, err)

	resp, err := c.AnalyzeFace(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.WellnessScore)
}

func TestHistory(t *testing.T) {
	c := newTestClient(t, WithToken("tok"))
	httpmock.RegisterResponder(http.MethodGet, testBase+"/api/analysis/history",
		httpmock.NewStringResponder(http.StatusOK,
			`{"history":[{"id":"7b9c8a44-2c3f-42f2-9d71-07d1dd1b60d5","timestamp":"2026-08-30T09:00:00Z","results":{},"wellness_score":85}],"total":1}`))

	resp, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.History, 1)
	assert.Equal(t, 85, resp.History[0].WellnessScore)
	assert.Equal(t, 1, resp.Total)
}

func TestLogHabits(t *testing.T) {
	c := newTestClient(t, WithToken("tok"))

	httpmock.RegisterResponder(http.MethodPost, testBase+"/api/habits/log",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK, `{"status":"ok"}`), nil
		})

	err := c.LogHabits(context.Background(), &dto.HabitLogRequest{
		SleepHours:   7.5,
		WaterGlasses: 8,
		Mood:         "good",
	})
	require.NoError(t, err)
}
