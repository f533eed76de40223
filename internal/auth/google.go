package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/your-org/facewell/internal/config"
)

// ErrInvalidCredential means the introspection endpoint rejected the token.
var ErrInvalidCredential = errors.New("invalid google credential")

// GoogleClaims is the subset of the tokeninfo response the service uses.
type GoogleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier checks Google ID tokens by introspection against the
// tokeninfo endpoint. Local signature verification is intentionally not
// done; the endpoint is the source of truth.
type GoogleVerifier struct {
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleVerifier(cfg config.AuthConfig) *GoogleVerifier {
	return &GoogleVerifier{
		tokenInfoURL: cfg.TokenInfoURL,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Verify introspects the credential and returns its claims. A 4xx from the
// endpoint maps to ErrInvalidCredential; other failures are transport errors.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*GoogleClaims, error) {
	endpoint := v.tokenInfoURL + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, ErrInvalidCredential
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tokeninfo response: %w", err)
	}

	var claims GoogleClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}
	if claims.Sub == "" {
		return nil, ErrInvalidCredential
	}
	return &claims, nil
}
