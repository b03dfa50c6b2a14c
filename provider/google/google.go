// Package google verifies Google-issued ID tokens for federated sign-in.
// The token is validated by the provider itself through the tokeninfo
// endpoint; this process never holds Google signing keys.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	zenith "github.com/zenith-app/zenith-api"
)

const defaultTokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Config holds Google verifier configuration.
type Config struct {
	// ClientID is the OAuth audience the token must be minted for.
	ClientID string

	TokeninfoURL string

	HTTPClient *http.Client
}

// Verifier implements zenith.FederatedVerifier for Google ID tokens.
type Verifier struct {
	config     Config
	httpClient *http.Client
	now        func() time.Time
}

// New creates a new Google verifier.
func New(cfg Config) *Verifier {
	if cfg.TokeninfoURL == "" {
		cfg.TokeninfoURL = defaultTokeninfoURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Verifier{
		config:     cfg,
		httpClient: client,
		now:        time.Now,
	}
}

// Name identifies the provider.
func (v *Verifier) Name() string {
	return "google"
}

// Verify implements zenith.FederatedVerifier.
func (v *Verifier) Verify(ctx context.Context, idToken string) (zenith.FederatedProfile, error) {
	var profile zenith.FederatedProfile

	if idToken == "" {
		return profile, fmt.Errorf("google: empty id token")
	}

	endpoint := v.config.TokeninfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return profile, fmt.Errorf("google: build tokeninfo request: %w", err)
	}

	res, err := v.httpClient.Do(req)
	if err != nil {
		return profile, fmt.Errorf("google: tokeninfo request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return profile, fmt.Errorf("google: read tokeninfo response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return profile, fmt.Errorf("google: tokeninfo rejected token: status %d", res.StatusCode)
	}

	var info tokeninfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return profile, fmt.Errorf("google: decode tokeninfo response: %w", err)
	}

	if v.config.ClientID != "" && info.Aud != v.config.ClientID {
		return profile, fmt.Errorf("google: token audience mismatch")
	}

	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err != nil || !v.now().Before(time.Unix(exp, 0)) {
		return profile, fmt.Errorf("google: token expired")
	}

	return zenith.FederatedProfile{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}

// tokeninfo returns every field as a string.
type tokeninfoResponse struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Exp           string `json:"exp"`
}

var _ zenith.FederatedVerifier = (*Verifier)(nil)
