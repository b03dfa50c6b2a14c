package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
)

// TextGenerator produces free text for a prompt. The Gemini client
// implements it; tests swap in a stub.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// ErrMissingKey reports that no API key was configured for the deployment.
var ErrMissingKey = errors.New("Generative API key not configured", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode("UPSTREAM_FAILURE")

// ErrUpstream reports a failed or unusable generative API response.
var ErrUpstream = errors.New("Generative API request failed", errors.CategoryOperation).
	WithCode(errors.CodeInternal).
	WithTextCode("UPSTREAM_FAILURE")

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiConfig configures the REST client.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini calls the generateContent endpoint of the Google generative
// language API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Gemini{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
	}
}

func (g *Gemini) Configured() bool {
	return g.apiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the first candidate's text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", ErrMissingKey
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature: 0.95,
			TopP:        0.95,
			TopK:        40,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to encode prompt")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "Generative API request failed").
			WithTextCode("UPSTREAM_FAILURE")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", ErrUpstream
	}

	decoded := geminiResponse{}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "Generative API returned an unreadable body").
			WithTextCode("UPSTREAM_FAILURE")
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", ErrUpstream
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

var _ TextGenerator = (*Gemini)(nil)
