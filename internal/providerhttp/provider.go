// Package providerhttp implements the translation provider contract (C8
// provider side): call, list models, and test connection against an
// Anthropic-compatible Messages API, adapted from the project's original
// single-purpose Opus client into a general provider the session manager
// can swap models on.
package providerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultAPIURL = "https://api.anthropic.com/v1/messages"
const defaultModelsURL = "https://api.anthropic.com/v1/models"

// Provider is the contract the session manager consumes: a prompt goes in,
// translated text comes out; models can be listed; connectivity can be
// checked before starting a session.
type Provider interface {
	Call(ctx context.Context, prompt string, model string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	TestConnection(ctx context.Context) error
}

// Client is the HTTP-backed Provider implementation.
type Client struct {
	apiKey       string
	defaultModel string
	apiURL       string
	modelsURL    string
	httpClient   *http.Client
	maxRetries   int
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIURL overrides the Messages endpoint, used by tests.
func WithAPIURL(url string) Option { return func(c *Client) { c.apiURL = url } }

// WithModelsURL overrides the models-listing endpoint, used by tests.
func WithModelsURL(url string) Option { return func(c *Client) { c.modelsURL = url } }

// NewClient constructs a provider client for the given API key and default
// model.
func NewClient(apiKey, defaultModel string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		defaultModel: defaultModel,
		apiURL:       defaultAPIURL,
		modelsURL:    defaultModelsURL,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		maxRetries:   3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Usage   usage          `json:"usage"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Call sends prompt as-is (no glossary pre-processing: the prompt builder
// already folded the glossary block in) and returns the translated text.
// model overrides the client's default when non-empty.
func (c *Client) Call(ctx context.Context, prompt string, model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}
	reqBody := messagesRequest{
		Model:     model,
		MaxTokens: 4096,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("providerhttp: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*2) * time.Second
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("providerhttp: retrying call")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := c.doCall(ctx, bodyBytes)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("providerhttp: call failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) doCall(ctx context.Context, bodyBytes []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("providerhttp: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("providerhttp: request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("providerhttp: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("providerhttp: retryable status %d: %s", resp.StatusCode, respBody)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("providerhttp: status %d: %s", resp.StatusCode, respBody)
	}

	var apiResp messagesResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("providerhttp: unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("providerhttp: api error %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("providerhttp: empty response content")
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	log.Debug().
		Int("input_tokens", apiResp.Usage.InputTokens).
		Int("output_tokens", apiResp.Usage.OutputTokens).
		Msg("providerhttp: call complete")

	return strings.TrimSpace(sb.String()), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
}

// ListModels queries the provider for available model names.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("providerhttp: build models request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("providerhttp: models request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("providerhttp: models status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("providerhttp: decode models response: %w", err)
	}
	names := make([]string, len(payload.Data))
	for i, m := range payload.Data {
		names[i] = m.ID
	}
	return names, nil
}

// TestConnection performs a minimal call to verify the API key and network
// path are working before a session starts.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Call(ctx, "Respond with the single word: ok", c.defaultModel)
	return err
}
