package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/errors"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"

	requestTimeout = 60 * time.Second
)

// DegradedMessage is returned in place of an analysis when no API key is
// configured. The rest of the service keeps working.
const DegradedMessage = "Anthropic API key not configured. Please add LANDING_ANTHROPIC_API_KEY to your .env file."

// Client talks to the Anthropic Messages API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
}

// NewClient builds a client from config. An empty API key yields a degraded
// client whose Complete never leaves the process.
func NewClient(cfg config.AnthropicConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type messageRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single-turn prompt and returns the first text block of
// the response. Without an API key it returns DegradedMessage.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return DegradedMessage, nil
	}

	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "encoding anthropic request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "building anthropic request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "calling anthropic api")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "reading anthropic response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", errors.New(errors.CodeDependency,
				fmt.Sprintf("anthropic api %s: %s", apiErr.Error.Type, apiErr.Error.Message))
		}
		return "", errors.New(errors.CodeDependency,
			fmt.Sprintf("anthropic api returned status %d", resp.StatusCode))
	}

	var msg messageResponse
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "decoding anthropic response")
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New(errors.CodeDependency, "anthropic response contained no text block")
}
