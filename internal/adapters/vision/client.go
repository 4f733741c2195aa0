// Package vision identifies a card photo through an OpenAI-compatible chat
// completion endpoint with image input.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/pkg/logger"
	"github.com/okian/tcgprice/pkg/metrics"
)

const (
	// DefaultBaseURL is the chat completion endpoint used when none is set.
	DefaultBaseURL = "https://api.openai.com/v1/chat/completions"
	// DefaultModel must accept image input.
	DefaultModel = "gpt-4o"

	defaultHTTPTimeout = 60 * time.Second
	defaultMIMEType    = "image/jpeg"
	temperature        = 0.2
	maxTokens          = 500
	imageDetail        = "high"
	maxBodyBytes       = 1 << 20
	maxErrorSnippet    = 256
)

// IdentificationPrompt asks the model for a strict JSON identification.
const IdentificationPrompt = `Analyze this Pokemon card image and extract the following information:
1. Card Name (the Pokemon's name)
2. Set Name (the set/series this card belongs to, usually at the bottom)
3. Card Number (e.g., "25/102" - number out of total in set)
4. Any special features (holographic, first edition, etc.)

Provide the response in this exact JSON format:
{
    "card_name": "Pokemon name here",
    "set_name": "Set name here",
    "card_number": "Card number here (e.g., 25/102)",
    "special_features": "Any special features",
    "confidence": "high/medium/low"
}

Be as accurate as possible. If you cannot clearly read some information, mark confidence as "medium" or "low".`

// Config captures the runtime settings required to talk to the model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client wraps the chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     logger.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient constructs a vision client. A missing API key is not an error
// here; Identify reports ErrNotConfigured instead.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	c := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimSpace(cfg.BaseURL),
			Model:   strings.TrimSpace(cfg.Model),
			Timeout: timeout,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = DefaultBaseURL
	}
	if c.cfg.Model == "" {
		c.cfg.Model = DefaultModel
	}
	if c.logger == nil {
		c.logger = logger.Named("vision")
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Identify sends the image to the model and parses its identification.
// mimeType defaults to image/jpeg when empty.
func (c *Client) Identify(ctx context.Context, image []byte, mimeType string) (ident model.Identification, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecognition(outcome(err), time.Since(start))
	}()

	if !c.Configured() {
		return ident, ErrNotConfigured
	}
	if len(image) == 0 {
		return ident, fmt.Errorf("vision identify: %w: empty image", model.ErrUnrecognized)
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	content, err := c.complete(ctx, image, mimeType)
	if err != nil {
		return ident, err
	}
	c.logger.Debug(ctx, "vision reply", logger.String("content", snippet([]byte(content))))

	if err := DecodeJSON(content, &ident); err != nil {
		return model.Identification{}, fmt.Errorf("vision identify: %w: %w", model.ErrUnrecognized, err)
	}
	ident = normalize(ident)
	if ident.Name == "" {
		return model.Identification{}, fmt.Errorf("vision identify: %w: no card name in reply", model.ErrUnrecognized)
	}
	return ident, nil
}

func (c *Client) complete(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: IdentificationPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL, Detail: imageDetail}},
			},
		}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("vision request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("vision request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request: http error (timeout=%s): %w", c.cfg.Timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("vision request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("vision request: decode response: %w", err)
	}
	if completion.Error != nil && completion.Error.Message != "" {
		return "", fmt.Errorf("vision request: api error: %s", completion.Error.Message)
	}
	for _, choice := range completion.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
		if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
			return "", fmt.Errorf("vision identify: %w: model refused: %s", model.ErrUnrecognized, refusal)
		}
	}
	return "", fmt.Errorf("vision identify: %w: empty reply", model.ErrUnrecognized)
}

func normalize(ident model.Identification) model.Identification {
	ident.Name = strings.TrimSpace(ident.Name)
	ident.SetName = strings.TrimSpace(ident.SetName)
	ident.Number = strings.TrimSpace(ident.Number)
	ident.SpecialFeatures = strings.TrimSpace(ident.SpecialFeatures)
	ident.Confidence = strings.ToLower(strings.TrimSpace(ident.Confidence))
	if ident.Confidence == "" {
		ident.Confidence = "high"
	}
	return ident
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "identified"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, model.ErrUnrecognized):
		return "unrecognized"
	default:
		return "error"
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}
