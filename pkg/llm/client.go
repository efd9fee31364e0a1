package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-coaching-backend/config"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-resty/resty/v2"
)

// Message is a single role-tagged turn sent to the chat completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client talks to an OpenRouter-compatible chat completion gateway.
type Client struct {
	http  *resty.Client
	model string
}

func NewClient(cfg *config.Config) *Client {
	rc := resty.New().
		SetBaseURL(cfg.LLMGatewayURL).
		SetAuthToken(cfg.LLMAPIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)

	return &Client{
		http:  rc,
		model: cfg.LLMModel,
	}
}

// IsConfigured reports whether the gateway credentials are present.
func (c *Client) IsConfigured() bool {
	return c.http.Token != ""
}

// Complete sends the system prompt, prior history, and the user's message to
// the gateway and returns the assistant reply. Upstream auth, throttling, and
// billing failures are mapped to their own error kinds so handlers can render
// distinct messages; they are never retried here.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	if !c.IsConfigured() {
		return "", apperror.New(http.StatusServiceUnavailable, "AI service is not configured", nil)
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userMessage})

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{Model: c.model, Messages: messages}).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", apperror.New(http.StatusBadGateway, "AI service is unreachable", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", apperror.Unauthorized("AI service rejected the credentials")
	case http.StatusTooManyRequests:
		return "", apperror.RateLimited("AI service is rate limited, try again shortly")
	case http.StatusPaymentRequired:
		return "", apperror.PaymentRequired("AI service credits exhausted")
	default:
		msg := "AI service error"
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", apperror.New(http.StatusBadGateway, msg, fmt.Errorf("gateway status %d", resp.StatusCode()))
	}

	if len(out.Choices) == 0 {
		return "", apperror.New(http.StatusBadGateway, "AI service returned an empty response", nil)
	}
	return out.Choices[0].Message.Content, nil
}
