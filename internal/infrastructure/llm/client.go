package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	openai "github.com/sashabaranov/go-openai"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Config configures the chat completion client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client implements domain.LLM over an OpenAI-compatible chat API
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewClient creates a new chat completion client
func NewClient(cfg Config) domain.LLM {
	oc := openai.DefaultConfig(cfg.APIKey)
	base := cfg.BaseURL
	if base == "" {
		base = GeminiBaseURL
	}
	oc.BaseURL = strings.TrimRight(base, "/")
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: cfg.Temperature,
	}
}

// Complete implements domain.LLM
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrLLMEmpty
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", domain.ErrLLMEmpty
	}
	return out, nil
}
