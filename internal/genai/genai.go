// Package genai provides the chat-completion client behind the AI fallback.
//
// It speaks the OpenAI API and also works against Groq's OpenAI-compatible
// endpoint via a base URL override.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GroqBaseURL is the OpenAI-compatible endpoint of Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// DefaultGroqModel is used when a Groq key is configured without a model.
const DefaultGroqModel = "llama-3.3-70b-versatile"

// chatService defines the minimal interface for chat completions.
type chatService interface {
	Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error)
}

// openAIChat adapts the OpenAI SDK's completion service to chatService.
type openAIChat struct {
	completions openai.ChatCompletionService
}

func (c openAIChat) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	resp, err := c.completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletion{}, err
	}
	return *resp, nil
}

// Opts holds configuration options for the GenAI client.
type Opts struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(o *Opts) { o.BaseURL = u }
}

// WithModel sets the completion model.
func WithModel(m string) Option {
	return func(o *Opts) { o.Model = m }
}

// Client wraps a chat-completion service for generating fallback replies.
type Client struct {
	chat  chatService
	model string
}

// NewClient initializes a GenAI client. Without explicit options it reads
// OPENAI_API_KEY, or GROQ_API_KEY (which implies the Groq endpoint and model).
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		if groqKey := os.Getenv("GROQ_API_KEY"); groqKey != "" {
			cfg.APIKey = groqKey
			if cfg.BaseURL == "" {
				cfg.BaseURL = GroqBaseURL
			}
			if cfg.Model == "" {
				cfg.Model = DefaultGroqModel
			}
		}
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set OPENAI_API_KEY or GROQ_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	cli := openai.NewClient(clientOpts...)
	slog.Debug("GenAI client created", "model", cfg.Model, "base_url_set", cfg.BaseURL != "")
	return &Client{chat: openAIChat{completions: cli.Chat.Completions}, model: cfg.Model}, nil
}

// GeneratePrompt generates a reply from a system and a user prompt.
// An empty completion is reported as an error so callers can substitute
// their own fallback text.
func (c *Client) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	}
	resp, err := c.chat.Create(ctx, params)
	if err != nil {
		slog.Error("GenAI completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no completion content returned")
	}
	return resp.Choices[0].Message.Content, nil
}
