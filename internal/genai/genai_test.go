package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
)

type mockChat struct {
	resp   openai.ChatCompletion
	err    error
	params []openai.ChatCompletionNewParams
}

func (m *mockChat) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	m.params = append(m.params, params)
	return m.resp, m.err
}

func completionWith(content string) openai.ChatCompletion {
	return openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestGeneratePrompt(t *testing.T) {
	mock := &mockChat{resp: completionWith("claro que sí")}
	client := &Client{chat: mock, model: DefaultGroqModel}

	got, err := client.GeneratePrompt(context.Background(), "sistema", "usuario")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "claro que sí" {
		t.Errorf("expected completion content, got %q", got)
	}
	if len(mock.params) != 1 {
		t.Fatalf("expected one completion call, got %d", len(mock.params))
	}
	if string(mock.params[0].Model) != DefaultGroqModel {
		t.Errorf("expected configured model, got %q", mock.params[0].Model)
	}
	if len(mock.params[0].Messages) != 2 {
		t.Errorf("expected system and user messages, got %d", len(mock.params[0].Messages))
	}
}

func TestGeneratePromptError(t *testing.T) {
	mock := &mockChat{err: errors.New("rate limited")}
	client := &Client{chat: mock, model: DefaultGroqModel}

	if _, err := client.GeneratePrompt(context.Background(), "s", "u"); err == nil {
		t.Error("expected error from failing completion")
	}
}

func TestGeneratePromptEmptyCompletion(t *testing.T) {
	mock := &mockChat{resp: openai.ChatCompletion{}}
	client := &Client{chat: mock, model: DefaultGroqModel}

	if _, err := client.GeneratePrompt(context.Background(), "s", "u"); err == nil {
		t.Error("expected error for empty completion")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	if _, err := NewClient(); err == nil {
		t.Error("expected error without any API key")
	}
}

func TestNewClientGroqDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	client, err := NewClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.model != DefaultGroqModel {
		t.Errorf("expected Groq default model, got %q", client.model)
	}
}
