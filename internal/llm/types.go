package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm Provider,Embedder

import (
	"context"
	"errors"
)

// Message roles understood by all providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat-completion LLM backend.
// This interface is defined from the pipeline's perspective (consumer-first).
type Provider interface {
	// Invoke sends the full message list to the model and returns its raw output.
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Embedder produces dense embedding vectors for texts.
type Embedder interface {
	// EmbedTexts generates embeddings for the given texts, one vector per input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrNoProvider is returned when no usable LLM provider is configured.
var ErrNoProvider = errors.New("no supported LLM provider configured")
