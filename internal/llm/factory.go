package llm

import (
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/config"
)

// NewProvider selects the first configured provider from the application
// configuration, openai before ollama. Returns ErrNoProvider when neither is
// configured; this is fatal for the request that needed it.
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.OpenAIAPIKey != "" {
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	}
	if cfg.OllamaHost != "" {
		return NewOllamaProvider(cfg.OllamaHost, cfg.OllamaModel), nil
	}
	return nil, ErrNoProvider
}
