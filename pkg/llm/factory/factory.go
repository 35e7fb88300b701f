package factory

import (
	"fmt"
	"time"

	"plantpal-be/pkg/llm"
	"plantpal-be/pkg/llm/ollama"
	"plantpal-be/pkg/llm/openai"
)

const (
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
	ProviderOllama      = "ollama"
)

type Settings struct {
	Provider       string
	Model          string
	OpenAIKey      string
	OpenAIBaseURL  string
	HuggingFaceKey string
	OllamaBaseURL  string
	Timeout        time.Duration
}

// NewLLMProvider returns (nil, nil) when the selected backend has no credentials,
// which callers treat as "not configured".
func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case ProviderOpenAI, "":
		if s.OpenAIKey == "" {
			return nil, nil
		}
		return openai.NewProvider(ProviderOpenAI, s.OpenAIKey, s.OpenAIBaseURL, s.Model, s.Timeout), nil
	case ProviderHuggingFace:
		if s.HuggingFaceKey == "" {
			return nil, nil
		}
		return openai.NewProvider(ProviderHuggingFace, s.HuggingFaceKey, openai.HuggingFaceBaseURL, s.Model, s.Timeout), nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(s.OllamaBaseURL, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
