package aiproxy

import (
	openai "github.com/sashabaranov/go-openai"
)

// deepSeekBaseURL is the OpenAI-compatible endpoint DeepSeek exposes.
const deepSeekBaseURL = "https://api.deepseek.com/v1"

// NewDeepSeek creates a DeepSeek provider. DeepSeek speaks the OpenAI
// wire protocol, so the provider reuses the OpenAI client pointed at
// DeepSeek's base URL.
func NewDeepSeek(apiKey string) Provider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = deepSeekBaseURL
	return &openAIProvider{client: openai.NewClientWithConfig(cfg)}
}
