// Package aiproxy wraps the upstream LLM vendors behind one Provider
// interface. Each provider is constructed per request around the API key
// resolved for that call, so pooled and user-owned keys share the same
// code path.
package aiproxy

import (
	"context"
	"strings"
)

// Provider names accepted by the platform.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

// ModelInfo is one entry of a vendor's model listing.
type ModelInfo struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// Provider is a chat-capable upstream vendor bound to one API key.
type Provider interface {
	// ListModels enumerates the models the key can reach. An upstream
	// rejection surfaces as an error, which doubles as key validation.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// ChatCompletion sends one user message and returns the assistant
	// reply text.
	ChatCompletion(ctx context.Context, model, message string, temperature float32) (string, error)
}

// ForProvider builds the provider implementation for a vendor name.
// Names match case-insensitively; unknown vendors return nil.
func ForProvider(name, apiKey string) Provider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderOpenAI:
		return NewOpenAI(apiKey)
	case ProviderDeepSeek:
		return NewDeepSeek(apiKey)
	case ProviderGemini:
		return NewGemini(apiKey)
	default:
		return nil
	}
}

// KnownProviders lists the accepted vendor names
func KnownProviders() []string {
	return []string{ProviderOpenAI, ProviderDeepSeek, ProviderGemini}
}
