package aiproxy

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider talks to the OpenAI chat completion API.
type openAIProvider struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI provider bound to one API key
func NewOpenAI(apiKey string) Provider {
	return &openAIProvider{client: openai.NewClient(apiKey)}
}

func (p *openAIProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, ModelInfo{ID: m.ID})
	}
	return models, nil
}

func (p *openAIProvider) ChatCompletion(ctx context.Context, model, message string, temperature float32) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
