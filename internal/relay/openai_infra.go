package relay

import (
	"context"
	"errors"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// фиксированная температура для всех топиков
const completionTemperature = 0.7

type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (c *OpenAIClient) GetCompletion(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: completionTemperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &ProviderError{Status: apiErr.HTTPStatusCode, Detail: apiErr.Message, Err: err}
		}
		return "", &ProviderError{Detail: err.Error(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Detail: "no choices in completion response"}
	}
	return resp.Choices[0].Message.Content, nil
}
