package relay

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type CompletionClient interface {
	GetCompletion(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, err error, details string) error
}

type Reply struct {
	Response string
	TopicKey string
	Model    string
}

type Service interface {
	// Handle проводит один ход: topic -> история -> провайдер -> запись -> рендер.
	Handle(ctx context.Context, topicKey, callerID, message string) (*Reply, error)
}
