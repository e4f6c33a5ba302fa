package relay

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/critical_chat/internal/history"
	"github.com/Vovarama1992/critical_chat/internal/topics"
)

// assembleMessages восстанавливает контекст для провайдера из сохранённой
// истории: system prompt, затем пары user/assistant от старых к новым,
// последним — новое сообщение. Всегда 2*len(hist)+2 записей.
func assembleMessages(topic *topics.Topic, hist []history.Turn, userMessage string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2*len(hist)+2)

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: topic.SystemPrompt,
	})

	for _, t := range hist {
		messages = append(messages,
			openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: t.UserMessage,
			},
			openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: t.AssistantMessage,
			},
		)
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	return messages
}
