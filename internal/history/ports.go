package history

import (
	"context"
	"time"
)

// Turn — один завершённый обмен user/assistant. После записи не меняется.
type Turn struct {
	ID               string    `json:"id"`
	CallerKey        string    `json:"caller_key"`
	TopicKey         string    `json:"topic_key"`
	Model            string    `json:"model"`
	SystemPrompt     string    `json:"system_prompt"`
	UserMessage      string    `json:"user_message"`
	AssistantMessage string    `json:"assistant_message"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store — контракт хранилища истории. Две реализации: файловый лог и postgres.
// Read отдаёт последние limit ходов в хронологическом порядке (старые первыми);
// limit <= 0 — без ограничения. Отсутствие истории — не ошибка, пустой срез.
// Append атомарен для одного хода: после ошибки записи частичного хода не будет.
type Store interface {
	Read(ctx context.Context, pair Pair, limit int) ([]Turn, error)
	Append(ctx context.Context, turn Turn) error
}
