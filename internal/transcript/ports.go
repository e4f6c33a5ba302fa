package transcript

import (
	"context"
	"io"
)

// Низкоуровневый клиент к S3
type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
}

type Service interface {
	// Export выгружает полную историю пары в объектное хранилище
	// и возвращает публичный URL файла.
	Export(ctx context.Context, callerID, topicKey string) (string, error)
}
