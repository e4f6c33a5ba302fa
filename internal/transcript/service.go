package transcript

import (
	"bytes"
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/critical_chat/internal/history"
)

type service struct {
	store history.Store
	s3    S3Client
}

func NewService(store history.Store, s3 S3Client) Service {
	return &service{store: store, s3: s3}
}

func (s *service) Export(ctx context.Context, callerID, topicKey string) (string, error) {
	pair := history.NewPair(callerID, topicKey)

	// limit <= 0 — вся история, не только окно контекста
	turns, err := s.store.Read(ctx, pair, 0)
	if err != nil {
		return "", fmt.Errorf("transcript: read history: %w", err)
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("transcript: no history for %s", pair.Key())
	}

	raw, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return "", fmt.Errorf("transcript: marshal: %w", err)
	}

	key := fmt.Sprintf("transcripts/%s_%d.json", pair.Key(), time.Now().Unix())

	url, err := s.s3.PutObject(ctx, key, bytes.NewReader(raw), int64(len(raw)), "application/json")
	if err != nil {
		return "", fmt.Errorf("transcript: upload: %w", err)
	}
	return url, nil
}
