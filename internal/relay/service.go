package relay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/critical_chat/internal/history"
	"github.com/Vovarama1992/critical_chat/internal/render"
	"github.com/Vovarama1992/critical_chat/internal/topics"
)

const (
	defaultWindow     = 10
	completionTimeout = 120 * time.Second
)

type service struct {
	registry topics.Registry
	store    history.Store
	client   CompletionClient
	renderer render.Renderer
	notifier Notifier
	window   int
}

func NewService(
	registry topics.Registry,
	store history.Store,
	client CompletionClient,
	renderer render.Renderer,
	notifier Notifier,
	window int,
) Service {
	if window <= 0 {
		window = defaultWindow
	}
	return &service{
		registry: registry,
		store:    store,
		client:   client,
		renderer: renderer,
		notifier: notifier,
		window:   window,
	}
}

// === главный метод ===
func (s *service) Handle(ctx context.Context, topicKey, callerID, message string) (*Reply, error) {

	// 1) топик — до любого обращения к хранилищу
	topic, err := s.registry.Resolve(topicKey)
	if err != nil {
		return nil, err
	}

	// 2) валидация входа
	callerID = strings.TrimSpace(callerID)
	message = strings.TrimSpace(message)
	if callerID == "" || message == "" {
		return nil, ErrInvalidRequest
	}

	pair := history.NewPair(callerID, topic.Key)

	start := time.Now()
	log.Printf("[relay] >>> START topic=%s caller=%s", topic.Key, pair.Caller)

	// дальше пайплайн живёт своим дедлайном: обрыв клиента после этой
	// точки не бросает уже оплаченный у провайдера ход
	ctx = context.WithoutCancel(ctx)

	// 3) окно истории
	hist, err := s.store.Read(ctx, pair, s.window)
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}
	log.Printf("[relay] history entries: %d", len(hist))

	// 4) контекст для провайдера
	messages := assembleMessages(topic, hist, message)

	// 5) единственный вызов провайдера, без ретраев
	ctxGPT, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	replyText, err := s.client.GetCompletion(ctxGPT, topic.Model, messages)
	log.Printf("[relay][%.1fs] completion done err=%v", time.Since(start).Seconds(), err)

	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			err = &ProviderError{Detail: err.Error(), Err: err}
		}
		s.notify(ctx, err, fmt.Sprintf("topic=%s model=%s caller=%s", topic.Key, topic.Model, pair.Caller))
		return nil, err
	}

	// 6) запись хода — только после полного успеха провайдера
	turn := history.Turn{
		ID:               uuid.NewString(),
		CallerKey:        pair.Caller,
		TopicKey:         pair.Topic,
		Model:            topic.Model,
		SystemPrompt:     topic.SystemPrompt,
		UserMessage:      message,
		AssistantMessage: replyText,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.Append(ctx, turn); err != nil {
		werr := &TurnWriteError{Reply: replyText, Err: err}
		s.notify(ctx, werr, fmt.Sprintf("topic=%s caller=%s", topic.Key, pair.Caller))
		return nil, werr
	}

	// 7) рендер
	rendered, err := s.renderer.Render(replyText)
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	log.Printf("[relay][%.1fs] done topic=%s", time.Since(start).Seconds(), topic.Key)

	return &Reply{
		Response: rendered,
		TopicKey: topic.Key,
		Model:    topic.Model,
	}, nil
}

func (s *service) notify(ctx context.Context, err error, details string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, err, details)
}
