package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/critical_chat/internal/relay"
	"github.com/Vovarama1992/critical_chat/internal/topics"
	"github.com/Vovarama1992/critical_chat/internal/transcript"
)

type ChatHandler struct {
	relaySvc      relay.Service
	registry      topics.Registry
	transcriptSvc transcript.Service // nil, если S3 не сконфигурирован
	log           *logger.ZapLogger
}

func NewChatHandler(
	relaySvc relay.Service,
	registry topics.Registry,
	transcriptSvc transcript.Service,
	log *logger.ZapLogger,
) *ChatHandler {
	return &ChatHandler{
		relaySvc:      relaySvc,
		registry:      registry,
		transcriptSvc: transcriptSvc,
		log:           log,
	}
}

func (h *ChatHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *ChatHandler) ListTopics(w http.ResponseWriter, _ *http.Request) {
	list := h.registry.List()

	type item struct {
		Key         string `json:"key"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Model       string `json:"model"`
	}
	out := make([]item, 0, len(list))
	for _, t := range list {
		out = append(out, item{Key: t.Key, Title: t.Title, Description: t.Description, Model: t.Model})
	}

	writeJSON(w, http.StatusOK, map[string]any{"topics": out})
}

func (h *ChatHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "topic")

	topic, err := h.registry.Resolve(key)
	if err != nil {
		h.writeUnknownTopic(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic":         topic.Key,
		"model":         topic.Model,
		"system_prompt": topic.SystemPrompt,
	})
}

func (h *ChatHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "topic")

	var req struct {
		PhoneNumber string `json:"phone_number"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
		return
	}

	reply, err := h.relaySvc.Handle(r.Context(), key, req.PhoneNumber, req.Message)
	if err != nil {
		h.writeRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response": reply.Response,
		"topic":    reply.TopicKey,
		"model":    reply.Model,
	})
}

func (h *ChatHandler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	if h.transcriptSvc == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "transcript export is not configured"})
		return
	}

	key := chi.URLParam(r, "topic")
	if _, err := h.registry.Resolve(key); err != nil {
		h.writeUnknownTopic(w)
		return
	}

	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "phone_number is required"})
		return
	}

	url, err := h.transcriptSvc.Export(r.Context(), req.PhoneNumber, key)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "transcript export failed", Error: err})
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "transcript export failed", "details": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

func (h *ChatHandler) writeRelayError(w http.ResponseWriter, err error) {
	var (
		providerErr *relay.ProviderError
		storageErr  *relay.StorageError
		writeErr    *relay.TurnWriteError
		renderErr   *relay.RenderError
	)

	switch {
	case errors.Is(err, topics.ErrNotFound):
		h.writeUnknownTopic(w)

	case errors.Is(err, relay.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Phone number and message are required"})

	case errors.As(err, &providerErr):
		h.log.Log(logger.LogEntry{Level: "error", Message: "provider call failed", Error: err})
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "completion request failed",
			"details": providerErr.Detail,
		})

	case errors.As(err, &writeErr):
		h.log.Log(logger.LogEntry{Level: "error", Message: "turn not recorded", Error: err})
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "reply produced but not recorded",
			"details": writeErr.Err.Error(),
		})

	case errors.As(err, &renderErr):
		h.log.Log(logger.LogEntry{Level: "error", Message: "reply rendering failed", Error: err})
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "reply recorded but not rendered",
			"details": renderErr.Err.Error(),
		})

	case errors.As(err, &storageErr):
		h.log.Log(logger.LogEntry{Level: "error", Message: "history storage failure", Error: err})
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "history storage failure",
			"details": storageErr.Error(),
		})

	default:
		h.log.Log(logger.LogEntry{Level: "error", Message: "chat request failed", Error: err})
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "internal server error",
			"details": err.Error(),
		})
	}
}

func (h *ChatHandler) writeUnknownTopic(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":            "Invalid topic",
		"available_topics": h.registry.Keys(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
