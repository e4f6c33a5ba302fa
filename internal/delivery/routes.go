package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *ChatHandler) {
	r.Route("/api", func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		pr.Get("/health", h.Health)
		pr.Get("/topics", h.ListTopics)

		// --- чат ---
		pr.Get("/chat/{topic}", h.GetTopic)
		pr.With(httprate.LimitByIP(20, time.Minute)).
			Post("/chat/{topic}", h.PostChat)

		// --- выгрузка истории ---
		pr.Post("/chat/{topic}/transcript", h.ExportTranscript)
	})
}
