package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/critical_chat/internal/delivery"
	"github.com/Vovarama1992/critical_chat/internal/history"
	"github.com/Vovarama1992/critical_chat/internal/notificator"
	"github.com/Vovarama1992/critical_chat/internal/relay"
	"github.com/Vovarama1992/critical_chat/internal/render"
	"github.com/Vovarama1992/critical_chat/internal/topics"
	"github.com/Vovarama1992/critical_chat/internal/transcript"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// TOPIC REGISTRY
	// =========================================================================

	registry, err := topics.Load(os.Getenv("TOPICS_FILE"))
	if err != nil {
		log.Fatalf("failed to load topics: %v", err)
	}

	// =========================================================================
	// HISTORY STORE
	// =========================================================================

	var store history.Store

	switch backend := os.Getenv("HISTORY_BACKEND"); backend {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			log.Fatal("DATABASE_URL is not set")
		}

		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db ping failed: %v", err)
		}
		if err := history.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}

		store = history.NewPgStore(db)

	case "", "file":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "./data"
		}
		store, err = history.NewFileStore(dataDir)
		if err != nil {
			log.Fatalf("failed to init file store: %v", err)
		}

	default:
		log.Fatalf("unknown HISTORY_BACKEND: %q", backend)
	}

	// =========================================================================
	// CLIENTS / RENDERER / NOTIFICATOR
	// =========================================================================

	openAIClient := relay.NewOpenAIClient()

	renderer, err := render.New(os.Getenv("RENDER_MODE"))
	if err != nil {
		log.Fatalf("failed to init renderer: %v", err)
	}

	alertService := notificator.NewService(notificator.NewInfra())

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	window := 0
	if raw := os.Getenv("HISTORY_WINDOW"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("invalid HISTORY_WINDOW: %v", err)
		}
	}

	relayService := relay.NewService(
		registry,
		store,
		openAIClient,
		renderer,
		alertService,
		window,
	)

	var transcriptService transcript.Service
	if os.Getenv("S3_ENDPOINT") != "" {
		s3Client, err := transcript.NewS3Client()
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		transcriptService = transcript.NewService(store, s3Client)
	}

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	chatHandler := delivery.NewChatHandler(relayService, registry, transcriptService, zl)
	delivery.RegisterRoutes(r, chatHandler)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "critical_chat",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
