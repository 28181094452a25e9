package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/voicedesk-team/voicedesk/pkg/validator"

	"github.com/voicedesk-team/voicedesk/internal/adapter/handler"
	"github.com/voicedesk-team/voicedesk/internal/adapter/repository"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/cache"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/database"
	elevenlabsSource "github.com/voicedesk-team/voicedesk/internal/infrastructure/external/elevenlabs"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/external/ollama"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/storage"
	"github.com/voicedesk-team/voicedesk/internal/usecase/conversation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/escalation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/rag"
	"github.com/voicedesk-team/voicedesk/pkg/config"
	"github.com/voicedesk-team/voicedesk/pkg/elevenlabs"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize persistence backend
	var conversationPersistence repositories.RecordPersistence
	var escalationPersistence repositories.RecordPersistence
	switch cfg.Storage.Type {
	case "postgres":
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		// Production deployments should manage schema via sql-migrate.
		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and run cmd/migrate instead.")
			}
			if err := database.Migrate(db); err != nil {
				log.Fatalf("Failed to apply migrations: %v", err)
			}
		} else {
			log.Println("🔄 Skipping migrations; run cmd/migrate in CI/CD/production")
		}

		conversationPersistence = storage.NewPostgresStore(db)
		escalationPersistence = storage.NewPostgresEscalationStore(db)
	default:
		log.Printf("📦 Using file storage in %s", cfg.Storage.DataDir)
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		conversationPersistence = storage.NewFileStore(cfg.Storage.ConversationsPath())
		escalationPersistence = storage.NewFileStore(cfg.Storage.EscalationsPath())
	}

	// Initialize sync guard
	var guard cache.SyncGuard
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		guard = cache.NewRedisGuard(redisClient, cfg.Sync.GuardTTL)
	} else {
		guard = cache.NewMemoryGuard(cfg.Sync.GuardTTL)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	conversationRepo := repository.NewConversationStore(conversationPersistence, logger)
	escalationRepo := repository.NewEscalationStore(escalationPersistence)

	// Initialize vendor clients
	log.Println("🗣️  Initializing ElevenLabs client...")
	elevenClient := elevenlabs.NewClient(&cfg.ElevenLabs)
	source := elevenlabsSource.NewSource(elevenClient)

	log.Println("🤖 Initializing Ollama client...")
	ollamaClient := ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Model)

	// Initialize knowledge base
	log.Println("📚 Opening knowledge base...")
	ragService, err := rag.NewService(cfg.RAG.Path, cfg.Ollama.BaseURL, cfg.RAG.EmbedModel, logger)
	if err != nil {
		log.Fatalf("Failed to open knowledge base: %v", err)
	}

	// Initialize services
	log.Println("✨ Initializing services...")
	conversationService := conversation.NewService(conversationRepo, source, logger)
	escalationService := escalation.NewService(escalationRepo, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	webhookHandler := handler.NewWebhook(conversationService, cfg.ElevenLabs.WebhookSecret, logger)
	dashboardHandler := handler.NewDashboard(conversationService, guard, cfg.ElevenLabs.AgentID, cfg.Sync.DefaultDays, logger)
	escalationHandler := handler.NewEscalationHandler(escalationService, logger)
	voiceHandler := handler.NewVoice(elevenClient, logger)
	ragHandler := handler.NewRAG(ragService, cfg.RAG.MinSimilarity, logger)
	ollamaHandler := handler.NewOllama(ollamaClient, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, dashboardHandler, escalationHandler, voiceHandler, ragHandler, ollamaHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
