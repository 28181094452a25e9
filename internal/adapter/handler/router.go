package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voicedesk-team/voicedesk/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	webhookHandler    *Webhook
	dashboardHandler  *Dashboard
	escalationHandler *EscalationHandler
	voiceHandler      *Voice
	ragHandler        *RAG
	ollamaHandler     *Ollama
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	webhookHandler *Webhook,
	dashboardHandler *Dashboard,
	escalationHandler *EscalationHandler,
	voiceHandler *Voice,
	ragHandler *RAG,
	ollamaHandler *Ollama,
) *Router {
	return &Router{
		cfg:               cfg,
		webhookHandler:    webhookHandler,
		dashboardHandler:  dashboardHandler,
		escalationHandler: escalationHandler,
		voiceHandler:      voiceHandler,
		ragHandler:        ragHandler,
		ollamaHandler:     ollamaHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	api := e.Group("/api")

	rt.setupWebhookRoutes(api)
	rt.setupVoiceRoutes(api)
	rt.setupRAGRoutes(api)
	rt.setupOllamaRoutes(api)
}

// setupWebhookRoutes configures the webhook ingestion, dashboard and
// escalation routes. The dashboard lives under /webhooks because the voice
// platform is configured with that prefix as its callback base.
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")

	if rt.webhookHandler != nil {
		// The voice platform's configured callback path.
		webhooks.POST("/interaction/log", rt.webhookHandler.Receive)
		webhooks.GET("/interaction/log", rt.webhookHandler.Verify)
		webhooks.POST("/interaction", rt.webhookHandler.Receive)
		webhooks.GET("/interaction", rt.webhookHandler.Verify)
		webhooks.POST("/log", rt.webhookHandler.Receive)
		webhooks.GET("/log", rt.webhookHandler.Verify)
	} else {
		webhooks.POST("/interaction/log", rt.notImplemented)
		webhooks.GET("/interaction/log", rt.notImplemented)
		webhooks.POST("/interaction", rt.notImplemented)
		webhooks.GET("/interaction", rt.notImplemented)
		webhooks.POST("/log", rt.notImplemented)
		webhooks.GET("/log", rt.notImplemented)
	}

	dashboard := webhooks.Group("/dashboard")
	if rt.dashboardHandler != nil {
		dashboard.GET("/conversations", rt.dashboardHandler.List)
		dashboard.GET("/conversations/:id", rt.dashboardHandler.Get)
		dashboard.POST("/sync", rt.dashboardHandler.Sync)
		dashboard.GET("/analytics", rt.dashboardHandler.Analytics)
	} else {
		dashboard.GET("/conversations", rt.notImplemented)
		dashboard.GET("/conversations/:id", rt.notImplemented)
		dashboard.POST("/sync", rt.notImplemented)
		dashboard.GET("/analytics", rt.notImplemented)
	}

	if rt.escalationHandler != nil {
		// The create path doubles as the agent tool-call endpoint.
		webhooks.POST("/escalation/create", rt.escalationHandler.Create)
		dashboard.GET("/escalations", rt.escalationHandler.List)
		webhooks.GET("/escalations/:id", rt.escalationHandler.Get)
		webhooks.PUT("/escalations/:id/status", rt.escalationHandler.UpdateStatus)
		webhooks.POST("/escalations/:id/notes", rt.escalationHandler.AddNote)
	} else {
		webhooks.POST("/escalation/create", rt.notImplemented)
		dashboard.GET("/escalations", rt.notImplemented)
		webhooks.GET("/escalations/:id", rt.notImplemented)
		webhooks.PUT("/escalations/:id/status", rt.notImplemented)
		webhooks.POST("/escalations/:id/notes", rt.notImplemented)
	}
}

// setupVoiceRoutes configures text-to-speech routes
func (rt *Router) setupVoiceRoutes(g *echo.Group) {
	voice := g.Group("/voice")

	if rt.voiceHandler != nil {
		voice.POST("/synthesize", rt.voiceHandler.Synthesize)
		voice.GET("/voices", rt.voiceHandler.Voices)
		voice.GET("/user", rt.voiceHandler.UserInfo)
		voice.GET("/settings", rt.voiceHandler.Settings)
		voice.GET("/health", rt.voiceHandler.Health)
	} else {
		voice.POST("/synthesize", rt.notImplemented)
		voice.GET("/voices", rt.notImplemented)
		voice.GET("/user", rt.notImplemented)
		voice.GET("/settings", rt.notImplemented)
		voice.GET("/health", rt.notImplemented)
	}
}

// setupRAGRoutes configures knowledge-base routes
func (rt *Router) setupRAGRoutes(g *echo.Group) {
	rag := g.Group("/rag")

	if rt.ragHandler != nil {
		rag.POST("/ingest", rt.ragHandler.Ingest)
		rag.POST("/query", rt.ragHandler.Query)
		rag.GET("/stats", rt.ragHandler.Stats)
		rag.GET("/health", rt.ragHandler.Health)
	} else {
		rag.POST("/ingest", rt.notImplemented)
		rag.POST("/query", rt.notImplemented)
		rag.GET("/stats", rt.notImplemented)
		rag.GET("/health", rt.notImplemented)
	}
}

// setupOllamaRoutes configures local LLM routes
func (rt *Router) setupOllamaRoutes(g *echo.Group) {
	ollama := g.Group("/ollama")

	if rt.ollamaHandler != nil {
		ollama.POST("/chat", rt.ollamaHandler.Chat)
		ollama.GET("/models", rt.ollamaHandler.Models)
		ollama.GET("/health", rt.ollamaHandler.Health)
	} else {
		ollama.POST("/chat", rt.notImplemented)
		ollama.GET("/models", rt.notImplemented)
		ollama.GET("/health", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
	})
}
