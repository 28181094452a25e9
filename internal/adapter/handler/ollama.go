package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	ollamadto "github.com/voicedesk-team/voicedesk/internal/adapter/dto/ollama"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/external/ollama"
)

// Ollama proxies chat completions to the local LLM runtime.
type Ollama struct {
	client *ollama.Client
	logger *zap.Logger
}

// NewOllama creates a new LLM handler
func NewOllama(client *ollama.Client, logger *zap.Logger) *Ollama {
	return &Ollama{client: client, logger: logger}
}

// Chat runs a non-streaming chat completion.
func (h *Ollama) Chat(c echo.Context) error {
	var req ollamadto.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	messages := make([]ollama.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}

	result, err := h.client.Generate(c.Request().Context(), messages, req.Model, req.Temperature, req.MaxTokens)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrLLMUnavailable(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// Models lists the locally available models.
func (h *Ollama) Models(c echo.Context) error {
	models, err := h.client.Models(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrLLMUnavailable(err))
	}
	return HandleSuccess(h.logger, c, map[string]any{"models": models})
}

// Health reports whether the runtime answers at all.
func (h *Ollama) Health(c echo.Context) error {
	healthy := h.client.Healthy(c.Request().Context())
	status := "ok"
	if !healthy {
		status = "unreachable"
	}
	return HandleSuccess(h.logger, c, map[string]any{"status": status, "healthy": healthy})
}
