package handler

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	convdto "github.com/voicedesk-team/voicedesk/internal/adapter/dto/conversation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/conversation"
	"github.com/voicedesk-team/voicedesk/pkg/elevenlabs"
)

const signatureHeader = "Elevenlabs-Signature"

// Webhook receives post-call events from the voice platform and feeds them
// into the conversation store.
type Webhook struct {
	service conversation.Service
	secret  string
	logger  *zap.Logger
}

// NewWebhook creates a new webhook handler
func NewWebhook(service conversation.Service, secret string, logger *zap.Logger) *Webhook {
	return &Webhook{
		service: service,
		secret:  secret,
		logger:  logger,
	}
}

// Receive ingests one post-call webhook event. The payload shape varies by
// event version, so the raw body is handed to normalization as-is.
func (h *Webhook) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	if h.secret != "" {
		signature := c.Request().Header.Get(signatureHeader)
		if !elevenlabs.VerifyWebhookSignature(h.secret, body, signature) {
			if h.logger != nil {
				h.logger.Warn("⚠️ Webhook signature verification failed",
					zap.String("request_id", getRequestID(c)))
			}
			return HandleError(h.logger, c, apperrors.ErrInvalidSignature())
		}
	} else if h.logger != nil {
		h.logger.Warn("⚠️ Webhook secret not configured, skipping signature verification")
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	payload = unwrapEnvelope(payload)

	conv, err := h.service.Ingest(c.Request().Context(), payload)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, convdto.WebhookAck{
		Status:         "received",
		ConversationID: conv.ID,
		MessagesCount:  conv.MessagesCount,
	})
}

// Verify answers the platform's endpoint validation probe.
func (h *Webhook) Verify(c echo.Context) error {
	return HandleSuccess(h.logger, c, map[string]string{"status": "ok"})
}

// unwrapEnvelope strips the post-call event envelope when present. Newer
// event versions wrap the conversation under "data" next to a "type" field.
func unwrapEnvelope(payload map[string]any) map[string]any {
	if _, hasType := payload["type"]; !hasType {
		return payload
	}
	if data, ok := payload["data"].(map[string]any); ok {
		return data
	}
	return payload
}
