package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	voicedto "github.com/voicedesk-team/voicedesk/internal/adapter/dto/voice"
	"github.com/voicedesk-team/voicedesk/pkg/elevenlabs"
)

// Voice serves text-to-speech and voice account endpoints.
type Voice struct {
	client *elevenlabs.Client
	logger *zap.Logger
}

// NewVoice creates a new voice handler
func NewVoice(client *elevenlabs.Client, logger *zap.Logger) *Voice {
	return &Voice{client: client, logger: logger}
}

// Synthesize converts text to speech and streams back MP3 audio.
func (h *Voice) Synthesize(c echo.Context) error {
	var req voicedto.SynthesizeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	settings := elevenlabs.DefaultVoiceSettings()
	if req.Stability != nil {
		settings.Stability = *req.Stability
	}
	if req.SimilarityBoost != nil {
		settings.SimilarityBoost = *req.SimilarityBoost
	}
	if req.Style != nil {
		settings.Style = *req.Style
	}
	if req.UseSpeakerBoost != nil {
		settings.UseSpeakerBoost = *req.UseSpeakerBoost
	}

	audio, err := h.client.Synthesize(c.Request().Context(), req.Text, req.VoiceID, settings)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrVendorAPIFailed("synthesize", err))
	}

	if h.logger != nil {
		h.logger.Info("✅ Speech synthesized",
			zap.Int("text_length", len(req.Text)),
			zap.Int("audio_bytes", len(audio)))
	}
	return c.Blob(http.StatusOK, "audio/mpeg", audio)
}

// Voices lists the available voices.
func (h *Voice) Voices(c echo.Context) error {
	voices, err := h.client.Voices(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrVendorAPIFailed("list voices", err))
	}
	return HandleSuccess(h.logger, c, voices)
}

// UserInfo returns subscription and quota information.
func (h *Voice) UserInfo(c echo.Context) error {
	info, err := h.client.UserInfo(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrVendorAPIFailed("get user info", err))
	}
	return HandleSuccess(h.logger, c, info)
}

// Settings echoes the default synthesis settings clients start from.
func (h *Voice) Settings(c echo.Context) error {
	return HandleSuccess(h.logger, c, elevenlabs.DefaultVoiceSettings())
}

// Health reports whether the vendor API answers with the configured key.
func (h *Voice) Health(c echo.Context) error {
	healthy := h.client.Healthy(c.Request().Context())
	status := "ok"
	if !healthy {
		status = "unreachable"
	}
	return HandleSuccess(h.logger, c, map[string]any{"status": status, "healthy": healthy})
}
