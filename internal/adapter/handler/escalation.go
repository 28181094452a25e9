package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	escdto "github.com/voicedesk-team/voicedesk/internal/adapter/dto/escalation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/escalation"
)

// EscalationHandler serves the callback ticket endpoints. Create is called by
// the voice agent's tool during a call; the rest back the operator dashboard.
type EscalationHandler struct {
	service escalation.Service
	logger  *zap.Logger
}

// NewEscalationHandler creates a new escalation handler
func NewEscalationHandler(service escalation.Service, logger *zap.Logger) *EscalationHandler {
	return &EscalationHandler{service: service, logger: logger}
}

// Create raises a new callback ticket.
func (h *EscalationHandler) Create(c echo.Context) error {
	var req escdto.CreateEscalationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ticket, err := h.service.Create(c.Request().Context(), escalation.CreateInput{
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		UserPhone:      req.UserPhone,
		InquiryTopic:   req.InquiryTopic,
		BestTimeToCall: req.BestTimeToCall,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, ticket)
}

// List returns tickets newest first.
func (h *EscalationHandler) List(c echo.Context) error {
	var req escdto.ListEscalationsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	tickets, err := h.service.List(c.Request().Context(), req.Status, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, tickets)
}

// Get returns one ticket by id.
func (h *EscalationHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("escalation id is required"))
	}

	ticket, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, ticket)
}

// UpdateStatus transitions a ticket between states.
func (h *EscalationHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	var req escdto.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ticket, err := h.service.UpdateStatus(c.Request().Context(), id, req.Status, req.Note, req.Author)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, ticket)
}

// AddNote appends a note to a ticket.
func (h *EscalationHandler) AddNote(c echo.Context) error {
	id := c.Param("id")
	var req escdto.AddNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	note, err := h.service.AddNote(c.Request().Context(), id, req.Text, req.Author)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, note)
}
