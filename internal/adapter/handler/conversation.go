package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	convdto "github.com/voicedesk-team/voicedesk/internal/adapter/dto/conversation"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/cache"
	"github.com/voicedesk-team/voicedesk/internal/usecase/conversation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/query"
)

// Dashboard serves the conversation listing, detail, analytics and sync
// endpoints behind the operator dashboard.
type Dashboard struct {
	service  conversation.Service
	guard    cache.SyncGuard
	agentID  string
	syncDays int
	logger   *zap.Logger
}

// NewDashboard creates a new dashboard handler
func NewDashboard(service conversation.Service, guard cache.SyncGuard, agentID string, syncDays int, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		service:  service,
		guard:    guard,
		agentID:  agentID,
		syncDays: syncDays,
		logger:   logger,
	}
}

// List returns a filtered, sorted, paginated page of conversations.
func (h *Dashboard) List(c echo.Context) error {
	var req convdto.ListConversationsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	opts := query.ListOptions{
		AgentID:    req.AgentID,
		Evaluation: req.Evaluation,
		Outcome:    req.Outcome,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Page:       req.Page,
		Limit:      req.Limit,
	}
	if req.AgentID == "" {
		opts.AgentID = h.agentID
	}
	if req.DateAfter != "" {
		after, err := time.Parse("2006-01-02", req.DateAfter)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("date_after must be YYYY-MM-DD"))
		}
		opts.DateAfter = &after
	}
	if req.DateBefore != "" {
		before, err := time.Parse("2006-01-02", req.DateBefore)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("date_before must be YYYY-MM-DD"))
		}
		// Inclusive end of day.
		before = before.Add(24*time.Hour - time.Nanosecond)
		opts.DateBefore = &before
	}

	result, lastSync, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, convdto.ListConversationsResponse{
		Conversations: result.Items,
		TotalCount:    result.TotalCount,
		FilteredCount: result.FilteredCount,
		Page:          result.Page,
		Limit:         result.Limit,
		LastSync:      lastSync,
	})
}

// Get returns one conversation by id.
func (h *Dashboard) Get(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("conversation id is required"))
	}

	conv, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, conv)
}

// Analytics returns the aggregated dashboard summary.
func (h *Dashboard) Analytics(c echo.Context) error {
	var req convdto.AnalyticsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	agentID := req.AgentID
	if agentID == "" {
		agentID = h.agentID
	}

	analytics, err := h.service.Analytics(c.Request().Context(), agentID, req.Days)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, analytics)
}

// Sync pulls new conversations from the vendor. At most one sync runs per
// agent at a time; a concurrent request gets a conflict instead of queueing.
func (h *Dashboard) Sync(c echo.Context) error {
	var req convdto.SyncRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	agentID := req.AgentID
	if agentID == "" {
		agentID = h.agentID
	}
	days := req.Days
	if days < 1 {
		days = h.syncDays
	}
	incremental := req.Mode != "full"

	ctx := c.Request().Context()
	guardKey := agentID
	if guardKey == "" {
		guardKey = "all"
	}
	acquired, err := h.guard.Acquire(ctx, guardKey)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}
	if !acquired {
		return HandleError(h.logger, c, apperrors.ErrSyncInProgress())
	}
	defer func() {
		if err := h.guard.Release(ctx, guardKey); err != nil && h.logger != nil {
			h.logger.Warn("⚠️ Failed to release sync guard", zap.String("key", guardKey), zap.Error(err))
		}
	}()

	result, err := h.service.Sync(ctx, agentID, days, incremental)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}
