package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/usecase/conversation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/query"
)

type fakeGuard struct {
	held     bool
	acquires []string
}

func (f *fakeGuard) Acquire(ctx context.Context, key string) (bool, error) {
	f.acquires = append(f.acquires, key)
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeGuard) Release(ctx context.Context, key string) error {
	f.held = false
	return nil
}

func TestDashboardList(t *testing.T) {
	service := &fakeConversationService{
		listResult: query.ListResult{
			Items:         []entities.Conversation{{ID: "conv_1"}},
			TotalCount:    1,
			FilteredCount: 1,
			Page:          1,
			Limit:         50,
		},
	}
	h := NewDashboard(service, &fakeGuard{}, "agent_1", 30, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/dashboard/conversations?outcome=resolved&page=1", nil)
	rec := httptest.NewRecorder()

	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total_count":1`) {
		t.Errorf("body missing counts: %s", rec.Body.String())
	}
}

func TestDashboardListRejectsBadDate(t *testing.T) {
	h := NewDashboard(&fakeConversationService{}, &fakeGuard{}, "", 30, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/dashboard/conversations?date_after=June+1st", nil)
	rec := httptest.NewRecorder()

	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDashboardSyncGuard(t *testing.T) {
	service := &fakeConversationService{
		syncResult: conversation.SyncResult{Synced: 2, Mode: "incremental"},
	}
	guard := &fakeGuard{}
	h := NewDashboard(service, guard, "agent_1", 30, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/dashboard/sync", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Sync(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if service.syncCalls != 1 {
		t.Errorf("syncCalls = %d, want 1", service.syncCalls)
	}
	if len(guard.acquires) != 1 || guard.acquires[0] != "agent_1" {
		t.Errorf("guard acquires = %v", guard.acquires)
	}
	if guard.held {
		t.Error("guard not released after sync")
	}
}

func TestDashboardSyncConflictWhenGuardHeld(t *testing.T) {
	service := &fakeConversationService{}
	h := NewDashboard(service, &fakeGuard{held: true}, "agent_1", 30, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/dashboard/sync", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Sync(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if service.syncCalls != 0 {
		t.Errorf("sync ran while guard was held")
	}
}

func TestDashboardGetNotFoundPassthrough(t *testing.T) {
	h := NewDashboard(&fakeConversationService{}, &fakeGuard{}, "", 30, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/dashboard/conversations/conv_1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("conv_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
