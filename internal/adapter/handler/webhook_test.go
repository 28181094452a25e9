package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/usecase/conversation"
	"github.com/voicedesk-team/voicedesk/internal/usecase/query"
	"github.com/voicedesk-team/voicedesk/pkg/validator"
)

type fakeConversationService struct {
	ingested   []map[string]any
	conv       entities.Conversation
	listResult query.ListResult
	syncResult conversation.SyncResult
	syncCalls  int
	err        error
}

func (f *fakeConversationService) Ingest(ctx context.Context, payload map[string]any) (*entities.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.ingested = append(f.ingested, payload)
	conv := f.conv
	return &conv, nil
}

func (f *fakeConversationService) List(ctx context.Context, opts query.ListOptions) (*query.ListResult, *time.Time, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	result := f.listResult
	return &result, nil, nil
}

func (f *fakeConversationService) Get(ctx context.Context, id string) (*entities.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	conv := f.conv
	return &conv, nil
}

func (f *fakeConversationService) Analytics(ctx context.Context, agentID string, days int) (*query.Analytics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &query.Analytics{}, nil
}

func (f *fakeConversationService) Sync(ctx context.Context, agentID string, days int, incremental bool) (*conversation.SyncResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.syncCalls++
	result := f.syncResult
	return &result, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookReceiveWithoutSecret(t *testing.T) {
	service := &fakeConversationService{conv: entities.Conversation{ID: "conv_1", MessagesCount: 2}}
	h := NewWebhook(service, "", nil)
	e := newEcho()

	body := `{"conversation_id":"conv_1","transcript":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/interaction", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Receive(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(service.ingested) != 1 {
		t.Fatalf("ingested %d payloads, want 1", len(service.ingested))
	}
	if !strings.Contains(rec.Body.String(), `"conversation_id":"conv_1"`) {
		t.Errorf("ack missing conversation id: %s", rec.Body.String())
	}
}

func TestWebhookReceiveSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"conversation_id":"conv_1"}`)

	tests := []struct {
		name       string
		signature  string
		wantStatus int
		wantCalls  int
	}{
		{"valid", signPayload(secret, body), http.StatusOK, 1},
		{"prefixed", "sha256=" + signPayload(secret, body), http.StatusOK, 1},
		{"invalid", "deadbeef", http.StatusUnauthorized, 0},
		{"missing", "", http.StatusUnauthorized, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeConversationService{conv: entities.Conversation{ID: "conv_1"}}
			h := NewWebhook(service, secret, nil)
			e := newEcho()

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/interaction", strings.NewReader(string(body)))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.signature != "" {
				req.Header.Set(signatureHeader, tt.signature)
			}
			rec := httptest.NewRecorder()

			if err := h.Receive(e.NewContext(req, rec)); err != nil {
				t.Fatalf("Receive() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if len(service.ingested) != tt.wantCalls {
				t.Errorf("ingested %d payloads, want %d", len(service.ingested), tt.wantCalls)
			}
		})
	}
}

func TestWebhookReceiveUnwrapsEnvelope(t *testing.T) {
	service := &fakeConversationService{conv: entities.Conversation{ID: "conv_9"}}
	h := NewWebhook(service, "", nil)
	e := newEcho()

	body := `{"type":"post_call_transcription","event_timestamp":1750000000,"data":{"conversation_id":"conv_9"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/log", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Receive(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := service.ingested[0]["conversation_id"]; got != "conv_9" {
		t.Errorf("ingested payload = %v, envelope not unwrapped", service.ingested[0])
	}
}

func TestWebhookReceiveRejectsMalformedBody(t *testing.T) {
	service := &fakeConversationService{}
	h := NewWebhook(service, "", nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/interaction", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	if err := h.Receive(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(service.ingested) != 0 {
		t.Errorf("malformed body reached the service")
	}
}
