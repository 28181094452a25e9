package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient(nil)
	c.apiKey = "test-key"
	c.baseURL = server.URL
	return c
}

func TestListConversationsPaginates(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		if r.URL.Query().Get("agent_id") != "agent_42" {
			t.Errorf("agent_id = %q", r.URL.Query().Get("agent_id"))
		}
		if r.URL.Query().Get("page_size") != "100" {
			t.Errorf("page_size = %q", r.URL.Query().Get("page_size"))
		}

		var resp listResponse
		switch r.URL.Query().Get("cursor") {
		case "":
			resp = listResponse{
				Conversations: []ConversationStub{{ConversationID: "conv_1", AgentID: "agent_42", StartTimeUnixSecs: 100}},
				HasMore:       true,
				NextCursor:    "cur_2",
			}
		case "cur_2":
			resp = listResponse{
				Conversations: []ConversationStub{{ConversationID: "conv_2", AgentID: "agent_42", StartTimeUnixSecs: 200}},
				HasMore:       false,
			}
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(server)
	stubs, err := client.ListConversations(context.Background(), "agent_42")
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(stubs) != 2 {
		t.Fatalf("got %d stubs, want 2", len(stubs))
	}
	if stubs[0].ConversationID != "conv_1" || stubs[1].ConversationID != "conv_2" {
		t.Errorf("stubs = %+v", stubs)
	}
	if gotKey != "test-key" {
		t.Errorf("xi-api-key = %q", gotKey)
	}
}

func TestListConversationsRetriesPage(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(listResponse{
			Conversations: []ConversationStub{{ConversationID: "conv_1", AgentID: "a", StartTimeUnixSecs: 1}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	stubs, err := client.ListConversations(context.Background(), "a")
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(stubs) != 1 || attempts < 2 {
		t.Errorf("stubs = %d, attempts = %d", len(stubs), attempts)
	}
}

func TestGetConversationDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convai/conversations/conv_1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"conversation_id": "conv_1",
			"transcript":      []any{map[string]any{"role": "user", "message": "hi"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	detail, err := client.GetConversationDetail(context.Background(), "conv_1")
	if err != nil {
		t.Fatalf("GetConversationDetail() error = %v", err)
	}
	if detail["conversation_id"] != "conv_1" {
		t.Errorf("detail = %v", detail)
	}
}

func TestSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice_1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["text"] != "hello" {
			t.Errorf("text = %v", payload["text"])
		}
		if payload["model_id"] != "eleven_turbo_v2" {
			t.Errorf("model_id = %v", payload["model_id"])
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	client := newTestClient(server)
	audio, err := client.Synthesize(context.Background(), "hello", "voice_1", DefaultVoiceSettings())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestSynthesizeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server)
	if _, err := client.Synthesize(context.Background(), "hello", "v", DefaultVoiceSettings()); err == nil {
		t.Error("Synthesize() should fail on 401")
	}
}
