package repository

import (
	"context"
	"testing"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// fakePersistence keeps records in memory behind the same port the file and
// Postgres stores implement.
type fakePersistence struct {
	records []map[string]any
	saves   int
}

func (f *fakePersistence) LoadAll(ctx context.Context) ([]map[string]any, error) {
	return f.records, nil
}

func (f *fakePersistence) SaveAll(ctx context.Context, records []map[string]any) error {
	f.records = records
	f.saves++
	return nil
}

func TestConversationStoreLoadDedup(t *testing.T) {
	persistence := &fakePersistence{records: []map[string]any{
		{"id": "conv_1", "agent_id": "agent_42", "summary": "first version"},
		{"agent_id": "agent_42"}, // no id, dropped
		{"id": "conv_2", "agent_id": "agent_42"},
		{"id": "conv_1", "agent_id": "agent_42", "summary": "second version"},
	}}
	store := NewConversationStore(persistence, nil)

	conversations, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("Load() returned %d conversations, want 2", len(conversations))
	}
	// First occurrence keeps its position, latest payload wins.
	if conversations[0].ID != "conv_1" || conversations[1].ID != "conv_2" {
		t.Errorf("order = %q, %q", conversations[0].ID, conversations[1].ID)
	}
	if conversations[0].Summary != "second version" {
		t.Errorf("Summary = %q, want latest occurrence to win", conversations[0].Summary)
	}
}

func TestConversationStoreLoadRenormalizes(t *testing.T) {
	// A legacy-shaped record: transcript under transcript_json, stale
	// counters, vendor outcome string.
	persistence := &fakePersistence{records: []map[string]any{
		{
			"id":       "conv_legacy",
			"agent_id": "agent_42",
			"outcome":  "completed",
			"transcript_json": []any{
				map[string]any{"speaker": "agent", "text": "hello", "timestamp": 0.0},
				map[string]any{"speaker": "user", "text": "hi there", "timestamp": 2.0},
			},
			"turn_count": 99.0,
		},
	}}
	store := NewConversationStore(persistence, nil)

	conversations, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	conv := conversations[0]
	if conv.Outcome != entities.OutcomeResolved {
		t.Errorf("Outcome = %v, want normalized resolved", conv.Outcome)
	}
	if conv.TurnCount != 2 || conv.UserTurns != 1 || conv.AgentTurns != 1 {
		t.Errorf("counters = %d/%d/%d, want recomputed", conv.TurnCount, conv.UserTurns, conv.AgentTurns)
	}
	if len(conv.Transcript) != 2 {
		t.Errorf("transcript length = %d", len(conv.Transcript))
	}
}

func TestConversationStoreUpsert(t *testing.T) {
	persistence := &fakePersistence{}
	store := NewConversationStore(persistence, nil)
	ctx := context.Background()

	conv := entities.Conversation{
		ID:        "conv_1",
		AgentID:   "agent_42",
		StartedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Summary:   "original",
		Source:    entities.SourceWebhook,
	}
	if err := store.Upsert(ctx, conv); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Replaying the same record must not duplicate it.
	if err := store.Upsert(ctx, conv); err != nil {
		t.Fatal(err)
	}
	conversations, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(conversations) != 1 {
		t.Fatalf("replayed upsert produced %d records, want 1", len(conversations))
	}

	// Replacing by id updates in place.
	conv.Summary = "updated"
	if err := store.Upsert(ctx, conv); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetByID(ctx, "conv_1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Summary != "updated" {
		t.Errorf("GetByID() = %+v, want updated summary", got)
	}

	// A second id appends.
	if err := store.Upsert(ctx, entities.Conversation{ID: "conv_2", AgentID: "agent_42", StartedAt: conv.StartedAt}); err != nil {
		t.Fatal(err)
	}
	conversations, _ = store.Load(ctx)
	if len(conversations) != 2 {
		t.Errorf("store has %d records, want 2", len(conversations))
	}
}

func TestConversationStoreGetByIDMissing(t *testing.T) {
	store := NewConversationStore(&fakePersistence{}, nil)
	got, err := store.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("GetByID() = %+v, want nil for missing id", got)
	}
}

func TestConversationStoreLastSync(t *testing.T) {
	store := NewConversationStore(&fakePersistence{records: []map[string]any{
		{"id": "conv_1", "agent_id": "a", "synced_at": "2025-06-01T10:00:00Z"},
		{"id": "conv_2", "agent_id": "a", "synced_at": "2025-06-03T10:00:00Z"},
		{"id": "conv_3", "agent_id": "a", "source": "webhook", "created_at": "2025-06-05T10:00:00Z"},
	}}, nil)

	last, err := store.LastSync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	if last == nil || !last.Equal(want) {
		t.Errorf("LastSync() = %v, want %v", last, want)
	}
}
