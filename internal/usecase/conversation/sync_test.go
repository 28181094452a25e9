package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
)

type fakeRepo struct {
	conversations []entities.Conversation
	saves         int
}

func (f *fakeRepo) Load(ctx context.Context) ([]entities.Conversation, error) {
	out := make([]entities.Conversation, len(f.conversations))
	copy(out, f.conversations)
	return out, nil
}

func (f *fakeRepo) Save(ctx context.Context, conversations []entities.Conversation) error {
	f.conversations = conversations
	f.saves++
	return nil
}

func (f *fakeRepo) Upsert(ctx context.Context, conversation entities.Conversation) error {
	for i := range f.conversations {
		if f.conversations[i].ID == conversation.ID {
			f.conversations[i] = conversation
			return nil
		}
	}
	f.conversations = append(f.conversations, conversation)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*entities.Conversation, error) {
	for i := range f.conversations {
		if f.conversations[i].ID == id {
			return &f.conversations[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) LastSync(ctx context.Context) (*time.Time, error) {
	return nil, nil
}

type fakeSource struct {
	stubs       []repositories.ConversationStub
	details     map[string]map[string]any
	failDetails map[string]bool
	detailCalls []string
}

func (f *fakeSource) ListConversations(ctx context.Context, agentID string) ([]repositories.ConversationStub, error) {
	return f.stubs, nil
}

func (f *fakeSource) GetConversationDetail(ctx context.Context, conversationID string) (map[string]any, error) {
	f.detailCalls = append(f.detailCalls, conversationID)
	if f.failDetails[conversationID] {
		return nil, errors.New("upstream error")
	}
	return f.details[conversationID], nil
}

func epoch(t time.Time) float64 {
	return float64(t.Unix())
}

func detailFor(id, agentID string, started time.Time) map[string]any {
	return map[string]any{
		"conversation_id": id,
		"agent_id":        agentID,
		"metadata":        map[string]any{"start_time_unix_secs": epoch(started)},
		"transcript": []any{
			map[string]any{"role": "user", "message": "hello there, quick question", "time_in_call_secs": 1.0},
		},
	}
}

func TestSyncIncrementalCutoff(t *testing.T) {
	now := time.Now().UTC()
	newest := now.Add(-2 * time.Hour)

	repo := &fakeRepo{conversations: []entities.Conversation{
		{ID: "conv_old", AgentID: "agent_42", StartedAt: now.Add(-48 * time.Hour), Source: entities.SourceSync},
		{ID: "conv_newest", AgentID: "agent_42", StartedAt: newest, Source: entities.SourceSync},
		{ID: "conv_other_agent", AgentID: "agent_x", StartedAt: now, Source: entities.SourceSync},
	}}
	source := &fakeSource{
		stubs: []repositories.ConversationStub{
			// Started before the newest stored record: filtered out.
			{ID: "conv_stale", AgentID: "agent_42", StartTimeUnixSecs: epoch(now.Add(-24 * time.Hour))},
			// Started after: synced.
			{ID: "conv_new", AgentID: "agent_42", StartTimeUnixSecs: epoch(now.Add(-time.Hour))},
			// Wrong agent: skipped.
			{ID: "conv_foreign", AgentID: "agent_x", StartTimeUnixSecs: epoch(now.Add(-time.Hour))},
			// Missing timestamp: skipped.
			{ID: "conv_nots", AgentID: "agent_42"},
		},
		details: map[string]map[string]any{
			"conv_new": detailFor("conv_new", "agent_42", now.Add(-time.Hour)),
		},
	}
	svc := NewService(repo, source, nil)

	result, err := svc.Sync(context.Background(), "agent_42", 30, true)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if result.Synced != 1 || result.Updated != 0 || result.Skipped != 3 {
		t.Errorf("result = %+v, want synced=1 updated=0 skipped=3", result)
	}
	if result.TotalAfter != 4 {
		t.Errorf("TotalAfter = %d, want 4", result.TotalAfter)
	}
	if result.Mode != "incremental" {
		t.Errorf("Mode = %q", result.Mode)
	}
	// Details are only fetched for survivors of the metadata filter.
	if len(source.detailCalls) != 1 || source.detailCalls[0] != "conv_new" {
		t.Errorf("detailCalls = %v, want only conv_new", source.detailCalls)
	}
	// One terminal write.
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestSyncUpdatesExisting(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-time.Hour)

	repo := &fakeRepo{conversations: []entities.Conversation{
		{ID: "conv_known", AgentID: "agent_42", StartedAt: now.Add(-72 * time.Hour), Source: entities.SourceSync},
	}}
	source := &fakeSource{
		stubs: []repositories.ConversationStub{
			{ID: "conv_known", AgentID: "agent_42", StartTimeUnixSecs: epoch(started)},
		},
		details: map[string]map[string]any{
			"conv_known": detailFor("conv_known", "agent_42", started),
		},
	}
	svc := NewService(repo, source, nil)

	// Full sync so the 72h-old stored record does not raise the cutoff
	// past the re-fetched conversation.
	result, err := svc.Sync(context.Background(), "agent_42", 30, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Synced != 0 || result.Updated != 1 {
		t.Errorf("result = %+v, want updated=1", result)
	}
	if result.Mode != "full" {
		t.Errorf("Mode = %q", result.Mode)
	}
	if result.TotalAfter != 1 {
		t.Errorf("TotalAfter = %d, want 1 (replaced, not duplicated)", result.TotalAfter)
	}
}

func TestSyncDetailFailureSkips(t *testing.T) {
	now := time.Now().UTC()
	repo := &fakeRepo{}
	source := &fakeSource{
		stubs: []repositories.ConversationStub{
			{ID: "conv_ok", AgentID: "agent_42", StartTimeUnixSecs: epoch(now.Add(-time.Hour))},
			{ID: "conv_bad", AgentID: "agent_42", StartTimeUnixSecs: epoch(now.Add(-time.Hour))},
		},
		details: map[string]map[string]any{
			"conv_ok": detailFor("conv_ok", "agent_42", now.Add(-time.Hour)),
		},
		failDetails: map[string]bool{"conv_bad": true},
	}
	svc := NewService(repo, source, nil)

	result, err := svc.Sync(context.Background(), "agent_42", 30, true)
	if err != nil {
		t.Fatalf("Sync() error = %v, want per-record failure to not fail the run", err)
	}
	if result.Synced != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want synced=1 skipped=1", result)
	}
	// The run still ends in a terminal write.
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestSyncReplayIsIdempotent(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-time.Hour)
	repo := &fakeRepo{}
	source := &fakeSource{
		stubs: []repositories.ConversationStub{
			{ID: "conv_1", AgentID: "agent_42", StartTimeUnixSecs: epoch(started)},
		},
		details: map[string]map[string]any{
			"conv_1": detailFor("conv_1", "agent_42", started),
		},
	}
	svc := NewService(repo, source, nil)
	ctx := context.Background()

	first, err := svc.Sync(ctx, "agent_42", 30, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Sync(ctx, "agent_42", 30, false)
	if err != nil {
		t.Fatal(err)
	}
	if first.Synced != 1 || second.Synced != 0 || second.Updated != 1 {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
	if second.TotalAfter != 1 {
		t.Errorf("TotalAfter = %d after replay, want 1", second.TotalAfter)
	}
}
