package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
	"github.com/voicedesk-team/voicedesk/internal/usecase/normalize"
)

// ConversationStore handles conversation data operations over a pluggable
// persistence port. Records are re-normalized on every load and save, so a
// document written by an older schema generation heals itself the next time
// it passes through.
type ConversationStore struct {
	mu          sync.Mutex
	persistence repositories.RecordPersistence
	logger      *zap.Logger
}

// NewConversationStore creates a new conversation store
func NewConversationStore(persistence repositories.RecordPersistence, logger *zap.Logger) *ConversationStore {
	return &ConversationStore{
		persistence: persistence,
		logger:      logger,
	}
}

// Load returns all conversations, deduplicated by id (latest occurrence
// wins) and normalized. Records without an id are dropped.
func (s *ConversationStore) Load(ctx context.Context) ([]entities.Conversation, error) {
	raws, err := s.persistence.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.normalizeAll(raws), nil
}

// Save normalizes and persists the full conversation set in one write.
func (s *ConversationStore) Save(ctx context.Context, conversations []entities.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, conversations)
}

// Upsert inserts or replaces one conversation by id.
func (s *ConversationStore) Upsert(ctx context.Context, conversation entities.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raws, err := s.persistence.LoadAll(ctx)
	if err != nil {
		return err
	}
	conversations := s.normalizeAll(raws)

	replaced := false
	for i := range conversations {
		if conversations[i].ID == conversation.ID {
			conversations[i] = conversation
			replaced = true
			break
		}
	}
	if !replaced {
		conversations = append(conversations, conversation)
	}

	return s.saveLocked(ctx, conversations)
}

// GetByID finds a conversation by ID, nil when absent.
func (s *ConversationStore) GetByID(ctx context.Context, id string) (*entities.Conversation, error) {
	conversations, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].ID == id {
			return &conversations[i], nil
		}
	}
	return nil, nil
}

// LastSync returns the most recent synced_at across all conversations.
func (s *ConversationStore) LastSync(ctx context.Context) (*time.Time, error) {
	conversations, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var last *time.Time
	for i := range conversations {
		if ts := conversations[i].SyncedAt; ts != nil {
			if last == nil || ts.After(*last) {
				last = ts
			}
		}
	}
	return last, nil
}

func (s *ConversationStore) saveLocked(ctx context.Context, conversations []entities.Conversation) error {
	now := time.Now().UTC()
	records := make([]map[string]any, 0, len(conversations))
	for _, conv := range conversations {
		raw, err := conversationToRaw(conv)
		if err != nil {
			return err
		}
		normalized := normalize.NormalizeConversation(raw, entities.SourceSync, now)
		out, err := conversationToRaw(normalized)
		if err != nil {
			return err
		}
		records = append(records, out)
	}
	return s.persistence.SaveAll(ctx, records)
}

// normalizeAll applies dedup and normalization to raw records, preserving
// the position of each id's first occurrence.
func (s *ConversationStore) normalizeAll(raws []map[string]any) []entities.Conversation {
	now := time.Now().UTC()

	order := make([]string, 0, len(raws))
	byID := make(map[string]map[string]any, len(raws))
	dropped := 0
	for _, raw := range raws {
		id := normalize.ConversationID(raw)
		if id == "" {
			dropped++
			continue
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = raw
	}
	if dropped > 0 && s.logger != nil {
		s.logger.Warn("⚠️ Dropped records without id during load", zap.Int("count", dropped))
	}

	conversations := make([]entities.Conversation, 0, len(order))
	for _, id := range order {
		conversations = append(conversations, normalize.NormalizeConversation(byID[id], entities.SourceSync, now))
	}
	return conversations
}

func conversationToRaw(conv entities.Conversation) (map[string]any, error) {
	data, err := json.Marshal(conv)
	if err != nil {
		return nil, fmt.Errorf("encode conversation %s: %w", conv.ID, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", conv.ID, err)
	}
	return raw, nil
}
