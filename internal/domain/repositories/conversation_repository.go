package repositories

import (
	"context"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// RecordPersistence is the pluggable storage port beneath the stores. It
// traffics in raw records so the conversation store can normalize
// defensively on every load regardless of what generation of the schema the
// backing storage holds.
type RecordPersistence interface {
	// LoadAll returns every stored record, raw.
	LoadAll(ctx context.Context) ([]map[string]any, error)

	// SaveAll replaces the full record set atomically.
	SaveAll(ctx context.Context, records []map[string]any) error
}

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	// Load returns all conversations, deduplicated and normalized
	Load(ctx context.Context) ([]entities.Conversation, error)

	// Save normalizes and persists the full conversation set
	Save(ctx context.Context, conversations []entities.Conversation) error

	// Upsert inserts or replaces one conversation by id
	Upsert(ctx context.Context, conversation entities.Conversation) error

	// GetByID finds a conversation by ID, nil when absent
	GetByID(ctx context.Context, id string) (*entities.Conversation, error)

	// LastSync returns the most recent synced_at across all conversations
	LastSync(ctx context.Context) (*time.Time, error)
}
