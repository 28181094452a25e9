package conversation

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
	"github.com/voicedesk-team/voicedesk/internal/usecase/normalize"
	"github.com/voicedesk-team/voicedesk/internal/usecase/query"
)

// Service defines conversation ingestion, listing and sync orchestration
type Service interface {
	// Ingest normalizes a webhook payload and upserts it into the store
	Ingest(ctx context.Context, payload map[string]any) (*entities.Conversation, error)

	// List returns a filtered, sorted, paginated page plus the last sync time
	List(ctx context.Context, opts query.ListOptions) (*query.ListResult, *time.Time, error)

	// Get returns one conversation by id
	Get(ctx context.Context, id string) (*entities.Conversation, error)

	// Analytics aggregates the dashboard summary for the last N days
	Analytics(ctx context.Context, agentID string, days int) (*query.Analytics, error)

	// Sync pulls new conversations from the upstream source
	Sync(ctx context.Context, agentID string, days int, incremental bool) (*SyncResult, error)
}

type conversationService struct {
	repo   repositories.ConversationRepository
	source repositories.ConversationSource
	logger *zap.Logger
}

// NewService constructs a new conversation service
func NewService(
	repo repositories.ConversationRepository,
	source repositories.ConversationSource,
	logger *zap.Logger,
) Service {
	return &conversationService{
		repo:   repo,
		source: source,
		logger: logger,
	}
}

// Ingest normalizes a webhook payload and upserts it into the store.
func (s *conversationService) Ingest(ctx context.Context, payload map[string]any) (*entities.Conversation, error) {
	conv := normalize.NormalizeConversation(payload, entities.SourceWebhook, time.Now().UTC())

	if err := s.repo.Upsert(ctx, conv); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to persist ingested conversation",
				zap.String("conversation_id", conv.ID), zap.Error(err))
		}
		return nil, apperrors.ErrStorageFailed("upsert", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Conversation ingested",
			zap.String("conversation_id", conv.ID),
			zap.String("agent_id", conv.AgentID),
			zap.Int("turns", conv.TurnCount))
	}
	return &conv, nil
}

// List returns a filtered page of conversations and the most recent sync time.
func (s *conversationService) List(ctx context.Context, opts query.ListOptions) (*query.ListResult, *time.Time, error) {
	conversations, err := s.repo.Load(ctx)
	if err != nil {
		return nil, nil, apperrors.ErrStorageFailed("load", err)
	}

	result := query.Apply(conversations, opts)
	lastSync, err := s.repo.LastSync(ctx)
	if err != nil {
		return nil, nil, apperrors.ErrStorageFailed("last sync", err)
	}
	return &result, lastSync, nil
}

// Get returns one conversation by id.
func (s *conversationService) Get(ctx context.Context, id string) (*entities.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("get", err)
	}
	if conv == nil {
		return nil, apperrors.ErrConversationNotFound(id)
	}
	return conv, nil
}

// Analytics aggregates the dashboard summary for the last N days.
func (s *conversationService) Analytics(ctx context.Context, agentID string, days int) (*query.Analytics, error) {
	if days < 1 {
		days = 30
	}
	conversations, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("load", err)
	}
	cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	result := query.Analyze(conversations, agentID, cutoff)
	return &result, nil
}
