package conversation

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/usecase/normalize"
)

// SyncResult reports what one sync run did.
type SyncResult struct {
	Synced     int    `json:"synced"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	TotalAfter int    `json:"total_after"`
	Mode       string `json:"mode"`
}

// Sync pulls conversations from the upstream source and merges them into the
// store idempotently. Incremental mode only considers conversations that
// started strictly after the newest stored record for the agent; full mode
// uses the day lookback. Listing is metadata only; details are fetched just
// for the records that survive the filter, and a record that fails its
// detail fetch is counted as skipped rather than failing the run. The store
// is written once, at the end.
func (s *conversationService) Sync(ctx context.Context, agentID string, days int, incremental bool) (*SyncResult, error) {
	if days < 1 {
		days = 30
	}
	now := time.Now().UTC()

	current, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("load", err)
	}

	cutoff := s.resolveCutoff(current, agentID, days, incremental, now)

	stubs, err := s.source.ListConversations(ctx, agentID)
	if err != nil {
		return nil, apperrors.ErrVendorAPIFailed("list conversations", err)
	}
	if s.logger != nil {
		s.logger.Info("🔄 Fetched conversation listing",
			zap.String("agent_id", agentID),
			zap.Int("total", len(stubs)),
			zap.Time("cutoff", cutoff))
	}

	skipped := 0
	relevant := make([]string, 0, len(stubs))
	for _, stub := range stubs {
		if stub.StartTimeUnixSecs <= 0 {
			skipped++
			continue
		}
		startTime := time.Unix(int64(stub.StartTimeUnixSecs), 0).UTC()
		if !startTime.After(cutoff) {
			skipped++
			continue
		}
		if stub.AgentID != agentID {
			skipped++
			continue
		}
		relevant = append(relevant, stub.ID)
	}

	index := make(map[string]int, len(current))
	for i := range current {
		index[current[i].ID] = i
	}

	synced := 0
	updated := 0
	for _, id := range relevant {
		detail, err := s.source.GetConversationDetail(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to fetch conversation detail",
					zap.String("conversation_id", id), zap.Error(err))
			}
			skipped++
			continue
		}

		conv := normalize.NormalizeConversation(detail, entities.SourceSync, now)
		if i, exists := index[conv.ID]; exists {
			current[i] = conv
			updated++
		} else {
			index[conv.ID] = len(current)
			current = append(current, conv)
			synced++
		}
	}

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, apperrors.ErrStorageFailed("save", err)
	}

	mode := "full"
	if incremental {
		mode = "incremental"
	}
	result := &SyncResult{
		Synced:     synced,
		Updated:    updated,
		Skipped:    skipped,
		TotalAfter: len(current),
		Mode:       mode,
	}
	if s.logger != nil {
		s.logger.Info("✅ Sync complete",
			zap.Int("synced", synced),
			zap.Int("updated", updated),
			zap.Int("skipped", skipped),
			zap.Int("total_after", len(current)),
			zap.String("mode", mode))
	}
	return result, nil
}

// resolveCutoff picks the incremental high-water mark: the newest started_at
// among the agent's stored records, or the day lookback when the agent has
// none (or on a full sync).
func (s *conversationService) resolveCutoff(current []entities.Conversation, agentID string, days int, incremental bool, now time.Time) time.Time {
	lookback := now.Add(-time.Duration(days) * 24 * time.Hour)
	if !incremental {
		return lookback
	}

	var newest time.Time
	found := false
	for _, c := range current {
		if c.AgentID != agentID {
			continue
		}
		if !found || c.StartedAt.After(newest) {
			newest = c.StartedAt
			found = true
		}
	}
	if !found {
		return lookback
	}
	return newest
}
