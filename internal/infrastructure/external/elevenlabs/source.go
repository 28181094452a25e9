package elevenlabs

import (
	"context"

	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
	"github.com/voicedesk-team/voicedesk/pkg/elevenlabs"
)

// Source adapts the ElevenLabs client to the conversation source port.
type Source struct {
	client *elevenlabs.Client
}

// NewSource wraps an ElevenLabs client as a conversation source
func NewSource(client *elevenlabs.Client) *Source {
	return &Source{client: client}
}

// ListConversations returns metadata stubs for an agent, all pages.
func (s *Source) ListConversations(ctx context.Context, agentID string) ([]repositories.ConversationStub, error) {
	raw, err := s.client.ListConversations(ctx, agentID)
	if err != nil {
		return nil, err
	}
	stubs := make([]repositories.ConversationStub, 0, len(raw))
	for _, r := range raw {
		stubs = append(stubs, repositories.ConversationStub{
			ID:                r.ConversationID,
			AgentID:           r.AgentID,
			StartTimeUnixSecs: r.StartTimeUnixSecs,
		})
	}
	return stubs, nil
}

// GetConversationDetail fetches one full conversation payload.
func (s *Source) GetConversationDetail(ctx context.Context, conversationID string) (map[string]any, error) {
	return s.client.GetConversationDetail(ctx, conversationID)
}
