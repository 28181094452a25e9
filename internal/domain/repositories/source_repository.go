package repositories

import "context"

// ConversationStub is the metadata-only listing entry returned by the bulk
// source. Listing never includes transcripts; those cost a detail fetch.
type ConversationStub struct {
	ID                string
	AgentID           string
	StartTimeUnixSecs float64
}

// ConversationSource is the upstream vendor the sync coordinator pulls from.
type ConversationSource interface {
	// ListConversations returns metadata stubs for an agent, all pages.
	ListConversations(ctx context.Context, agentID string) ([]ConversationStub, error)

	// GetConversationDetail fetches one full conversation payload,
	// transcript included, as a raw record.
	GetConversationDetail(ctx context.Context, conversationID string) (map[string]any, error)
}
