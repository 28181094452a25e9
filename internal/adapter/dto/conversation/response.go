package conversation

import (
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// ListConversationsResponse is the paginated dashboard listing
type ListConversationsResponse struct {
	Conversations []entities.Conversation `json:"conversations"`
	TotalCount    int                     `json:"total_count"`
	FilteredCount int                     `json:"filtered_count"`
	Page          int                     `json:"page"`
	Limit         int                     `json:"limit"`
	LastSync      *time.Time              `json:"last_sync,omitempty"`
}

// WebhookAck acknowledges an ingested webhook event
type WebhookAck struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id"`
	MessagesCount  int    `json:"messages_count"`
}
