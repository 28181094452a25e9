package conversation

// ListConversationsRequest represents query parameters for the dashboard listing
type ListConversationsRequest struct {
	AgentID    string `query:"agent_id"`
	DateAfter  string `query:"date_after" validate:"omitempty,datetime=2006-01-02"`
	DateBefore string `query:"date_before" validate:"omitempty,datetime=2006-01-02"`
	Evaluation string `query:"evaluation" validate:"omitempty,oneof=successful needs_review failed"`
	Outcome    string `query:"outcome" validate:"omitempty,oneof=resolved escalated failed"`
	Search     string `query:"search"`
	SortBy     string `query:"sort_by" validate:"omitempty,oneof=started_at last_message_at duration messages_count"`
	SortOrder  string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// AnalyticsRequest represents query parameters for the analytics view
type AnalyticsRequest struct {
	AgentID string `query:"agent_id"`
	Days    int    `query:"days" validate:"omitempty,min=1,max=365"`
}

// SyncRequest represents the request to trigger a vendor sync
type SyncRequest struct {
	AgentID string `json:"agent_id"`
	Days    int    `json:"days" validate:"omitempty,min=1,max=365"`
	Mode    string `json:"mode" validate:"omitempty,oneof=incremental full"`
}
