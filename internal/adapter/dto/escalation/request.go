package escalation

// CreateEscalationRequest represents the request to open a callback ticket
type CreateEscalationRequest struct {
	UserName       string `json:"user_name" validate:"required,min=1,max=255"`
	UserEmail      string `json:"user_email" validate:"omitempty,email"`
	UserPhone      string `json:"user_phone" validate:"omitempty,max=32"`
	InquiryTopic   string `json:"inquiry_topic" validate:"omitempty,max=255"`
	BestTimeToCall string `json:"best_time_to_call" validate:"omitempty,max=64"`
	ConversationID string `json:"conversation_id" validate:"omitempty,max=255"`
}

// ListEscalationsRequest represents query parameters for listing tickets
type ListEscalationsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending contacted resolved"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// UpdateStatusRequest represents the request to move a ticket between states
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted resolved"`
	Note   string `json:"note,omitempty" validate:"omitempty,max=2000"`
	Author string `json:"author,omitempty" validate:"omitempty,max=255"`
}

// AddNoteRequest represents the request to append a note to a ticket
type AddNoteRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=2000"`
	Author string `json:"author,omitempty" validate:"omitempty,max=255"`
}
