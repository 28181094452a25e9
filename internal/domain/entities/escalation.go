package entities

import "time"

// EscalationStatus is the workflow state of an escalation ticket.
type EscalationStatus string

const (
	EscalationPending   EscalationStatus = "pending"
	EscalationContacted EscalationStatus = "contacted"
	EscalationResolved  EscalationStatus = "resolved"
)

// EscalationPriority is derived from ticket age, never stored.
type EscalationPriority string

const (
	PriorityUrgent EscalationPriority = "urgent" // older than 24h
	PriorityHigh   EscalationPriority = "high"   // older than 12h
	PriorityMedium EscalationPriority = "medium"
)

// Escalation is a human-follow-up ticket raised from a conversation.
type Escalation struct {
	ID             string           `json:"id"`
	UserName       string           `json:"user_name"`
	UserEmail      string           `json:"user_email"`
	UserPhone      string           `json:"user_phone,omitempty"`
	InquiryTopic   string           `json:"inquiry_topic"`
	BestTimeToCall string           `json:"best_time_to_call,omitempty"`
	ConversationID string           `json:"conversation_id,omitempty"`
	Status         EscalationStatus `json:"status"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
	Notes          []EscalationNote `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// EscalationNote is a timestamped free-text note on a ticket.
type EscalationNote struct {
	ID        string    `json:"id"`
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Priority derives the ticket priority from its age at the given instant.
func (e *Escalation) Priority(now time.Time) EscalationPriority {
	age := now.Sub(e.CreatedAt)
	switch {
	case age > 24*time.Hour:
		return PriorityUrgent
	case age > 12*time.Hour:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
