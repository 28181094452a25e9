package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
)

// CreateInput carries the fields an agent tool call provides when raising a
// ticket mid-conversation.
type CreateInput struct {
	UserName       string
	UserEmail      string
	UserPhone      string
	InquiryTopic   string
	BestTimeToCall string
	ConversationID string
}

// TicketView is a listing entry with the age-derived priority attached.
type TicketView struct {
	entities.Escalation
	Priority entities.EscalationPriority `json:"priority"`
}

// Service defines escalation ticket lifecycle operations
type Service interface {
	// Create raises a new ticket in pending state
	Create(ctx context.Context, input CreateInput) (*entities.Escalation, error)

	// List returns tickets newest first with derived priorities
	List(ctx context.Context, status string, limit, offset int) ([]TicketView, error)

	// Get returns one ticket by id
	Get(ctx context.Context, id string) (*TicketView, error)

	// UpdateStatus transitions a ticket within the allowed status set
	UpdateStatus(ctx context.Context, id, status, note, author string) (*entities.Escalation, error)

	// AddNote appends a timestamped note to a ticket
	AddNote(ctx context.Context, id, text, author string) (*entities.EscalationNote, error)
}

type escalationService struct {
	repo   repositories.EscalationRepository
	logger *zap.Logger
}

// NewService constructs a new escalation service
func NewService(repo repositories.EscalationRepository, logger *zap.Logger) Service {
	return &escalationService{repo: repo, logger: logger}
}

// Create raises a new ticket in pending state.
func (s *escalationService) Create(ctx context.Context, input CreateInput) (*entities.Escalation, error) {
	if input.UserName == "" || input.InquiryTopic == "" {
		return nil, apperrors.ErrInvalidArgument("user_name and inquiry_topic are required")
	}

	now := time.Now().UTC()
	ticket := &entities.Escalation{
		ID:             newEscalationID(now),
		UserName:       input.UserName,
		UserEmail:      input.UserEmail,
		UserPhone:      input.UserPhone,
		InquiryTopic:   input.InquiryTopic,
		BestTimeToCall: input.BestTimeToCall,
		ConversationID: input.ConversationID,
		Status:         entities.EscalationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, apperrors.ErrStorageFailed("create escalation", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Escalation created",
			zap.String("escalation_id", ticket.ID),
			zap.String("topic", ticket.InquiryTopic))
	}
	return ticket, nil
}

// List returns tickets newest first with derived priorities.
func (s *escalationService) List(ctx context.Context, status string, limit, offset int) ([]TicketView, error) {
	if status != "" && !validStatus(status) {
		return nil, apperrors.ErrInvalidStatus(status)
	}
	if limit < 1 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	tickets, err := s.repo.List(ctx, entities.EscalationStatus(status), limit, offset)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("list escalations", err)
	}

	now := time.Now().UTC()
	views := make([]TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		views = append(views, TicketView{Escalation: ticket, Priority: ticket.Priority(now)})
	}
	return views, nil
}

// Get returns one ticket by id.
func (s *escalationService) Get(ctx context.Context, id string) (*TicketView, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("get escalation", err)
	}
	if ticket == nil {
		return nil, apperrors.ErrEscalationNotFound(id)
	}
	return &TicketView{Escalation: *ticket, Priority: ticket.Priority(time.Now().UTC())}, nil
}

// UpdateStatus transitions a ticket within the allowed status set. A status
// change is recorded as a note so the audit trail survives in the ticket
// itself.
func (s *escalationService) UpdateStatus(ctx context.Context, id, status, note, author string) (*entities.Escalation, error) {
	if !validStatus(status) {
		return nil, apperrors.ErrInvalidStatus(status)
	}

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("get escalation", err)
	}
	if ticket == nil {
		return nil, apperrors.ErrEscalationNotFound(id)
	}

	now := time.Now().UTC()
	oldStatus := ticket.Status
	ticket.Status = entities.EscalationStatus(status)
	ticket.UpdatedAt = now

	text := fmt.Sprintf("Status changed from %s to %s.", oldStatus, status)
	if note != "" {
		text += " " + note
	}
	ticket.Notes = append(ticket.Notes, entities.EscalationNote{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: now,
	})

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, apperrors.ErrStorageFailed("update escalation", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Escalation status updated",
			zap.String("escalation_id", id),
			zap.String("old_status", string(oldStatus)),
			zap.String("new_status", status))
	}
	return ticket, nil
}

// AddNote appends a timestamped note to a ticket.
func (s *escalationService) AddNote(ctx context.Context, id, text, author string) (*entities.EscalationNote, error) {
	if text == "" {
		return nil, apperrors.ErrInvalidArgument("note text is required")
	}

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("get escalation", err)
	}
	if ticket == nil {
		return nil, apperrors.ErrEscalationNotFound(id)
	}

	now := time.Now().UTC()
	note := entities.EscalationNote{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: now,
	}
	ticket.Notes = append(ticket.Notes, note)
	ticket.UpdatedAt = now

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, apperrors.ErrStorageFailed("update escalation", err)
	}
	return &note, nil
}

func validStatus(status string) bool {
	switch entities.EscalationStatus(status) {
	case entities.EscalationPending, entities.EscalationContacted, entities.EscalationResolved:
		return true
	}
	return false
}

// newEscalationID keeps the human-scannable ESC_ timestamp prefix and adds a
// uuid suffix so ids stay unique without a shared counter.
func newEscalationID(now time.Time) string {
	return fmt.Sprintf("ESC_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])
}
