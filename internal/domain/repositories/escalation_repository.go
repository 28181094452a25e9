package repositories

import (
	"context"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// EscalationRepository defines the interface for escalation ticket access
type EscalationRepository interface {
	// Create persists a new escalation ticket
	Create(ctx context.Context, escalation *entities.Escalation) error

	// List returns tickets newest first, optionally filtered by status
	List(ctx context.Context, status entities.EscalationStatus, limit, offset int) ([]entities.Escalation, error)

	// GetByID finds a ticket by ID, nil when absent
	GetByID(ctx context.Context, id string) (*entities.Escalation, error)

	// Update replaces a ticket by id
	Update(ctx context.Context, escalation *entities.Escalation) error
}
