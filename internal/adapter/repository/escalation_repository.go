package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
)

// EscalationStore handles escalation ticket persistence over a records port.
type EscalationStore struct {
	mu          sync.Mutex
	persistence repositories.RecordPersistence
}

// NewEscalationStore creates a new escalation store
func NewEscalationStore(persistence repositories.RecordPersistence) *EscalationStore {
	return &EscalationStore{persistence: persistence}
}

// Create persists a new escalation ticket.
func (s *EscalationStore) Create(ctx context.Context, escalation *entities.Escalation) error {
	if escalation == nil {
		return errors.New("escalation cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	tickets = append(tickets, *escalation)
	return s.saveLocked(ctx, tickets)
}

// List returns tickets newest first, optionally filtered by status.
func (s *EscalationStore) List(ctx context.Context, status entities.EscalationStatus, limit, offset int) ([]entities.Escalation, error) {
	s.mu.Lock()
	tickets, err := s.loadLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	filtered := make([]entities.Escalation, 0, len(tickets))
	for _, t := range tickets {
		if status != "" && t.Status != status {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if offset >= len(filtered) {
		return []entities.Escalation{}, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// GetByID finds a ticket by ID, nil when absent.
func (s *EscalationStore) GetByID(ctx context.Context, id string) (*entities.Escalation, error) {
	s.mu.Lock()
	tickets, err := s.loadLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, nil
}

// Update replaces a ticket by id.
func (s *EscalationStore) Update(ctx context.Context, escalation *entities.Escalation) error {
	if escalation == nil {
		return errors.New("escalation cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	for i := range tickets {
		if tickets[i].ID == escalation.ID {
			tickets[i] = *escalation
			return s.saveLocked(ctx, tickets)
		}
	}
	return fmt.Errorf("escalation %s not found", escalation.ID)
}

func (s *EscalationStore) loadLocked(ctx context.Context) ([]entities.Escalation, error) {
	records, err := s.persistence.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	tickets := make([]entities.Escalation, 0, len(records))
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			continue
		}
		var ticket entities.Escalation
		if err := json.Unmarshal(data, &ticket); err != nil || ticket.ID == "" {
			continue
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (s *EscalationStore) saveLocked(ctx context.Context, tickets []entities.Escalation) error {
	records := make([]map[string]any, 0, len(tickets))
	for _, ticket := range tickets {
		data, err := json.Marshal(ticket)
		if err != nil {
			return fmt.Errorf("encode escalation %s: %w", ticket.ID, err)
		}
		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("decode escalation %s: %w", ticket.ID, err)
		}
		records = append(records, record)
	}
	return s.persistence.SaveAll(ctx, records)
}
