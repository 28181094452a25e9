package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// conversationRow stores one raw conversation record as JSONB, keyed by
// conversation id. The payload is the same document shape the file store
// holds, so the two backends are interchangeable behind the port.
type conversationRow struct {
	ID      string         `gorm:"primaryKey;column:id"`
	AgentID string         `gorm:"column:agent_id;index"`
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb"`
}

func (conversationRow) TableName() string {
	return "conversations"
}

// escalationRow stores one escalation ticket as JSONB.
type escalationRow struct {
	ID      string         `gorm:"primaryKey;column:id"`
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb"`
}

func (escalationRow) TableName() string {
	return "escalations"
}

// PostgresStore implements the persistence port over Postgres JSONB rows.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a Postgres-backed store
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// LoadAll returns every stored record, raw.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]map[string]any, error) {
	var rows []conversationRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		var record map[string]any
		if err := json.Unmarshal(row.Payload, &record); err != nil {
			return nil, fmt.Errorf("decode conversation %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveAll replaces the full record set in one transaction. Records without
// an id are skipped; duplicate ids keep the last occurrence, matching the
// dedup rule the store applies on load.
func (s *PostgresStore) SaveAll(ctx context.Context, records []map[string]any) error {
	rows := make([]conversationRow, 0, len(records))
	seen := make(map[string]int, len(records))
	for _, record := range records {
		id, _ := record["id"].(string)
		if id == "" {
			continue
		}
		agentID, _ := record["agent_id"].(string)
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode conversation %s: %w", id, err)
		}
		row := conversationRow{ID: id, AgentID: agentID, Payload: payload}
		if i, ok := seen[id]; ok {
			rows[i] = row
			continue
		}
		seen[id] = len(rows)
		rows = append(rows, row)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&conversationRow{}).Error; err != nil {
			return fmt.Errorf("clear conversations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("insert conversations: %w", err)
		}
		return nil
	})
}

// PostgresEscalationStore implements the persistence port for escalation
// tickets over JSONB rows.
type PostgresEscalationStore struct {
	db *gorm.DB
}

// NewPostgresEscalationStore creates a Postgres-backed escalation store
func NewPostgresEscalationStore(db *gorm.DB) *PostgresEscalationStore {
	return &PostgresEscalationStore{db: db}
}

// LoadAll returns every stored ticket, raw.
func (s *PostgresEscalationStore) LoadAll(ctx context.Context) ([]map[string]any, error) {
	var rows []escalationRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load escalations: %w", err)
	}

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		var record map[string]any
		if err := json.Unmarshal(row.Payload, &record); err != nil {
			return nil, fmt.Errorf("decode escalation %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveAll replaces the full ticket set in one transaction.
func (s *PostgresEscalationStore) SaveAll(ctx context.Context, records []map[string]any) error {
	rows := make([]escalationRow, 0, len(records))
	for _, record := range records {
		id, _ := record["id"].(string)
		if id == "" {
			continue
		}
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode escalation %s: %w", id, err)
		}
		rows = append(rows, escalationRow{ID: id, Payload: payload})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&escalationRow{}).Error; err != nil {
			return fmt.Errorf("clear escalations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("insert escalations: %w", err)
		}
		return nil
	})
}
