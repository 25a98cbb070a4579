// Why this file: ./storage/audit.go
// This implements the audit collaborator: fire-and-forget recording of delegation
// and handoff events in SQLite. Recording failures are logged and swallowed;
// they must never affect routing outcomes.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// Event names recorded in the audit trail.
const (
	EventDelegationCreated = "delegation_created"
	EventDelegationUpdated = "delegation_updated"
	EventHandoffCompleted  = "handoff_completed"
)

// AuditEvent is one recorded delegation lifecycle event.
type AuditEvent struct {
	ID           int64     `json:"id"`
	DelegationID string    `json:"delegation_id"`
	Event        string    `json:"event"`
	FromHandler  string    `json:"from_handler"`
	ToHandler    string    `json:"to_handler"`
	Payload      string    `json:"payload"` // JSON
	CreatedAt    time.Time `json:"created_at"`
}

// AuditStore records delegation events in a local SQLite database.
type AuditStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewAuditStore opens (creating if needed) the audit database.
func NewAuditStore(dbPath string, log logger.Logger) (*AuditStore, error) {
	if log == nil {
		log = logger.NewNop()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &AuditStore{db: db, log: log}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *AuditStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS delegation_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		delegation_id TEXT NOT NULL,
		event TEXT NOT NULL,
		from_handler TEXT NOT NULL,
		to_handler TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_delegation_events_delegation
		ON delegation_events(delegation_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *AuditStore) Close() error {
	return s.db.Close()
}

// DelegationCreated records a new delegation. Fire-and-forget.
func (s *AuditStore) DelegationCreated(d models.Delegation) {
	s.record(EventDelegationCreated, d.ID, string(d.From), string(d.To), map[string]interface{}{
		"task":     d.Task,
		"urgency":  string(d.Urgency),
		"deadline": d.Deadline,
		"status":   string(d.Status),
	})
}

// DelegationUpdated records a status transition. Fire-and-forget.
func (s *AuditStore) DelegationUpdated(d models.Delegation) {
	s.record(EventDelegationUpdated, d.ID, string(d.From), string(d.To), map[string]interface{}{
		"status": string(d.Status),
	})
}

// HandoffCompleted records a completed handoff. Fire-and-forget.
func (s *AuditStore) HandoffCompleted(delegationID string, from, to models.HandlerID, summary string) {
	s.record(EventHandoffCompleted, delegationID, string(from), string(to), map[string]interface{}{
		"summary": summary,
	})
}

func (s *AuditStore) record(event, delegationID, from, to string, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	_, err = s.db.Exec(
		`INSERT INTO delegation_events (delegation_id, event, from_handler, to_handler, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		delegationID, event, from, to, string(data))
	if err != nil {
		s.log.Warn("audit record dropped", "event", event, "delegation", delegationID, "error", err)
	}
}

// RecentEvents returns the latest audit events, newest first.
func (s *AuditStore) RecentEvents(limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, delegation_id, event, from_handler, to_handler, payload, created_at
		 FROM delegation_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.DelegationID, &e.Event,
			&e.FromHandler, &e.ToHandler, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// EventsFor returns every event for one delegation, oldest first.
func (s *AuditStore) EventsFor(delegationID string) ([]AuditEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, delegation_id, event, from_handler, to_handler, payload, created_at
		 FROM delegation_events WHERE delegation_id = ? ORDER BY id ASC`, delegationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.DelegationID, &e.Event,
			&e.FromHandler, &e.ToHandler, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
