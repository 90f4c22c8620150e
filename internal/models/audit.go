package models

import (
	"encoding/json"
	"time"
)

// AuditLogEntry represents a row in the audit_log table. Append-only.
type AuditLogEntry struct {
	EntryID    string          `json:"entryID"`
	OrgID      string          `json:"orgID"`
	ActorID    string          `json:"actorID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     string          `json:"action"`
	Before     json.RawMessage `json:"before"`
	After      json.RawMessage `json:"after"`
	CreatedAt  time.Time       `json:"createdAt"`
}
