package domain

import (
	"encoding/json"
	"time"
)

// AuditAction is the recorded kind of change.
type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
	ActionPost   AuditAction = "POST"
	ActionVoid   AuditAction = "VOID"
	ActionBounce AuditAction = "BOUNCE"
)

// AuditLogEntry is an immutable append-only record of one state change, with
// before/after snapshots. It is written in the same transaction as the change it
// documents: if the audit write fails, the mutation rolls back.
type AuditLogEntry struct {
	EntryID    string          `json:"entryID"`
	OrgID      string          `json:"orgID"`
	ActorID    string          `json:"actorID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     AuditAction     `json:"action"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
