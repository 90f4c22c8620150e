package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelAuditLogEntry converts a domain AuditLogEntry to a model AuditLogEntry
func ToModelAuditLogEntry(d domain.AuditLogEntry) models.AuditLogEntry {
	return models.AuditLogEntry{
		EntryID:    d.EntryID,
		OrgID:      d.OrgID,
		ActorID:    d.ActorID,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Action:     string(d.Action),
		Before:     d.Before,
		After:      d.After,
		CreatedAt:  d.CreatedAt,
	}
}

// ToModelIdempotencyRecord converts a domain IdempotencyRecord to a model IdempotencyRecord
func ToModelIdempotencyRecord(d domain.IdempotencyRecord) models.IdempotencyRecord {
	return models.IdempotencyRecord{
		OrgID:          d.OrgID,
		IdempotencyKey: d.IdempotencyKey,
		RequestHash:    d.RequestHash,
		ResponseBody:   d.ResponseBody,
		StatusCode:     d.StatusCode,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainIdempotencyRecord converts a model IdempotencyRecord to a domain IdempotencyRecord
func ToDomainIdempotencyRecord(m models.IdempotencyRecord) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{
		OrgID:          m.OrgID,
		IdempotencyKey: m.IdempotencyKey,
		RequestHash:    m.RequestHash,
		ResponseBody:   m.ResponseBody,
		StatusCode:     m.StatusCode,
		CreatedAt:      m.CreatedAt,
	}
}
