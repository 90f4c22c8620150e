package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// withSerializationRetry runs a storage transaction and retries it exactly once
// on a transient serialization failure. A second failure surfaces as Conflict.
func withSerializationRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if errors.Is(err, apperrors.ErrSerialization) {
		middleware.GetLoggerFromCtx(ctx).Warn("Retrying after storage serialization failure")
		err = fn()
		if errors.Is(err, apperrors.ErrSerialization) {
			return fmt.Errorf("%w: transaction could not be serialized after retry", apperrors.ErrConflict)
		}
	}
	return err
}

// newAuditEntry builds the audit record committed in the same transaction as
// the change it documents. Snapshot marshalling failures are programming
// defects and surface as internal errors.
func newAuditEntry(orgID, actorID, entityType, entityID string, action domain.AuditAction, before, after any, now time.Time) (domain.AuditLogEntry, error) {
	entry := domain.AuditLogEntry{
		EntryID:    uuid.NewString(),
		OrgID:      orgID,
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		CreatedAt:  now,
	}
	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return entry, fmt.Errorf("%w: failed to snapshot before state: %v", apperrors.ErrInternal, err)
		}
		entry.Before = raw
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return entry, fmt.Errorf("%w: failed to snapshot after state: %v", apperrors.ErrInternal, err)
		}
		entry.After = raw
	}
	return entry, nil
}
