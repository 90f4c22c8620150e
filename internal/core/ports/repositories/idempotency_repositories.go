package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// IdempotencyRepositoryFacade reads replay records keyed by (org, key).
// Records are insert-only and written inside the same transaction as the
// mutation they guard; the unique constraint on the key pair is the
// arbitration point for concurrent requests bearing the same fresh key.
type IdempotencyRepositoryFacade interface {
	// FindRecord retrieves a stored record, or apperrors.ErrNotFound.
	FindRecord(ctx context.Context, orgID string, key string) (*domain.IdempotencyRecord, error)
}
