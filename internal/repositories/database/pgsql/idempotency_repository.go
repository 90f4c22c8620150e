package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
)

type PgxIdempotencyRepository struct {
	BaseRepository
}

// newPgxIdempotencyRepository creates a new repository for idempotency records.
func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryFacade {
	return &PgxIdempotencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.IdempotencyRepositoryFacade = (*PgxIdempotencyRepository)(nil)

const insertIdempotencyRecordQuery = `
	INSERT INTO idempotency_records (org_id, idempotency_key, request_hash, response_body, status_code, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// FindRecord retrieves a stored record by (org, key).
func (r *PgxIdempotencyRepository) FindRecord(ctx context.Context, orgID string, key string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT org_id, idempotency_key, request_hash, response_body, status_code, created_at
		FROM idempotency_records
		WHERE org_id = $1 AND idempotency_key = $2;
	`
	var m models.IdempotencyRecord
	err := r.Pool.QueryRow(ctx, query, orgID, key).Scan(
		&m.OrgID, &m.IdempotencyKey, &m.RequestHash, &m.ResponseBody, &m.StatusCode, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find idempotency record for key "+key, err)
	}
	record := mapping.ToDomainIdempotencyRecord(m)
	return &record, nil
}

// saveIdempotencyRecordInTx inserts a record within the caller's transaction so
// the record and the mutation it guards commit atomically.
func saveIdempotencyRecordInTx(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	m := mapping.ToModelIdempotencyRecord(record)
	_, err := tx.Exec(ctx, insertIdempotencyRecordQuery,
		m.OrgID, m.IdempotencyKey, m.RequestHash, m.ResponseBody, m.StatusCode, m.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert idempotency record for key "+m.IdempotencyKey)
	}
	return nil
}
