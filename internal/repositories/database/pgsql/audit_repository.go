package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const insertAuditEntryQuery = `
	INSERT INTO audit_log (entry_id, org_id, actor_id, entity_type, entity_id, action, before_snapshot, after_snapshot, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// SaveEntry appends an audit entry outside any caller transaction.
func (r *PgxAuditRepository) SaveEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	m := mapping.ToModelAuditLogEntry(entry)
	_, err := r.Pool.Exec(ctx, insertAuditEntryQuery,
		m.EntryID, m.OrgID, m.ActorID, m.EntityType, m.EntityID, m.Action, m.Before, m.After, m.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert audit entry "+m.EntryID)
	}
	return nil
}

// SaveEntryInTx appends an audit entry within the given transaction, so the
// entry commits or rolls back together with the change it documents.
func (r *PgxAuditRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLogEntry) error {
	m := mapping.ToModelAuditLogEntry(entry)
	_, err := tx.Exec(ctx, insertAuditEntryQuery,
		m.EntryID, m.OrgID, m.ActorID, m.EntityType, m.EntityID, m.Action, m.Before, m.After, m.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert audit entry "+m.EntryID)
	}
	return nil
}
