package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// AuditRepositoryFacade appends audit log entries. Mutating repositories call
// SaveEntryInTx inside their own transaction so that an audit failure rolls the
// mutation back with it.
type AuditRepositoryFacade interface {
	// SaveEntry appends an entry outside any caller transaction.
	SaveEntry(ctx context.Context, entry domain.AuditLogEntry) error

	// SaveEntryInTx appends an entry within the given transaction.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLogEntry) error
}
