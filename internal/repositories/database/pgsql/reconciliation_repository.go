package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
)

type PgxReconciliationRepository struct {
	BaseRepository
	auditRepo portsrepo.AuditRepositoryFacade
}

// newPgxReconciliationRepository creates a new repository for reconciliation
// sessions, matches, and the imported bank transactions they refer to.
func newPgxReconciliationRepository(pool *pgxpool.Pool, auditRepo portsrepo.AuditRepositoryFacade) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// FindSessionByID retrieves a session.
func (r *PgxReconciliationRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	query := `
		SELECT session_id, org_id, bank_account_id, period_start, period_end,
		       opening_balance_minor, closing_balance_minor, status, closed_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliation_sessions
		WHERE session_id = $1;
	`
	var m models.ReconciliationSession
	err := r.Pool.QueryRow(ctx, query, sessionID).Scan(
		&m.SessionID, &m.OrgID, &m.BankAccountID, &m.PeriodStart, &m.PeriodEnd,
		&m.OpeningBalanceMinor, &m.ClosingBalanceMinor, &m.Status, &m.ClosedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find session by ID "+sessionID, err)
	}
	session := mapping.ToDomainReconciliationSession(m)
	return &session, nil
}

// ListMatchesBySession retrieves all matches recorded in a session.
func (r *PgxReconciliationRepository) ListMatchesBySession(ctx context.Context, sessionID string) ([]domain.ReconciliationMatch, error) {
	query := `
		SELECT match_id, session_id, org_id, bank_transaction_id, batch_id, match_type,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliation_matches
		WHERE session_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query matches for session "+sessionID, err)
	}
	defer rows.Close()

	matches := []domain.ReconciliationMatch{}
	for rows.Next() {
		var m models.ReconciliationMatch
		err := rows.Scan(
			&m.MatchID, &m.SessionID, &m.OrgID, &m.BankTransactionID, &m.BatchID, &m.MatchType,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan match row for session "+sessionID, err)
		}
		matches = append(matches, mapping.ToDomainReconciliationMatch(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating match rows for session "+sessionID, err)
	}
	return matches, nil
}

// FindBankTransactionByID retrieves one normalized bank transaction.
func (r *PgxReconciliationRepository) FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error) {
	query := `
		SELECT bank_transaction_id, org_id, bank_account_id, transaction_date, amount_minor, description, reference
		FROM bank_transactions
		WHERE bank_transaction_id = $1;
	`
	var m models.BankTransaction
	err := r.Pool.QueryRow(ctx, query, bankTransactionID).Scan(
		&m.BankTransactionID, &m.OrgID, &m.BankAccountID, &m.TransactionDate, &m.AmountMinor, &m.Description, &m.Reference,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank transaction by ID "+bankTransactionID, err)
	}
	txn := mapping.ToDomainBankTransaction(m)
	return &txn, nil
}

// ListUnmatchedBankTransactions retrieves the bank transactions of an account
// within a period that have no match anywhere.
func (r *PgxReconciliationRepository) ListUnmatchedBankTransactions(ctx context.Context, orgID string, bankAccountID string, from time.Time, to time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT t.bank_transaction_id, t.org_id, t.bank_account_id, t.transaction_date, t.amount_minor, t.description, t.reference
		FROM bank_transactions t
		WHERE t.org_id = $1
		  AND t.bank_account_id = $2
		  AND t.transaction_date >= $3 AND t.transaction_date <= $4
		  AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches m WHERE m.bank_transaction_id = t.bank_transaction_id
		  )
		ORDER BY t.transaction_date, t.bank_transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, bankAccountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unmatched bank transactions for account "+bankAccountID, err)
	}
	defer rows.Close()

	txns := []models.BankTransaction{}
	for rows.Next() {
		var m models.BankTransaction
		err := rows.Scan(
			&m.BankTransactionID, &m.OrgID, &m.BankAccountID, &m.TransactionDate, &m.AmountMinor, &m.Description, &m.Reference,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan bank transaction row", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bank transaction rows", err)
	}
	return mapping.ToDomainBankTransactionSlice(txns), nil
}

// SaveSession inserts a session together with its audit entry. The exclusion
// constraint on (bank_account_id, period) turns an overlap into Conflict.
func (r *PgxReconciliationRepository) SaveSession(ctx context.Context, session domain.ReconciliationSession, audit domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationSession(session)
	query := `
		INSERT INTO reconciliation_sessions (
			session_id, org_id, bank_account_id, period_start, period_end,
			opening_balance_minor, closing_balance_minor, status, closed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.SessionID, m.OrgID, m.BankAccountID, m.PeriodStart, m.PeriodEnd,
		m.OpeningBalanceMinor, m.ClosingBalanceMinor, m.Status, m.ClosedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert session "+m.SessionID)
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveMatch inserts a match together with its audit entry. The unique
// constraint on bank_transaction_id turns a duplicate match into Conflict.
func (r *PgxReconciliationRepository) SaveMatch(ctx context.Context, match domain.ReconciliationMatch, audit domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationMatch(match)
	query := `
		INSERT INTO reconciliation_matches (
			match_id, session_id, org_id, bank_transaction_id, batch_id, match_type,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		m.MatchID, m.SessionID, m.OrgID, m.BankTransactionID, m.BatchID, m.MatchType,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert match "+m.MatchID)
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteMatch removes a match together with its audit entry. A missing match
// surfaces as apperrors.ErrNotFound.
func (r *PgxReconciliationRepository) DeleteMatch(ctx context.Context, sessionID string, bankTransactionID string, audit domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM reconciliation_matches WHERE session_id = $1 AND bank_transaction_id = $2;`,
		sessionID, bankTransactionID,
	)
	if err != nil {
		return mapPgError(err, "failed to delete match for bank transaction "+bankTransactionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// CloseSession flips an open session to CLOSED. The status = 'OPEN' guard makes
// a double close surface as apperrors.ErrConflict.
func (r *PgxReconciliationRepository) CloseSession(ctx context.Context, sessionID string, closingBalanceMinor *int64, closedAt time.Time, actorID string, audit domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE reconciliation_sessions
		SET status = 'CLOSED',
		    closed_at = $2,
		    closing_balance_minor = COALESCE($3, closing_balance_minor),
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE session_id = $1 AND status = 'OPEN';
	`
	tag, err := tx.Exec(ctx, query, sessionID, closedAt, closingBalanceMinor, closedAt, actorID)
	if err != nil {
		return mapPgError(err, "failed to close session "+sessionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
