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

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a read-only repository over posting batches and
// ledger lines. All ledger writes happen inside document transactions.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

const selectBatchColumns = `batch_id, org_id, document_id, document_type, posting_date, reversal_of_batch_id, created_at, created_by`

// FindBatchByID retrieves one posting batch with its lines.
func (r *PgxLedgerRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error) {
	query := `SELECT ` + selectBatchColumns + ` FROM posting_batches WHERE batch_id = $1;`
	var m models.PostingBatch
	err := r.Pool.QueryRow(ctx, query, batchID).Scan(
		&m.BatchID, &m.OrgID, &m.DocumentID, &m.DocumentType, &m.PostingDate, &m.ReversalOfBatchID, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find batch by ID "+batchID, err)
	}

	lines, err := r.findLinesByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	batch := mapping.ToDomainPostingBatch(m)
	batch.Lines = lines
	return &batch, nil
}

// FindBatchesByDocumentID retrieves all batches for a document, oldest first.
func (r *PgxLedgerRepository) FindBatchesByDocumentID(ctx context.Context, documentID string) ([]domain.PostingBatch, error) {
	query := `SELECT ` + selectBatchColumns + ` FROM posting_batches WHERE document_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query batches for document "+documentID, err)
	}
	defer rows.Close()

	headers := []models.PostingBatch{}
	for rows.Next() {
		var m models.PostingBatch
		err := rows.Scan(
			&m.BatchID, &m.OrgID, &m.DocumentID, &m.DocumentType, &m.PostingDate, &m.ReversalOfBatchID, &m.CreatedAt, &m.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan batch row for document "+documentID, err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating batch rows for document "+documentID, err)
	}

	batches := make([]domain.PostingBatch, len(headers))
	for i, m := range headers {
		lines, err := r.findLinesByBatchID(ctx, m.BatchID)
		if err != nil {
			return nil, err
		}
		batches[i] = mapping.ToDomainPostingBatch(m)
		batches[i].Lines = lines
	}
	return batches, nil
}

// ListUnmatchedBatchesByAccount retrieves posting batches touching the given GL
// account in [from, to] that have no reconciliation match yet.
func (r *PgxLedgerRepository) ListUnmatchedBatchesByAccount(ctx context.Context, orgID string, glAccountID string, from time.Time, to time.Time) ([]domain.PostingBatch, error) {
	query := `
		SELECT DISTINCT b.batch_id, b.org_id, b.document_id, b.document_type, b.posting_date, b.reversal_of_batch_id, b.created_at, b.created_by
		FROM posting_batches b
		JOIN ledger_lines l ON l.batch_id = b.batch_id
		WHERE b.org_id = $1
		  AND l.account_id = $2
		  AND b.posting_date >= $3 AND b.posting_date <= $4
		  AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches m WHERE m.batch_id = b.batch_id
		  )
		ORDER BY b.posting_date, b.batch_id;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, glAccountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unmatched batches for account "+glAccountID, err)
	}
	defer rows.Close()

	headers := []models.PostingBatch{}
	for rows.Next() {
		var m models.PostingBatch
		err := rows.Scan(
			&m.BatchID, &m.OrgID, &m.DocumentID, &m.DocumentType, &m.PostingDate, &m.ReversalOfBatchID, &m.CreatedAt, &m.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unmatched batch row", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unmatched batch rows", err)
	}

	batches := make([]domain.PostingBatch, len(headers))
	for i, m := range headers {
		lines, err := r.findLinesByBatchID(ctx, m.BatchID)
		if err != nil {
			return nil, err
		}
		batches[i] = mapping.ToDomainPostingBatch(m)
		batches[i].Lines = lines
	}
	return batches, nil
}

func (r *PgxLedgerRepository) findLinesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT ledger_line_id, batch_id, org_id, account_id, debit_minor, credit_minor,
		       source_document_type, source_document_id, posting_date, currency_code, memo
		FROM ledger_lines
		WHERE batch_id = $1
		ORDER BY ledger_line_id;
	`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines for batch "+batchID, err)
	}
	defer rows.Close()

	lines := []models.LedgerLine{}
	for rows.Next() {
		var l models.LedgerLine
		err := rows.Scan(
			&l.LedgerLineID, &l.BatchID, &l.OrgID, &l.AccountID, &l.DebitMinor, &l.CreditMinor,
			&l.SourceDocumentType, &l.SourceDocumentID, &l.PostingDate, &l.CurrencyCode, &l.Memo,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line row for batch "+batchID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger line rows for batch "+batchID, err)
	}
	return mapping.ToDomainLedgerLineSlice(lines), nil
}
