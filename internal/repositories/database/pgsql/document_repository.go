package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

type PgxDocumentRepository struct {
	BaseRepository
	auditRepo portsrepo.AuditRepositoryFacade
}

// newPgxDocumentRepository creates a new repository for documents and their ledger output.
func newPgxDocumentRepository(pool *pgxpool.Pool, auditRepo portsrepo.AuditRepositoryFacade) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const insertDocumentLineQuery = `
	INSERT INTO document_lines (
		line_id, document_id, account_id, item_id, description, quantity, unit_price,
		discount_minor, tax_code_id, side, subtotal_minor, tax_minor, total_minor, position
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

// SaveDocument inserts a new Draft document, its lines, the audit entry and
// (when present) the idempotency record in one transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document, audit domain.AuditLogEntry, idem *domain.IdempotencyRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	docQuery := `
		INSERT INTO documents (
			document_id, org_id, document_type, status, document_date, currency_code, exchange_rate,
			contact_id, bank_account_id, memo, subtotal_minor, tax_minor, total_minor,
			posted_at, voided_at, void_reason,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, docQuery,
		m.DocumentID, m.OrgID, m.DocumentType, m.Status, m.DocumentDate, m.CurrencyCode, m.ExchangeRate,
		m.ContactID, m.BankAccountID, m.Memo, m.SubtotalMinor, m.TaxMinor, m.TotalMinor,
		m.PostedAt, m.VoidedAt, m.VoidReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert document "+m.DocumentID)
	}

	if err := insertDocumentLines(ctx, tx, doc.Lines); err != nil {
		return err
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	if idem != nil {
		if err := saveIdempotencyRecordInTx(ctx, tx, *idem); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// UpdateDocument replaces a Draft document's mutable fields and lines. The
// status = DRAFT guard in the UPDATE catches a concurrent post: zero rows
// affected surfaces as apperrors.ErrConflict.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document, audit domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	updateQuery := `
		UPDATE documents
		SET document_date = $2, contact_id = $3, bank_account_id = $4, memo = $5,
		    subtotal_minor = $6, tax_minor = $7, total_minor = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE document_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.DocumentID, m.DocumentDate, m.ContactID, m.BankAccountID, m.Memo,
		m.SubtotalMinor, m.TaxMinor, m.TotalMinor,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update document "+m.DocumentID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1;`, m.DocumentID); err != nil {
		return mapPgError(err, "failed to clear lines for document "+m.DocumentID)
	}
	if err := insertDocumentLines(ctx, tx, doc.Lines); err != nil {
		return err
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// PostDocument transitions DRAFT -> POSTED and inserts the posting batch
// atomically. The row lock plus the status and version re-check make exactly
// one of two concurrent posters win.
func (r *PgxDocumentRepository) PostDocument(ctx context.Context, documentID string, expectedUpdatedAt time.Time, postedAt time.Time, actorID string, batch domain.PostingBatch, audit domain.AuditLogEntry, idem *domain.IdempotencyRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockDocumentForTransition(ctx, tx, documentID, domain.StatusDraft, &expectedUpdatedAt); err != nil {
		return err
	}

	updateQuery := `
		UPDATE documents
		SET status = 'POSTED', posted_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, documentID, postedAt, postedAt, actorID); err != nil {
		return mapPgError(err, "failed to mark document "+documentID+" posted")
	}

	if err := insertPostingBatch(ctx, tx, batch); err != nil {
		return err
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	if idem != nil {
		if err := saveIdempotencyRecordInTx(ctx, tx, *idem); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// ReverseDocument transitions POSTED -> VOID or BOUNCED and inserts the
// reversal batch, under the same lock discipline as PostDocument.
func (r *PgxDocumentRepository) ReverseDocument(ctx context.Context, documentID string, target domain.DocumentStatus, voidedAt time.Time, voidReason string, actorID string, reversal domain.PostingBatch, audit domain.AuditLogEntry, idem *domain.IdempotencyRecord) error {
	if target != domain.StatusVoid && target != domain.StatusBounced {
		return apperrors.NewAppError(500, "invalid reversal target status "+string(target), nil)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Reversals are not version-guarded; only the status matters.
	if err := lockDocumentForTransition(ctx, tx, documentID, domain.StatusPosted, nil); err != nil {
		return err
	}

	updateQuery := `
		UPDATE documents
		SET status = $2, voided_at = $3, void_reason = $4, last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, documentID, string(target), voidedAt, voidReason, voidedAt, actorID); err != nil {
		return mapPgError(err, "failed to mark document "+documentID+" "+string(target))
	}

	if err := insertPostingBatch(ctx, tx, reversal); err != nil {
		return err
	}
	if err := r.auditRepo.SaveEntryInTx(ctx, tx, audit); err != nil {
		return err
	}
	if idem != nil {
		if err := saveIdempotencyRecordInTx(ctx, tx, *idem); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// lockDocumentForTransition locks the document row and re-checks its status and,
// when expectedUpdatedAt is given, its version under the lock. A wrong status
// (the other poster already won) or a stale version surfaces as
// apperrors.ErrConflict.
func lockDocumentForTransition(ctx context.Context, tx pgx.Tx, documentID string, wantStatus domain.DocumentStatus, expectedUpdatedAt *time.Time) error {
	var status string
	var lastUpdatedAt time.Time
	err := tx.QueryRow(ctx,
		`SELECT status, last_updated_at FROM documents WHERE document_id = $1 FOR UPDATE;`,
		documentID,
	).Scan(&status, &lastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return mapPgError(err, "failed to lock document "+documentID)
	}
	if status != string(wantStatus) {
		return apperrors.ErrConflict
	}
	if expectedUpdatedAt != nil && !lastUpdatedAt.Equal(*expectedUpdatedAt) {
		return apperrors.ErrConflict
	}
	return nil
}

func insertDocumentLines(ctx context.Context, tx pgx.Tx, lines []domain.DocumentLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelDocumentLine(line)
		batch.Queue(insertDocumentLineQuery,
			m.LineID, m.DocumentID, m.AccountID, m.ItemID, m.Description, m.Quantity, m.UnitPrice,
			m.DiscountMinor, m.TaxCodeID, m.Side, m.SubtotalMinor, m.TaxMinor, m.TotalMinor, m.Position,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to insert document lines")
	}
	return nil
}

func insertPostingBatch(ctx context.Context, tx pgx.Tx, b domain.PostingBatch) error {
	mb := mapping.ToModelPostingBatch(b)
	headerQuery := `
		INSERT INTO posting_batches (batch_id, org_id, document_id, document_type, posting_date, reversal_of_batch_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, headerQuery,
		mb.BatchID, mb.OrgID, mb.DocumentID, mb.DocumentType, mb.PostingDate, mb.ReversalOfBatchID, mb.CreatedAt, mb.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert posting batch "+mb.BatchID)
	}

	lineQuery := `
		INSERT INTO ledger_lines (
			ledger_line_id, batch_id, org_id, account_id, debit_minor, credit_minor,
			source_document_type, source_document_id, posting_date, currency_code, memo
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	lineBatch := &pgx.Batch{}
	for _, line := range b.Lines {
		ml := mapping.ToModelLedgerLine(line)
		lineBatch.Queue(lineQuery,
			ml.LedgerLineID, ml.BatchID, ml.OrgID, ml.AccountID, ml.DebitMinor, ml.CreditMinor,
			ml.SourceDocumentType, ml.SourceDocumentID, ml.PostingDate, ml.CurrencyCode, ml.Memo,
		)
	}
	br := tx.SendBatch(ctx, lineBatch)
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to insert ledger lines for batch "+mb.BatchID)
	}
	return nil
}

// FindDocumentByID retrieves a document with its lines.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `
		SELECT document_id, org_id, document_type, status, document_date, currency_code, exchange_rate,
		       contact_id, bank_account_id, memo, subtotal_minor, tax_minor, total_minor,
		       posted_at, voided_at, void_reason,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM documents
		WHERE document_id = $1;
	`
	var m models.Document
	var voidReason *string
	err := r.Pool.QueryRow(ctx, query, documentID).Scan(
		&m.DocumentID, &m.OrgID, &m.DocumentType, &m.Status, &m.DocumentDate, &m.CurrencyCode, &m.ExchangeRate,
		&m.ContactID, &m.BankAccountID, &m.Memo, &m.SubtotalMinor, &m.TaxMinor, &m.TotalMinor,
		&m.PostedAt, &m.VoidedAt, &voidReason,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document by ID "+documentID, err)
	}
	if voidReason != nil {
		m.VoidReason = *voidReason
	}

	lines, err := r.findLinesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	doc := mapping.ToDomainDocument(m)
	doc.Lines = lines
	return &doc, nil
}

func (r *PgxDocumentRepository) findLinesByDocumentID(ctx context.Context, documentID string) ([]domain.DocumentLine, error) {
	query := `
		SELECT line_id, document_id, account_id, item_id, description, quantity, unit_price,
		       discount_minor, tax_code_id, side, subtotal_minor, tax_minor, total_minor, position
		FROM document_lines
		WHERE document_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for document "+documentID, err)
	}
	defer rows.Close()

	lines := []models.DocumentLine{}
	for rows.Next() {
		var l models.DocumentLine
		err := rows.Scan(
			&l.LineID, &l.DocumentID, &l.AccountID, &l.ItemID, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.DiscountMinor, &l.TaxCodeID, &l.Side, &l.SubtotalMinor, &l.TaxMinor, &l.TotalMinor, &l.Position,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for document "+documentID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for document "+documentID, err)
	}
	return mapping.ToDomainDocumentLineSlice(lines), nil
}

// ListDocumentsByOrg retrieves a token-paginated list of documents of one type,
// newest first. Lines are not loaded for list views.
func (r *PgxDocumentRepository) ListDocumentsByOrg(ctx context.Context, orgID string, docType domain.DocumentType, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT document_id, org_id, document_type, status, document_date, currency_code, exchange_rate,
		       contact_id, bank_account_id, memo, subtotal_minor, tax_minor, total_minor,
		       posted_at, voided_at, void_reason,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM documents
		WHERE org_id = $1 AND document_type = $2
	`
	orderByClause := `ORDER BY document_date DESC, created_at DESC`

	args := []interface{}{orgID, string(docType)}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDocumentDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (document_date, created_at) < ($3, $4)`
		args = append(args, lastDocumentDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list documents for org "+orgID, err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var m models.Document
		var voidReason *string
		err := rows.Scan(
			&m.DocumentID, &m.OrgID, &m.DocumentType, &m.Status, &m.DocumentDate, &m.CurrencyCode, &m.ExchangeRate,
			&m.ContactID, &m.BankAccountID, &m.Memo, &m.SubtotalMinor, &m.TaxMinor, &m.TotalMinor,
			&m.PostedAt, &m.VoidedAt, &voidReason,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document row", err)
		}
		if voidReason != nil {
			m.VoidReason = *voidReason
		}
		docs = append(docs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating document rows for org "+orgID, err)
	}

	var newNextToken *string
	if len(docs) == fetchLimit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		token := pagination.EncodeToken(last.DocumentDate, last.CreatedAt)
		newNextToken = &token
	}

	result := make([]domain.Document, len(docs))
	for i, m := range docs {
		result[i] = mapping.ToDomainDocument(m)
	}
	return result, newNextToken, nil
}
