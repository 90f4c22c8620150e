package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// DocumentReader defines read operations for documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its lines.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocumentsByOrg retrieves a token-paginated list of documents of one type.
	ListDocumentsByOrg(ctx context.Context, orgID string, docType domain.DocumentType, limit int, nextToken *string) ([]domain.Document, *string, error)
}

// DocumentWriter defines the state-changing operations of the document lifecycle.
// Every method runs as one database transaction that also writes the audit entry
// and, when present, the idempotency record: all-or-nothing.
type DocumentWriter interface {
	// SaveDocument inserts a new Draft document with its lines.
	SaveDocument(ctx context.Context, doc domain.Document, audit domain.AuditLogEntry, idem *domain.IdempotencyRecord) error

	// UpdateDocument replaces a Draft document's mutable fields and lines. The
	// update is guarded by status = DRAFT at the storage layer; zero rows
	// affected surfaces as apperrors.ErrConflict.
	UpdateDocument(ctx context.Context, doc domain.Document, audit domain.AuditLogEntry) error

	// PostDocument transitions DRAFT -> POSTED and inserts the ledger batch
	// atomically. The document row is locked (SELECT ... FOR UPDATE) and its
	// status and last-updated version are re-checked under the lock; a losing
	// concurrent caller gets apperrors.ErrConflict.
	PostDocument(ctx context.Context, documentID string, expectedUpdatedAt time.Time, postedAt time.Time, actorID string, batch domain.PostingBatch, audit domain.AuditLogEntry, idem *domain.IdempotencyRecord) error

	// ReverseDocument transitions POSTED -> VOID or BOUNCED and inserts the
	// reversal batch atomically, under the same lock discipline as PostDocument.
	ReverseDocument(ctx context.Context, documentID string, target domain.DocumentStatus, voidedAt time.Time, voidReason string, actorID string, reversal domain.PostingBatch, audit domain.AuditLogEntry, idem *domain.IdempotencyRecord) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
