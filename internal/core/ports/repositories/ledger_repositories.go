package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// LedgerReader defines read operations over posting batches and their lines.
// Ledger lines are write-once; all writes happen inside DocumentWriter
// transactions, so there is no LedgerWriter port.
type LedgerReader interface {
	// FindBatchByID retrieves one posting batch with its lines.
	FindBatchByID(ctx context.Context, batchID string) (*domain.PostingBatch, error)

	// FindBatchesByDocumentID retrieves all batches (posting + reversal) for a
	// document, oldest first.
	FindBatchesByDocumentID(ctx context.Context, documentID string) ([]domain.PostingBatch, error)

	// ListUnmatchedBatchesByAccount retrieves posting batches touching the given
	// GL account whose posting date falls in [from, to] and that have no
	// reconciliation match yet. Used by the suggestion pass.
	ListUnmatchedBatchesByAccount(ctx context.Context, orgID string, glAccountID string, from time.Time, to time.Time) ([]domain.PostingBatch, error)
}
