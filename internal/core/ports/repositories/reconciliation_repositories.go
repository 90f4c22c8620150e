package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation data.
type ReconciliationReader interface {
	// FindSessionByID retrieves a session, or apperrors.ErrNotFound.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)

	// ListMatchesBySession retrieves all matches recorded in a session.
	ListMatchesBySession(ctx context.Context, sessionID string) ([]domain.ReconciliationMatch, error)

	// FindBankTransactionByID retrieves one normalized bank transaction.
	FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error)

	// ListUnmatchedBankTransactions retrieves the bank transactions of an account
	// within a period that have no match anywhere.
	ListUnmatchedBankTransactions(ctx context.Context, orgID string, bankAccountID string, from time.Time, to time.Time) ([]domain.BankTransaction, error)
}

// ReconciliationWriter defines mutating operations. Each method runs in one
// transaction together with its audit entry.
type ReconciliationWriter interface {
	// SaveSession inserts a session. An overlapping period on the same bank
	// account violates the storage-level exclusion constraint and surfaces as
	// apperrors.ErrConflict.
	SaveSession(ctx context.Context, session domain.ReconciliationSession, audit domain.AuditLogEntry) error

	// SaveMatch inserts a match. A bank transaction that already has a match
	// anywhere violates the unique constraint and surfaces as
	// apperrors.ErrConflict.
	SaveMatch(ctx context.Context, match domain.ReconciliationMatch, audit domain.AuditLogEntry) error

	// DeleteMatch removes a match from an open session.
	DeleteMatch(ctx context.Context, sessionID string, bankTransactionID string, audit domain.AuditLogEntry) error

	// CloseSession flips an open session to CLOSED, optionally updating the
	// closing balance. Closing an already-closed session surfaces as
	// apperrors.ErrConflict.
	CloseSession(ctx context.Context, sessionID string, closingBalanceMinor *int64, closedAt time.Time, actorID string, audit domain.AuditLogEntry) error
}

// ReconciliationRepositoryFacade combines reader and writer.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
