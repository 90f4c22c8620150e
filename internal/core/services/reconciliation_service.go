package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

const entityTypeSession = "reconciliation_session"
const entityTypeMatch = "reconciliation_match"

// reconciliationService ties externally supplied bank transactions to the
// posting batches the ledger already holds. Manual match is authoritative; the
// suggestion pass is a read-only pre-filter.
type reconciliationService struct {
	reconRepo  portsrepo.ReconciliationRepositoryFacade
	ledgerRepo portsrepo.LedgerReader
	masterData portsrepo.MasterDataReader
	// suggestionWindowDays bounds how far a batch posting date may drift from
	// the bank transaction date and still be suggested.
	suggestionWindowDays int
}

// NewReconciliationService creates the reconciliation service.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	ledgerRepo portsrepo.LedgerReader,
	masterData portsrepo.MasterDataReader,
	suggestionWindowDays int,
) portssvc.ReconciliationSvcFacade {
	if suggestionWindowDays <= 0 {
		suggestionWindowDays = 3
	}
	return &reconciliationService{
		reconRepo:            reconRepo,
		ledgerRepo:           ledgerRepo,
		masterData:           masterData,
		suggestionWindowDays: suggestionWindowDays,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateSession opens a matching workspace for one bank account and statement
// period. Overlapping periods on the same account are rejected by a storage
// constraint, surfaced as Conflict.
func (s *reconciliationService) CreateSession(ctx context.Context, orgID string, req dto.CreateSessionRequest, actorID string) (*dto.SessionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bankAccount, err := s.masterData.FindBankAccountByID(ctx, orgID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !bankAccount.IsActive {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrValidation, req.BankAccountID)
	}

	now := time.Now().UTC()
	session := domain.ReconciliationSession{
		SessionID:           uuid.NewString(),
		OrgID:               orgID,
		BankAccountID:       req.BankAccountID,
		PeriodStart:         req.PeriodStart,
		PeriodEnd:           req.PeriodEnd,
		OpeningBalanceMinor: req.OpeningBalanceMinor,
		ClosingBalanceMinor: req.ClosingBalanceMinor,
		Status:              domain.SessionOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	audit, err := newAuditEntry(orgID, actorID, entityTypeSession, session.SessionID, domain.ActionCreate, nil, &session, now)
	if err != nil {
		return nil, err
	}
	err = withSerializationRetry(ctx, func() error {
		return s.reconRepo.SaveSession(ctx, session, audit)
	})
	if err != nil {
		logger.Warn("Failed to create reconciliation session", slog.String("error", err.Error()), slog.String("bank_account_id", req.BankAccountID))
		return nil, err
	}

	logger.Info("Reconciliation session created", slog.String("session_id", session.SessionID), slog.String("bank_account_id", req.BankAccountID))
	resp := dto.ToSessionResponse(&session)
	return &resp, nil
}

// GetSessionByID retrieves a session.
func (s *reconciliationService) GetSessionByID(ctx context.Context, orgID string, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.findOrgSession(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToSessionResponse(session)
	return &resp, nil
}

// MatchTransaction records a manual match between one bank transaction and one
// posting batch. The duplicate-match race is closed by the storage uniqueness
// on the bank transaction id, not by the pre-checks here.
func (s *reconciliationService) MatchTransaction(ctx context.Context, orgID string, sessionID string, req dto.MatchTransactionRequest, actorID string) (*dto.MatchResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.findOrgSession(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionOpen {
		return nil, fmt.Errorf("%w: session %s is closed", apperrors.ErrConflict, sessionID)
	}

	bankTxn, err := s.reconRepo.FindBankTransactionByID(ctx, req.BankTransactionID)
	if err != nil {
		return nil, err
	}
	if bankTxn.OrgID != orgID {
		return nil, apperrors.ErrNotFound
	}
	if bankTxn.BankAccountID != session.BankAccountID {
		return nil, fmt.Errorf("%w: bank transaction %s belongs to a different bank account than the session", apperrors.ErrValidation, req.BankTransactionID)
	}
	if !session.Covers(bankTxn.TransactionDate) {
		return nil, fmt.Errorf("%w: bank transaction %s dated %s falls outside the session period", apperrors.ErrValidation, req.BankTransactionID, bankTxn.TransactionDate.Format("2006-01-02"))
	}

	batch, err := s.ledgerRepo.FindBatchByID(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	if batch.OrgID != orgID {
		return nil, apperrors.ErrNotFound
	}

	matchType := req.MatchType
	if matchType == "" {
		matchType = domain.MatchManual
	}

	now := time.Now().UTC()
	match := domain.ReconciliationMatch{
		MatchID:           uuid.NewString(),
		SessionID:         sessionID,
		OrgID:             orgID,
		BankTransactionID: req.BankTransactionID,
		BatchID:           req.BatchID,
		MatchType:         matchType,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	audit, err := newAuditEntry(orgID, actorID, entityTypeMatch, match.MatchID, domain.ActionCreate, nil, &match, now)
	if err != nil {
		return nil, err
	}
	err = withSerializationRetry(ctx, func() error {
		return s.reconRepo.SaveMatch(ctx, match, audit)
	})
	if err != nil {
		logger.Warn("Failed to record reconciliation match", slog.String("error", err.Error()), slog.String("bank_transaction_id", req.BankTransactionID))
		return nil, err
	}

	logger.Info("Bank transaction matched", slog.String("session_id", sessionID), slog.String("bank_transaction_id", req.BankTransactionID), slog.String("batch_id", req.BatchID))
	resp := dto.ToMatchResponse(&match)
	return &resp, nil
}

// UnmatchTransaction removes a match while the session is still open.
func (s *reconciliationService) UnmatchTransaction(ctx context.Context, orgID string, sessionID string, bankTransactionID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.findOrgSession(ctx, orgID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionOpen {
		return fmt.Errorf("%w: session %s is closed", apperrors.ErrConflict, sessionID)
	}

	now := time.Now().UTC()
	audit, err := newAuditEntry(orgID, actorID, entityTypeMatch, bankTransactionID, domain.ActionDelete, nil, nil, now)
	if err != nil {
		return err
	}
	err = withSerializationRetry(ctx, func() error {
		return s.reconRepo.DeleteMatch(ctx, sessionID, bankTransactionID, audit)
	})
	if err != nil {
		logger.Warn("Failed to remove reconciliation match", slog.String("error", err.Error()), slog.String("bank_transaction_id", bankTransactionID))
		return err
	}

	logger.Info("Bank transaction unmatched", slog.String("session_id", sessionID), slog.String("bank_transaction_id", bankTransactionID))
	return nil
}

// ListMatches retrieves every match recorded in a session.
func (s *reconciliationService) ListMatches(ctx context.Context, orgID string, sessionID string) (*dto.ListMatchesResponse, error) {
	if _, err := s.findOrgSession(ctx, orgID, sessionID); err != nil {
		return nil, err
	}
	matches, err := s.reconRepo.ListMatchesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for session %s: %w", sessionID, err)
	}
	resp := &dto.ListMatchesResponse{SessionID: sessionID}
	for i := range matches {
		resp.Matches = append(resp.Matches, dto.ToMatchResponse(&matches[i]))
	}
	return resp, nil
}

// CloseSession flips an open session to Closed. Closing twice is a Conflict.
func (s *reconciliationService) CloseSession(ctx context.Context, orgID string, sessionID string, req dto.CloseSessionRequest, actorID string) (*dto.SessionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.findOrgSession(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionOpen {
		return nil, fmt.Errorf("%w: session %s is already closed", apperrors.ErrConflict, sessionID)
	}

	now := time.Now().UTC()
	before := *session
	session.Status = domain.SessionClosed
	session.ClosedAt = &now
	if req.ClosingBalanceMinor != nil {
		session.ClosingBalanceMinor = *req.ClosingBalanceMinor
	}
	session.LastUpdatedAt = now
	session.LastUpdatedBy = actorID

	audit, err := newAuditEntry(orgID, actorID, entityTypeSession, sessionID, domain.ActionUpdate, &before, session, now)
	if err != nil {
		return nil, err
	}
	err = withSerializationRetry(ctx, func() error {
		return s.reconRepo.CloseSession(ctx, sessionID, req.ClosingBalanceMinor, now, actorID, audit)
	})
	if err != nil {
		logger.Warn("Failed to close reconciliation session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, err
	}

	logger.Info("Reconciliation session closed", slog.String("session_id", sessionID))
	resp := dto.ToSessionResponse(session)
	return &resp, nil
}

// SuggestMatches pairs unmatched bank transactions with unmatched posting
// batches by exact amount within the date window. Read-only: accepting a
// suggestion goes through MatchTransaction and its uniqueness check.
func (s *reconciliationService) SuggestMatches(ctx context.Context, orgID string, sessionID string) (*dto.ListSuggestionsResponse, error) {
	session, err := s.findOrgSession(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}

	bankAccount, err := s.masterData.FindBankAccountByID(ctx, orgID, session.BankAccountID)
	if err != nil {
		return nil, err
	}
	glAccounts, err := s.masterData.FindAccountsByIDs(ctx, orgID, []string{bankAccount.GLAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank GL account: %w", err)
	}
	glAccount, ok := glAccounts[bankAccount.GLAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, bankAccount.GLAccountID)
	}

	window := time.Duration(s.suggestionWindowDays) * 24 * time.Hour
	from := session.PeriodStart.Add(-window)
	to := session.PeriodEnd.Add(window)

	txns, err := s.reconRepo.ListUnmatchedBankTransactions(ctx, orgID, session.BankAccountID, session.PeriodStart, session.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched bank transactions: %w", err)
	}
	batches, err := s.ledgerRepo.ListUnmatchedBatchesByAccount(ctx, orgID, bankAccount.GLAccountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate batches: %w", err)
	}

	resp := &dto.ListSuggestionsResponse{SessionID: sessionID}
	usedBatches := make(map[string]bool, len(batches))
	for i := range txns {
		txn := &txns[i]
		for j := range batches {
			batch := &batches[j]
			if usedBatches[batch.BatchID] {
				continue
			}
			amount, ok := batchBankAmount(batch, &glAccount)
			if !ok || amount != txn.AmountMinor {
				continue
			}
			daysApart := int(batch.PostingDate.Sub(txn.TransactionDate).Hours() / 24)
			if daysApart < 0 {
				daysApart = -daysApart
			}
			if daysApart > s.suggestionWindowDays {
				continue
			}
			usedBatches[batch.BatchID] = true
			resp.Suggestions = append(resp.Suggestions, dto.SuggestionResponse{
				BankTransactionID: txn.BankTransactionID,
				BatchID:           batch.BatchID,
				AmountMinor:       amount,
				DaysApart:         daysApart,
			})
			break
		}
	}
	return resp, nil
}

func (s *reconciliationService) findOrgSession(ctx context.Context, orgID string, sessionID string) (*domain.ReconciliationSession, error) {
	session, err := s.reconRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OrgID != orgID {
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

// batchBankAmount returns the signed effect of a batch on the bank GL account,
// oriented by the account's nature so the sign matches normalized bank
// transactions: money in is positive. For the usual debit-normal (asset) bank
// account that is debits minus credits; for a credit-normal account (e.g. an
// overdraft facility carried as a liability) the orientation flips.
func batchBankAmount(batch *domain.PostingBatch, glAccount *domain.Account) (int64, bool) {
	var amount int64
	var touched bool
	for i := range batch.Lines {
		line := &batch.Lines[i]
		if line.AccountID != glAccount.AccountID {
			continue
		}
		touched = true
		amount += line.DebitMinor - line.CreditMinor
	}
	if !glAccount.AccountType.IsDebitNormal() {
		amount = -amount
	}
	return amount, touched
}
