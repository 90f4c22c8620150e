package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationRepository) ListMatchesBySession(ctx context.Context, sessionID string) ([]domain.ReconciliationMatch, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, bankTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) ListUnmatchedBankTransactions(ctx context.Context, orgID string, bankAccountID string, from time.Time, to time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, orgID, bankAccountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) SaveSession(ctx context.Context, session domain.ReconciliationSession, audit domain.AuditLogEntry) error {
	args := m.Called(ctx, session, audit)
	return args.Error(0)
}

func (m *MockReconciliationRepository) SaveMatch(ctx context.Context, match domain.ReconciliationMatch, audit domain.AuditLogEntry) error {
	args := m.Called(ctx, match, audit)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteMatch(ctx context.Context, sessionID string, bankTransactionID string, audit domain.AuditLogEntry) error {
	args := m.Called(ctx, sessionID, bankTransactionID, audit)
	return args.Error(0)
}

func (m *MockReconciliationRepository) CloseSession(ctx context.Context, sessionID string, closingBalanceMinor *int64, closedAt time.Time, actorID string, audit domain.AuditLogEntry) error {
	args := m.Called(ctx, sessionID, closingBalanceMinor, closedAt, actorID, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo  *MockReconciliationRepository
	mockLedgerRepo *MockLedgerRepository
	mockMasterData *MockMasterDataRepository
	service        portssvc.ReconciliationSvcFacade

	orgID         string
	userID        string
	bankAccount   domain.BankAccount
	bankGLAccount domain.Account
	periodStart   time.Time
	periodEnd     time.Time
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockMasterData = new(MockMasterDataRepository)
	suite.service = services.NewReconciliationService(suite.mockReconRepo, suite.mockLedgerRepo, suite.mockMasterData, 3)

	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.bankGLAccount = domain.Account{
		AccountID:   uuid.NewString(),
		OrgID:       suite.orgID,
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.bankAccount = domain.BankAccount{
		BankAccountID: uuid.NewString(),
		OrgID:         suite.orgID,
		GLAccountID:   suite.bankGLAccount.AccountID,
		IsActive:      true,
	}
	suite.periodStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

// expectSuggestionLookups wires the session, bank account and GL account reads
// the suggestion pass performs before scanning candidates.
func (suite *ReconciliationServiceTestSuite) expectSuggestionLookups(ctx context.Context, session *domain.ReconciliationSession) {
	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMasterData.On("FindBankAccountByID", ctx, suite.orgID, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockMasterData.On("FindAccountsByIDs", ctx, suite.orgID, []string{suite.bankGLAccount.AccountID}).
		Return(map[string]domain.Account{suite.bankGLAccount.AccountID: suite.bankGLAccount}, nil).Once()
}

func (suite *ReconciliationServiceTestSuite) openSession() *domain.ReconciliationSession {
	return &domain.ReconciliationSession{
		SessionID:     uuid.NewString(),
		OrgID:         suite.orgID,
		BankAccountID: suite.bankAccount.BankAccountID,
		PeriodStart:   suite.periodStart,
		PeriodEnd:     suite.periodEnd,
		Status:        domain.SessionOpen,
	}
}

// bankBatch builds a posting batch whose net effect on the bank GL account is
// amountMinor (positive debit = money in).
func (suite *ReconciliationServiceTestSuite) bankBatch(amountMinor int64, postingDate time.Time) domain.PostingBatch {
	batchID := uuid.NewString()
	bankLine := domain.LedgerLine{
		LedgerLineID: uuid.NewString(),
		BatchID:      batchID,
		OrgID:        suite.orgID,
		AccountID:    suite.bankAccount.GLAccountID,
		PostingDate:  postingDate,
		CurrencyCode: "USD",
	}
	otherLine := domain.LedgerLine{
		LedgerLineID: uuid.NewString(),
		BatchID:      batchID,
		OrgID:        suite.orgID,
		AccountID:    uuid.NewString(),
		PostingDate:  postingDate,
		CurrencyCode: "USD",
	}
	if amountMinor >= 0 {
		bankLine.DebitMinor = amountMinor
		otherLine.CreditMinor = amountMinor
	} else {
		bankLine.CreditMinor = -amountMinor
		otherLine.DebitMinor = -amountMinor
	}
	return domain.PostingBatch{
		BatchID:      batchID,
		OrgID:        suite.orgID,
		DocumentID:   uuid.NewString(),
		DocumentType: domain.CustomerPayment,
		PostingDate:  postingDate,
		Lines:        []domain.LedgerLine{bankLine, otherLine},
	}
}

// --- Test Cases ---

func (suite *ReconciliationServiceTestSuite) TestCreateSession_Success() {
	ctx := context.Background()
	req := dto.CreateSessionRequest{
		BankAccountID:       suite.bankAccount.BankAccountID,
		PeriodStart:         suite.periodStart,
		PeriodEnd:           suite.periodEnd,
		OpeningBalanceMinor: 120000,
		ClosingBalanceMinor: 145000,
	}

	suite.mockMasterData.On("FindBankAccountByID", ctx, suite.orgID, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockReconRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.ReconciliationSession"), mock.AnythingOfType("domain.AuditLogEntry")).Return(nil).Once()

	resp, err := suite.service.CreateSession(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.SessionID)
	suite.Equal(domain.SessionOpen, resp.Status)
	suite.Equal(int64(120000), resp.OpeningBalanceMinor)

	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_InactiveBankAccount() {
	ctx := context.Background()
	suite.bankAccount.IsActive = false
	req := dto.CreateSessionRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
		PeriodStart:   suite.periodStart,
		PeriodEnd:     suite.periodEnd,
	}

	suite.mockMasterData.On("FindBankAccountByID", ctx, suite.orgID, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()

	_, err := suite.service.CreateSession(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_InvertedPeriod() {
	ctx := context.Background()
	req := dto.CreateSessionRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
		PeriodStart:   suite.periodEnd,
		PeriodEnd:     suite.periodStart,
	}

	suite.mockMasterData.On("FindBankAccountByID", ctx, suite.orgID, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()

	_, err := suite.service.CreateSession(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_OverlapConflictFromStorage() {
	ctx := context.Background()
	req := dto.CreateSessionRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
		PeriodStart:   suite.periodStart,
		PeriodEnd:     suite.periodEnd,
	}

	suite.mockMasterData.On("FindBankAccountByID", ctx, suite.orgID, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockReconRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.ReconciliationSession"), mock.AnythingOfType("domain.AuditLogEntry")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.CreateSession(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ReconciliationServiceTestSuite) TestMatchTransaction_Success() {
	ctx := context.Background()
	session := suite.openSession()
	txn := &domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		OrgID:             suite.orgID,
		BankAccountID:     suite.bankAccount.BankAccountID,
		TransactionDate:   suite.periodStart.AddDate(0, 0, 4),
		AmountMinor:       10500,
	}
	batch := suite.bankBatch(10500, txn.TransactionDate)

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockReconRepo.On("FindBankTransactionByID", ctx, txn.BankTransactionID).Return(txn, nil).Once()
	suite.mockLedgerRepo.On("FindBatchByID", ctx, batch.BatchID).Return(&batch, nil).Once()
	suite.mockReconRepo.On("SaveMatch", ctx, mock.AnythingOfType("domain.ReconciliationMatch"), mock.AnythingOfType("domain.AuditLogEntry")).Return(nil).Once()

	resp, err := suite.service.MatchTransaction(ctx, suite.orgID, session.SessionID, dto.MatchTransactionRequest{
		BankTransactionID: txn.BankTransactionID,
		BatchID:           batch.BatchID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(domain.MatchManual, resp.MatchType)
	suite.Equal(txn.BankTransactionID, resp.BankTransactionID)
	suite.Equal(batch.BatchID, resp.BatchID)

	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestMatchTransaction_ClosedSession() {
	ctx := context.Background()
	session := suite.openSession()
	session.Status = domain.SessionClosed

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.MatchTransaction(ctx, suite.orgID, session.SessionID, dto.MatchTransactionRequest{
		BankTransactionID: uuid.NewString(),
		BatchID:           uuid.NewString(),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveMatch", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMatchTransaction_OutsidePeriod() {
	ctx := context.Background()
	session := suite.openSession()
	txn := &domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		OrgID:             suite.orgID,
		BankAccountID:     suite.bankAccount.BankAccountID,
		TransactionDate:   suite.periodEnd.AddDate(0, 0, 1),
		AmountMinor:       10500,
	}

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockReconRepo.On("FindBankTransactionByID", ctx, txn.BankTransactionID).Return(txn, nil).Once()

	_, err := suite.service.MatchTransaction(ctx, suite.orgID, session.SessionID, dto.MatchTransactionRequest{
		BankTransactionID: txn.BankTransactionID,
		BatchID:           uuid.NewString(),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestMatchTransaction_WrongBankAccount() {
	ctx := context.Background()
	session := suite.openSession()
	txn := &domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		OrgID:             suite.orgID,
		BankAccountID:     uuid.NewString(),
		TransactionDate:   suite.periodStart.AddDate(0, 0, 4),
		AmountMinor:       10500,
	}

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockReconRepo.On("FindBankTransactionByID", ctx, txn.BankTransactionID).Return(txn, nil).Once()

	_, err := suite.service.MatchTransaction(ctx, suite.orgID, session.SessionID, dto.MatchTransactionRequest{
		BankTransactionID: txn.BankTransactionID,
		BatchID:           uuid.NewString(),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestMatchTransaction_DuplicateConflictFromStorage() {
	ctx := context.Background()
	session := suite.openSession()
	txn := &domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		OrgID:             suite.orgID,
		BankAccountID:     suite.bankAccount.BankAccountID,
		TransactionDate:   suite.periodStart.AddDate(0, 0, 4),
		AmountMinor:       10500,
	}
	batch := suite.bankBatch(10500, txn.TransactionDate)

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockReconRepo.On("FindBankTransactionByID", ctx, txn.BankTransactionID).Return(txn, nil).Once()
	suite.mockLedgerRepo.On("FindBatchByID", ctx, batch.BatchID).Return(&batch, nil).Once()
	suite.mockReconRepo.On("SaveMatch", ctx, mock.AnythingOfType("domain.ReconciliationMatch"), mock.AnythingOfType("domain.AuditLogEntry")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.MatchTransaction(ctx, suite.orgID, session.SessionID, dto.MatchTransactionRequest{
		BankTransactionID: txn.BankTransactionID,
		BatchID:           batch.BatchID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ReconciliationServiceTestSuite) TestUnmatchTransaction_ClosedSession() {
	ctx := context.Background()
	session := suite.openSession()
	session.Status = domain.SessionClosed

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	err := suite.service.UnmatchTransaction(ctx, suite.orgID, session.SessionID, uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "DeleteMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCloseSession_Success() {
	ctx := context.Background()
	session := suite.openSession()
	closing := int64(145000)

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockReconRepo.On("CloseSession", ctx, session.SessionID, &closing, mock.AnythingOfType("time.Time"), suite.userID, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil).Once()

	resp, err := suite.service.CloseSession(ctx, suite.orgID, session.SessionID, dto.CloseSessionRequest{ClosingBalanceMinor: &closing}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(domain.SessionClosed, resp.Status)
	suite.Equal(closing, resp.ClosingBalanceMinor)
	suite.Require().NotNil(resp.ClosedAt)

	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCloseSession_AlreadyClosed() {
	ctx := context.Background()
	session := suite.openSession()
	session.Status = domain.SessionClosed

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.CloseSession(ctx, suite.orgID, session.SessionID, dto.CloseSessionRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "CloseSession",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestListMatches_Success() {
	ctx := context.Background()
	session := suite.openSession()
	matches := []domain.ReconciliationMatch{
		{MatchID: uuid.NewString(), SessionID: session.SessionID, OrgID: suite.orgID, BankTransactionID: uuid.NewString(), BatchID: uuid.NewString(), MatchType: domain.MatchManual},
		{MatchID: uuid.NewString(), SessionID: session.SessionID, OrgID: suite.orgID, BankTransactionID: uuid.NewString(), BatchID: uuid.NewString(), MatchType: domain.MatchSuggested},
	}

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockReconRepo.On("ListMatchesBySession", ctx, session.SessionID).Return(matches, nil).Once()

	resp, err := suite.service.ListMatches(ctx, suite.orgID, session.SessionID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(session.SessionID, resp.SessionID)
	suite.Require().Len(resp.Matches, 2)
	suite.Equal(matches[0].MatchID, resp.Matches[0].MatchID)
	suite.Equal(domain.MatchSuggested, resp.Matches[1].MatchType)

	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestListMatches_CrossOrgHidden() {
	ctx := context.Background()
	session := suite.openSession()
	session.OrgID = uuid.NewString()

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.ListMatches(ctx, suite.orgID, session.SessionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "ListMatchesBySession", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestGetSessionByID_CrossOrgHidden() {
	ctx := context.Background()
	session := suite.openSession()
	session.OrgID = uuid.NewString()

	suite.mockReconRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.GetSessionByID(ctx, suite.orgID, session.SessionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_ExactAmountWithinWindow() {
	ctx := context.Background()
	session := suite.openSession()

	txnDate := suite.periodStart.AddDate(0, 0, 10)
	txns := []domain.BankTransaction{
		{BankTransactionID: uuid.NewString(), OrgID: suite.orgID, BankAccountID: suite.bankAccount.BankAccountID, TransactionDate: txnDate, AmountMinor: 10500},
		{BankTransactionID: uuid.NewString(), OrgID: suite.orgID, BankAccountID: suite.bankAccount.BankAccountID, TransactionDate: txnDate, AmountMinor: -20000},
		{BankTransactionID: uuid.NewString(), OrgID: suite.orgID, BankAccountID: suite.bankAccount.BankAccountID, TransactionDate: txnDate, AmountMinor: 999},
	}
	matching := suite.bankBatch(10500, txnDate.AddDate(0, 0, 2)) // within window
	outgoing := suite.bankBatch(-20000, txnDate)                 // exact day, money out
	tooFar := suite.bankBatch(999, txnDate.AddDate(0, 0, 7))     // amount matches, outside window
	wrongAmount := suite.bankBatch(5000, txnDate)

	suite.expectSuggestionLookups(ctx, session)
	suite.mockReconRepo.On("ListUnmatchedBankTransactions", ctx, suite.orgID, suite.bankAccount.BankAccountID, session.PeriodStart, session.PeriodEnd).Return(txns, nil).Once()
	suite.mockLedgerRepo.On("ListUnmatchedBatchesByAccount", ctx, suite.orgID, suite.bankAccount.GLAccountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.PostingBatch{matching, outgoing, tooFar, wrongAmount}, nil).Once()

	resp, err := suite.service.SuggestMatches(ctx, suite.orgID, session.SessionID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Require().Len(resp.Suggestions, 2)

	suite.Equal(txns[0].BankTransactionID, resp.Suggestions[0].BankTransactionID)
	suite.Equal(matching.BatchID, resp.Suggestions[0].BatchID)
	suite.Equal(int64(10500), resp.Suggestions[0].AmountMinor)
	suite.Equal(2, resp.Suggestions[0].DaysApart)

	suite.Equal(txns[1].BankTransactionID, resp.Suggestions[1].BankTransactionID)
	suite.Equal(outgoing.BatchID, resp.Suggestions[1].BatchID)
	suite.Equal(int64(-20000), resp.Suggestions[1].AmountMinor)
	suite.Equal(0, resp.Suggestions[1].DaysApart)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_BatchUsedOnce() {
	ctx := context.Background()
	session := suite.openSession()

	txnDate := suite.periodStart.AddDate(0, 0, 10)
	txns := []domain.BankTransaction{
		{BankTransactionID: uuid.NewString(), OrgID: suite.orgID, BankAccountID: suite.bankAccount.BankAccountID, TransactionDate: txnDate, AmountMinor: 10500},
		{BankTransactionID: uuid.NewString(), OrgID: suite.orgID, BankAccountID: suite.bankAccount.BankAccountID, TransactionDate: txnDate, AmountMinor: 10500},
	}
	batch := suite.bankBatch(10500, txnDate)

	suite.expectSuggestionLookups(ctx, session)
	suite.mockReconRepo.On("ListUnmatchedBankTransactions", ctx, suite.orgID, suite.bankAccount.BankAccountID, session.PeriodStart, session.PeriodEnd).Return(txns, nil).Once()
	suite.mockLedgerRepo.On("ListUnmatchedBatchesByAccount", ctx, suite.orgID, suite.bankAccount.GLAccountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.PostingBatch{batch}, nil).Once()

	resp, err := suite.service.SuggestMatches(ctx, suite.orgID, session.SessionID)

	suite.Require().NoError(err)
	// One candidate batch cannot be suggested to two transactions.
	suite.Require().Len(resp.Suggestions, 1)
	suite.Equal(txns[0].BankTransactionID, resp.Suggestions[0].BankTransactionID)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_CreditNormalAccountFlipsSign() {
	ctx := context.Background()
	session := suite.openSession()
	// An overdraft facility carried as a liability: money in credits the GL
	// account, so the batch's debit-minus-credit net is inverted before
	// comparing against the signed statement amount.
	suite.bankGLAccount.AccountType = domain.Liability

	txnDate := suite.periodStart.AddDate(0, 0, 10)
	txns := []domain.BankTransaction{
		{BankTransactionID: uuid.NewString(), OrgID: suite.orgID, BankAccountID: suite.bankAccount.BankAccountID, TransactionDate: txnDate, AmountMinor: 10500},
	}
	// Net debit on the GL account, which on a credit-normal account means money out.
	batch := suite.bankBatch(10500, txnDate)

	suite.expectSuggestionLookups(ctx, session)
	suite.mockReconRepo.On("ListUnmatchedBankTransactions", ctx, suite.orgID, suite.bankAccount.BankAccountID, session.PeriodStart, session.PeriodEnd).Return(txns, nil).Once()
	suite.mockLedgerRepo.On("ListUnmatchedBatchesByAccount", ctx, suite.orgID, suite.bankAccount.GLAccountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.PostingBatch{batch}, nil).Once()

	resp, err := suite.service.SuggestMatches(ctx, suite.orgID, session.SessionID)

	suite.Require().NoError(err)
	suite.Empty(resp.Suggestions)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
