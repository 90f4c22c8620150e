package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreateSessionRequest opens a reconciliation session for one bank account and
// statement period. Balances are statement values in minor units.
type CreateSessionRequest struct {
	BankAccountID       string    `json:"bankAccountID" binding:"required"`
	PeriodStart         time.Time `json:"periodStart" binding:"required"`
	PeriodEnd           time.Time `json:"periodEnd" binding:"required"`
	OpeningBalanceMinor int64     `json:"openingBalanceMinor"`
	ClosingBalanceMinor int64     `json:"closingBalanceMinor"`
}

// MatchTransactionRequest ties one bank transaction to one posting batch.
type MatchTransactionRequest struct {
	BankTransactionID string           `json:"bankTransactionID" binding:"required"`
	BatchID           string           `json:"batchID" binding:"required"`
	MatchType         domain.MatchType `json:"matchType" binding:"omitempty,oneof=MANUAL SUGGESTED"`
}

// CloseSessionRequest optionally corrects the closing balance at close time.
type CloseSessionRequest struct {
	ClosingBalanceMinor *int64 `json:"closingBalanceMinor,omitempty"`
}

// SessionResponse is the API shape of a reconciliation session.
type SessionResponse struct {
	SessionID           string               `json:"sessionID"`
	OrgID               string               `json:"orgID"`
	BankAccountID       string               `json:"bankAccountID"`
	PeriodStart         time.Time            `json:"periodStart"`
	PeriodEnd           time.Time            `json:"periodEnd"`
	OpeningBalanceMinor int64                `json:"openingBalanceMinor"`
	ClosingBalanceMinor int64                `json:"closingBalanceMinor"`
	Status              domain.SessionStatus `json:"status"`
	ClosedAt            *time.Time           `json:"closedAt,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	CreatedBy           string               `json:"createdBy"`
}

// ToSessionResponse converts a domain session to its API shape.
func ToSessionResponse(s *domain.ReconciliationSession) SessionResponse {
	return SessionResponse{
		SessionID:           s.SessionID,
		OrgID:               s.OrgID,
		BankAccountID:       s.BankAccountID,
		PeriodStart:         s.PeriodStart,
		PeriodEnd:           s.PeriodEnd,
		OpeningBalanceMinor: s.OpeningBalanceMinor,
		ClosingBalanceMinor: s.ClosingBalanceMinor,
		Status:              s.Status,
		ClosedAt:            s.ClosedAt,
		CreatedAt:           s.CreatedAt,
		CreatedBy:           s.CreatedBy,
	}
}

// MatchResponse is the API shape of a recorded match.
type MatchResponse struct {
	MatchID           string           `json:"matchID"`
	SessionID         string           `json:"sessionID"`
	BankTransactionID string           `json:"bankTransactionID"`
	BatchID           string           `json:"batchID"`
	MatchType         domain.MatchType `json:"matchType"`
	CreatedAt         time.Time        `json:"createdAt"`
	CreatedBy         string           `json:"createdBy"`
}

// ToMatchResponse converts a domain match to its API shape.
func ToMatchResponse(m *domain.ReconciliationMatch) MatchResponse {
	return MatchResponse{
		MatchID:           m.MatchID,
		SessionID:         m.SessionID,
		BankTransactionID: m.BankTransactionID,
		BatchID:           m.BatchID,
		MatchType:         m.MatchType,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}

// ListMatchesResponse is every match recorded in a session.
type ListMatchesResponse struct {
	SessionID string          `json:"sessionID"`
	Matches   []MatchResponse `json:"matches"`
}

// SuggestionResponse is one candidate pairing from the suggestion pass.
type SuggestionResponse struct {
	BankTransactionID string `json:"bankTransactionID"`
	BatchID           string `json:"batchID"`
	AmountMinor       int64  `json:"amountMinor"`
	DaysApart         int    `json:"daysApart"`
}

// ListSuggestionsResponse is the suggestion pass output.
type ListSuggestionsResponse struct {
	SessionID   string               `json:"sessionID"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}
