package domain

import (
	"fmt"
	"time"
)

// SessionStatus is the reconciliation session lifecycle state.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// ReconciliationSession is a bounded-period matching workspace for one bank
// account. At most one session may cover any day for a given bank account.
type ReconciliationSession struct {
	SessionID           string        `json:"sessionID"`
	OrgID               string        `json:"orgID"`
	BankAccountID       string        `json:"bankAccountID"`
	PeriodStart         time.Time     `json:"periodStart"`
	PeriodEnd           time.Time     `json:"periodEnd"`
	OpeningBalanceMinor int64         `json:"openingBalanceMinor"`
	ClosingBalanceMinor int64         `json:"closingBalanceMinor"`
	Status              SessionStatus `json:"status"`
	ClosedAt            *time.Time    `json:"closedAt,omitempty"`
	AuditFields
}

// Validate checks the session's structural invariants.
func (s *ReconciliationSession) Validate() error {
	if s.BankAccountID == "" {
		return fmt.Errorf("session %s: bank account is required", s.SessionID)
	}
	if s.PeriodEnd.Before(s.PeriodStart) {
		return fmt.Errorf("session %s: period end %s before start %s",
			s.SessionID, s.PeriodEnd.Format("2006-01-02"), s.PeriodStart.Format("2006-01-02"))
	}
	return nil
}

// Covers reports whether a date falls within the session period (inclusive).
func (s *ReconciliationSession) Covers(date time.Time) bool {
	return !date.Before(s.PeriodStart) && !date.After(s.PeriodEnd)
}

// MatchType distinguishes a manual match from an accepted suggestion.
type MatchType string

const (
	MatchManual    MatchType = "MANUAL"
	MatchSuggested MatchType = "SUGGESTED"
)

// ReconciliationMatch ties one bank transaction to one posting batch (the GL
// header of a ledger-producing document) within a session. A bank transaction may
// be matched at most once across all sessions; storage enforces the uniqueness.
type ReconciliationMatch struct {
	MatchID           string    `json:"matchID"`
	SessionID         string    `json:"sessionID"`
	OrgID             string    `json:"orgID"`
	BankTransactionID string    `json:"bankTransactionID"`
	BatchID           string    `json:"batchID"`
	MatchType         MatchType `json:"matchType"`
	AuditFields
}

// MatchSuggestion is a read-only candidate pairing produced by the automatic
// suggestion pass. It never becomes a match without going through the same
// uniqueness-checked insert as a manual match.
type MatchSuggestion struct {
	BankTransactionID string `json:"bankTransactionID"`
	BatchID           string `json:"batchID"`
	AmountMinor       int64  `json:"amountMinor"`
	DaysApart         int    `json:"daysApart"`
}
