package models

import "time"

// SessionStatus mirrors the reconciliation session lifecycle states as stored.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// ReconciliationSession represents a row in the reconciliation_sessions table.
type ReconciliationSession struct {
	SessionID           string        `json:"sessionID"`
	OrgID               string        `json:"orgID"`
	BankAccountID       string        `json:"bankAccountID"`
	PeriodStart         time.Time     `json:"periodStart"`
	PeriodEnd           time.Time     `json:"periodEnd"`
	OpeningBalanceMinor int64         `json:"openingBalanceMinor"`
	ClosingBalanceMinor int64         `json:"closingBalanceMinor"`
	Status              SessionStatus `json:"status"`
	ClosedAt            *time.Time    `json:"closedAt"`
	AuditFields
}

// ReconciliationMatch represents a row in the reconciliation_matches table.
type ReconciliationMatch struct {
	MatchID           string `json:"matchID"`
	SessionID         string `json:"sessionID"`
	OrgID             string `json:"orgID"`
	BankTransactionID string `json:"bankTransactionID"`
	BatchID           string `json:"batchID"`
	MatchType         string `json:"matchType"`
	AuditFields
}

// BankTransaction represents a row in the bank_transactions table.
type BankTransaction struct {
	BankTransactionID string    `json:"bankTransactionID"`
	OrgID             string    `json:"orgID"`
	BankAccountID     string    `json:"bankAccountID"`
	TransactionDate   time.Time `json:"transactionDate"`
	AmountMinor       int64     `json:"amountMinor"`
	Description       string    `json:"description"`
	Reference         string    `json:"reference"`
}
