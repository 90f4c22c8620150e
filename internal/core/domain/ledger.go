package domain

import (
	"fmt"
	"time"
)

// TransactionSide indicates whether a ledger line is a Debit or a Credit.
type TransactionSide string

const (
	Debit  TransactionSide = "DEBIT"
	Credit TransactionSide = "CREDIT"
)

// Opposite returns the other side.
func (s TransactionSide) Opposite() TransactionSide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// LedgerLine is one debit-or-credit row against one account. Immutable once
// created; a mistake is corrected by a reversal batch, never by editing.
type LedgerLine struct {
	LedgerLineID       string       `json:"ledgerLineID"`
	BatchID            string       `json:"batchID"`
	OrgID              string       `json:"orgID"`
	AccountID          string       `json:"accountID"`
	DebitMinor         int64        `json:"debitMinor"`
	CreditMinor        int64        `json:"creditMinor"`
	SourceDocumentType DocumentType `json:"sourceDocumentType"`
	SourceDocumentID   string       `json:"sourceDocumentID"`
	PostingDate        time.Time    `json:"postingDate"`
	CurrencyCode       string       `json:"currencyCode"` // always the org base currency
	Memo               string       `json:"memo"`
}

// Validate enforces the per-line shape: exactly one side non-zero, both
// non-negative.
func (l *LedgerLine) Validate() error {
	if l.DebitMinor < 0 || l.CreditMinor < 0 {
		return fmt.Errorf("ledger line %s: amounts must not be negative", l.LedgerLineID)
	}
	if (l.DebitMinor == 0) == (l.CreditMinor == 0) {
		return fmt.Errorf("ledger line %s: exactly one of debit/credit must be non-zero", l.LedgerLineID)
	}
	return nil
}

// Side returns which side of the ledger the line sits on.
func (l *LedgerLine) Side() TransactionSide {
	if l.DebitMinor > 0 {
		return Debit
	}
	return Credit
}

// Amount returns the line's absolute amount in minor units.
func (l *LedgerLine) Amount() int64 {
	if l.DebitMinor > 0 {
		return l.DebitMinor
	}
	return l.CreditMinor
}

// PostingBatch is the set of ledger lines produced atomically by one post or one
// void/bounce reversal. A reversal batch links back to the batch it compensates.
type PostingBatch struct {
	BatchID           string       `json:"batchID"`
	OrgID             string       `json:"orgID"`
	DocumentID        string       `json:"documentID"`
	DocumentType      DocumentType `json:"documentType"`
	PostingDate       time.Time    `json:"postingDate"`
	ReversalOfBatchID *string      `json:"reversalOfBatchID,omitempty"`
	Lines             []LedgerLine `json:"lines"`
	CreatedAt         time.Time    `json:"createdAt"`
	CreatedBy         string       `json:"createdBy"`
}

// CheckBalanced verifies the double-entry invariant to the minor-unit integer:
// sum(debit) == sum(credit), with at least one line on each side.
func (b *PostingBatch) CheckBalanced() error {
	var debits, credits int64
	for i := range b.Lines {
		if err := b.Lines[i].Validate(); err != nil {
			return err
		}
		debits += b.Lines[i].DebitMinor
		credits += b.Lines[i].CreditMinor
	}
	if len(b.Lines) < 2 {
		return fmt.Errorf("batch %s: a posting batch needs at least two lines", b.BatchID)
	}
	if debits != credits {
		return fmt.Errorf("batch %s: debits %d != credits %d", b.BatchID, debits, credits)
	}
	return nil
}
