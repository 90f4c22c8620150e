package models

import "time"

// PostingBatch represents a row in the posting_batches table.
type PostingBatch struct {
	BatchID           string    `json:"batchID"`
	OrgID             string    `json:"orgID"`
	DocumentID        string    `json:"documentID"`
	DocumentType      string    `json:"documentType"`
	PostingDate       time.Time `json:"postingDate"`
	ReversalOfBatchID *string   `json:"reversalOfBatchID"`
	CreatedAt         time.Time `json:"createdAt"`
	CreatedBy         string    `json:"createdBy"`
}

// LedgerLine represents a row in the ledger_lines table. Exactly one of
// DebitMinor / CreditMinor is non-zero.
type LedgerLine struct {
	LedgerLineID       string    `json:"ledgerLineID"`
	BatchID            string    `json:"batchID"`
	OrgID              string    `json:"orgID"`
	AccountID          string    `json:"accountID"`
	DebitMinor         int64     `json:"debitMinor"`
	CreditMinor        int64     `json:"creditMinor"`
	SourceDocumentType string    `json:"sourceDocumentType"`
	SourceDocumentID   string    `json:"sourceDocumentID"`
	PostingDate        time.Time `json:"postingDate"`
	CurrencyCode       string    `json:"currencyCode"`
	Memo               string    `json:"memo"`
}
