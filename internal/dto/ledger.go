package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// LedgerLineResponse is the API shape of one ledger line.
type LedgerLineResponse struct {
	LedgerLineID string    `json:"ledgerLineID"`
	AccountID    string    `json:"accountID"`
	DebitMinor   int64     `json:"debitMinor"`
	CreditMinor  int64     `json:"creditMinor"`
	PostingDate  time.Time `json:"postingDate"`
	CurrencyCode string    `json:"currencyCode"`
	Memo         string    `json:"memo"`
}

// PostingBatchResponse is the API shape of a posting batch.
type PostingBatchResponse struct {
	BatchID           string               `json:"batchID"`
	DocumentID        string               `json:"documentID"`
	DocumentType      domain.DocumentType  `json:"documentType"`
	PostingDate       time.Time            `json:"postingDate"`
	ReversalOfBatchID *string              `json:"reversalOfBatchID,omitempty"`
	Lines             []LedgerLineResponse `json:"lines"`
}

// ToPostingBatchResponse converts a domain batch to its API shape.
func ToPostingBatchResponse(b *domain.PostingBatch) PostingBatchResponse {
	lines := make([]LedgerLineResponse, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = LedgerLineResponse{
			LedgerLineID: l.LedgerLineID,
			AccountID:    l.AccountID,
			DebitMinor:   l.DebitMinor,
			CreditMinor:  l.CreditMinor,
			PostingDate:  l.PostingDate,
			CurrencyCode: l.CurrencyCode,
			Memo:         l.Memo,
		}
	}
	return PostingBatchResponse{
		BatchID:           b.BatchID,
		DocumentID:        b.DocumentID,
		DocumentType:      b.DocumentType,
		PostingDate:       b.PostingDate,
		ReversalOfBatchID: b.ReversalOfBatchID,
		Lines:             lines,
	}
}

// DocumentLedgerResponse lists every batch a document has produced.
type DocumentLedgerResponse struct {
	DocumentID string                 `json:"documentID"`
	Batches    []PostingBatchResponse `json:"batches"`
}
