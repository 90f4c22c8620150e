package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelPostingBatch converts a domain PostingBatch header to a model PostingBatch
func ToModelPostingBatch(d domain.PostingBatch) models.PostingBatch {
	return models.PostingBatch{
		BatchID:           d.BatchID,
		OrgID:             d.OrgID,
		DocumentID:        d.DocumentID,
		DocumentType:      string(d.DocumentType),
		PostingDate:       d.PostingDate,
		ReversalOfBatchID: d.ReversalOfBatchID,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
	}
}

// ToDomainPostingBatch converts a model PostingBatch to a domain PostingBatch without lines
func ToDomainPostingBatch(m models.PostingBatch) domain.PostingBatch {
	return domain.PostingBatch{
		BatchID:           m.BatchID,
		OrgID:             m.OrgID,
		DocumentID:        m.DocumentID,
		DocumentType:      domain.DocumentType(m.DocumentType),
		PostingDate:       m.PostingDate,
		ReversalOfBatchID: m.ReversalOfBatchID,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	return models.LedgerLine{
		LedgerLineID:       d.LedgerLineID,
		BatchID:            d.BatchID,
		OrgID:              d.OrgID,
		AccountID:          d.AccountID,
		DebitMinor:         d.DebitMinor,
		CreditMinor:        d.CreditMinor,
		SourceDocumentType: string(d.SourceDocumentType),
		SourceDocumentID:   d.SourceDocumentID,
		PostingDate:        d.PostingDate,
		CurrencyCode:       d.CurrencyCode,
		Memo:               d.Memo,
	}
}

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LedgerLineID:       m.LedgerLineID,
		BatchID:            m.BatchID,
		OrgID:              m.OrgID,
		AccountID:          m.AccountID,
		DebitMinor:         m.DebitMinor,
		CreditMinor:        m.CreditMinor,
		SourceDocumentType: domain.DocumentType(m.SourceDocumentType),
		SourceDocumentID:   m.SourceDocumentID,
		PostingDate:        m.PostingDate,
		CurrencyCode:       m.CurrencyCode,
		Memo:               m.Memo,
	}
}

// ToDomainLedgerLineSlice converts a slice of model LedgerLines to a slice of domain LedgerLines
func ToDomainLedgerLineSlice(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerLine(m)
	}
	return ds
}
