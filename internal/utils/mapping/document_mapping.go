package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelDocument converts a domain Document to a model Document. Lines are
// mapped separately since they live in their own table.
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:    d.DocumentID,
		OrgID:         d.OrgID,
		DocumentType:  string(d.DocumentType),
		Status:        models.DocumentStatus(d.Status),
		DocumentDate:  d.DocumentDate,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		ContactID:     d.ContactID,
		BankAccountID: d.BankAccountID,
		Memo:          d.Memo,
		SubtotalMinor: d.SubtotalMinor,
		TaxMinor:      d.TaxMinor,
		TotalMinor:    d.TotalMinor,
		PostedAt:      d.PostedAt,
		VoidedAt:      d.VoidedAt,
		VoidReason:    d.VoidReason,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document
func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:    m.DocumentID,
		OrgID:         m.OrgID,
		DocumentType:  domain.DocumentType(m.DocumentType),
		Status:        domain.DocumentStatus(m.Status),
		DocumentDate:  m.DocumentDate,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		ContactID:     m.ContactID,
		BankAccountID: m.BankAccountID,
		Memo:          m.Memo,
		SubtotalMinor: m.SubtotalMinor,
		TaxMinor:      m.TaxMinor,
		TotalMinor:    m.TotalMinor,
		PostedAt:      m.PostedAt,
		VoidedAt:      m.VoidedAt,
		VoidReason:    m.VoidReason,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentLine converts a domain DocumentLine to a model DocumentLine
func ToModelDocumentLine(d domain.DocumentLine) models.DocumentLine {
	var side *string
	if d.Side != nil {
		s := string(*d.Side)
		side = &s
	}
	return models.DocumentLine{
		LineID:        d.LineID,
		DocumentID:    d.DocumentID,
		AccountID:     d.AccountID,
		ItemID:        d.ItemID,
		Description:   d.Description,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		DiscountMinor: d.DiscountMinor,
		TaxCodeID:     d.TaxCodeID,
		Side:          side,
		SubtotalMinor: d.SubtotalMinor,
		TaxMinor:      d.TaxMinor,
		TotalMinor:    d.TotalMinor,
		Position:      d.Position,
	}
}

// ToDomainDocumentLine converts a model DocumentLine to a domain DocumentLine
func ToDomainDocumentLine(m models.DocumentLine) domain.DocumentLine {
	var side *domain.TransactionSide
	if m.Side != nil {
		s := domain.TransactionSide(*m.Side)
		side = &s
	}
	return domain.DocumentLine{
		LineID:        m.LineID,
		DocumentID:    m.DocumentID,
		AccountID:     m.AccountID,
		ItemID:        m.ItemID,
		Description:   m.Description,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		DiscountMinor: m.DiscountMinor,
		TaxCodeID:     m.TaxCodeID,
		Side:          side,
		SubtotalMinor: m.SubtotalMinor,
		TaxMinor:      m.TaxMinor,
		TotalMinor:    m.TotalMinor,
		Position:      m.Position,
	}
}

// ToDomainDocumentLineSlice converts a slice of model DocumentLines to a slice of domain DocumentLines
func ToDomainDocumentLineSlice(ms []models.DocumentLine) []domain.DocumentLine {
	ds := make([]domain.DocumentLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocumentLine(m)
	}
	return ds
}
