package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// DocumentLineRequest is one line of a create/update request. Amounts that are
// user input (unit price) arrive as decimals; amounts that are already exact
// (discount) arrive in minor units.
type DocumentLineRequest struct {
	AccountID     *string                 `json:"accountID,omitempty"`
	ItemID        *string                 `json:"itemID,omitempty"`
	Description   string                  `json:"description"`
	Quantity      decimal.Decimal         `json:"quantity"`
	UnitPrice     decimal.Decimal         `json:"unitPrice"`
	DiscountMinor int64                   `json:"discountMinor" binding:"gte=0"`
	TaxCodeID     *string                 `json:"taxCodeID,omitempty"`
	Side          *domain.TransactionSide `json:"side,omitempty" binding:"omitempty,oneof=DEBIT CREDIT"` // journal documents only
}

// CreateDocumentRequest creates a Draft document of the type named in the URL.
type CreateDocumentRequest struct {
	DocumentDate  time.Time             `json:"documentDate" binding:"required"`
	CurrencyCode  string                `json:"currencyCode" binding:"required,currency"`
	ExchangeRate  *decimal.Decimal      `json:"exchangeRate,omitempty"`
	ContactID     *string               `json:"contactID,omitempty"`
	BankAccountID *string               `json:"bankAccountID,omitempty"`
	Memo          string                `json:"memo"`
	Lines         []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateDocumentRequest replaces a Draft's mutable fields. Nil fields are left
// unchanged; a non-nil Lines slice replaces all lines.
type UpdateDocumentRequest struct {
	DocumentDate  *time.Time            `json:"documentDate,omitempty"`
	CurrencyCode  *string               `json:"currencyCode,omitempty" binding:"omitempty,currency"`
	ContactID     *string               `json:"contactID,omitempty"`
	BankAccountID *string               `json:"bankAccountID,omitempty"`
	Memo          *string               `json:"memo,omitempty"`
	Lines         []DocumentLineRequest `json:"lines,omitempty" binding:"omitempty,min=1,dive"`
}

// VoidDocumentRequest carries the optional reason recorded on the document and
// in the reversal memo.
type VoidDocumentRequest struct {
	Reason string `json:"reason"`
}

// DocumentLineResponse mirrors a stored line with computed amounts.
type DocumentLineResponse struct {
	LineID        string                  `json:"lineID"`
	AccountID     *string                 `json:"accountID,omitempty"`
	ItemID        *string                 `json:"itemID,omitempty"`
	Description   string                  `json:"description"`
	Quantity      decimal.Decimal         `json:"quantity"`
	UnitPrice     decimal.Decimal         `json:"unitPrice"`
	DiscountMinor int64                   `json:"discountMinor"`
	TaxCodeID     *string                 `json:"taxCodeID,omitempty"`
	Side          *domain.TransactionSide `json:"side,omitempty"`
	SubtotalMinor int64                   `json:"subtotalMinor"`
	TaxMinor      int64                   `json:"taxMinor"`
	TotalMinor    int64                   `json:"totalMinor"`
}

// DocumentResponse is the API shape of a document.
type DocumentResponse struct {
	DocumentID    string                 `json:"documentID"`
	OrgID         string                 `json:"orgID"`
	DocumentType  domain.DocumentType    `json:"documentType"`
	Status        domain.DocumentStatus  `json:"status"`
	DocumentDate  time.Time              `json:"documentDate"`
	CurrencyCode  string                 `json:"currencyCode"`
	ExchangeRate  decimal.Decimal        `json:"exchangeRate"`
	ContactID     *string                `json:"contactID,omitempty"`
	BankAccountID *string                `json:"bankAccountID,omitempty"`
	Memo          string                 `json:"memo"`
	Lines         []DocumentLineResponse `json:"lines,omitempty"`
	SubtotalMinor int64                  `json:"subtotalMinor"`
	TaxMinor      int64                  `json:"taxMinor"`
	TotalMinor    int64                  `json:"totalMinor"`
	PostedAt      *time.Time             `json:"postedAt,omitempty"`
	VoidedAt      *time.Time             `json:"voidedAt,omitempty"`
	VoidReason    string                 `json:"voidReason,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
}

// ToDocumentResponse converts a domain document to its API shape.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	lines := make([]DocumentLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DocumentLineResponse{
			LineID:        l.LineID,
			AccountID:     l.AccountID,
			ItemID:        l.ItemID,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			DiscountMinor: l.DiscountMinor,
			TaxCodeID:     l.TaxCodeID,
			Side:          l.Side,
			SubtotalMinor: l.SubtotalMinor,
			TaxMinor:      l.TaxMinor,
			TotalMinor:    l.TotalMinor,
		}
	}
	return DocumentResponse{
		DocumentID:    d.DocumentID,
		OrgID:         d.OrgID,
		DocumentType:  d.DocumentType,
		Status:        d.Status,
		DocumentDate:  d.DocumentDate,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		ContactID:     d.ContactID,
		BankAccountID: d.BankAccountID,
		Memo:          d.Memo,
		Lines:         lines,
		SubtotalMinor: d.SubtotalMinor,
		TaxMinor:      d.TaxMinor,
		TotalMinor:    d.TotalMinor,
		PostedAt:      d.PostedAt,
		VoidedAt:      d.VoidedAt,
		VoidReason:    d.VoidReason,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// PostDocumentResponse is returned by the post transition.
type PostDocumentResponse struct {
	Document      DocumentResponse `json:"document"`
	LedgerBatchID string           `json:"ledgerBatchID"`
}

// VoidDocumentResponse is returned by the void and bounce transitions.
type VoidDocumentResponse struct {
	Document        DocumentResponse `json:"document"`
	ReversalBatchID string           `json:"reversalBatchID"`
}

// ListDocumentsParams holds listing parameters.
type ListDocumentsParams struct {
	Limit     int
	NextToken *string
}

// ListDocumentsResponse is a token-paginated document page.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}
