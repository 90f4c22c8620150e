package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus mirrors the document lifecycle states as stored.
type DocumentStatus string

const (
	DocumentDraft   DocumentStatus = "DRAFT"
	DocumentPosted  DocumentStatus = "POSTED"
	DocumentVoid    DocumentStatus = "VOID"
	DocumentBounced DocumentStatus = "BOUNCED"
)

// Document represents a row in the documents table.
type Document struct {
	DocumentID    string          `json:"documentID"`
	OrgID         string          `json:"orgID"`
	DocumentType  string          `json:"documentType"`
	Status        DocumentStatus  `json:"status"`
	DocumentDate  time.Time       `json:"documentDate"`
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	ContactID     *string         `json:"contactID"`
	BankAccountID *string         `json:"bankAccountID"`
	Memo          string          `json:"memo"`
	SubtotalMinor int64           `json:"subtotalMinor"`
	TaxMinor      int64           `json:"taxMinor"`
	TotalMinor    int64           `json:"totalMinor"`
	PostedAt      *time.Time      `json:"postedAt"`
	VoidedAt      *time.Time      `json:"voidedAt"`
	VoidReason    string          `json:"voidReason"`
	AuditFields
}

// DocumentLine represents a row in the document_lines table.
type DocumentLine struct {
	LineID        string          `json:"lineID"`
	DocumentID    string          `json:"documentID"`
	AccountID     *string         `json:"accountID"`
	ItemID        *string         `json:"itemID"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	DiscountMinor int64           `json:"discountMinor"`
	TaxCodeID     *string         `json:"taxCodeID"`
	Side          *string         `json:"side"`
	SubtotalMinor int64           `json:"subtotalMinor"`
	TaxMinor      int64           `json:"taxMinor"`
	TotalMinor    int64           `json:"totalMinor"`
	Position      int             `json:"position"`
}
