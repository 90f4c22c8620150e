package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is the closed set of financial source document kinds. All of them
// run through the same state machine; only account resolution differs per type.
type DocumentType string

const (
	Invoice         DocumentType = "INVOICE"
	Bill            DocumentType = "BILL"
	Expense         DocumentType = "EXPENSE"
	JournalEntry    DocumentType = "JOURNAL"
	CreditNote      DocumentType = "CREDIT_NOTE"
	DebitNote       DocumentType = "DEBIT_NOTE"
	CustomerPayment DocumentType = "CUSTOMER_PAYMENT"
	VendorPayment   DocumentType = "VENDOR_PAYMENT"
)

// ParseDocumentType maps a URL path segment (e.g. "credit-notes") to a DocumentType.
func ParseDocumentType(segment string) (DocumentType, error) {
	switch segment {
	case "invoices":
		return Invoice, nil
	case "bills":
		return Bill, nil
	case "expenses":
		return Expense, nil
	case "journals":
		return JournalEntry, nil
	case "credit-notes":
		return CreditNote, nil
	case "debit-notes":
		return DebitNote, nil
	case "customer-payments":
		return CustomerPayment, nil
	case "vendor-payments":
		return VendorPayment, nil
	default:
		return "", fmt.Errorf("unknown document type %q", segment)
	}
}

// IsPayment reports whether the type represents money received or paid through a
// bank account. Only payments may bounce.
func (t DocumentType) IsPayment() bool {
	return t == CustomerPayment || t == VendorPayment
}

// DocumentStatus is the document lifecycle state.
// Transitions are one-directional: DRAFT -> POSTED -> {VOID, BOUNCED}.
type DocumentStatus string

const (
	StatusDraft   DocumentStatus = "DRAFT"
	StatusPosted  DocumentStatus = "POSTED"
	StatusVoid    DocumentStatus = "VOID"
	StatusBounced DocumentStatus = "BOUNCED"
)

// Document is one financial source transaction. A Draft may be freely edited; once
// posted its financial fields are immutable and can only be undone by a
// compensating reversal batch (void/bounce).
type Document struct {
	DocumentID    string          `json:"documentID"`
	OrgID         string          `json:"orgID"`
	DocumentType  DocumentType    `json:"documentType"`
	Status        DocumentStatus  `json:"status"`
	DocumentDate  time.Time       `json:"documentDate"`
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`            // vs org base currency; 1 for base-currency documents
	ContactID     *string         `json:"contactID,omitempty"`     // customer or vendor reference
	BankAccountID *string         `json:"bankAccountID,omitempty"` // required for payments and expenses
	Memo          string          `json:"memo"`
	Lines         []DocumentLine  `json:"lines,omitempty"`
	SubtotalMinor int64           `json:"subtotalMinor"`
	TaxMinor      int64           `json:"taxMinor"`
	TotalMinor    int64           `json:"totalMinor"`
	PostedAt      *time.Time      `json:"postedAt,omitempty"`
	VoidedAt      *time.Time      `json:"voidedAt,omitempty"`
	VoidReason    string          `json:"voidReason,omitempty"`
	AuditFields
}

// IsEditable reports whether financial fields may still change.
func (d *Document) IsEditable() bool {
	return d.Status == StatusDraft
}

// TransitionTargets returns the statuses reachable from the document's current
// status for its type.
func (d *Document) TransitionTargets() []DocumentStatus {
	switch d.Status {
	case StatusDraft:
		return []DocumentStatus{StatusPosted}
	case StatusPosted:
		if d.DocumentType.IsPayment() {
			return []DocumentStatus{StatusVoid, StatusBounced}
		}
		return []DocumentStatus{StatusVoid}
	default:
		return nil
	}
}

// CanTransitionTo reports whether target is a legal next status.
func (d *Document) CanTransitionTo(target DocumentStatus) bool {
	for _, s := range d.TransitionTargets() {
		if s == target {
			return true
		}
	}
	return false
}

// DocumentLine is one row of a document. The account it hits is either explicit
// (AccountID), resolved through an item (ItemID), or defaulted by document type.
type DocumentLine struct {
	LineID        string           `json:"lineID"`
	DocumentID    string           `json:"documentID"`
	AccountID     *string          `json:"accountID,omitempty"`
	ItemID        *string          `json:"itemID,omitempty"`
	Description   string           `json:"description"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"` // major units
	DiscountMinor int64            `json:"discountMinor"`
	TaxCodeID     *string          `json:"taxCodeID,omitempty"`
	Side          *TransactionSide `json:"side,omitempty"` // journal documents only
	SubtotalMinor int64            `json:"subtotalMinor"`
	TaxMinor      int64            `json:"taxMinor"`
	TotalMinor    int64            `json:"totalMinor"`
	Position      int              `json:"position"`
}

// Validate checks the structural line invariants that hold regardless of document
// type: non-negative quantity and discount, and total = subtotal + tax.
func (l *DocumentLine) Validate() error {
	if l.Quantity.IsNegative() {
		return fmt.Errorf("line %s: quantity must not be negative", l.LineID)
	}
	if l.DiscountMinor < 0 {
		return fmt.Errorf("line %s: discount must not be negative", l.LineID)
	}
	if l.TotalMinor != l.SubtotalMinor+l.TaxMinor {
		return fmt.Errorf("line %s: total %d != subtotal %d + tax %d", l.LineID, l.TotalMinor, l.SubtotalMinor, l.TaxMinor)
	}
	return nil
}
