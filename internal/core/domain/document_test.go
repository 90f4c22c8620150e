package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

func TestDocument_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		docType domain.DocumentType
		status  domain.DocumentStatus
		target  domain.DocumentStatus
		want    bool
	}{
		{
			name:    "draft invoice can post",
			docType: domain.Invoice,
			status:  domain.StatusDraft,
			target:  domain.StatusPosted,
			want:    true,
		},
		{
			name:    "draft invoice cannot void",
			docType: domain.Invoice,
			status:  domain.StatusDraft,
			target:  domain.StatusVoid,
			want:    false,
		},
		{
			name:    "posted invoice can void",
			docType: domain.Invoice,
			status:  domain.StatusPosted,
			target:  domain.StatusVoid,
			want:    true,
		},
		{
			name:    "posted invoice cannot bounce",
			docType: domain.Invoice,
			status:  domain.StatusPosted,
			target:  domain.StatusBounced,
			want:    false,
		},
		{
			name:    "posted customer payment can bounce",
			docType: domain.CustomerPayment,
			status:  domain.StatusPosted,
			target:  domain.StatusBounced,
			want:    true,
		},
		{
			name:    "posted vendor payment can bounce",
			docType: domain.VendorPayment,
			status:  domain.StatusPosted,
			target:  domain.StatusBounced,
			want:    true,
		},
		{
			name:    "void is terminal",
			docType: domain.Invoice,
			status:  domain.StatusVoid,
			target:  domain.StatusPosted,
			want:    false,
		},
		{
			name:    "bounced is terminal",
			docType: domain.CustomerPayment,
			status:  domain.StatusBounced,
			target:  domain.StatusDraft,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domain.Document{DocumentType: tt.docType, Status: tt.status}
			assert.Equal(t, tt.want, doc.CanTransitionTo(tt.target))
		})
	}
}

func TestDocument_IsEditable(t *testing.T) {
	assert.True(t, (&domain.Document{Status: domain.StatusDraft}).IsEditable())
	assert.False(t, (&domain.Document{Status: domain.StatusPosted}).IsEditable())
	assert.False(t, (&domain.Document{Status: domain.StatusVoid}).IsEditable())
	assert.False(t, (&domain.Document{Status: domain.StatusBounced}).IsEditable())
}

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		segment string
		want    domain.DocumentType
		wantErr bool
	}{
		{segment: "invoices", want: domain.Invoice},
		{segment: "bills", want: domain.Bill},
		{segment: "expenses", want: domain.Expense},
		{segment: "journals", want: domain.JournalEntry},
		{segment: "credit-notes", want: domain.CreditNote},
		{segment: "debit-notes", want: domain.DebitNote},
		{segment: "customer-payments", want: domain.CustomerPayment},
		{segment: "vendor-payments", want: domain.VendorPayment},
		{segment: "receipts", wantErr: true},
		{segment: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			got, err := domain.ParseDocumentType(tt.segment)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentLine_Validate(t *testing.T) {
	valid := domain.DocumentLine{
		LineID:        "l1",
		Quantity:      decimal.NewFromInt(2),
		SubtotalMinor: 10000,
		TaxMinor:      500,
		TotalMinor:    10500,
	}
	assert.NoError(t, valid.Validate())

	negativeQty := valid
	negativeQty.Quantity = decimal.NewFromInt(-1)
	assert.Error(t, negativeQty.Validate())

	negativeDiscount := valid
	negativeDiscount.DiscountMinor = -100
	assert.Error(t, negativeDiscount.Validate())

	brokenTotal := valid
	brokenTotal.TotalMinor = 10501
	assert.Error(t, brokenTotal.Validate())
}
