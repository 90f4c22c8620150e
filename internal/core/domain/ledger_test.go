package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

func TestLedgerLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.LedgerLine
		wantErr bool
	}{
		{
			name: "debit only is valid",
			line: domain.LedgerLine{LedgerLineID: "l1", DebitMinor: 10000},
		},
		{
			name: "credit only is valid",
			line: domain.LedgerLine{LedgerLineID: "l2", CreditMinor: 10000},
		},
		{
			name:    "both sides set",
			line:    domain.LedgerLine{LedgerLineID: "l3", DebitMinor: 10000, CreditMinor: 10000},
			wantErr: true,
		},
		{
			name:    "both sides zero",
			line:    domain.LedgerLine{LedgerLineID: "l4"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			line:    domain.LedgerLine{LedgerLineID: "l5", DebitMinor: -100},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerLine_SideAndAmount(t *testing.T) {
	debit := domain.LedgerLine{DebitMinor: 10500}
	assert.Equal(t, domain.Debit, debit.Side())
	assert.Equal(t, int64(10500), debit.Amount())

	credit := domain.LedgerLine{CreditMinor: 500}
	assert.Equal(t, domain.Credit, credit.Side())
	assert.Equal(t, int64(500), credit.Amount())
}

func TestTransactionSide_Opposite(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Opposite())
	assert.Equal(t, domain.Debit, domain.Credit.Opposite())
}

func TestPostingBatch_CheckBalanced(t *testing.T) {
	balanced := domain.PostingBatch{
		BatchID: "b1",
		Lines: []domain.LedgerLine{
			{LedgerLineID: "l1", DebitMinor: 10500},
			{LedgerLineID: "l2", CreditMinor: 10000},
			{LedgerLineID: "l3", CreditMinor: 500},
		},
	}
	assert.NoError(t, balanced.CheckBalanced())

	unbalanced := domain.PostingBatch{
		BatchID: "b2",
		Lines: []domain.LedgerLine{
			{LedgerLineID: "l1", DebitMinor: 10500},
			{LedgerLineID: "l2", CreditMinor: 10499},
		},
	}
	assert.Error(t, unbalanced.CheckBalanced())

	// A single line can never balance, even at zero sum of differences.
	single := domain.PostingBatch{
		BatchID: "b3",
		Lines: []domain.LedgerLine{
			{LedgerLineID: "l1", DebitMinor: 100},
		},
	}
	assert.Error(t, single.CheckBalanced())

	empty := domain.PostingBatch{BatchID: "b4"}
	assert.Error(t, empty.CheckBalanced())

	invalidLine := domain.PostingBatch{
		BatchID: "b5",
		Lines: []domain.LedgerLine{
			{LedgerLineID: "l1", DebitMinor: 100, CreditMinor: 100},
			{LedgerLineID: "l2", CreditMinor: 0},
		},
	}
	assert.Error(t, invalidLine.CheckBalanced())
}
