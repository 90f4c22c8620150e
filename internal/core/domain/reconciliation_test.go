package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

func TestReconciliationSession_Validate(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	valid := domain.ReconciliationSession{SessionID: "s1", BankAccountID: "ba1", PeriodStart: start, PeriodEnd: end}
	assert.NoError(t, valid.Validate())

	noAccount := valid
	noAccount.BankAccountID = ""
	assert.Error(t, noAccount.Validate())

	inverted := valid
	inverted.PeriodStart, inverted.PeriodEnd = end, start
	assert.Error(t, inverted.Validate())

	// A one-day period is fine.
	oneDay := valid
	oneDay.PeriodEnd = oneDay.PeriodStart
	assert.NoError(t, oneDay.Validate())
}

func TestReconciliationSession_Covers(t *testing.T) {
	session := domain.ReconciliationSession{
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, session.Covers(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, session.Covers(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, session.Covers(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, session.Covers(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, session.Covers(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}
