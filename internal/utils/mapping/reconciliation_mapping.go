package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelReconciliationSession converts a domain session to a model session
func ToModelReconciliationSession(d domain.ReconciliationSession) models.ReconciliationSession {
	return models.ReconciliationSession{
		SessionID:           d.SessionID,
		OrgID:               d.OrgID,
		BankAccountID:       d.BankAccountID,
		PeriodStart:         d.PeriodStart,
		PeriodEnd:           d.PeriodEnd,
		OpeningBalanceMinor: d.OpeningBalanceMinor,
		ClosingBalanceMinor: d.ClosingBalanceMinor,
		Status:              models.SessionStatus(d.Status),
		ClosedAt:            d.ClosedAt,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationSession converts a model session to a domain session
func ToDomainReconciliationSession(m models.ReconciliationSession) domain.ReconciliationSession {
	return domain.ReconciliationSession{
		SessionID:           m.SessionID,
		OrgID:               m.OrgID,
		BankAccountID:       m.BankAccountID,
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		OpeningBalanceMinor: m.OpeningBalanceMinor,
		ClosingBalanceMinor: m.ClosingBalanceMinor,
		Status:              domain.SessionStatus(m.Status),
		ClosedAt:            m.ClosedAt,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReconciliationMatch converts a domain match to a model match
func ToModelReconciliationMatch(d domain.ReconciliationMatch) models.ReconciliationMatch {
	return models.ReconciliationMatch{
		MatchID:           d.MatchID,
		SessionID:         d.SessionID,
		OrgID:             d.OrgID,
		BankTransactionID: d.BankTransactionID,
		BatchID:           d.BatchID,
		MatchType:         string(d.MatchType),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationMatch converts a model match to a domain match
func ToDomainReconciliationMatch(m models.ReconciliationMatch) domain.ReconciliationMatch {
	return domain.ReconciliationMatch{
		MatchID:           m.MatchID,
		SessionID:         m.SessionID,
		OrgID:             m.OrgID,
		BankTransactionID: m.BankTransactionID,
		BatchID:           m.BatchID,
		MatchType:         domain.MatchType(m.MatchType),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankTransaction converts a model bank transaction to a domain bank transaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		BankTransactionID: m.BankTransactionID,
		OrgID:             m.OrgID,
		BankAccountID:     m.BankAccountID,
		TransactionDate:   m.TransactionDate,
		AmountMinor:       m.AmountMinor,
		Description:       m.Description,
		Reference:         m.Reference,
	}
}

// ToDomainBankTransactionSlice converts a slice of model bank transactions to domain bank transactions
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	ds := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankTransaction(m)
	}
	return ds
}
