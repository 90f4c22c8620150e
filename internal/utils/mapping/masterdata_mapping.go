package mapping

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		OrgID:       m.OrgID,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		IsActive:    m.IsActive,
	}
}

// ToDomainTaxCode converts a model TaxCode to a domain TaxCode
func ToDomainTaxCode(m models.TaxCode) domain.TaxCode {
	return domain.TaxCode{
		TaxCodeID:          m.TaxCodeID,
		OrgID:              m.OrgID,
		Name:               m.Name,
		Rate:               m.Rate,
		CollectedAccountID: m.CollectedAccountID,
		PaidAccountID:      m.PaidAccountID,
		IsActive:           m.IsActive,
	}
}

// ToDomainItem converts a model Item to a domain Item
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ItemID:            m.ItemID,
		OrgID:             m.OrgID,
		Name:              m.Name,
		SalesAccountID:    m.SalesAccountID,
		PurchaseAccountID: m.PurchaseAccountID,
		IsActive:          m.IsActive,
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID: m.BankAccountID,
		OrgID:         m.OrgID,
		Name:          m.Name,
		GLAccountID:   m.GLAccountID,
		IsActive:      m.IsActive,
	}
}

// ToDomainOrgSettings converts a model OrgSettings to a domain OrgSettings
func ToDomainOrgSettings(m models.OrgSettings) domain.OrgSettings {
	return domain.OrgSettings{
		OrgID:                m.OrgID,
		BaseCurrencyCode:     m.BaseCurrencyCode,
		BaseCurrencyDecimals: m.BaseCurrencyDecimals,
		LockDate:             m.LockDate,
		ReceivableAccountID:  m.ReceivableAccountID,
		PayableAccountID:     m.PayableAccountID,
	}
}
