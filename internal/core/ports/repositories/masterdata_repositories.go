package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// MasterDataReader is the lookup interface onto the external master-data
// collaborator: accounts, tax codes, items and bank accounts by id. The engine
// never writes master data.
type MasterDataReader interface {
	FindAccountsByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error)
	FindTaxCodesByIDs(ctx context.Context, orgID string, taxCodeIDs []string) (map[string]domain.TaxCode, error)
	FindItemsByIDs(ctx context.Context, orgID string, itemIDs []string) (map[string]domain.Item, error)
	FindBankAccountByID(ctx context.Context, orgID string, bankAccountID string) (*domain.BankAccount, error)
}

// OrgSettingsReader reads the per-org settings snapshot (base currency, lock
// date, default control accounts). Settings mutation belongs to the external org
// administration collaborator.
type OrgSettingsReader interface {
	FindOrgSettings(ctx context.Context, orgID string) (*domain.OrgSettings, error)
}
