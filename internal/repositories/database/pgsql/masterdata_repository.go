package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
)

type PgxMasterDataRepository struct {
	BaseRepository
}

// newPgxMasterDataRepository creates a read-only repository over the master-data
// tables owned by the external administration collaborator.
func newPgxMasterDataRepository(pool *pgxpool.Pool) portsrepo.MasterDataReader {
	return &PgxMasterDataRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MasterDataReader = (*PgxMasterDataRepository)(nil)

// FindAccountsByIDs retrieves accounts for an org keyed by id. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func (r *PgxMasterDataRepository) FindAccountsByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `
		SELECT account_id, org_id, name, account_type, is_active
		FROM accounts
		WHERE org_id = $1 AND account_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, orgID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.OrgID, &m.Name, &m.AccountType, &m.IsActive); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return result, nil
}

// FindTaxCodesByIDs retrieves tax codes for an org keyed by id.
func (r *PgxMasterDataRepository) FindTaxCodesByIDs(ctx context.Context, orgID string, taxCodeIDs []string) (map[string]domain.TaxCode, error) {
	if len(taxCodeIDs) == 0 {
		return map[string]domain.TaxCode{}, nil
	}
	query := `
		SELECT tax_code_id, org_id, name, rate, collected_account_id, paid_account_id, is_active
		FROM tax_codes
		WHERE org_id = $1 AND tax_code_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, orgID, taxCodeIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax codes", err)
	}
	defer rows.Close()

	result := make(map[string]domain.TaxCode, len(taxCodeIDs))
	for rows.Next() {
		var m models.TaxCode
		if err := rows.Scan(&m.TaxCodeID, &m.OrgID, &m.Name, &m.Rate, &m.CollectedAccountID, &m.PaidAccountID, &m.IsActive); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax code row", err)
		}
		result[m.TaxCodeID] = mapping.ToDomainTaxCode(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax code rows", err)
	}
	return result, nil
}

// FindItemsByIDs retrieves items for an org keyed by id.
func (r *PgxMasterDataRepository) FindItemsByIDs(ctx context.Context, orgID string, itemIDs []string) (map[string]domain.Item, error) {
	if len(itemIDs) == 0 {
		return map[string]domain.Item{}, nil
	}
	query := `
		SELECT item_id, org_id, name, sales_account_id, purchase_account_id, is_active
		FROM items
		WHERE org_id = $1 AND item_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, orgID, itemIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Item, len(itemIDs))
	for rows.Next() {
		var m models.Item
		if err := rows.Scan(&m.ItemID, &m.OrgID, &m.Name, &m.SalesAccountID, &m.PurchaseAccountID, &m.IsActive); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row", err)
		}
		result[m.ItemID] = mapping.ToDomainItem(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows", err)
	}
	return result, nil
}

// FindBankAccountByID retrieves one bank account for an org.
func (r *PgxMasterDataRepository) FindBankAccountByID(ctx context.Context, orgID string, bankAccountID string) (*domain.BankAccount, error) {
	query := `
		SELECT bank_account_id, org_id, name, gl_account_id, is_active
		FROM bank_accounts
		WHERE org_id = $1 AND bank_account_id = $2;
	`
	var m models.BankAccount
	err := r.Pool.QueryRow(ctx, query, orgID, bankAccountID).Scan(
		&m.BankAccountID, &m.OrgID, &m.Name, &m.GLAccountID, &m.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank account by ID "+bankAccountID, err)
	}
	account := mapping.ToDomainBankAccount(m)
	return &account, nil
}
