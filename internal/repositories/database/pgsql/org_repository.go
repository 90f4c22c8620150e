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

type PgxOrgRepository struct {
	BaseRepository
}

// newPgxOrgRepository creates a read-only repository over org settings.
func newPgxOrgRepository(pool *pgxpool.Pool) portsrepo.OrgSettingsReader {
	return &PgxOrgRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrgSettingsReader = (*PgxOrgRepository)(nil)

// FindOrgSettings retrieves the settings snapshot for an org.
func (r *PgxOrgRepository) FindOrgSettings(ctx context.Context, orgID string) (*domain.OrgSettings, error) {
	query := `
		SELECT org_id, base_currency_code, base_currency_decimals, lock_date, receivable_account_id, payable_account_id
		FROM org_settings
		WHERE org_id = $1;
	`
	var m models.OrgSettings
	err := r.Pool.QueryRow(ctx, query, orgID).Scan(
		&m.OrgID, &m.BaseCurrencyCode, &m.BaseCurrencyDecimals, &m.LockDate, &m.ReceivableAccountID, &m.PayableAccountID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find org settings for "+orgID, err)
	}
	settings := mapping.ToDomainOrgSettings(m)
	return &settings, nil
}
