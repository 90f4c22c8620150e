package services

import (
	"fmt"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// IsLocked reports whether a document date falls on or before the org lock date.
// A nil lock date locks nothing.
func IsLocked(lockDate *time.Time, documentDate time.Time) bool {
	if lockDate == nil {
		return false
	}
	return !documentDate.After(*lockDate)
}

// checkLockDate is the guard every dated mutation runs before touching storage.
// It fails with ErrLocked so the caller never reaches the posting engine.
func checkLockDate(org *domain.OrgSettings, documentDate time.Time) error {
	if IsLocked(org.LockDate, documentDate) {
		return fmt.Errorf("%w: document date %s is on or before the organization lock date %s",
			apperrors.ErrLocked,
			documentDate.Format("2006-01-02"),
			org.LockDate.Format("2006-01-02"))
	}
	return nil
}
