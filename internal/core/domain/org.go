package domain

import "time"

// OrgSettings is the per-request snapshot of organization-level settings the
// engine consults: base currency, lock date, and the default control accounts.
// It is read once per operation and passed explicitly, never held as a global.
type OrgSettings struct {
	OrgID                string     `json:"orgID"`
	BaseCurrencyCode     string     `json:"baseCurrencyCode"`
	BaseCurrencyDecimals int32      `json:"baseCurrencyDecimals"`
	LockDate             *time.Time `json:"lockDate,omitempty"`
	ReceivableAccountID  string     `json:"receivableAccountID"` // AR control
	PayableAccountID     string     `json:"payableAccountID"`    // AP control
}
