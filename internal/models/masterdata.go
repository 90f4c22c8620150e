package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a row in the accounts table (read-only here).
type Account struct {
	AccountID   string `json:"accountID"`
	OrgID       string `json:"orgID"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	IsActive    bool   `json:"isActive"`
}

// TaxCode represents a row in the tax_codes table (read-only here).
type TaxCode struct {
	TaxCodeID          string          `json:"taxCodeID"`
	OrgID              string          `json:"orgID"`
	Name               string          `json:"name"`
	Rate               decimal.Decimal `json:"rate"`
	CollectedAccountID string          `json:"collectedAccountID"`
	PaidAccountID      string          `json:"paidAccountID"`
	IsActive           bool            `json:"isActive"`
}

// Item represents a row in the items table (read-only here).
type Item struct {
	ItemID            string `json:"itemID"`
	OrgID             string `json:"orgID"`
	Name              string `json:"name"`
	SalesAccountID    string `json:"salesAccountID"`
	PurchaseAccountID string `json:"purchaseAccountID"`
	IsActive          bool   `json:"isActive"`
}

// BankAccount represents a row in the bank_accounts table (read-only here).
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"`
	OrgID         string `json:"orgID"`
	Name          string `json:"name"`
	GLAccountID   string `json:"glAccountID"`
	IsActive      bool   `json:"isActive"`
}

// OrgSettings represents a row in the org_settings table (read-only here).
type OrgSettings struct {
	OrgID                string     `json:"orgID"`
	BaseCurrencyCode     string     `json:"baseCurrencyCode"`
	BaseCurrencyDecimals int32      `json:"baseCurrencyDecimals"`
	LockDate             *time.Time `json:"lockDate"`
	ReceivableAccountID  string     `json:"receivableAccountID"`
	PayableAccountID     string     `json:"payableAccountID"`
}
