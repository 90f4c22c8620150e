package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Master data (accounts, tax codes, items, bank accounts) is owned by an external
// CRUD collaborator. The engine only reads it: id, active flag, and the handful of
// fields account resolution and reconciliation need.

// AccountType categorizes accounts by their accounting nature. Asset/Expense are
// debit-normal; Liability/Equity/Revenue are credit-normal.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expenses  AccountType = "EXPENSE"
)

// IsDebitNormal reports whether a debit increases the account.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expenses
}

// Account is a general-ledger account reference.
type Account struct {
	AccountID   string      `json:"accountID"`
	OrgID       string      `json:"orgID"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
}

// TaxCode carries a rate plus the accounts tax lands on, split by direction:
// collected (output VAT, sales side) vs paid (input VAT, purchase side).
type TaxCode struct {
	TaxCodeID          string          `json:"taxCodeID"`
	OrgID              string          `json:"orgID"`
	Name               string          `json:"name"`
	Rate               decimal.Decimal `json:"rate"` // e.g. 0.05 for 5%
	CollectedAccountID string          `json:"collectedAccountID"`
	PaidAccountID      string          `json:"paidAccountID"`
	IsActive           bool            `json:"isActive"`
}

// Item maps to a sales account (when sold) and a purchase account (when bought).
type Item struct {
	ItemID            string `json:"itemID"`
	OrgID             string `json:"orgID"`
	Name              string `json:"name"`
	SalesAccountID    string `json:"salesAccountID"`
	PurchaseAccountID string `json:"purchaseAccountID"`
	IsActive          bool   `json:"isActive"`
}

// BankAccount links a real-world bank account to its GL account.
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"`
	OrgID         string `json:"orgID"`
	Name          string `json:"name"`
	GLAccountID   string `json:"glAccountID"`
	IsActive      bool   `json:"isActive"`
}

// BankTransaction is an already-normalized external bank statement record (feed
// ingestion is out of scope). Amounts are signed minor units: positive for money
// in, negative for money out.
type BankTransaction struct {
	BankTransactionID string    `json:"bankTransactionID"`
	OrgID             string    `json:"orgID"`
	BankAccountID     string    `json:"bankAccountID"`
	TransactionDate   time.Time `json:"transactionDate"`
	AmountMinor       int64     `json:"amountMinor"`
	Description       string    `json:"description"`
	Reference         string    `json:"reference"`
}
