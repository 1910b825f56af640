package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is a physical location attached to an account. Addresses are
// deleted together with their account (cascade rule in the store).
type Address struct {
	ID        int       `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is the core aggregate: a customer record with a role reference and
// a decimal credit limit. CreditLimit is nullable: legacy rows without a
// limit behave as zero-credit accounts, they are not a data error.
//
// Invariant: CreditLimit never goes below zero, enforced by the store's
// conditional debit update.
type Account struct {
	ID           uuid.UUID           `json:"uuid"`
	FirstName    string              `json:"first_name"`
	MiddleName   string              `json:"middle_name,omitempty"`
	LastName     string              `json:"last_name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	CreditLimit  decimal.NullDecimal `json:"credit_limit"`
	PasswordHash string              `json:"-"`
	RoleID       int                 `json:"role_id"`
	Role         *Role               `json:"role,omitempty"`
	Addresses    []Address           `json:"addresses,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// FormatName returns the display name: "first [middle] last".
func (a *Account) FormatName() string {
	if a.MiddleName != "" {
		return a.FirstName + " " + a.MiddleName + " " + a.LastName
	}
	return a.FirstName + " " + a.LastName
}

// CreditEvent is one entry in the credit audit trail (document store).
type CreditEvent struct {
	AccountID    uuid.UUID       `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
