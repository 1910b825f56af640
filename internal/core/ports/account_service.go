package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// CreateAccountInput carries all data needed to create an account.
type CreateAccountInput struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Email       string
	Phone       string
	Password    string
	CreditLimit decimal.Decimal
	RoleID      int
}

// ListAccountsInput carries pagination parameters for the list endpoint.
type ListAccountsInput struct {
	Page  int // 1-based
	Limit int // capped at 100 by the service
}

// ListAccountsResult is one page of accounts plus pagination metadata.
type ListAccountsResult struct {
	Items      []*domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountService defines the use-case operations on accounts. It is the only
// business-layer caller of AccountRepository.
type AccountService interface {
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context, input ListAccountsInput) (*ListAccountsResult, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateAccountFields) (*domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CheckCredit reports whether the account can cover amount. A missing
	// account reads as false, not as an error.
	CheckCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
	// DeductCredit debits amount from the account. Insufficient funds are a
	// legitimate business outcome reported as ok=false; only a missing
	// account (or a store failure) returns an error. A non-empty
	// idempotencyKey makes replays of the same deduction no-ops.
	DeductCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal, idempotencyKey string) (bool, error)
	// GroupByRole partitions all accounts by role name. Not paginated;
	// intended for small account sets.
	GroupByRole(ctx context.Context) (map[domain.RoleName][]*domain.Account, error)
	// CreditHistory returns the most recent debit audit entries.
	CreditHistory(ctx context.Context, id uuid.UUID, limit int) ([]*domain.CreditEvent, error)
}

// AuthService authenticates credentials and mints session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}
