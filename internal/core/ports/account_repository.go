package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// UpdateAccountFields is a partial update: nil fields are left untouched.
type UpdateAccountFields struct {
	FirstName   *string
	MiddleName  *string
	LastName    *string
	Email       *string
	Phone       *string
	CreditLimit *decimal.Decimal
	RoleID      *int
}

// AccountRepository defines persistence operations for accounts.
//
// DebitCredit is the one conditional write: it must decrement the credit
// limit and enforce the non-negative floor in a single atomic operation, so
// two concurrent debits can never both observe a sufficient balance.
type AccountRepository interface {
	// FindAll returns every account with its role attached, in retrieval order.
	FindAll(ctx context.Context) ([]*domain.Account, error)
	// FindByID returns the account with role and addresses attached.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindPaginated returns one page of accounts plus the total count.
	FindPaginated(ctx context.Context, page, limit int) ([]*domain.Account, int64, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateAccountFields) (*domain.Account, error)
	// Delete removes the account; dependent addresses go with it (cascade
	// rule owned by the store, not re-implemented in the service layer).
	Delete(ctx context.Context, id uuid.UUID) error
	// DebitCredit atomically subtracts amount from the credit limit if and
	// only if the remaining balance would stay non-negative, returning the
	// new limit. Fails with a NotFound error when the account is absent and
	// an InsufficientCredit error when the balance cannot cover the amount.
	DebitCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}
