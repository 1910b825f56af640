package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// AccountService orchestrates repository calls with the validation and
// credit-ledger rules.
type AccountService struct {
	repo   ports.AccountRepository
	ledger *CreditLedger
	trail  ports.LedgerRepository
	dedup  ports.IdempotencyStore
	logger zerolog.Logger
}

// NewAccountService creates an AccountService. trail and dedup may be nil;
// the corresponding features (credit history, idempotent deduction) degrade
// gracefully without them.
func NewAccountService(
	repo ports.AccountRepository,
	ledger *CreditLedger,
	trail ports.LedgerRepository,
	dedup ports.IdempotencyStore,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{repo: repo, ledger: ledger, trail: trail, dedup: dedup, logger: logger}
}

// Create persists a new account after checking email uniqueness and the
// credit-limit floor. The unique index on email remains the backstop for
// races between the precheck and the insert.
func (s *AccountService) Create(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	if input.CreditLimit.Sign() < 0 {
		return nil, domain.Validation("credit limit cannot be negative", nil)
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("email already in use")
	}

	account := &domain.Account{
		FirstName:   input.FirstName,
		MiddleName:  input.MiddleName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		CreditLimit: decimal.NewNullDecimal(input.CreditLimit),
		RoleID:      input.RoleID,
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, domain.Internal("hash password", err)
		}
		account.PasswordHash = string(hash)
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", created.ID.String()).Str("email", created.Email).Msg("account created")
	return created, nil
}

// GetByID returns the account with role and addresses attached.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of accounts.
func (s *AccountService) List(ctx context.Context, input ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.FindPaginated(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListAccountsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update, re-validating email uniqueness when the
// email changes and the credit-limit floor when the limit changes.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, fields ports.UpdateAccountFields) (*domain.Account, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.Email != nil && *fields.Email != current.Email {
		existing, err := s.repo.FindByEmail(ctx, *fields.Email)
		if err != nil && domain.KindOf(err) != domain.KindNotFound {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Conflict("email already in use by another account")
		}
	}

	if fields.CreditLimit != nil && fields.CreditLimit.Sign() < 0 {
		return nil, domain.Validation("credit limit cannot be negative", nil)
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", id.String()).Msg("account updated")
	return updated, nil
}

// Delete removes the account. Address cleanup is the store's cascade rule.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id.String()).Msg("account deleted")
	return nil
}

// CheckCredit reports whether the account can cover amount. A missing
// account reads as false rather than an error.
func (s *AccountService) CheckCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	if amount.Sign() <= 0 {
		return false, domain.Validation("amount must be positive", nil)
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return false, nil
		}
		return false, err
	}

	return HasSufficientCredit(account, amount), nil
}

// DeductCredit debits amount from the account. Insufficient funds report
// ok=false without an error; a missing account is a NotFound error. When a
// non-empty idempotencyKey has already been processed the deduction is
// skipped and reported as ok=true.
func (s *AccountService) DeductCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal, idempotencyKey string) (bool, error) {
	if idempotencyKey != "" && s.dedup != nil {
		seen, err := s.dedup.Seen(ctx, id, idempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("account_id", id.String()).Msg("idempotency check failed, proceeding")
		} else if seen {
			s.logger.Info().Str("account_id", id.String()).Str("idempotency_key", idempotencyKey).Msg("deduction replayed, skipping")
			return true, nil
		}
	}

	_, err := s.ledger.Debit(ctx, id, amount)
	if err != nil {
		if domain.KindOf(err) == domain.KindInsufficientCredit {
			return false, nil
		}
		return false, err
	}

	if idempotencyKey != "" && s.dedup != nil {
		if err := s.dedup.Mark(ctx, id, idempotencyKey); err != nil {
			s.logger.Warn().Err(err).Str("account_id", id.String()).Msg("idempotency mark failed")
		}
	}

	return true, nil
}

// GroupByRole partitions all accounts by role name, preserving retrieval
// order within each group.
func (s *AccountService) GroupByRole(ctx context.Context) (map[domain.RoleName][]*domain.Account, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[domain.RoleName][]*domain.Account)
	for _, a := range accounts {
		if a.Role == nil {
			return nil, domain.Internal("account missing role", errors.New("account "+a.ID.String()+" has no role attached"))
		}
		grouped[a.Role.Name] = append(grouped[a.Role.Name], a)
	}
	return grouped, nil
}

// CreditHistory returns the newest debit audit entries for the account.
func (s *AccountService) CreditHistory(ctx context.Context, id uuid.UUID, limit int) ([]*domain.CreditEvent, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if s.trail == nil {
		return nil, nil
	}
	if limit < 1 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.trail.FindByAccount(ctx, id, limit)
}
