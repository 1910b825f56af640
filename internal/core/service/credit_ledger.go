package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

// HasSufficientCredit reports whether the account's credit limit covers
// amount. A NULL credit limit reads as zero credit, so it never covers a
// positive amount. Pure: no repository access.
func HasSufficientCredit(account *domain.Account, amount decimal.Decimal) bool {
	if account == nil || !account.CreditLimit.Valid {
		return false
	}
	return account.CreditLimit.Decimal.GreaterThanOrEqual(amount)
}

// CreditLedger applies debits against account credit limits. The
// non-negative floor is enforced by the repository's conditional update, not
// by an in-memory read-then-write, so concurrent debits cannot jointly drive
// a balance negative.
type CreditLedger struct {
	repo    ports.AccountRepository
	auditor ports.CreditAuditor
	logger  zerolog.Logger
}

// NewCreditLedger creates a CreditLedger. auditor may be nil, in which case
// debits are not recorded in the audit trail.
func NewCreditLedger(repo ports.AccountRepository, auditor ports.CreditAuditor, logger zerolog.Logger) *CreditLedger {
	return &CreditLedger{repo: repo, auditor: auditor, logger: logger}
}

// Debit subtracts amount from the account's credit limit and returns the new
// limit. A non-positive amount is a validation error; a balance that cannot
// cover the amount fails with an InsufficientCredit error and writes nothing.
func (l *CreditLedger) Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, domain.Validation("debit amount must be positive", nil)
	}

	newLimit, err := l.repo.DebitCredit(ctx, accountID, amount)
	if err != nil {
		return decimal.Zero, err
	}

	l.logger.Info().
		Str("account_id", accountID.String()).
		Str("amount", amount.String()).
		Str("new_limit", newLimit.String()).
		Msg("credit debited")

	if l.auditor != nil {
		l.auditor.Enqueue(domain.CreditEvent{
			AccountID:    accountID,
			Amount:       amount,
			BalanceAfter: newLimit,
			OccurredAt:   time.Now().UTC(),
		})
	}

	return newLimit, nil
}
