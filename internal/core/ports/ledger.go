package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// LedgerRepository persists the credit audit trail in the document store.
type LedgerRepository interface {
	Record(ctx context.Context, event *domain.CreditEvent) error
	// FindByAccount returns the newest entries first, up to limit.
	FindByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.CreditEvent, error)
}

// CreditAuditor receives successful debits for asynchronous recording. The
// debit itself never waits on the audit write.
type CreditAuditor interface {
	Enqueue(event domain.CreditEvent)
}

// IdempotencyStore remembers processed deduction keys so a replayed request
// does not debit twice.
type IdempotencyStore interface {
	Seen(ctx context.Context, accountID uuid.UUID, key string) (bool, error)
	Mark(ctx context.Context, accountID uuid.UUID, key string) error
}
