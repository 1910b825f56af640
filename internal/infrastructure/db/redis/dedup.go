package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nexacorp/accounts-api/internal/core/ports"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks for credit deductions backed by
// Redis. Key format: deduct:<account_uuid>:<idempotency_key>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

var _ ports.IdempotencyStore = (*DedupChecker)(nil)

// Seen reports whether this deduction key has already been processed.
func (d *DedupChecker) Seen(ctx context.Context, accountID uuid.UUID, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(accountID, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this deduction has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, accountID uuid.UUID, key string) error {
	return d.client.Set(ctx, d.key(accountID, key), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(accountID uuid.UUID, key string) string {
	return fmt.Sprintf("deduct:%s:%s", accountID, key)
}
