package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

const collectionCreditEvents = "credit_events"

// LedgerRepository implements ports.LedgerRepository on the credit_events
// collection. Amounts are stored as fixed two-decimal strings so the audit
// trail never goes through binary floating point.
type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{col: db.Collection(collectionCreditEvents)}
}

var _ ports.LedgerRepository = (*LedgerRepository)(nil)

type creditEventDoc struct {
	AccountID    string    `bson:"account_id"`
	Amount       string    `bson:"amount"`
	BalanceAfter string    `bson:"balance_after"`
	OccurredAt   time.Time `bson:"occurred_at"`
	RecordedAt   time.Time `bson:"recorded_at"`
}

// Record inserts one audit entry.
func (r *LedgerRepository) Record(ctx context.Context, event *domain.CreditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := creditEventDoc{
		AccountID:    event.AccountID.String(),
		Amount:       event.Amount.StringFixed(2),
		BalanceAfter: event.BalanceAfter.StringFixed(2),
		OccurredAt:   event.OccurredAt.UTC(),
		RecordedAt:   time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// FindByAccount returns the newest entries first, up to limit.
func (r *LedgerRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.CreditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"account_id": accountID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []*domain.CreditEvent
	for cur.Next(ctx) {
		var doc creditEventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		event, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, cur.Err()
}

func (d *creditEventDoc) toDomain() (*domain.CreditEvent, error) {
	accountID, err := uuid.Parse(d.AccountID)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(d.BalanceAfter)
	if err != nil {
		return nil, err
	}
	return &domain.CreditEvent{
		AccountID:    accountID,
		Amount:       amount,
		BalanceAfter: balance,
		OccurredAt:   d.OccurredAt,
	}, nil
}

// EnsureIndexes creates necessary indexes on the credit_events collection.
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
