package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

func TestHasSufficientCredit(t *testing.T) {
	limit := func(s string) decimal.NullDecimal {
		d, _ := decimal.NewFromString(s)
		return decimal.NewNullDecimal(d)
	}

	tests := []struct {
		name    string
		account *domain.Account
		amount  string
		want    bool
	}{
		{"nil account", nil, "1.00", false},
		{"null limit", &domain.Account{}, "0.01", false},
		{"exact cover", &domain.Account{CreditLimit: limit("60.00")}, "60.00", true},
		{"one cent over", &domain.Account{CreditLimit: limit("60.00")}, "60.01", false},
		{"plenty", &domain.Account{CreditLimit: limit("100.00")}, "40.00", true},
		{"zero limit", &domain.Account{CreditLimit: limit("0.00")}, "0.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, _ := decimal.NewFromString(tt.amount)
			if got := HasSufficientCredit(tt.account, amount); got != tt.want {
				t.Fatalf("HasSufficientCredit(%v, %s) = %v, want %v", tt.account, tt.amount, got, tt.want)
			}
		})
	}
}

func TestCreditLedger_Debit_Success(t *testing.T) {
	repo := newStubAccountRepo()
	a := seedAccount(repo, "ledger@example.com", "100.00", commonRole.ID)
	ledger := NewCreditLedger(repo, nil, zerolog.Nop())

	newLimit, err := ledger.Debit(context.Background(), a.ID, mustDecimal(t, "40.00"))
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if !newLimit.Equal(mustDecimal(t, "60.00")) {
		t.Fatalf("expected new limit 60.00, got %s", newLimit)
	}
}

func TestCreditLedger_Debit_Insufficient(t *testing.T) {
	repo := newStubAccountRepo()
	a := seedAccount(repo, "ledger2@example.com", "50.00", commonRole.ID)
	ledger := NewCreditLedger(repo, nil, zerolog.Nop())

	_, err := ledger.Debit(context.Background(), a.ID, mustDecimal(t, "50.01"))
	if domain.KindOf(err) != domain.KindInsufficientCredit {
		t.Fatalf("expected InsufficientCredit, got %v", err)
	}

	// The failed debit wrote nothing.
	current, _ := repo.FindByID(context.Background(), a.ID)
	if !current.CreditLimit.Decimal.Equal(mustDecimal(t, "50.00")) {
		t.Fatalf("limit changed on failed debit: %s", current.CreditLimit.Decimal)
	}
}

func TestCreditLedger_Debit_NonPositiveAmount(t *testing.T) {
	repo := newStubAccountRepo()
	a := seedAccount(repo, "ledger3@example.com", "50.00", commonRole.ID)
	ledger := NewCreditLedger(repo, nil, zerolog.Nop())

	for _, amount := range []string{"0", "-10.00"} {
		if _, err := ledger.Debit(context.Background(), a.ID, mustDecimal(t, amount)); domain.KindOf(err) != domain.KindValidation {
			t.Fatalf("amount %s: expected Validation, got %v", amount, err)
		}
	}
}

// Two concurrent debits that each fit individually but not together: at most
// one wins and the balance never goes negative.
func TestCreditLedger_Debit_ConcurrentNeverNegative(t *testing.T) {
	repo := newStubAccountRepo()
	a := seedAccount(repo, "race@example.com", "100.00", commonRole.ID)
	ledger := NewCreditLedger(repo, nil, zerolog.Nop())

	amounts := []string{"70.00", "70.00"}
	results := make([]error, len(amounts))

	var wg sync.WaitGroup
	for i, s := range amounts {
		wg.Add(1)
		go func(i int, s string) {
			defer wg.Done()
			amount, _ := decimal.NewFromString(s)
			_, results[i] = ledger.Debit(context.Background(), a.ID, amount)
		}(i, s)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if domain.KindOf(err) != domain.KindInsufficientCredit {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one debit to win, got %d", successes)
	}

	current, _ := repo.FindByID(context.Background(), a.ID)
	if current.CreditLimit.Decimal.Sign() < 0 {
		t.Fatalf("balance went negative: %s", current.CreditLimit.Decimal)
	}
	if !current.CreditLimit.Decimal.Equal(mustDecimal(t, "30.00")) {
		t.Fatalf("expected final limit 30.00, got %s", current.CreditLimit.Decimal)
	}
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.CreditEvent
}

func (r *recordingAuditor) Enqueue(ev domain.CreditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestCreditLedger_Debit_Audited(t *testing.T) {
	repo := newStubAccountRepo()
	a := seedAccount(repo, "audit@example.com", "100.00", commonRole.ID)
	auditor := &recordingAuditor{}
	ledger := NewCreditLedger(repo, auditor, zerolog.Nop())

	if _, err := ledger.Debit(context.Background(), a.ID, mustDecimal(t, "25.00")); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	_, _ = ledger.Debit(context.Background(), a.ID, mustDecimal(t, "999.00"))

	if len(auditor.events) != 1 {
		t.Fatalf("expected exactly one audit event, got %d", len(auditor.events))
	}
	ev := auditor.events[0]
	if ev.AccountID != a.ID || !ev.Amount.Equal(mustDecimal(t, "25.00")) || !ev.BalanceAfter.Equal(mustDecimal(t, "75.00")) {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}
