package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

const accountColumns = `a.uuid, a.first_name, a.middle_name, a.last_name, a.email, a.phone,
	a.credit_limit, a.password_hash, a.role_id, a.created_at, a.updated_at,
	r.id, r.name, r.created_at, r.updated_at`

// AccountRepository implements ports.AccountRepository on Postgres.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var (
		a            domain.Account
		middleName   sql.NullString
		phone        sql.NullString
		passwordHash sql.NullString
		role         domain.Role
		roleName     string
	)
	err := row.Scan(
		&a.ID, &a.FirstName, &middleName, &a.LastName, &a.Email, &phone,
		&a.CreditLimit, &passwordHash, &a.RoleID, &a.CreatedAt, &a.UpdatedAt,
		&role.ID, &roleName, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.MiddleName = middleName.String
	a.Phone = phone.String
	a.PasswordHash = passwordHash.String
	role.Name = domain.RoleName(roleName)
	a.Role = &role
	return &a, nil
}

// FindAll returns every account with its role attached, oldest first.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts a JOIN roles r ON r.id = a.role_id
		ORDER BY a.created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err, "account not found")
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, "account not found")
		}
		accounts = append(accounts, a)
	}
	return accounts, mapError(rows.Err(), "account not found")
}

// FindByID returns the account with role and addresses attached.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts a JOIN roles r ON r.id = a.role_id
		WHERE a.uuid = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "account not found")
	}

	addresses, err := r.findAddresses(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Addresses = addresses
	return a, nil
}

func (r *AccountRepository) findAddresses(ctx context.Context, accountID uuid.UUID) ([]domain.Address, error) {
	query := `SELECT id, street, city, state, zip_code, country, created_at, updated_at
		FROM addresses WHERE account_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, mapError(err, "account not found")
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var addr domain.Address
		if err := rows.Scan(&addr.ID, &addr.Street, &addr.City, &addr.State,
			&addr.ZipCode, &addr.Country, &addr.CreatedAt, &addr.UpdatedAt); err != nil {
			return nil, mapError(err, "account not found")
		}
		addresses = append(addresses, addr)
	}
	return addresses, mapError(rows.Err(), "account not found")
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts a JOIN roles r ON r.id = a.role_id
		WHERE a.email = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err, "account not found")
	}
	return a, nil
}

// FindPaginated returns one page of accounts ordered by first name, plus the
// total count.
func (r *AccountRepository) FindPaginated(ctx context.Context, page, limit int) ([]*domain.Account, int64, error) {
	offset := (page - 1) * limit

	query := `SELECT ` + accountColumns + `
		FROM accounts a JOIN roles r ON r.id = a.role_id
		ORDER BY a.first_name LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, "account not found")
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, mapError(err, "account not found")
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "account not found")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, mapError(err, "account not found")
	}

	return accounts, total, nil
}

// Create inserts a new account. The unique index on email is the backstop
// for concurrent creates with the same address.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	id := account.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `INSERT INTO accounts
		(uuid, first_name, middle_name, last_name, email, phone, credit_limit, password_hash, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`

	_, err := r.db.ExecContext(ctx, query,
		id,
		account.FirstName,
		nullString(account.MiddleName),
		account.LastName,
		account.Email,
		nullString(account.Phone),
		account.CreditLimit,
		nullString(account.PasswordHash),
		account.RoleID,
	)
	if err != nil {
		return nil, mapError(err, "account not found")
	}

	return r.FindByID(ctx, id)
}

// Update applies a partial update and returns the refreshed account.
func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, fields ports.UpdateAccountFields) (*domain.Account, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.FirstName != nil {
		add("first_name", *fields.FirstName)
	}
	if fields.MiddleName != nil {
		add("middle_name", nullString(*fields.MiddleName))
	}
	if fields.LastName != nil {
		add("last_name", *fields.LastName)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.Phone != nil {
		add("phone", nullString(*fields.Phone))
	}
	if fields.CreditLimit != nil {
		add("credit_limit", *fields.CreditLimit)
	}
	if fields.RoleID != nil {
		add("role_id", *fields.RoleID)
	}

	query := `UPDATE accounts SET ` + strings.Join(set, ", ") + ` WHERE uuid = $1`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "account not found")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.NotFound("account not found")
	}

	return r.FindByID(ctx, id)
}

// Delete removes the account; the addresses foreign key cascades.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE uuid = $1`, id)
	if err != nil {
		return mapError(err, "account not found")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound("account not found")
	}
	return nil
}

// DebitCredit decrements the credit limit in a single conditional UPDATE so
// the floor check and the write are one atomic statement. A NULL limit never
// satisfies the condition, so limitless legacy rows read as zero credit.
func (r *AccountRepository) DebitCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE accounts
		SET credit_limit = credit_limit - $2, updated_at = now()
		WHERE uuid = $1 AND credit_limit >= $2
		RETURNING credit_limit`

	var newLimit decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, id, amount).Scan(&newLimit)
	if err == nil {
		return newLimit, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, mapError(err, "account not found")
	}

	// No row matched: either the account is gone or the balance cannot
	// cover the amount.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE uuid = $1)`, id).Scan(&exists); err != nil {
		return decimal.Zero, mapError(err, "account not found")
	}
	if !exists {
		return decimal.Zero, domain.NotFound("account not found")
	}
	return decimal.Zero, domain.InsufficientCredit("credit limit cannot cover amount")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
