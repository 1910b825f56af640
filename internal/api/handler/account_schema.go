package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// dataResponse is the success envelope for all endpoints.
type dataResponse struct {
	Data any `json:"data"`
}

type createAccountRequest struct {
	FirstName   string          `json:"first_name" validate:"required,max=100"`
	MiddleName  string          `json:"middle_name" validate:"omitempty,max=100"`
	LastName    string          `json:"last_name" validate:"required,max=100"`
	Email       string          `json:"email" validate:"required,email,max=255"`
	Phone       string          `json:"phone" validate:"omitempty,max=20"`
	Password    string          `json:"password" validate:"omitempty,min=8"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	RoleID      int             `json:"role_id" validate:"required"`
}

type updateAccountRequest struct {
	FirstName   *string          `json:"first_name" validate:"omitempty,max=100"`
	MiddleName  *string          `json:"middle_name" validate:"omitempty,max=100"`
	LastName    *string          `json:"last_name" validate:"omitempty,max=100"`
	Email       *string          `json:"email" validate:"omitempty,email,max=255"`
	Phone       *string          `json:"phone" validate:"omitempty,max=20"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	RoleID      *int             `json:"role_id"`
}

type accountResponse struct {
	UUID        string              `json:"uuid"`
	FirstName   string              `json:"first_name"`
	MiddleName  string              `json:"middle_name,omitempty"`
	LastName    string              `json:"last_name"`
	DisplayName string              `json:"display_name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone,omitempty"`
	CreditLimit decimal.NullDecimal `json:"credit_limit"`
	Role        *domain.Role        `json:"role,omitempty"`
	Addresses   []domain.Address    `json:"addresses,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func newAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		UUID:        a.ID.String(),
		FirstName:   a.FirstName,
		MiddleName:  a.MiddleName,
		LastName:    a.LastName,
		DisplayName: a.FormatName(),
		Email:       a.Email,
		Phone:       a.Phone,
		CreditLimit: a.CreditLimit,
		Role:        a.Role,
		Addresses:   a.Addresses,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type paginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type listAccountsResponse struct {
	Data       []accountResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type deductCreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type creditCheckResponse struct {
	Sufficient bool   `json:"sufficient"`
	Amount     string `json:"amount"`
}

type deductCreditResponse struct {
	Deducted bool   `json:"deducted"`
	Amount   string `json:"amount"`
}
