package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for account CRUD operations.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// List handles GET /v1/accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listAccountsResponse
// @Failure      401    {object}  map[string]any
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	var input ports.ListAccountsInput
	echo.QueryParamsBinder(c).Int("page", &input.Page).Int("limit", &input.Limit)

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	items := make([]accountResponse, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, newAccountResponse(a))
	}

	return c.JSON(http.StatusOK, listAccountsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/accounts/:id.
//
// @Summary      Get an account with its addresses and role
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account UUID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  map[string]any
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	account, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: newAccountResponse(account)})
}

// Me handles GET /v1/accounts/me: the caller's own account, resolved from the
// authenticated identity.
//
// @Summary      Get the calling account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse
// @Failure      401  {object}  map[string]any
// @Router       /v1/accounts/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	accountID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.service.GetByID(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: newAccountResponse(account)})
}

// Create handles POST /v1/accounts (admin only).
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  dataResponse
// @Failure      409   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /v1/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		CreditLimit: req.CreditLimit,
		RoleID:      req.RoleID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataResponse{Data: newAccountResponse(account)})
}

// Update handles PUT /v1/accounts/:id (admin only).
//
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account UUID"
// @Param        body  body      updateAccountRequest  true  "Fields to update"
// @Success      200   {object}  dataResponse
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /v1/accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.service.Update(c.Request().Context(), id, ports.UpdateAccountFields{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		CreditLimit: req.CreditLimit,
		RoleID:      req.RoleID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: newAccountResponse(account)})
}

// Delete handles DELETE /v1/accounts/:id (admin only).
//
// @Summary      Delete an account and its addresses
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Account UUID"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]any
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Grouped handles GET /v1/accounts/grouped (admin only). Returns all
// accounts partitioned by role name. Not paginated: small account sets only.
//
// @Summary      Group accounts by role
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  map[string]any
// @Router       /v1/accounts/grouped [get]
func (h *AccountHandler) Grouped(c echo.Context) error {
	grouped, err := h.service.GroupByRole(c.Request().Context())
	if err != nil {
		return err
	}

	out := make(map[domain.RoleName][]accountResponse, len(grouped))
	for role, accounts := range grouped {
		items := make([]accountResponse, 0, len(accounts))
		for _, a := range accounts {
			items = append(items, newAccountResponse(a))
		}
		out[role] = items
	}

	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

// parseAmount reads a decimal amount from a raw string. Sign and scale
// checks belong to the service layer.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, domain.BadRequest("amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.BadRequest("invalid amount")
	}
	return amount, nil
}
