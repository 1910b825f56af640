package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexacorp/accounts-api/internal/api/metrics"
	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

// CreditHandler handles the credit check, deduction and history endpoints.
type CreditHandler struct {
	service ports.AccountService
}

func NewCreditHandler(service ports.AccountService) *CreditHandler {
	return &CreditHandler{service: service}
}

// Check handles GET /v1/accounts/:id/credit?amount=.
//
// @Summary      Check whether an account can cover an amount
// @Tags         credit
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Account UUID"
// @Param        amount  query     string  true  "Amount, e.g. 40.00"
// @Success      200     {object}  dataResponse
// @Failure      422     {object}  map[string]any
// @Router       /v1/accounts/{id}/credit [get]
func (h *CreditHandler) Check(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.QueryParam("amount"))
	if err != nil {
		return err
	}

	sufficient, err := h.service.CheckCredit(c.Request().Context(), id, amount)
	if err != nil {
		return err
	}

	result := "insufficient"
	if sufficient {
		result = "sufficient"
	}
	metrics.CreditChecksTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, dataResponse{Data: creditCheckResponse{
		Sufficient: sufficient,
		Amount:     amount.StringFixed(2),
	}})
}

// Deduct handles POST /v1/accounts/:id/credit/deduct. Insufficient funds are
// reported in the body, not as an error status; a replayed Idempotency-Key
// does not debit twice.
//
// @Summary      Deduct an amount from an account's credit limit
// @Tags         credit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string               true   "Account UUID"
// @Param        Idempotency-Key  header    string               false  "Deduplication key"
// @Param        body             body      deductCreditRequest  true   "Amount to deduct"
// @Success      200              {object}  dataResponse
// @Failure      404              {object}  map[string]any
// @Failure      422              {object}  map[string]any
// @Router       /v1/accounts/{id}/credit/deduct [post]
func (h *CreditHandler) Deduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req deductCreditRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid payload")
	}

	key := c.Request().Header.Get("Idempotency-Key")
	deducted, err := h.service.DeductCredit(c.Request().Context(), id, req.Amount, key)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			metrics.CreditDebitsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.CreditDebitsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	outcome := "insufficient"
	if deducted {
		outcome = "success"
	}
	metrics.CreditDebitsTotal.WithLabelValues(outcome).Inc()

	return c.JSON(http.StatusOK, dataResponse{Data: deductCreditResponse{
		Deducted: deducted,
		Amount:   req.Amount.StringFixed(2),
	}})
}

// History handles GET /v1/accounts/:id/credit/history (admin only).
//
// @Summary      List recent debits for an account
// @Tags         credit
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Account UUID"
// @Param        limit  query     int     false  "Max entries (default 100)"
// @Success      200    {object}  dataResponse
// @Failure      404    {object}  map[string]any
// @Router       /v1/accounts/{id}/credit/history [get]
func (h *CreditHandler) History(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var limit int
	echo.QueryParamsBinder(c).Int("limit", &limit)

	events, err := h.service.CreditHistory(c.Request().Context(), id, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: events})
}
