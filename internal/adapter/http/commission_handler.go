package http

import (
	"net/http"

	"lending-backoffice/internal/usecase/commission"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type CommissionHandler struct {
	uc  *commission.Usecase
	log zerolog.Logger
}

func NewCommissionHandler(uc *commission.Usecase, log zerolog.Logger) *CommissionHandler {
	return &CommissionHandler{uc: uc, log: log}
}

func (h *CommissionHandler) Loan(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.uc.Loan(c.Request().Context(), tenant, c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CommissionHandler) Agent(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	b, err := h.uc.Agent(c.Request().Context(), tenant, c.Param("agent_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}
