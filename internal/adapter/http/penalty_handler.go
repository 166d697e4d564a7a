package http

import (
	"net/http"

	"lending-backoffice/internal/engine"
	"lending-backoffice/internal/usecase/penalty"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type PenaltyHandler struct {
	uc  *penalty.Usecase
	log zerolog.Logger
}

func NewPenaltyHandler(uc *penalty.Usecase, log zerolog.Logger) *PenaltyHandler {
	return &PenaltyHandler{uc: uc, log: log}
}

type refreshPenaltyReq struct {
	AsOf engine.Date `json:"as_of"`
}

// Preview: GET /loans/:loan_id/penalties?as_of=YYYY-MM-DD (today when omitted).
func (h *PenaltyHandler) Preview(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	asOf, err := dateParam(c, "as_of")
	if err != nil {
		return badRequest(c, "as_of must be YYYY-MM-DD")
	}
	dto, err := h.uc.Preview(c.Request().Context(), tenant, c.Param("loan_id"), asOf)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PenaltyHandler) Refresh(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req refreshPenaltyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Refresh(c.Request().Context(), tenant, c.Param("loan_id"), req.AsOf)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
