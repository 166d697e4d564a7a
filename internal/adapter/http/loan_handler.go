package http

import (
	"net/http"

	"lending-backoffice/internal/engine"
	"lending-backoffice/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log zerolog.Logger
}

func NewLoanHandler(uc *loan.Usecase, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type createLoanReq struct {
	BorrowerID           string          `json:"borrower_id"           validate:"required,max=32"`
	AgentID              string          `json:"agent_id"              validate:"required,max=32"`
	PrincipalAmount      decimal.Decimal `json:"principal_amount"      validate:"gt=0,dec2"`
	InterestRate         decimal.Decimal `json:"interest_rate"         validate:"gte=0"`
	TenureMonths         int             `json:"tenure_months"         validate:"gt=0,lte=600"`
	PaymentFrequency     string          `json:"payment_frequency"     validate:"required"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage" validate:"gte=0,lte=100"`
	StartDate            engine.Date     `json:"start_date"`
}

// actionReq is the body of the lifecycle routes. Reason is required by
// reject, and by close while a balance remains.
type actionReq struct {
	ActorID string `json:"actor_id" validate:"required,max=32"`
	Reason  string `json:"reason"   validate:"max=500"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		TenantID:             tenant,
		BorrowerID:           req.BorrowerID,
		AgentID:              req.AgentID,
		PrincipalAmount:      req.PrincipalAmount,
		InterestRate:         req.InterestRate,
		TenureMonths:         req.TenureMonths,
		PaymentFrequency:     req.PaymentFrequency,
		CommissionPercentage: req.CommissionPercentage,
		StartDate:            req.StartDate,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.Get(c.Request().Context(), tenant, c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetSchedule(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.Schedule(c.Request().Context(), tenant, c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	return h.act(c, func(tenant, loanID string, req actionReq) (*loan.LoanDTO, error) {
		return h.uc.Approve(c.Request().Context(), tenant, loanID, req.ActorID)
	})
}

func (h *LoanHandler) Reject(c echo.Context) error {
	return h.act(c, func(tenant, loanID string, req actionReq) (*loan.LoanDTO, error) {
		return h.uc.Reject(c.Request().Context(), tenant, loanID, req.ActorID, req.Reason)
	})
}

func (h *LoanHandler) Activate(c echo.Context) error {
	return h.act(c, func(tenant, loanID string, req actionReq) (*loan.LoanDTO, error) {
		return h.uc.Activate(c.Request().Context(), tenant, loanID, req.ActorID)
	})
}

func (h *LoanHandler) Close(c echo.Context) error {
	return h.act(c, func(tenant, loanID string, req actionReq) (*loan.LoanDTO, error) {
		return h.uc.Close(c.Request().Context(), tenant, loanID, req.ActorID, req.Reason)
	})
}

func (h *LoanHandler) act(c echo.Context, do func(tenant, loanID string, req actionReq) (*loan.LoanDTO, error)) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return badRequest(c, "missing loan_id path param")
	}
	var req actionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := do(tenant, loanID, req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
