package http

import (
	"net/http"

	"lending-backoffice/internal/engine"
	"lending-backoffice/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	uc  *payment.Usecase
	log zerolog.Logger
}

func NewPaymentHandler(uc *payment.Usecase, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

type recordPaymentReq struct {
	Amount             decimal.Decimal  `json:"amount"               validate:"gt=0,dec2"`
	PaymentDate        engine.Date      `json:"payment_date"`
	Type               string           `json:"payment_type"         validate:"omitempty,oneof=installment penalty payoff"`
	InstallmentNumber  int              `json:"installment_number"   validate:"gte=0"`
	AppliedToPrincipal *decimal.Decimal `json:"applied_to_principal" validate:"omitempty,gte=0,dec2"`
	AppliedToInterest  *decimal.Decimal `json:"applied_to_interest"  validate:"omitempty,gte=0,dec2"`
	AppliedToPenalty   *decimal.Decimal `json:"applied_to_penalty"   validate:"omitempty,gte=0,dec2"`
	ReceivedBy         string           `json:"received_by"          validate:"max=32"`
}

func (h *PaymentHandler) Record(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req recordPaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.Record(c.Request().Context(), payment.RecordPaymentInput{
		TenantID:           tenant,
		LoanID:             c.Param("loan_id"),
		Amount:             req.Amount,
		PaymentDate:        req.PaymentDate,
		Type:               req.Type,
		InstallmentNumber:  req.InstallmentNumber,
		AppliedToPrincipal: req.AppliedToPrincipal,
		AppliedToInterest:  req.AppliedToInterest,
		AppliedToPenalty:   req.AppliedToPenalty,
		ReceivedBy:         req.ReceivedBy,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) List(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	res, err := h.uc.List(c.Request().Context(), tenant, c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
